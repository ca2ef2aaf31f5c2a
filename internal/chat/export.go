package chat

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/JustoCornelioBello/socialpro/internal/models"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
)

var ErrBadFormat = errors.New("chat: unsupported export format")

// Export renders a session as a downloadable blob and returns the bytes,
// a timestamped filename and the content type.
func (s *Service) Export(id, format string) ([]byte, string, string, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, "", "", err
	}

	var blob []byte
	var contentType string
	switch format {
	case FormatJSON:
		blob, err = json.MarshalIndent(session, "", "  ")
		contentType = "application/json"
	case FormatCSV:
		blob, err = renderCSV(session)
		contentType = "text/csv"
	case FormatPDF:
		blob, err = renderPDF(session)
		contentType = "application/pdf"
	default:
		return nil, "", "", ErrBadFormat
	}
	if err != nil {
		return nil, "", "", err
	}

	name := fmt.Sprintf("%s_%s.%s", session.ID, s.now().UTC().Format("20060102_150405"), format)
	return blob, name, contentType, nil
}

func renderCSV(session models.ChatSession) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "role", "content"}); err != nil {
		return nil, err
	}
	for _, m := range session.Messages {
		row := []string{m.TS.Format(time.RFC3339), m.Role, strings.ReplaceAll(m.Content, "\n", " ")}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func renderPDF(session models.ChatSession) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// The core fonts are cp1252; translate so Spanish accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(session.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, tr("Conversación: "+session.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("ID: %s, %d mensajes, actualizado %s",
		session.ID, len(session.Messages), session.UpdatedAt.Format(time.RFC3339))), "", "L", false)
	pdf.Ln(4)

	for _, m := range session.Messages {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.MultiCell(0, 6, tr(strings.ToUpper(m.Role)+" · "+m.TS.Format(time.RFC3339)), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(m.Content), "", "L", false)
		pdf.Ln(2)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
