package stories

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/JustoCornelioBello/socialpro/internal/models"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatDoc  = "doc"
	FormatPDF  = "pdf"
)

var ErrBadFormat = errors.New("stories: unsupported export format")

// Export renders a story as a downloadable blob and bumps its download
// counter for the chosen format. It returns the bytes, a suggested
// filename and the content type.
func (s *Service) Export(id, format string) ([]byte, string, string, error) {
	story, err := s.ByID(id)
	if err != nil {
		return nil, "", "", err
	}

	var blob []byte
	var contentType string
	switch format {
	case FormatJSON:
		blob, err = json.MarshalIndent(story, "", "  ")
		contentType = "application/json"
	case FormatDoc:
		blob = renderDoc(story)
		contentType = "application/msword"
	case FormatPDF:
		blob, err = renderPDF(story)
		contentType = "application/pdf"
	default:
		return nil, "", "", ErrBadFormat
	}
	if err != nil {
		return nil, "", "", err
	}

	if _, err := s.updateStory(id, func(st *models.Story) {
		st.Stats.Downloads[format]++
	}); err != nil {
		return nil, "", "", err
	}

	name := safeFilename(story.Title) + "." + format
	return blob, name, contentType, nil
}

// renderDoc wraps the story body in a minimal HTML document; word
// processors open it from a .doc filename without a server round-trip.
func renderDoc(story models.Story) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "<html><head><meta charset=\"utf-8\"><title>%s</title></head><body>", html.EscapeString(story.Title))
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(story.Title))
	fmt.Fprintf(&b, "<p><em>%s</em></p>", html.EscapeString(story.Category))
	b.WriteString(story.Body)
	b.WriteString("</body></html>")
	return b.Bytes()
}

func renderPDF(story models.Story) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// The core fonts are cp1252; translate so Spanish accents survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(story.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(story.Title), "", "L", false)
	pdf.SetFont("Helvetica", "I", 11)
	pdf.MultiCell(0, 6, tr(story.Category), "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 6, tr(stripMarkup(story.Body)), "", "L", false)

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripMarkup flattens the stored rich-text markup to plain text for the
// PDF body. Block-ish tags become newlines so paragraphs survive.
func stripMarkup(body string) string {
	body = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li)>|<br\s*/?>`).ReplaceAllString(body, "\n")
	body = tagPattern.ReplaceAllString(body, "")
	return strings.TrimSpace(html.UnescapeString(body))
}

func safeFilename(title string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, title)
	if safe == "" {
		safe = "story"
	}
	return safe
}
