package stories

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/JustoCornelioBello/socialpro/internal/models"
)

func TestExportJSON(t *testing.T) {
	svc, _ := setupTestService(t)
	st, _ := svc.Create(Draft{Title: "Mi Historia", Body: "<p>hola</p>"})

	blob, name, contentType, err := svc.Export(st.ID, FormatJSON)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("unexpected content type %q", contentType)
	}
	if name != "Mi_Historia.json" {
		t.Errorf("unexpected filename %q", name)
	}

	var round models.Story
	if err := json.Unmarshal(blob, &round); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if round.Title != "Mi Historia" {
		t.Errorf("unexpected title %q", round.Title)
	}
}

func TestExportDocEmbedsBody(t *testing.T) {
	svc, _ := setupTestService(t)
	st, _ := svc.Create(Draft{Title: "T", Body: "<p>contenido</p>"})

	blob, _, contentType, err := svc.Export(st.ID, FormatDoc)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if contentType != "application/msword" {
		t.Errorf("unexpected content type %q", contentType)
	}
	if !strings.Contains(string(blob), "<p>contenido</p>") {
		t.Error("doc export should keep the rich body")
	}
}

func TestExportPDFProducesPDF(t *testing.T) {
	svc, _ := setupTestService(t)
	st, _ := svc.Create(Draft{Title: "T", Body: "<p>contenido</p>"})

	blob, _, contentType, err := svc.Export(st.ID, FormatPDF)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}
	if contentType != "application/pdf" {
		t.Errorf("unexpected content type %q", contentType)
	}
	if !bytes.HasPrefix(blob, []byte("%PDF")) {
		t.Error("export is not a PDF document")
	}
}

// inflatePDFStreams concatenates every deflate stream in a PDF so content
// text can be asserted on.
func inflatePDFStreams(t *testing.T, blob []byte) []byte {
	t.Helper()
	var out []byte
	rest := blob
	for {
		i := bytes.Index(rest, []byte("stream\n"))
		if i < 0 {
			break
		}
		rest = rest[i+len("stream\n"):]
		j := bytes.Index(rest, []byte("endstream"))
		if j < 0 {
			break
		}
		raw := bytes.TrimSuffix(rest[:j], []byte("\n"))
		if r, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
			if data, err := io.ReadAll(r); err == nil {
				out = append(out, data...)
			}
			r.Close()
		}
		rest = rest[j:]
	}
	return out
}

func TestExportPDFKeepsAccents(t *testing.T) {
	svc, _ := setupTestService(t)
	st, _ := svc.Create(Draft{Title: "Región", Body: "<p>mañana será otro día</p>"})

	blob, _, _, err := svc.Export(st.ID, FormatPDF)
	if err != nil {
		t.Fatalf("export error: %v", err)
	}

	// The core fonts are cp1252, so accents must land as single cp1252
	// bytes in the content stream instead of raw UTF-8 pairs.
	text := string(inflatePDFStreams(t, blob))
	if !strings.Contains(text, "Regi\xf3n") {
		t.Error("title accents lost in PDF content")
	}
	if !strings.Contains(text, "ma\xf1ana ser\xe1 otro d\xeda") {
		t.Error("body accents lost in PDF content")
	}
	if strings.Contains(text, "Regi\xc3\xb3n") {
		t.Error("title written as raw UTF-8 instead of cp1252")
	}
}

func TestExportBumpsDownloadCounter(t *testing.T) {
	svc, _ := setupTestService(t)
	st, _ := svc.Create(Draft{Title: "T"})

	svc.Export(st.ID, FormatJSON)
	svc.Export(st.ID, FormatJSON)
	svc.Export(st.ID, FormatPDF)

	got, _ := svc.ByID(st.ID)
	if got.Stats.Downloads[FormatJSON] != 2 || got.Stats.Downloads[FormatPDF] != 1 {
		t.Errorf("unexpected download counts %+v", got.Stats.Downloads)
	}
}

func TestExportBadFormat(t *testing.T) {
	svc, _ := setupTestService(t)
	st, _ := svc.Create(Draft{Title: "T"})

	if _, _, _, err := svc.Export(st.ID, "docx"); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	if _, _, _, err := svc.Export("missing", FormatJSON); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStripMarkup(t *testing.T) {
	got := stripMarkup("<h1>Título</h1><p>línea uno</p><p>línea &amp; dos</p>")
	if !strings.Contains(got, "línea uno\n") {
		t.Errorf("paragraph breaks lost: %q", got)
	}
	if !strings.Contains(got, "línea & dos") {
		t.Errorf("entities not unescaped: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("tags survived: %q", got)
	}
}
