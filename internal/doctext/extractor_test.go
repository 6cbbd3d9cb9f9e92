package doctext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ofer2300/Financial-M2/internal/common"
)

// stubRunner fakes pdftoppm and tesseract. pdftoppm calls create page
// images; tesseract calls return canned text per image.
type stubRunner struct {
	pages int
	text  map[string]string // image base name -> OCR output
	calls []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name)
	switch name {
	case "pdftoppm":
		prefix := args[len(args)-1]
		for i := 1; i <= s.pages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		img := filepath.Base(args[0])
		return []byte(s.text[img]), nil, nil
	default:
		return nil, []byte("unknown command"), errors.New("exec failed")
	}
}

func testConfig() Config {
	return Config{
		Pdftoppm:      "pdftoppm",
		Tesseract:     "tesseract",
		TesseractLang: "heb+eng",
		DPI:           300,
		MaxPages:      10,
	}
}

func TestExtractTextPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("חשבונית מס' 12\r\n\r\n\r\nסכום:   ₪100\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := NewWithRunner(testConfig(), &stubRunner{}, nil)
	got, err := e.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	want := "חשבונית מס' 12\n\nסכום: ₪100"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractTextImageRunsOCR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &stubRunner{text: map[string]string{"receipt.png": "קבלה מס' 55  \nסכום ₪90"}}
	e := NewWithRunner(testConfig(), r, nil)
	got, err := e.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "קבלה מס' 55") {
		t.Errorf("got %q", got)
	}
	if len(r.calls) != 1 || r.calls[0] != "tesseract" {
		t.Errorf("calls = %v, want one tesseract call", r.calls)
	}
}

func TestExtractTextScannedPDFFallsBackToOCR(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	// not a parsable PDF, so the embedded-text path fails and OCR runs
	if err := os.WriteFile(path, []byte("%PDF-1.4 garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &stubRunner{
		pages: 2,
		text: map[string]string{
			"page-1.png": "עמוד ראשון",
			"page-2.png": "עמוד שני",
		},
	}
	e := NewWithRunner(testConfig(), r, nil)
	got, err := e.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(got, "עמוד ראשון") || !strings.Contains(got, "עמוד שני") {
		t.Errorf("got %q, want both pages", got)
	}
	if r.calls[0] != "pdftoppm" {
		t.Errorf("calls = %v, want pdftoppm first", r.calls)
	}
}

func TestExtractTextMaxPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "long.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &stubRunner{
		pages: 3,
		text: map[string]string{
			"page-1.png": "one",
			"page-2.png": "two",
			"page-3.png": "three",
		},
	}
	cfg := testConfig()
	cfg.MaxPages = 2
	e := NewWithRunner(cfg, r, nil)
	got, err := e.ExtractText(context.Background(), path)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if strings.Contains(got, "three") {
		t.Errorf("page past MaxPages included: %q", got)
	}
}

func TestExtractTextUnsupportedExtension(t *testing.T) {
	e := NewWithRunner(testConfig(), &stubRunner{}, nil)
	_, err := e.ExtractText(context.Background(), "doc.docx")
	if !errors.Is(err, common.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestIsReadable(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"hebrew invoice", "חשבונית מס' 123 סכום ₪1,500.00", true},
		{"english", "Invoice number 4821, total 1500.00", true},
		{"too short", "ab", false},
		{"empty", "", false},
		{"binary garbage", "\x00\x01\x02\x03\x04\x05\x06\x07\x00\x01\x02\x03", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadable(tt.text); got != tt.want {
				t.Errorf("isReadable(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	in := "a\tb\r\nc   d\n\n\n\ne  \n"
	want := "a b\nc d\n\ne"
	if got := Normalize(in); got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}
