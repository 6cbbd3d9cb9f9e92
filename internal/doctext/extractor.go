// Package doctext turns one physical document (PDF, scanned image, plain
// text) into the text the extractor consumes. PDFs with embedded text are
// read in-process; scanned pages fall back to rasterizing with pdftoppm and
// running tesseract, both behind a stubbable Runner.
package doctext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/ofer2300/Financial-M2/constants"
	"github.com/ofer2300/Financial-M2/internal/common"
)

type Config struct {
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	DPI           int
	MaxPages      int
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

// TextExtractor is the behavior the service layer depends on.
type TextExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

func New(cfg common.OCRConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		cfg: Config{
			Pdftoppm:      cfg.Pdftoppm,
			Tesseract:     cfg.Tesseract,
			TesseractLang: cfg.TesseractLang,
			DPI:           cfg.DPI,
			MaxPages:      cfg.MaxPages,
		},
		runner: execRunner{},
		logger: logger,
	}
}

// NewWithRunner is used by tests to stub the external commands.
func NewWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: r, logger: logger}
}

// ExtractText returns normalized plain text for one document.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	switch ext {
	case "txt":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return Normalize(string(b)), nil
	case "pdf":
		return e.pdfText(ctx, path)
	case "jpg", "jpeg", "png":
		txt, err := e.tesseractOCR(ctx, path)
		if err != nil {
			return "", err
		}
		return Normalize(txt), nil
	default:
		return "", fmt.Errorf("%q: %w", ext, common.ErrUnsupportedFormat)
	}
}

// pdfText tries the embedded text layer first and falls back to OCR when the
// document is image-based or the decoded text is unreadable.
func (e *Extractor) pdfText(ctx context.Context, path string) (string, error) {
	txt, embErr := embeddedText(path)
	if embErr == nil && isReadable(txt) {
		return Normalize(txt), nil
	}
	if embErr != nil {
		e.logger.Debug("embedded pdf text unavailable, using OCR", "path", path, "error", embErr)
	} else {
		e.logger.Debug("embedded pdf text unreadable, using OCR", "path", path)
	}

	txt, err := e.pdfOCR(ctx, path)
	if err != nil {
		return "", fmt.Errorf("pdf text extraction failed: %w", err)
	}
	return Normalize(txt), nil
}

func embeddedText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// isReadable guards against identity-encoded fonts that decode into
// garbage: at least some content, and mostly letters/digits/punctuation.
func isReadable(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 8 {
		return false
	}
	total, readable := 0, 0
	for _, r := range s {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			unicode.IsPunct(r) || r == '₪' || r == '$' || r == '€' {
			readable++
		}
	}
	return float64(readable)/float64(total) > 0.85
}

func (e *Extractor) pdfOCR(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "fm-pp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("removing temp dir", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm: %s: %w", strings.TrimSpace(string(errb)), err)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := e.tesseractOCR(ctx, img)
		if err != nil {
			e.logger.Warn("page OCR failed", "image", img, "error", err)
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %s: %w", strings.TrimSpace(string(errb)), err)
	}
	return string(out), nil
}
