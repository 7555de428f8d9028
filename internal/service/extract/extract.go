package extract

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dslipak/pdf"
	"go.uber.org/zap"
)

// MaxTextRunes bounds the extracted text returned to callers. Anything past
// the limit is cut, not summarized.
const MaxTextRunes = 5000

// PDFExtractor converts uploaded PDF bytes into plain text.
type PDFExtractor struct {
	stagingDir string
	logger     *zap.SugaredLogger
}

func NewPDFExtractor(stagingDir string, logger *zap.SugaredLogger) *PDFExtractor {
	if stagingDir == "" {
		stagingDir = os.TempDir()
	}
	return &PDFExtractor{stagingDir: stagingDir, logger: logger}
}

// Text stages the upload in a uniquely named temp file, extracts the plain
// text of every page in document order and returns the first MaxTextRunes
// runes of it. The staged file is removed on every exit path, so concurrent
// uploads never see each other's bytes.
func (e *PDFExtractor) Text(r io.Reader) (text string, err error) {
	tmp, err := os.CreateTemp(e.stagingDir, "upload-*.pdf")
	if err != nil {
		return "", fmt.Errorf("stage upload: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr != nil {
		return "", fmt.Errorf("stage upload: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("stage upload: %w", closeErr)
	}
	e.logger.Debugw("staged upload", "bytes", size)

	// The pdf package panics on some malformed inputs instead of returning
	// an error; those must still surface as a readable failure.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.Open(tmp.Name())
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract page %d: %w", i, err)
		}
		sb.WriteString(pageText)
	}
	return Truncate(sb.String(), MaxTextRunes), nil
}

// Truncate cuts s to at most max runes with no truncation marker.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
