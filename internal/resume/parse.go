// Package resume extracts plain text from uploaded resume files.
package resume

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxUploadBytes bounds accepted resume uploads.
const MaxUploadBytes = 10 << 20 // 10 MiB

// IsPDFContentType reports whether a Content-Type header denotes a PDF
func IsPDFContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/pdf"
}

// Parse extracts plain text from a PDF resume
func Parse(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	text, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}

	raw, err := io.ReadAll(text)
	if err != nil {
		return "", fmt.Errorf("failed to drain pdf text: %w", err)
	}

	out := NormalizeWhitespace(string(raw))
	if out == "" {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return out, nil
}

// NormalizeWhitespace collapses runs of whitespace while keeping line breaks
// between paragraphs.
func NormalizeWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lines := strings.Split(s, "\n")
	blank := true
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			if !blank {
				b.WriteByte('\n')
				blank = true
			}
			continue
		}
		if !blank {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(fields, " "))
		blank = false
	}
	return strings.TrimRight(b.String(), "\n")
}
