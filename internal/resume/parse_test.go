package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDFContentType(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        bool
	}{
		{"plain pdf", "application/pdf", true},
		{"pdf with charset", "application/pdf; charset=binary", true},
		{"uppercase", "APPLICATION/PDF", true},
		{"octet stream", "application/octet-stream", false},
		{"empty", "", false},
		{"garbage", "not a content type;;;", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPDFContentType(tt.contentType))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses spaces", "a   b\tc", "a b c"},
		{"keeps line breaks", "first line\nsecond line", "first line\nsecond line"},
		{"collapses blank runs", "para one\n\n\n\npara two", "para one\npara two"},
		{"trims edges", "  \n  hello  \n  ", "hello"},
		{"empty", "   \n\t\n  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.in))
		})
	}
}
