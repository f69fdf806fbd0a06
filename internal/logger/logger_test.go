package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New(false, false)
	require.NoError(t, err)
	require.NotNil(t, l)

	l, err = New(true, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1)) // debug level enabled
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		limit    int
		expected string
	}{
		{"short string untouched", "hello", 10, "hello"},
		{"exact length untouched", "hello", 5, "hello"},
		{"long string truncated", "hello world", 5, "hello..."},
		{"zero limit", "hello", 0, ""},
		{"negative limit", "hello", -1, ""},
		{"whitespace trimmed first", "  hi  ", 10, "hi"},
		{"multibyte runes counted, not bytes", "résumé", 4, "résu..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.limit))
		})
	}
}
