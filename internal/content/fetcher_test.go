package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_ReaderSucceeds(t *testing.T) {
	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("markdown content"))
	}))
	defer reader.Close()

	f := NewFetcher(&FetcherConfig{
		Reader: NewReaderClient("k", &ReaderConfig{BaseURL: reader.URL}),
	})

	text, err := f.Fetch(context.Background(), "https://jobs.example.com/1")
	require.NoError(t, err)
	assert.Equal(t, "markdown content", text)
}

func TestFetcher_FallsBackToDirectWhenReaderFails(t *testing.T) {
	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer reader.Close()

	longBody := strings.Repeat("design and operate data pipelines ", 30)
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><main>" + longBody + "</main></body></html>"))
	}))
	defer page.Close()

	f := NewFetcher(&FetcherConfig{
		Reader:       NewReaderClient("k", &ReaderConfig{BaseURL: reader.URL}),
		EnableDirect: true,
	})

	text, err := f.Fetch(context.Background(), page.URL)
	require.NoError(t, err)
	assert.Contains(t, text, "data pipelines")
}

func TestFetcher_AllStrategiesFail(t *testing.T) {
	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer reader.Close()

	f := NewFetcher(&FetcherConfig{
		Reader: NewReaderClient("k", &ReaderConfig{BaseURL: reader.URL}),
	})

	_, err := f.Fetch(context.Background(), "https://jobs.example.com/1")
	require.Error(t, err)
}

func TestFetcher_NoStrategiesConfigured(t *testing.T) {
	f := NewFetcher(nil)
	_, err := f.Fetch(context.Background(), "https://jobs.example.com/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content strategy")
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, needsBrowser(""))
	assert.True(t, needsBrowser("   \n  "))
	assert.True(t, needsBrowser("short shell page"))
	assert.False(t, needsBrowser(strings.Repeat("x", minDirectTextLength)))
}
