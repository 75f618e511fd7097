package extractor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rentora/rentora-backend/internal/verification/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jpegImage returns bytes with a valid JPEG magic prefix.
func jpegImage(payload string) []byte {
	return append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, []byte(payload)...)
}

func TestOCRClient_ExtractText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/ocr", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"text":               "ID 041010-02-1384 EXP",
			"processing_time_ms": 812,
		})
	}))
	defer srv.Close()

	client := extractor.NewOCRClient(srv.URL)

	text, err := client.ExtractText(context.Background(), jpegImage("front-image"))
	require.NoError(t, err)
	assert.Equal(t, "ID 041010-02-1384 EXP", text)
}

func TestOCRClient_RejectsNonImageData(t *testing.T) {
	client := extractor.NewOCRClient("http://localhost:0")

	_, err := client.ExtractText(context.Background(), []byte("plain text, not an image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a JPEG or PNG")
}

func TestOCRClient_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := extractor.NewOCRClient(srv.URL)

	_, err := client.ExtractText(context.Background(), jpegImage("front"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestOCRClient_ContextTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	client := extractor.NewOCRClient(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ExtractText(ctx, jpegImage("front"))
	require.Error(t, err)
}
