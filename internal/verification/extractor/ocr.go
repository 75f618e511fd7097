package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// TextExtractor turns a document image into recognized text.
// Implementations can be swapped without touching the verification service,
// which is how tests substitute a fake.
type TextExtractor interface {
	// ExtractText returns the recognized text for one image. A failure or
	// timeout means that side is unreadable; callers absorb the error
	// rather than aborting the sibling side.
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// JPEG and PNG magic bytes for image detection
var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
)

// OCRClient extracts document text by sending images to the OCR service.
type OCRClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOCRClient creates a new client that calls the given OCR service URL.
func NewOCRClient(baseURL string) *OCRClient {
	return &OCRClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			// Backstop only; each call carries its own per-side deadline
			Timeout: 30 * time.Second,
		},
	}
}

// ExtractText sends the image to the OCR service and returns the raw text.
func (c *OCRClient) ExtractText(ctx context.Context, image []byte) (string, error) {
	if !isImageData(image) {
		return "", fmt.Errorf("ocr: data is not a JPEG or PNG image")
	}

	// Build multipart request
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "document.bin")
	if err != nil {
		return "", fmt.Errorf("ocr: create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("ocr: write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("ocr: close multipart writer: %w", err)
	}

	url := c.baseURL + "/api/v1/ocr"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("ocr: create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ocr: read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr: service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var ocrResp ocrResponse
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return "", fmt.Errorf("ocr: parse response: %w", err)
	}

	return ocrResp.Text, nil
}

// isImageData checks for JPEG or PNG magic bytes at the start of the data.
func isImageData(data []byte) bool {
	if len(data) < 4 {
		return false
	}
	return bytes.HasPrefix(data, jpegMagic) || bytes.HasPrefix(data, pngMagic)
}

// ocrResponse mirrors the OCR service's extraction response.
type ocrResponse struct {
	Text             string `json:"text"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}
