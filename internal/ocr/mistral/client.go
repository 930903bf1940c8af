package mistral

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"larder/internal/config"
	"larder/internal/domain"
)

const defaultEndpoint = "https://api.mistral.ai"

// Client talks to the Mistral OCR API. Unlike the Azure flow this is a
// single synchronous call that returns per-page markdown.
type Client struct {
	endpoint   string
	apiKey     string
	modelID    string
	httpClient *http.Client
}

// NewClient creates a Mistral OCR client from OCR configuration.
func NewClient(cfg *config.OCRConfig) *Client {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	modelID := cfg.ModelID
	if modelID == "" || modelID == "prebuilt-invoice" {
		modelID = "mistral-ocr-latest"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		modelID:    modelID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

// Page is one page of OCR output.
type Page struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

type ocrResponse struct {
	Pages []Page `json:"pages"`
}

// Process runs OCR over the document and returns its pages along with the
// raw response body.
func (c *Client) Process(ctx context.Context, documentBytes []byte, contentType string) ([]Page, json.RawMessage, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(documentBytes))
	payload, err := json.Marshal(ocrRequest{
		Model:    c.modelID,
		Document: ocrDocument{Type: "document_url", DocumentURL: dataURL},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("mistral.Client: failed to marshal ocr request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/ocr", bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("mistral.Client: failed to create ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("mistral.Client: ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("mistral.Client: failed to read ocr response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, &domain.ServiceError{
			Provider:   "mistral",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	parsed := &ocrResponse{}
	if err := json.Unmarshal(body, parsed); err != nil {
		return nil, nil, fmt.Errorf("mistral.Client: failed to decode ocr response: %w", err)
	}
	return parsed.Pages, body, nil
}
