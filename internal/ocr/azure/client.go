package azure

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"larder/internal/config"
	"larder/internal/domain"
)

const apiVersion = "2024-11-30"

var supportedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/tiff":      true,
}

// Client talks to the Azure Document Intelligence REST API. Analysis is
// asynchronous: a submit returns 202 with an Operation-Location header, and
// the operation URL is polled until it reaches a terminal status.
type Client struct {
	endpoint     string
	apiKey       string
	modelID      string
	pollInterval time.Duration
	httpClient   *http.Client
}

// NewClient creates a Document Intelligence client from OCR configuration.
func NewClient(cfg *config.OCRConfig) *Client {
	pollInterval := time.Duration(cfg.PollIntervalSecs) * time.Second
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		endpoint:     strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:       cfg.APIKey,
		modelID:      cfg.ModelID,
		pollInterval: pollInterval,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type analyzeRequest struct {
	Base64Source string `json:"base64Source"`
}

type operationResponse struct {
	Status        string          `json:"status"`
	AnalyzeResult json.RawMessage `json:"analyzeResult"`
	Error         json.RawMessage `json:"error"`
}

// AnalyzeDocument submits a document for analysis and polls the returned
// operation until it succeeds. It returns the parsed analysis result along
// with the raw analyzeResult payload.
func (c *Client) AnalyzeDocument(ctx context.Context, documentBytes []byte, contentType string) (*AnalyzeResult, json.RawMessage, error) {
	if !supportedContentTypes[contentType] {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFileType, contentType)
	}

	operationURL, err := c.submit(ctx, documentBytes)
	if err != nil {
		return nil, nil, err
	}

	raw, err := c.poll(ctx, operationURL)
	if err != nil {
		return nil, nil, err
	}

	result := &AnalyzeResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, nil, fmt.Errorf("azure.Client: failed to decode analyze result: %w", err)
	}
	return result, raw, nil
}

func (c *Client) submit(ctx context.Context, documentBytes []byte) (string, error) {
	url := fmt.Sprintf(
		"%s/documentintelligence/documentModels/%s:analyze?api-version=%s",
		c.endpoint, c.modelID, apiVersion,
	)

	payload, err := json.Marshal(analyzeRequest{
		Base64Source: base64.StdEncoding.EncodeToString(documentBytes),
	})
	if err != nil {
		return "", fmt.Errorf("azure.Client: failed to marshal analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("azure.Client: failed to create analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("azure.Client: analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		body, _ := io.ReadAll(resp.Body)
		return "", &domain.ServiceError{
			Provider:   "azure",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("azure.Client: 202 response missing Operation-Location header: %w", domain.ErrMalformedResponse)
	}
	return operationURL, nil
}

func (c *Client) poll(ctx context.Context, operationURL string) (json.RawMessage, error) {
	for {
		op, err := c.fetchOperation(ctx, operationURL)
		if err != nil {
			return nil, err
		}

		switch op.Status {
		case "succeeded":
			if len(op.AnalyzeResult) == 0 {
				return nil, domain.ErrMalformedResponse
			}
			return op.AnalyzeResult, nil
		case "failed":
			return nil, &domain.ServiceError{
				Provider:   "azure",
				StatusCode: http.StatusOK,
				Body:       string(op.Error),
			}
		default:
			log.Printf("azure.Client: analysis %s, polling again in %s", op.Status, c.pollInterval)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) fetchOperation(ctx context.Context, operationURL string) (*operationResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("azure.Client: failed to create poll request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("azure.Client: poll request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.ServiceError{
			Provider:   "azure",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	op := &operationResponse{}
	if err := json.NewDecoder(resp.Body).Decode(op); err != nil {
		return nil, fmt.Errorf("azure.Client: failed to decode operation response: %w", err)
	}
	return op, nil
}
