package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"larder/internal/config"
	"larder/internal/domain"
)

const defaultClassifierEndpoint = "https://api.mistral.ai"

// wireItem is the classifier's request/response item shape. Structured
// output schemas reject nullable fields, so itemId travels as "" and is
// restored to nil on the way back.
type wireItem struct {
	ItemID          string   `json:"itemId"`
	ItemDescription *string  `json:"itemDescription"`
	Quantity        *float64 `json:"quantity"`
	UnitPrice       *float64 `json:"unitPrice"`
	PageIndex       int      `json:"pageIndex"`
}

func toWire(items []domain.InvoiceItem) []wireItem {
	out := make([]wireItem, len(items))
	for i, item := range items {
		w := wireItem{
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			PageIndex:       item.PageIndex,
		}
		if item.ItemID != nil {
			w.ItemID = *item.ItemID
		}
		out[i] = w
	}
	return out
}

func fromWire(items []wireItem) []domain.InvoiceItem {
	out := make([]domain.InvoiceItem, len(items))
	for i, w := range items {
		item := domain.InvoiceItem{
			ItemDescription: w.ItemDescription,
			Quantity:        w.Quantity,
			UnitPrice:       w.UnitPrice,
			PageIndex:       w.PageIndex,
		}
		if w.ItemID != "" {
			id := w.ItemID
			item.ItemID = &id
		}
		out[i] = item
	}
	return out
}

// MistralClassifier flags noise items through the Mistral chat completions
// API with a JSON-schema response format.
type MistralClassifier struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewMistralClassifier creates a classifier from filter configuration.
func NewMistralClassifier(cfg *config.FilterConfig) *MistralClassifier {
	return NewMistralClassifierWithEndpoint(cfg, defaultClassifierEndpoint)
}

// NewMistralClassifierWithEndpoint creates a classifier against a specific
// API base URL.
func NewMistralClassifierWithEndpoint(cfg *config.FilterConfig, endpoint string) *MistralClassifier {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &MistralClassifier{
		endpoint:    strings.TrimRight(endpoint, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Temperature    float64         `json:"temperature"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat json.RawMessage `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type classifierResponse struct {
	ItemsToRemove []wireItem `json:"itemsToRemove"`
}

// responseFormat constrains the completion to the itemsToRemove shape.
var responseFormat = json.RawMessage(`{
	"type": "json_schema",
	"json_schema": {
		"name": "invoice_items_to_remove",
		"strict": true,
		"schema": {
			"type": "object",
			"properties": {
				"itemsToRemove": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"itemId": {"type": "string"},
							"itemDescription": {"type": "string"},
							"quantity": {"type": "number"},
							"unitPrice": {"type": "number"},
							"pageIndex": {"type": "integer"}
						},
						"required": ["itemId", "itemDescription", "quantity", "unitPrice", "pageIndex"],
						"additionalProperties": false
					}
				}
			},
			"required": ["itemsToRemove"],
			"additionalProperties": false
		}
	}
}`)

// ItemsToRemove asks the model which of the given items are noise. The
// returned items are in canonical shape with empty-string ids restored to nil.
func (c *MistralClassifier) ItemsToRemove(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error) {
	userContent, err := json.Marshal(toWire(items))
	if err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: failed to marshal items: %w", err)
	}

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: string(userContent)},
		},
		ResponseFormat: responseFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ServiceError{
			Provider:   "mistral",
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	parsed := &chatResponse{}
	if err := json.Unmarshal(body, parsed); err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("filter.MistralClassifier: %w", domain.ErrMalformedResponse)
	}

	result := &classifierResponse{}
	if err := json.Unmarshal([]byte(parsed.Choices[0].Message.Content), result); err != nil {
		return nil, fmt.Errorf("filter.MistralClassifier: failed to decode completion content: %w", err)
	}
	return fromWire(result.ItemsToRemove), nil
}
