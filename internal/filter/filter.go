package filter

import (
	"context"
	"fmt"
	"log"

	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/port"
)

// ErrorMode decides what happens when the classifier fails after retries.
type ErrorMode string

const (
	// FailOpen keeps the unfiltered items; noise in the output beats losing
	// an invoice over a transient classifier failure.
	FailOpen ErrorMode = "fail_open"
	// FailClosed surfaces the classifier error to the caller.
	FailClosed ErrorMode = "fail_closed"
)

// Config controls the filter's error policy.
type Config struct {
	OnError    ErrorMode
	MaxRetries int
}

// Filter removes non-inventory noise items (fees, taxes, surcharges) from an
// extracted item list using an LLM classifier.
type Filter struct {
	classifier port.ItemClassifier
	cfg        Config
}

// New creates a filter around the given classifier.
func New(classifier port.ItemClassifier, cfg Config) *Filter {
	if cfg.OnError == "" {
		cfg.OnError = FailOpen
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Filter{classifier: classifier, cfg: cfg}
}

// NewFromConfig creates a filter with the production Mistral classifier.
func NewFromConfig(cfg *config.FilterConfig) *Filter {
	return New(NewMistralClassifier(cfg), Config{
		OnError:    ErrorMode(cfg.OnError),
		MaxRetries: cfg.MaxRetries,
	})
}

// Apply returns the items with classifier-flagged entries removed. Order and
// values of surviving items are unchanged. Removal requires an exact match
// on itemId, itemDescription, quantity, unitPrice, and pageIndex; anything
// the classifier invents matches nothing and is ignored.
func (f *Filter) Apply(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error) {
	if len(items) == 0 {
		return items, nil
	}

	toRemove, err := f.classify(ctx, items)
	if err != nil {
		if f.cfg.OnError == FailClosed {
			return nil, fmt.Errorf("filter.Filter: classification failed: %w", err)
		}
		log.Printf("filter.Filter: classification failed, keeping all %d items: %v", len(items), err)
		return items, nil
	}

	kept := make([]domain.InvoiceItem, 0, len(items))
	for _, item := range items {
		if !containsExact(toRemove, item) {
			kept = append(kept, item)
		}
	}
	if removed := len(items) - len(kept); removed > 0 {
		log.Printf("filter.Filter: removed %d of %d items", removed, len(items))
	}
	return kept, nil
}

func (f *Filter) classify(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error) {
	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		toRemove, err := f.classifier.ItemsToRemove(ctx, items)
		if err == nil {
			return toRemove, nil
		}
		lastErr = err
		if attempt < f.cfg.MaxRetries {
			log.Printf("filter.Filter: classifier attempt %d failed, retrying: %v", attempt+1, err)
		}
	}
	return nil, lastErr
}

func containsExact(pool []domain.InvoiceItem, item domain.InvoiceItem) bool {
	for _, candidate := range pool {
		if equalStringPtr(candidate.ItemID, item.ItemID) &&
			equalStringPtr(candidate.ItemDescription, item.ItemDescription) &&
			equalFloatPtr(candidate.Quantity, item.Quantity) &&
			equalFloatPtr(candidate.UnitPrice, item.UnitPrice) &&
			candidate.PageIndex == item.PageIndex {
			return true
		}
	}
	return false
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalFloatPtr(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
