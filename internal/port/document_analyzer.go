package port

import (
	"context"

	"larder/internal/domain"
)

// AnalyzeInput carries one document through OCR analysis.
type AnalyzeInput struct {
	DocumentBytes []byte
	ContentType   string
}

// DocumentAnalyzer abstracts a structured document-analysis provider. An
// implementation submits the document, waits for the provider to finish, and
// returns the canonical extraction; the provider-specific raw tree is
// retained only inside OCRResult.RawOutput. Calls may block for an extended
// period while the provider processes the document.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.OCRResult, error)
}

// ItemClassifier abstracts the language-model service that flags
// non-inventory noise items (fees, taxes, surcharges) for removal.
type ItemClassifier interface {
	ItemsToRemove(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error)
}
