package mistral

import (
	"context"

	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/port"
)

// Analyzer implements document analysis on top of the Mistral OCR API.
type Analyzer struct {
	client *Client
}

// NewAnalyzer creates a Mistral-backed document analyzer.
func NewAnalyzer(cfg *config.OCRConfig) *Analyzer {
	return &Analyzer{client: NewClient(cfg)}
}

// NewAnalyzerWithClient creates an analyzer with a preconfigured client.
func NewAnalyzerWithClient(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze runs OCR and projects the per-page markdown into the canonical
// OCR shape. An empty page list is a hard failure, matching the Azure
// adapter's zero-documents behavior.
func (a *Analyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*domain.OCRResult, error) {
	pages, raw, err := a.client.Process(ctx, input.DocumentBytes, input.ContentType)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, domain.ErrNoDocumentData
	}

	return &domain.OCRResult{
		InvoiceItems:    ExtractItems(pages),
		DistributorInfo: ExtractDistributor(pages),
		InvoiceDate:     ExtractInvoiceDate(pages),
		RawOutput:       raw,
	}, nil
}
