package azure

import (
	"context"

	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/port"
)

// Analyzer implements document analysis on top of Azure Document
// Intelligence's prebuilt invoice model.
type Analyzer struct {
	client *Client
}

// NewAnalyzer creates an Azure-backed document analyzer.
func NewAnalyzer(cfg *config.OCRConfig) *Analyzer {
	return &Analyzer{client: NewClient(cfg)}
}

// NewAnalyzerWithClient creates an analyzer with a preconfigured client.
func NewAnalyzerWithClient(client *Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze runs the document through Azure and projects the result into the
// canonical OCR shape.
func (a *Analyzer) Analyze(ctx context.Context, input port.AnalyzeInput) (*domain.OCRResult, error) {
	result, raw, err := a.client.AnalyzeDocument(ctx, input.DocumentBytes, input.ContentType)
	if err != nil {
		return nil, err
	}

	date, err := ExtractInvoiceDate(result)
	if err != nil {
		return nil, err
	}
	distributor, err := ExtractDistributorInfo(result)
	if err != nil {
		return nil, err
	}
	items, err := ExtractInvoiceItems(result)
	if err != nil {
		return nil, err
	}

	return &domain.OCRResult{
		InvoiceItems:    items,
		DistributorInfo: *distributor,
		InvoiceDate:     date,
		RawOutput:       raw,
	}, nil
}
