package ocr

import (
	"fmt"

	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/ocr/azure"
	"larder/internal/ocr/mistral"
	"larder/internal/port"
)

// NewAnalyzer selects a document analyzer by configured provider.
func NewAnalyzer(cfg *config.OCRConfig) (port.DocumentAnalyzer, error) {
	switch domain.OCRProvider(cfg.Provider) {
	case domain.ProviderAzure:
		return azure.NewAnalyzer(cfg), nil
	case domain.ProviderMistral:
		return mistral.NewAnalyzer(cfg), nil
	default:
		return nil, fmt.Errorf("ocr.NewAnalyzer: unsupported provider %q", cfg.Provider)
	}
}
