package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/config"
)

func TestNewAnalyzer(t *testing.T) {
	azureAnalyzer, err := NewAnalyzer(&config.OCRConfig{Provider: "azure"})
	require.NoError(t, err)
	assert.NotNil(t, azureAnalyzer)

	mistralAnalyzer, err := NewAnalyzer(&config.OCRConfig{Provider: "mistral"})
	require.NoError(t, err)
	assert.NotNil(t, mistralAnalyzer)
}

func TestNewAnalyzer_UnknownProvider(t *testing.T) {
	_, err := NewAnalyzer(&config.OCRConfig{Provider: "tesseract"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported provider")
}
