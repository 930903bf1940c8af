package mistral

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/port"
)

const samplePageMarkdown = "# Shamrock Foods\n" +
	"1234 Commerce Way, Phoenix, AZ 85043\n" +
	"Invoice Date: 03/14/2025\n\n" +
	"| ITEM # | QTY | DESCRIPTION | UNIT PRICE | TOTAL |\n" +
	"| --- | --- | --- | --- | --- |\n" +
	"| 4532187 | 2 | CHICKEN BREAST BNLS | $45.99 | $91.98 |\n" +
	"| 8871003 | 1 CS | TOMATO DICED 6/#10 | 32.50 | 32.50 |\n" +
	"| | 1 | SUBTOTAL | | 124.48 |\n"

func TestExtractItems(t *testing.T) {
	pages := []Page{{Index: 0, Markdown: samplePageMarkdown}}
	items := ExtractItems(pages)
	require.Len(t, items, 2)

	first := items[0]
	require.NotNil(t, first.ItemID)
	assert.Equal(t, "4532187", *first.ItemID)
	require.NotNil(t, first.ItemDescription)
	assert.Equal(t, "CHICKEN BREAST BNLS", *first.ItemDescription)
	require.NotNil(t, first.Quantity)
	assert.Equal(t, 2.0, *first.Quantity)
	require.NotNil(t, first.UnitPrice)
	assert.Equal(t, 45.99, *first.UnitPrice)
	require.NotNil(t, first.Total)
	assert.Equal(t, 91.98, *first.Total)
	assert.Equal(t, 0, first.PageIndex)

	second := items[1]
	require.NotNil(t, second.Quantity)
	assert.Equal(t, 1.0, *second.Quantity)
	require.NotNil(t, second.UnitPrice)
	assert.Equal(t, 32.50, *second.UnitPrice)
}

func TestExtractItems_PageIndexFollowsPagePosition(t *testing.T) {
	row := "| 100 | 1 | WIDGET | 5.00 | 5.00 |\n"
	pages := []Page{
		{Index: 0, Markdown: row},
		{Index: 1, Markdown: row},
	}
	items := ExtractItems(pages)
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].PageIndex)
	assert.Equal(t, 1, items[1].PageIndex)
}

func TestExtractInvoiceDate(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{"slash", "Invoice Date: 03/14/2025", "2025-03-14"},
		{"iso", "Date 2025-03-14 due", "2025-03-14"},
		{"written", "Dated March 14, 2025", "2025-03-14"},
		{"none", "no dates here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractInvoiceDate([]Page{{Markdown: tt.markdown}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDistributor(t *testing.T) {
	info := ExtractDistributor([]Page{{Markdown: samplePageMarkdown}})
	assert.Equal(t, "Shamrock Foods", info.Name)
	assert.Equal(t, "1234 Commerce Way", info.Address.StreetAddress)
	assert.Equal(t, "Phoenix", info.Address.City)
	assert.Equal(t, "AZ", info.Address.State)
	assert.Equal(t, "85043", info.Address.ZipCode)
	assert.Equal(t, "US", info.Address.Country)
}

func TestExtractDistributor_NoHeading(t *testing.T) {
	info := ExtractDistributor([]Page{{Markdown: "Ben E Keith Foods\nsome text"}})
	assert.Equal(t, "Ben E Keith Foods", info.Name)
	assert.Equal(t, "US", info.Address.Country)
}

func TestAnalyzer_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/ocr", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"pages": [{"index": 0, "markdown": "# Shamrock Foods\n| 100 | 1 | WIDGET | 5.00 | 5.00 |"}]}`))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(&config.OCRConfig{
		Endpoint: server.URL,
		APIKey:   "test-key",
	})
	result, err := analyzer.Analyze(context.Background(), port.AnalyzeInput{
		DocumentBytes: []byte("fake pdf"),
		ContentType:   "application/pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, "Shamrock Foods", result.DistributorInfo.Name)
	require.Len(t, result.InvoiceItems, 1)
	assert.Equal(t, "100", *result.InvoiceItems[0].ItemID)
	assert.NotEmpty(t, result.RawOutput)
}

func TestAnalyzer_Analyze_NoPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"pages": []}`))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(&config.OCRConfig{Endpoint: server.URL, APIKey: "k"})
	_, err := analyzer.Analyze(context.Background(), port.AnalyzeInput{
		DocumentBytes: []byte("fake pdf"),
		ContentType:   "application/pdf",
	})
	assert.ErrorIs(t, err, domain.ErrNoDocumentData)
}

func TestAnalyzer_Analyze_ServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "invalid api key"}`))
	}))
	defer server.Close()

	analyzer := NewAnalyzer(&config.OCRConfig{Endpoint: server.URL, APIKey: "bad"})
	_, err := analyzer.Analyze(context.Background(), port.AnalyzeInput{
		DocumentBytes: []byte("fake pdf"),
		ContentType:   "application/pdf",
	})

	var svcErr *domain.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "mistral", svcErr.Provider)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
}
