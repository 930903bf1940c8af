package itemexport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"larder/internal/domain"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func sampleItems() []domain.StoredItem {
	return []domain.StoredItem{
		{
			ItemID:          strPtr("4532187"),
			ItemDescription: strPtr("CHICKEN BREAST BNLS"),
			Quantity:        f64Ptr(2),
			UnitPrice:       f64Ptr(45.99),
			PageIndex:       0,
			Position:        0,
		},
		{
			ItemDescription: strPtr("HOUSE BLEND COFFEE"),
			Quantity:        f64Ptr(1.5),
			PageIndex:       1,
			Position:        1,
		},
	}
}

func TestWriter_CSV(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteItems(sampleItems()))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, columns, records[0])
	assert.Equal(t, []string{"4532187", "CHICKEN BREAST BNLS", "2", "45.99", "1", "0"}, records[1])
	assert.Equal(t, []string{"", "HOUSE BLEND COFFEE", "1.5", "", "2", "1"}, records[2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleItems()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Items")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Item ID", rows[0][0])
	assert.Equal(t, "4532187", rows[1][0])
	assert.Equal(t, "HOUSE BLEND COFFEE", rows[2][1])
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Sysco_Foods", SanitizeFilename("Sysco Foods"))
	assert.Equal(t, "A_B", SanitizeFilename("A / * B!"))
	assert.Equal(t, "", SanitizeFilename("???"))
}

func TestBuildFilename(t *testing.T) {
	name := BuildFilename("Sysco Foods", "csv")
	assert.True(t, strings.HasPrefix(name, "Sysco_Foods_"))
	assert.True(t, strings.HasSuffix(name, ".csv"))

	fallback := BuildFilename("???", "xlsx")
	assert.True(t, strings.HasPrefix(fallback, "invoice_"))
}
