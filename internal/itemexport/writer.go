package itemexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"larder/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the export header row.
var columns = []string{
	"Item ID",
	"Description",
	"Quantity",
	"Unit Price",
	"Page",
	"Position",
}

// Writer wraps csv.Writer for exporting invoice items as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteItems converts a batch of stored items to CSV rows and writes them.
func (w *Writer) WriteItems(items []domain.StoredItem) error {
	for i := range items {
		if err := w.csv.Write(itemToRow(&items[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func itemToRow(item *domain.StoredItem) []string {
	row := make([]string, len(columns))
	row[0] = derefString(item.ItemID)
	row[1] = derefString(item.ItemDescription)
	row[2] = formatFloat(item.Quantity)
	row[3] = formatMoney(item.UnitPrice)
	row[4] = strconv.Itoa(item.PageIndex + 1)
	row[5] = strconv.Itoa(item.Position)
	return row
}

// WriteXLSX writes the items as a single-sheet Excel workbook.
func WriteXLSX(w io.Writer, items []domain.StoredItem) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Items"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("itemexport.WriteXLSX: rename sheet: %w", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("itemexport.WriteXLSX: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return fmt.Errorf("itemexport.WriteXLSX: header value: %w", err)
		}
	}

	for i := range items {
		row := itemToRow(&items[i])
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("itemexport.WriteXLSX: cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("itemexport.WriteXLSX: value: %w", err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("itemexport.WriteXLSX: write: %w", err)
	}
	return nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a distributor name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized export filename with the current date.
func BuildFilename(distributorName, ext string) string {
	sanitized := SanitizeFilename(distributorName)
	if sanitized == "" {
		sanitized = "invoice"
	}
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
