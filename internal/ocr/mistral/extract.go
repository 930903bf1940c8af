package mistral

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"larder/internal/domain"
)

// Markdown extraction. The OCR model renders invoice line items as pipe
// tables and headers as markdown headings; these helpers project that text
// into the same canonical shapes the Azure extractor produces.

var (
	separatorRow = regexp.MustCompile(`^[\s|:-]+$`)
	numericRun   = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	slashDate    = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	isoDate      = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	writtenDate  = regexp.MustCompile(`\b[A-Z][a-z]+ \d{1,2},? \d{4}\b`)
	usAddress    = regexp.MustCompile(`(?m)^(\d+[^,\n]+),\s*([A-Za-z .']+),\s*([A-Z]{2})[,\s]+(\d{5}(?:-\d{4})?)`)
	headingLine  = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)
	headerTokens = []string{"ITEM", "QTY", "QUANTITY", "DESCRIPTION", "PRICE", "AMOUNT"}
)

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
}

// ExtractItems parses pipe-table rows from each page's markdown. Rows are
// expected as |itemId|quantity|description|unitPrice|total|; a row counts as
// an item only when the id cell is non-empty and the unit price parses. The
// page index is the page's position in the response, not a bounding region.
func ExtractItems(pages []Page) []domain.InvoiceItem {
	var items []domain.InvoiceItem
	for pageIdx, page := range pages {
		for _, line := range strings.Split(page.Markdown, "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "|") {
				continue
			}
			cells := splitRow(line)
			if len(cells) < 4 || isSeparator(line) || isHeader(cells) {
				continue
			}

			itemID := cells[0]
			unitPrice := parsePrice(cells[3])
			if itemID == "" || unitPrice == nil {
				continue
			}

			item := domain.InvoiceItem{
				ItemID:    &itemID,
				Quantity:  parseNumber(cells[1]),
				UnitPrice: unitPrice,
				PageIndex: pageIdx,
			}
			if cells[2] != "" {
				desc := cells[2]
				item.ItemDescription = &desc
			}
			if len(cells) > 4 {
				item.Total = parsePrice(cells[4])
			}
			items = append(items, item)
		}
	}
	return items
}

// ExtractInvoiceDate scans all pages for a date and normalizes the first
// parseable one to YYYY-MM-DD. Returns "" when nothing parses.
func ExtractInvoiceDate(pages []Page) string {
	for _, page := range pages {
		for _, re := range []*regexp.Regexp{isoDate, slashDate, writtenDate} {
			for _, candidate := range re.FindAllString(page.Markdown, -1) {
				for _, layout := range dateLayouts {
					if t, err := time.Parse(layout, candidate); err == nil {
						return t.Format("2006-01-02")
					}
				}
			}
		}
	}
	return ""
}

// ExtractDistributor takes the vendor name from the first markdown heading
// (falling back to the first non-table line) and the address from the first
// street/city/state/zip match. The country defaults to US.
func ExtractDistributor(pages []Page) domain.DistributorInfo {
	info := domain.DistributorInfo{Address: domain.Address{Country: "US"}}
	if len(pages) == 0 {
		return info
	}

	markdown := pages[0].Markdown
	if m := headingLine.FindStringSubmatch(markdown); m != nil {
		info.Name = strings.TrimSpace(m[1])
	} else {
		for _, line := range strings.Split(markdown, "\n") {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "|") {
				info.Name = line
				break
			}
		}
	}

	for _, page := range pages {
		if m := usAddress.FindStringSubmatch(page.Markdown); m != nil {
			info.Address.StreetAddress = strings.TrimSpace(m[1])
			info.Address.City = strings.TrimSpace(m[2])
			info.Address.State = m[3]
			info.Address.ZipCode = m[4]
			break
		}
	}
	return info
}

func splitRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

func isSeparator(line string) bool {
	return separatorRow.MatchString(line)
}

func isHeader(cells []string) bool {
	for _, cell := range cells {
		upper := strings.ToUpper(cell)
		for _, token := range headerTokens {
			if upper == token || strings.HasPrefix(upper, token+" ") {
				return true
			}
		}
	}
	return false
}

func parseNumber(s string) *float64 {
	match := numericRun.FindString(strings.ReplaceAll(s, ",", ""))
	if match == "" {
		return nil
	}
	v, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parsePrice(s string) *float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "$", ""), ",", ""))
	if cleaned == "" {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}
