package azure

import (
	"larder/internal/domain"
)

// The extractor projects a prebuilt-invoice analysis result into the three
// canonical shapes the rest of the system works with: the invoice date, the
// distributor, and the line items. All three read documents[0]; multi-page
// invoices are submitted as a single PDF, so exactly one document is the
// normal case.

// ExtractInvoiceDate returns the invoice date from the first recognized
// document. The value is the provider's normalized date string (YYYY-MM-DD);
// a missing or unparsed field yields an empty string.
func ExtractInvoiceDate(result *AnalyzeResult) (string, error) {
	doc, err := firstDocument(result)
	if err != nil {
		return "", err
	}
	return doc.Fields["InvoiceDate"].ValueDate, nil
}

// ExtractDistributorInfo returns the vendor name and address from the first
// recognized document. The country is never populated by the invoice model,
// so it defaults to US.
func ExtractDistributorInfo(result *AnalyzeResult) (*domain.DistributorInfo, error) {
	doc, err := firstDocument(result)
	if err != nil {
		return nil, err
	}

	info := &domain.DistributorInfo{
		Name:    doc.Fields["VendorName"].ValueString,
		Address: domain.Address{Country: "US"},
	}

	if addr := doc.Fields["VendorAddress"].ValueAddress; addr != nil {
		street := addr.StreetAddress
		if street == "" && addr.Road != "" {
			street = addr.HouseNumber + " " + addr.Road
			if addr.HouseNumber == "" {
				street = addr.Road
			}
		}
		info.Address.StreetAddress = street
		info.Address.City = addr.City
		info.Address.State = addr.State
		info.Address.ZipCode = addr.PostalCode
	}

	return info, nil
}

// ExtractInvoiceItems returns the canonical line items across all recognized
// documents. Each item records the zero-based page it appeared on; an item
// without a bounding region is attributed to page 0. Array elements without
// an object value are skipped.
func ExtractInvoiceItems(result *AnalyzeResult) ([]domain.InvoiceItem, error) {
	if _, err := firstDocument(result); err != nil {
		return nil, err
	}

	var items []domain.InvoiceItem
	for _, doc := range result.Documents {
		for _, row := range doc.Fields["Items"].ValueArray {
			obj := row.ValueObject
			if obj == nil {
				continue
			}
			items = append(items, domain.InvoiceItem{
				ItemID:          stringValue(obj["ProductCode"]),
				ItemDescription: stringValue(obj["Description"]),
				Quantity:        obj["Quantity"].ValueNumber,
				UnitPrice:       currencyAmount(obj["UnitPrice"]),
				Total:           currencyAmount(obj["Amount"]),
				PageIndex:       pageIndex(row),
			})
		}
	}
	return items, nil
}

func firstDocument(result *AnalyzeResult) (*Document, error) {
	if result == nil || len(result.Documents) == 0 {
		return nil, domain.ErrNoDocumentData
	}
	return &result.Documents[0], nil
}

func stringValue(f Field) *string {
	if f.ValueString == "" {
		return nil
	}
	v := f.ValueString
	return &v
}

func currencyAmount(f Field) *float64 {
	if f.ValueCurrency == nil {
		return nil
	}
	return f.ValueCurrency.Amount
}

func pageIndex(f Field) int {
	if len(f.BoundingRegions) == 0 || f.BoundingRegions[0].PageNumber < 1 {
		return 0
	}
	return f.BoundingRegions[0].PageNumber - 1
}
