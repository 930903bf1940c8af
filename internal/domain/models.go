package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// InvoiceItem is the canonical line-item record produced by OCR extraction
// and consumed by the noise filter and the reconciliation comparator.
// Numeric fields are nil when the source field could not be parsed; zero is
// a valid price (free gift items), so absence is never coerced to 0.
type InvoiceItem struct {
	ItemID          *string  `json:"itemId"`
	ItemDescription *string  `json:"itemDescription"`
	Quantity        *float64 `json:"quantity"`
	UnitPrice       *float64 `json:"unitPrice"`
	Total           *float64 `json:"total,omitempty"`
	PageIndex       int      `json:"pageIndex"`
}

// Address holds a mailing address. Fields are empty strings when unknown,
// never nil, so "field absent" stays distinguishable from a failed extraction.
type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	ZipCode       string `json:"zipCode"`
	Country       string `json:"country"`
}

// DistributorInfo identifies the vendor that issued an invoice.
type DistributorInfo struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// OCRResult aggregates everything extracted from one analyzed document.
// RawOutput retains the provider result tree for audit and debugging; it is
// never interpreted downstream of the field extractor.
type OCRResult struct {
	InvoiceItems    []InvoiceItem   `json:"invoiceItems"`
	DistributorInfo DistributorInfo `json:"distributorInfo"`
	InvoiceDate     string          `json:"invoiceDate"`
	RawOutput       json.RawMessage `json:"rawOutput,omitempty"`
}

// User represents an authenticated restaurant account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Restaurant   string    `db:"restaurant" json:"restaurant"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Invoice is a persisted, parsed invoice belonging to a user.
type Invoice struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	UserID          uuid.UUID       `db:"user_id" json:"user_id"`
	DistributorName string          `db:"distributor_name" json:"distributor_name"`
	InvoiceDate     string          `db:"invoice_date" json:"invoice_date"`
	PageCount       int             `db:"page_count" json:"page_count"`
	OCRProvider     string          `db:"ocr_provider" json:"ocr_provider"`
	RawOutput       json.RawMessage `db:"raw_output" json:"-"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// StoredItem is an invoice line item as persisted alongside its invoice.
type StoredItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	InvoiceID       uuid.UUID `db:"invoice_id" json:"invoice_id"`
	ItemID          *string   `db:"item_id" json:"itemId"`
	ItemDescription *string   `db:"item_description" json:"itemDescription"`
	Quantity        *float64  `db:"quantity" json:"quantity"`
	UnitPrice       *float64  `db:"unit_price" json:"unitPrice"`
	PageIndex       int       `db:"page_index" json:"pageIndex"`
	Position        int       `db:"position" json:"position"`
}

// Item returns the canonical item view of a stored line item.
func (s *StoredItem) Item() InvoiceItem {
	return InvoiceItem{
		ItemID:          s.ItemID,
		ItemDescription: s.ItemDescription,
		Quantity:        s.Quantity,
		UnitPrice:       s.UnitPrice,
		PageIndex:       s.PageIndex,
	}
}

// ShoppingList is a user-curated list built from parsed invoice items.
type ShoppingList struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ShoppingListRole grants a user access to a shopping list.
type ShoppingListRole struct {
	ListID    uuid.UUID      `db:"list_id" json:"list_id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Role      ListPermission `db:"role" json:"role"`
	GrantedBy uuid.UUID      `db:"granted_by" json:"granted_by"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
