package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"larder/internal/domain"
	"larder/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice, items []domain.StoredItem) error {
	now := time.Now().UTC()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO invoices (id, user_id, distributor_name, invoice_date, page_count,
			ocr_provider, raw_output, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8, $9)`,
		inv.ID, inv.UserID, inv.DistributorName, inv.InvoiceDate, inv.PageCount,
		inv.OCRProvider, inv.RawOutput, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create invoice: %w", err)
	}

	for i := range items {
		item := &items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.InvoiceID = inv.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO invoice_items (id, invoice_id, item_id, item_description,
				quantity, unit_price, page_index, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			item.ID, item.InvoiceID, item.ItemID, item.ItemDescription,
			item.Quantity, item.UnitPrice, item.PageIndex, item.Position)
		if err != nil {
			return fmt.Errorf("invoiceRepo.Create item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Create commit: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, userID, invoiceID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv,
		`SELECT id, user_id, distributor_name, COALESCE(invoice_date::text, '') AS invoice_date,
			page_count, ocr_provider, raw_output, created_at, updated_at
		FROM invoices WHERE id = $1 AND user_id = $2`, invoiceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoices WHERE user_id = $1", userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByUser count: %w", err)
	}

	var invoices []domain.Invoice
	err = r.db.SelectContext(ctx, &invoices,
		`SELECT id, user_id, distributor_name, COALESCE(invoice_date::text, '') AS invoice_date,
			page_count, ocr_provider, raw_output, created_at, updated_at
		FROM invoices WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByUser: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepo) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]domain.StoredItem, error) {
	var items []domain.StoredItem
	err := r.db.SelectContext(ctx, &items,
		`SELECT id, invoice_id, item_id, item_description, quantity, unit_price, page_index, position
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListItems: %w", err)
	}
	return items, nil
}

// Delete removes an invoice and its items in one transaction. A foreign
// invoice is reported as forbidden rather than silently ignored.
func (r *invoiceRepo) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete begin: %w", err)
	}
	defer tx.Rollback()

	var ownerID uuid.UUID
	err = tx.GetContext(ctx, &ownerID,
		"SELECT user_id FROM invoices WHERE id = $1", invoiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("invoiceRepo.Delete lookup: %w", err)
	}
	if ownerID != userID {
		return domain.ErrForbidden
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM invoice_items WHERE invoice_id = $1", invoiceID); err != nil {
		return fmt.Errorf("invoiceRepo.Delete items: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM invoices WHERE id = $1", invoiceID); err != nil {
		return fmt.Errorf("invoiceRepo.Delete invoice: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("invoiceRepo.Delete commit: %w", err)
	}
	return nil
}
