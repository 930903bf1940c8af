package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/port"
)

// ItemFilter removes noise items from an extracted item list.
type ItemFilter interface {
	Apply(ctx context.Context, items []domain.InvoiceItem) ([]domain.InvoiceItem, error)
}

// ParseInput is the DTO for invoice parsing requests.
type ParseInput struct {
	DocumentBytes []byte
	ContentType   string
	// PageImages holds the per-page JPEG renderings stored for later review.
	// May be empty when the caller has no page images.
	PageImages [][]byte
}

// ParseOutput is the result of running a document through the pipeline.
type ParseOutput struct {
	Invoice *domain.Invoice      `json:"invoice"`
	Items   []domain.InvoiceItem `json:"items"`
}

// InvoiceDetail is an invoice with its line items.
type InvoiceDetail struct {
	Invoice *domain.Invoice      `json:"invoice"`
	Items   []domain.InvoiceItem `json:"items"`
}

// InvoiceService defines the invoice pipeline and persistence contract.
type InvoiceService interface {
	Parse(ctx context.Context, userID uuid.UUID, input ParseInput) (*ParseOutput, error)
	Get(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceDetail, error)
	List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Invoice, int, error)
	Delete(ctx context.Context, userID, invoiceID uuid.UUID) error
	PageImageURLs(ctx context.Context, userID, invoiceID uuid.UUID) ([]string, error)
}

type invoiceService struct {
	analyzer    port.DocumentAnalyzer
	filter      ItemFilter
	invoiceRepo port.InvoiceRepository
	storage     port.ObjectStorage
	s3cfg       config.S3Config
	provider    string
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	analyzer port.DocumentAnalyzer,
	filter ItemFilter,
	invoiceRepo port.InvoiceRepository,
	storage port.ObjectStorage,
	s3cfg config.S3Config,
	provider string,
) InvoiceService {
	return &invoiceService{
		analyzer:    analyzer,
		filter:      filter,
		invoiceRepo: invoiceRepo,
		storage:     storage,
		s3cfg:       s3cfg,
		provider:    provider,
	}
}

// PageKey returns the object key for one page image of an invoice.
func PageKey(invoiceID uuid.UUID, page int) string {
	return fmt.Sprintf("invoices/%s/%d.jpg", invoiceID, page)
}

func (s *invoiceService) Parse(ctx context.Context, userID uuid.UUID, input ParseInput) (*ParseOutput, error) {
	if max := s.s3cfg.MaxFileSizeMB * 1024 * 1024; max > 0 && int64(len(input.DocumentBytes)) > max {
		return nil, domain.ErrFileTooLarge
	}

	ocrResult, err := s.analyzer.Analyze(ctx, port.AnalyzeInput{
		DocumentBytes: input.DocumentBytes,
		ContentType:   input.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("invoice.Parse: %w", err)
	}

	items, err := s.filter.Apply(ctx, ocrResult.InvoiceItems)
	if err != nil {
		return nil, fmt.Errorf("invoice.Parse: %w", err)
	}

	invoice := &domain.Invoice{
		ID:              uuid.New(),
		UserID:          userID,
		DistributorName: ocrResult.DistributorInfo.Name,
		InvoiceDate:     ocrResult.InvoiceDate,
		PageCount:       pageCount(items, input.PageImages),
		OCRProvider:     s.provider,
		RawOutput:       ocrResult.RawOutput,
	}

	stored := make([]domain.StoredItem, len(items))
	for i, item := range items {
		stored[i] = domain.StoredItem{
			ID:              uuid.New(),
			InvoiceID:       invoice.ID,
			ItemID:          item.ItemID,
			ItemDescription: item.ItemDescription,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			PageIndex:       item.PageIndex,
			Position:        i,
		}
	}

	if err := s.invoiceRepo.Create(ctx, invoice, stored); err != nil {
		return nil, fmt.Errorf("invoice.Parse: %w", err)
	}

	// Page images are best-effort: the parsed invoice is already persisted
	// and a lost review image never blocks the pipeline.
	for i, img := range input.PageImages {
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3cfg.Bucket,
			Key:         PageKey(invoice.ID, i),
			Body:        bytes.NewReader(img),
			ContentType: "image/jpeg",
		})
		if err != nil {
			log.Printf("invoice.Parse: failed to upload page %d for %s: %v", i, invoice.ID, err)
		}
	}

	return &ParseOutput{Invoice: invoice, Items: items}, nil
}

func (s *invoiceService) Get(ctx context.Context, userID, invoiceID uuid.UUID) (*InvoiceDetail, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice.Get: %w", err)
	}

	stored, err := s.invoiceRepo.ListItems(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice.Get: %w", err)
	}

	items := make([]domain.InvoiceItem, len(stored))
	for i := range stored {
		items[i] = stored[i].Item()
	}
	return &InvoiceDetail{Invoice: invoice, Items: items}, nil
}

func (s *invoiceService) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]domain.Invoice, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	invoices, total, err := s.invoiceRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("invoice.List: %w", err)
	}
	return invoices, total, nil
}

func (s *invoiceService) Delete(ctx context.Context, userID, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvoiceNotFound
		}
		return fmt.Errorf("invoice.Delete: %w", err)
	}

	if err := s.invoiceRepo.Delete(ctx, userID, invoiceID); err != nil {
		return fmt.Errorf("invoice.Delete: %w", err)
	}

	for page := 0; page < invoice.PageCount; page++ {
		if err := s.storage.Delete(ctx, s.s3cfg.Bucket, PageKey(invoiceID, page)); err != nil {
			log.Printf("invoice.Delete: failed to delete page %d for %s: %v", page, invoiceID, err)
		}
	}
	return nil
}

func (s *invoiceService) PageImageURLs(ctx context.Context, userID, invoiceID uuid.UUID) ([]string, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoice.PageImageURLs: %w", err)
	}

	urls := make([]string, 0, invoice.PageCount)
	for page := 0; page < invoice.PageCount; page++ {
		url, err := s.storage.GetPresignedURL(ctx, s.s3cfg.Bucket, PageKey(invoiceID, page), s.s3cfg.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("invoice.PageImageURLs: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// pageCount derives how many pages an invoice spans. Stored page images are
// authoritative when present; otherwise the highest item page index is used.
func pageCount(items []domain.InvoiceItem, pageImages [][]byte) int {
	if len(pageImages) > 0 {
		return len(pageImages)
	}
	count := 1
	for _, item := range items {
		if item.PageIndex+1 > count {
			count = item.PageIndex + 1
		}
	}
	return count
}
