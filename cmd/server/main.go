package main

import (
	"fmt"
	"log"

	"larder/internal/config"
	"larder/internal/email/noop"
	"larder/internal/email/ses"
	"larder/internal/filter"
	"larder/internal/handler"
	"larder/internal/ocr"
	"larder/internal/port"
	"larder/internal/repository/postgres"
	"larder/internal/router"
	"larder/internal/service"
	s3storage "larder/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	userRepo := postgres.NewUserRepo(db)
	listRepo := postgres.NewShoppingListRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the parsing pipeline
	analyzer, err := ocr.NewAnalyzer(&cfg.OCR)
	if err != nil {
		return fmt.Errorf("failed to initialize document analyzer: %w", err)
	}
	itemFilter := filter.NewFromConfig(&cfg.Filter)

	// Initialize email delivery
	var emailSender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		emailSender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		emailSender = noop.NewNoopSender()
	}

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	invoiceSvc := service.NewInvoiceService(analyzer, itemFilter, invoiceRepo, s3Client, cfg.S3, cfg.OCR.Provider)
	listSvc := service.NewShoppingListService(listRepo, userRepo, emailSender)

	// Initialize handlers
	authH := handler.NewAuthHandler(authSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	listH := handler.NewShoppingListHandler(listSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, authH, invoiceH, listH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
