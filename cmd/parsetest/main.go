package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"larder/internal/compare"
	"larder/internal/config"
	"larder/internal/domain"
	"larder/internal/filter"
	"larder/internal/ocr"
	"larder/internal/port"
)

// parsetest runs the full parsing pipeline against fixture invoices and
// reconciles the result with hand-checked expected items.
//
// Each test set is a directory of numbered page scans (1.jpg, 2.jpg, ...)
// next to a <set>.json file holding the expected items. The page images are
// assembled into a single PDF before analysis, matching how invoices arrive
// in production.
//
// Usage: parsetest [-dir testdata] set1 set2 ...
func main() {
	dir := flag.String("dir", "testdata", "directory containing test sets")
	flag.Parse()

	sets := flag.Args()
	if len(sets) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: parsetest [-dir testdata] set1 set2 ...")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	analyzer, err := ocr.NewAnalyzer(&cfg.OCR)
	if err != nil {
		log.Fatalf("failed to initialize document analyzer: %v", err)
	}
	itemFilter := filter.NewFromConfig(&cfg.Filter)

	failed := 0
	for _, set := range sets {
		if err := runSet(context.Background(), *dir, set, analyzer, itemFilter); err != nil {
			log.Printf("[%s] FAIL: %v", set, err)
			failed++
		} else {
			log.Printf("[%s] PASS", set)
		}
	}

	if failed > 0 {
		log.Printf("%d of %d sets failed", failed, len(sets))
		os.Exit(1)
	}
	log.Printf("all %d sets passed", len(sets))
}

func runSet(ctx context.Context, dir, set string, analyzer port.DocumentAnalyzer, itemFilter *filter.Filter) error {
	pages, err := pageImages(filepath.Join(dir, set))
	if err != nil {
		return err
	}

	pdfPath := filepath.Join(os.TempDir(), set+".pdf")
	defer os.Remove(pdfPath)
	if err := api.ImportImagesFile(pages, pdfPath, nil, nil); err != nil {
		return fmt.Errorf("assembling pdf: %w", err)
	}

	documentBytes, err := os.ReadFile(pdfPath)
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, port.AnalyzeInput{
		DocumentBytes: documentBytes,
		ContentType:   "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	items, err := itemFilter.Apply(ctx, result.InvoiceItems)
	if err != nil {
		return fmt.Errorf("filter failed: %w", err)
	}

	issues := validateItems(set, items)

	expected, err := loadExpected(filepath.Join(dir, set+".json"))
	if err != nil {
		return err
	}

	report := compare.Compare(items, expected)
	printReport(set, report)

	if issues > 0 {
		return fmt.Errorf("%d item validation issues", issues)
	}
	if !report.Passed() {
		return fmt.Errorf("%d mismatches, %d missing, %d extra",
			len(report.Mismatches), len(report.Missing), len(report.Extras))
	}
	return nil
}

// pageImages lists the set's page scans sorted by page number, so 10.jpg
// sorts after 2.jpg.
func pageImages(setDir string) ([]string, error) {
	entries, err := os.ReadDir(setDir)
	if err != nil {
		return nil, err
	}

	var pages []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".jpg" || ext == ".jpeg" || ext == ".png" {
			pages = append(pages, filepath.Join(setDir, entry.Name()))
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no page images in %s", setDir)
	}

	sort.Slice(pages, func(i, j int) bool {
		return pageNumber(pages[i]) < pageNumber(pages[j])
	})
	return pages, nil
}

func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0
	}
	return n
}

func loadExpected(path string) ([]domain.InvoiceItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading expected items: %w", err)
	}
	var items []domain.InvoiceItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding expected items: %w", err)
	}
	return items, nil
}

// validateItems flags parsed items that are structurally suspect regardless
// of what the expected fixture says.
func validateItems(set string, items []domain.InvoiceItem) int {
	issues := 0
	for i, item := range items {
		if item.Quantity == nil || *item.Quantity <= 0 {
			log.Printf("[%s] item %d: quantity missing or not positive", set, i)
			issues++
		}
		if item.ItemID == nil || strings.TrimSpace(*item.ItemID) == "" {
			log.Printf("[%s] item %d: blank item id", set, i)
			issues++
		}
		if item.ItemDescription == nil || strings.TrimSpace(*item.ItemDescription) == "" {
			log.Printf("[%s] item %d: blank description", set, i)
			issues++
		}
	}
	return issues
}

func printReport(set string, report *compare.Report) {
	log.Printf("[%s] parsed %d items, expected %d", set, report.ActualTotal, report.ExpectedTotal)
	for _, m := range report.Mismatches {
		for _, d := range m.Diffs {
			log.Printf("[%s] mismatch %q field %s: got %q want %q",
				set, describe(m.Expected), d.Field, d.Actual, d.Expected)
		}
	}
	for _, item := range report.Missing {
		log.Printf("[%s] missing: %s", set, describe(item))
	}
	for _, item := range report.Extras {
		log.Printf("[%s] extra: %s", set, describe(item))
	}
}

func describe(item domain.InvoiceItem) string {
	id, desc := "", ""
	if item.ItemID != nil {
		id = *item.ItemID
	}
	if item.ItemDescription != nil {
		desc = *item.ItemDescription
	}
	return strings.TrimSpace(id + " " + desc)
}
