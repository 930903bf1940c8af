package compare

import (
	"fmt"
	"log"
	"strings"

	"github.com/agnivade/levenshtein"

	"larder/internal/domain"
)

// descriptionCutoff is the maximum normalized edit-distance score for a
// description-based match. Scores are distance divided by the longer
// description's length, so 0 is identical and 1 shares nothing.
const descriptionCutoff = 0.4

// FieldDiff records one field that differs between a matched pair.
type FieldDiff struct {
	Field    string `json:"field"`
	Actual   string `json:"actual"`
	Expected string `json:"expected"`
}

// Mismatch is a matched item pair whose fields differ.
type Mismatch struct {
	Expected domain.InvoiceItem `json:"expected"`
	Actual   domain.InvoiceItem `json:"actual"`
	Diffs    []FieldDiff        `json:"diffs"`
}

// Report is the outcome of reconciling parsed items against expected items.
type Report struct {
	Mismatches []Mismatch           `json:"mismatches"`
	Missing    []domain.InvoiceItem `json:"missing"`
	Extras     []domain.InvoiceItem `json:"extras"`

	ActualTotal   int `json:"actualTotal"`
	ExpectedTotal int `json:"expectedTotal"`
}

// Passed reports whether the reconciliation found no differences at all.
func (r *Report) Passed() bool {
	return len(r.Mismatches) == 0 && len(r.Missing) == 0 && len(r.Extras) == 0
}

// Compare reconciles actual (parsed) items against expected items. Expected
// items are processed in order; each match consumes one actual item, so a
// parsed item can satisfy at most one expectation. Inputs are never mutated.
//
// Matching strategy per expected item: when it has an itemId, candidates are
// the unconsumed actual items with an identical id. A single candidate is
// the match; several candidates fall back to an exact field comparison, and
// if none of the duplicates matches exactly, all of them are consumed and
// the item counts as missing. When the itemId is blank, the closest
// description wins if it scores under the cutoff, with an exact-id scan as
// a last resort. Unconsumed actual items are reported as extras.
func Compare(actual, expected []domain.InvoiceItem) *Report {
	report := &Report{
		ActualTotal:   len(actual),
		ExpectedTotal: len(expected),
	}

	pool := make([]domain.InvoiceItem, len(actual))
	copy(pool, actual)
	consumed := make([]bool, len(pool))

	for _, want := range expected {
		idx := findBestMatch(want, pool, consumed)
		if idx < 0 {
			report.Missing = append(report.Missing, want)
			continue
		}
		consumed[idx] = true

		if diffs := compareFields(pool[idx], want); len(diffs) > 0 {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Expected: want,
				Actual:   pool[idx],
				Diffs:    diffs,
			})
		}
	}

	for i, item := range pool {
		if !consumed[i] {
			report.Extras = append(report.Extras, item)
		}
	}
	return report
}

func findBestMatch(want domain.InvoiceItem, pool []domain.InvoiceItem, consumed []bool) int {
	if id := derefString(want.ItemID); strings.TrimSpace(id) != "" {
		return findByItemID(want, pool, consumed)
	}
	return findByDescription(want, pool, consumed)
}

func findByItemID(want domain.InvoiceItem, pool []domain.InvoiceItem, consumed []bool) int {
	wantID := derefString(want.ItemID)

	var candidates []int
	for i := range pool {
		if consumed[i] || pool[i].ItemID == nil {
			continue
		}
		if levenshtein.ComputeDistance(*pool[i].ItemID, wantID) == 0 {
			candidates = append(candidates, i)
		}
	}

	switch len(candidates) {
	case 0:
		return -1
	case 1:
		return candidates[0]
	}

	// Several actual items share this id. Only an exact field match may
	// claim one; otherwise none of them is trustworthy.
	for _, i := range candidates {
		if exactFieldMatch(pool[i], want) {
			return i
		}
	}

	log.Printf("compare: %d items share itemId %q with no exact match, discarding all", len(candidates), wantID)
	for _, i := range candidates {
		consumed[i] = true
	}
	return -1
}

func findByDescription(want domain.InvoiceItem, pool []domain.InvoiceItem, consumed []bool) int {
	wantDesc := normalizeDescription(derefString(want.ItemDescription))

	best := -1
	bestScore := descriptionCutoff
	for i := range pool {
		if consumed[i] || pool[i].ItemDescription == nil {
			continue
		}
		score := descriptionScore(normalizeDescription(*pool[i].ItemDescription), wantDesc)
		if score < bestScore {
			best = i
			bestScore = score
		}
	}
	if best >= 0 {
		return best
	}

	// Last resort: an exact id match, which for a blank expected id means an
	// actual item that is also missing its id.
	for i := range pool {
		if !consumed[i] && derefString(pool[i].ItemID) == derefString(want.ItemID) {
			return i
		}
	}
	return -1
}

func descriptionScore(a, b string) float64 {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

func exactFieldMatch(actual, want domain.InvoiceItem) bool {
	return actual.PageIndex == want.PageIndex &&
		normalizeDescription(derefString(actual.ItemDescription)) == normalizeDescription(derefString(want.ItemDescription)) &&
		equalFloat(actual.Quantity, want.Quantity) &&
		equalFloat(actual.UnitPrice, want.UnitPrice)
}

func compareFields(actual, want domain.InvoiceItem) []FieldDiff {
	var diffs []FieldDiff

	if actual.PageIndex != want.PageIndex {
		diffs = append(diffs, FieldDiff{"pageIndex", fmt.Sprint(actual.PageIndex), fmt.Sprint(want.PageIndex)})
	}
	if derefString(actual.ItemID) != derefString(want.ItemID) {
		diffs = append(diffs, FieldDiff{"itemId", derefString(actual.ItemID), derefString(want.ItemID)})
	}
	if normalizeDescription(derefString(actual.ItemDescription)) != normalizeDescription(derefString(want.ItemDescription)) {
		diffs = append(diffs, FieldDiff{"itemDescription", derefString(actual.ItemDescription), derefString(want.ItemDescription)})
	}
	if !equalFloat(actual.Quantity, want.Quantity) {
		diffs = append(diffs, FieldDiff{"quantity", formatFloat(actual.Quantity), formatFloat(want.Quantity)})
	}
	if !equalFloat(actual.UnitPrice, want.UnitPrice) {
		diffs = append(diffs, FieldDiff{"unitPrice", formatFloat(actual.UnitPrice), formatFloat(want.UnitPrice)})
	}
	return diffs
}

// normalizeDescription strips newlines, which OCR inserts mid-description
// but curated expectations never contain.
func normalizeDescription(s string) string {
	return strings.ReplaceAll(s, "\n", "")
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprint(*f)
}
