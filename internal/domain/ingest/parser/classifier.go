package parser

import (
	"strings"

	"github.com/finboard/command-center/internal/domain/ingest/header"
	"github.com/finboard/command-center/internal/domain/ingest/normalizer"
)

// RowKind tags the role a row plays in the single forward pass. Modeling the
// decision as one tagged result keeps every branch independently testable.
type RowKind int

const (
	// DataRow carries values and produces records.
	DataRow RowKind = iota
	// SectionMarkerRow switches the active section and emits nothing.
	SectionMarkerRow
	// CategoryHeaderRow sets the active category and emits nothing. The
	// signal is absence of numeric payload under a non-empty label, not any
	// marker character.
	CategoryHeaderRow
	// SkippedRow is ignored entirely: blank labels and spreadsheet-computed
	// aggregates that would double-count if imported.
	SkippedRow
)

// Section is the top-level cash-flow grouping that fixes transaction
// direction.
type Section string

const (
	SectionNone        Section = ""
	SectionCashIn      Section = "cash_in"
	SectionCashOut     Section = "cash_out"
	SectionInvestments Section = "investments"
)

// Direction returns the transaction direction rows under this section
// inherit. Investments read as outbound: cash leaving the operating balance.
func (s Section) Direction() string {
	if s == SectionCashIn {
		return "in"
	}
	return "out"
}

// sectionKeywords maps marker labels to sections. Matching is exact after
// normalization, never substring: "cash in hand" is a line item, not a
// marker.
var sectionKeywords = map[string]Section{
	"cash in":       SectionCashIn,
	"cash inflows":  SectionCashIn,
	"money in":      SectionCashIn,
	"income":        SectionCashIn,
	"cash out":      SectionCashOut,
	"cash outflows": SectionCashOut,
	"money out":     SectionCashOut,
	"expenses":      SectionCashOut,
	"investments":   SectionInvestments,
	"investing":     SectionInvestments,
}

// computedLabels are spreadsheet-side aggregates that must not be imported
// as data rows.
var computedLabels = map[string]struct{}{
	"total":             {},
	"totals":            {},
	"subtotal":          {},
	"grand total":       {},
	"balance":           {},
	"beginning balance": {},
	"ending balance":    {},
	"opening balance":   {},
	"closing balance":   {},
}

var computedPrefixes = []string{"net ", "total "}

func isComputedLabel(label string) bool {
	n := header.Normalize(label)
	if _, ok := computedLabels[n]; ok {
		return true
	}
	for _, p := range computedPrefixes {
		if strings.HasPrefix(n, p) {
			return true
		}
	}
	return false
}

// hasNumericPayload reports whether any value cell holds non-zero numeric
// content.
func hasNumericPayload(cells []string) bool {
	for _, c := range cells {
		if v, ok := normalizer.Magnitude(c); ok && !v.IsZero() {
			return true
		}
	}
	return false
}

// classifyRow decides a row's role from its label cell and value cells.
// sections may be nil for layouts without section markers (budget sheets).
// Rows must be classified top-to-bottom exactly once: the verdicts feed a
// tracker whose state applies to all subsequent rows.
func classifyRow(label string, payload []string, sections map[string]Section) (RowKind, Section) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return SkippedRow, SectionNone
	}
	if sections != nil {
		if s, ok := sections[header.Normalize(trimmed)]; ok {
			return SectionMarkerRow, s
		}
	}
	if isComputedLabel(trimmed) {
		return SkippedRow, SectionNone
	}
	if !hasNumericPayload(payload) {
		return CategoryHeaderRow, SectionNone
	}
	return DataRow, SectionNone
}

// sectionTracker carries the active section and category across one forward
// pass. It lives for a single parse call only; nothing here is shared or
// cached across invocations.
type sectionTracker struct {
	section  Section
	category string
}

// apply folds a classified row into the tracker. A section marker clears the
// category: category headers belong to the section that introduced them.
func (t *sectionTracker) apply(kind RowKind, label string, s Section) {
	switch kind {
	case SectionMarkerRow:
		t.section = s
		t.category = ""
	case CategoryHeaderRow:
		t.category = strings.TrimSpace(label)
	}
}
