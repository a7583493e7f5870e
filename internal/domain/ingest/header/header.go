// Package header maps raw spreadsheet column headers onto canonical fields
// via static alias vocabularies. Headers that match nothing are preserved as
// extension columns rather than dropped: information is only ever
// reclassified as unstructured, never lost.
package header

import (
	"strings"
	"time"
)

// Field is the canonical semantic name a raw header resolves to.
type Field string

const (
	FieldTitle    Field = "title"
	FieldAmount   Field = "amount"
	FieldDueDate  Field = "due_date"
	FieldCategory Field = "category"
	FieldPayee    Field = "payee"
	FieldNotes    Field = "notes"
	// FieldLabel is the row label column in wide layouts (budget line name,
	// cash-flow line item).
	FieldLabel Field = "label"
)

// Vocabulary maps normalized header text to a canonical field. Extending a
// parser's header vocabulary means adding entries here, not touching control
// flow.
type Vocabulary map[string]Field

// BillVocabulary covers the narrow bill layout.
var BillVocabulary = Vocabulary{
	"title":        FieldTitle,
	"name":         FieldTitle,
	"bill":         FieldTitle,
	"bill name":    FieldTitle,
	"description":  FieldTitle,
	"item":         FieldTitle,
	"amount":       FieldAmount,
	"amount due":   FieldAmount,
	"value":        FieldAmount,
	"cost":         FieldAmount,
	"payment":      FieldAmount,
	"price":        FieldAmount,
	"due date":     FieldDueDate,
	"due":          FieldDueDate,
	"date":         FieldDueDate,
	"date due":     FieldDueDate,
	"payment date": FieldDueDate,
	"category":     FieldCategory,
	"type":         FieldCategory,
	"group":        FieldCategory,
	"payee":        FieldPayee,
	"vendor":       FieldPayee,
	"merchant":     FieldPayee,
	"paid to":      FieldPayee,
	"company":      FieldPayee,
	"notes":        FieldNotes,
	"note":         FieldNotes,
	"memo":         FieldNotes,
	"comment":      FieldNotes,
	"comments":     FieldNotes,
}

// BudgetVocabulary covers the wide budget-line layout; month columns are
// matched separately via MonthColumn.
var BudgetVocabulary = Vocabulary{
	"item":        FieldLabel,
	"line item":   FieldLabel,
	"budget item": FieldLabel,
	"name":        FieldLabel,
	"description": FieldLabel,
	"expense":     FieldLabel,
	"category":    FieldCategory,
	"group":       FieldCategory,
	"notes":       FieldNotes,
	"memo":        FieldNotes,
}

// CashFlowVocabulary covers the wide cash-flow layout; dated value columns
// are matched by the date normalizer, not by name.
var CashFlowVocabulary = Vocabulary{
	"line item":   FieldLabel,
	"item":        FieldLabel,
	"name":        FieldLabel,
	"description": FieldLabel,
	"account":     FieldLabel,
	"source":      FieldLabel,
}

// Normalize lowercases a header and collapses whitespace, underscore, and
// hyphen runs to single spaces, so "Due_Date", "due-date", and "Due  Date"
// all resolve alike.
func Normalize(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, h)
	return strings.Join(strings.Fields(h), " ")
}

// Resolution maps column positions to canonical fields for one sheet.
type Resolution struct {
	// ByField holds the column resolved for each matched field. When
	// duplicate headers map to the same field, the last one wins.
	ByField map[Field]int
	// Extensions holds unmatched headers verbatim, keyed by column.
	Extensions map[int]string
}

// Resolve matches a header row against a vocabulary.
func Resolve(headers []string, v Vocabulary) Resolution {
	res := Resolution{
		ByField:    make(map[Field]int),
		Extensions: make(map[int]string),
	}
	for i, h := range headers {
		if strings.TrimSpace(h) == "" {
			continue
		}
		if f, ok := v[Normalize(h)]; ok {
			res.ByField[f] = i
			continue
		}
		res.Extensions[i] = h
	}
	return res
}

// Column returns the position resolved for f, or -1 when absent.
func (r Resolution) Column(f Field) int {
	if i, ok := r.ByField[f]; ok {
		return i
	}
	return -1
}

var monthFulls = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MonthColumn reports whether a header names a calendar month ("Jan",
// "january", "Mar 2025"). Only the first token is considered, so a trailing
// year does not defeat the match.
func MonthColumn(h string) (time.Month, bool) {
	n := Normalize(h)
	if i := strings.IndexByte(n, ' '); i > 0 {
		n = n[:i]
	}
	if len(n) < 3 {
		return 0, false
	}
	for i, full := range monthFulls {
		if n == full[:3] || strings.HasPrefix(full, n) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}
