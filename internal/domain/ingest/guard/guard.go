// Package guard performs pre-parse admission checks on uploaded spreadsheet
// files: extension allow-list and per-kind size ceilings. It never returns a
// Go error and never panics; the verdict is a plain value the caller can
// surface directly.
package guard

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind selects which parser variant a file is destined for.
type Kind string

const (
	KindBill     Kind = "bill"
	KindBudget   Kind = "budget"
	KindCashFlow Kind = "cashflow"
)

const mib = int64(1) << 20

// Limits holds per-kind size ceilings in bytes. A zero ceiling disables the
// size check for that kind.
type Limits struct {
	BillBudgetMaxBytes int64
	CashFlowMaxBytes   int64
}

// DefaultLimits mirrors the dashboard's upload ceilings: 10 MiB for bill and
// budget imports, 20 MiB for cash-flow workbooks.
func DefaultLimits() Limits {
	return Limits{
		BillBudgetMaxBytes: 10 * mib,
		CashFlowMaxBytes:   20 * mib,
	}
}

var allowedExtensions = map[string]struct{}{
	".xlsx": {},
	".xls":  {},
	".csv":  {},
}

// Result is the admission verdict.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// Validate checks a file against the default limits.
func Validate(filename string, size int64, kind Kind) Result {
	return ValidateWithLimits(filename, size, kind, DefaultLimits())
}

// ValidateWithLimits checks a file's extension and size before any bytes are
// parsed.
func ValidateWithLimits(filename string, size int64, kind Kind, limits Limits) Result {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return Result{Error: fmt.Sprintf("unsupported file type %q: expected .xlsx, .xls, or .csv", ext)}
	}
	if size <= 0 {
		return Result{Error: "file is empty"}
	}

	limit := limits.BillBudgetMaxBytes
	if kind == KindCashFlow {
		limit = limits.CashFlowMaxBytes
	}
	if limit > 0 && size > limit {
		return Result{Error: fmt.Sprintf("file is %d bytes, over the %d MiB limit for %s imports", size, limit/mib, kind)}
	}
	return Result{Valid: true}
}
