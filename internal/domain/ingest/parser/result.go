// Package parser turns raw workbook bytes into typed, validated financial
// records. Three variants share one design: a single forward pass over rows,
// cell-level normalization, and a result that collects per-row failures
// instead of aborting. Every entry point is a pure function of its input
// buffer; no state survives a call.
package parser

import (
	"errors"
	"fmt"
)

// RowError describes a row that failed validation and was excluded from the
// output records. Row numbers are 1-based source positions, counting the
// header row. The message lists every rule the row violated.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RowWarning flags a cash-flow cell whose dated value column held
// non-numeric text. The cell is skipped as a value; the text is preserved
// here for operator review.
type RowWarning struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	LineItem string `json:"line_item"`
	Date     string `json:"date"`
	RawValue string `json:"raw_value"`
	Message  string `json:"message"`
}

// StructuralError is the sole fatal parse condition: a workbook with no
// parseable rows at all, or a requested sheet that does not exist. Every
// other malformed input degrades into RowErrors and RowWarnings on a
// still-returned result.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural error: " + e.Reason
}

func structuralf(format string, args ...any) *StructuralError {
	return &StructuralError{Reason: fmt.Sprintf(format, args...)}
}

// IsStructural reports whether err is, or wraps, a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
