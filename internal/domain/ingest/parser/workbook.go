package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/xuri/excelize/v2"
)

// Default sheet-name hints per variant. Selection falls back to the first
// sheet when no name matches.
const (
	DefaultBillSheetHint     = "bills"
	DefaultBudgetSheetHint   = "budget"
	DefaultCashFlowSheetHint = "cash flow"
)

// openWorkbook decodes an xlsx/xls buffer. RawCellValue keeps date cells as
// their underlying serials so the date normalizer sees one representation
// regardless of cell formatting.
func openWorkbook(data []byte) (*excelize.File, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	return f, nil
}

// pickSheet chooses the sheet to parse: exact case-insensitive match on the
// hint, then a fuzzy name match, then the first sheet.
func pickSheet(f *excelize.File, hint string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", structuralf("workbook has no sheets")
	}
	if hint != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, hint) {
				return s, nil
			}
		}
		for _, s := range sheets {
			if fuzzy.MatchNormalizedFold(hint, s) {
				return s, nil
			}
		}
	}
	return sheets[0], nil
}

// namedSheet verifies that an explicitly requested sheet exists. A missing
// sheet is structural: the caller asked for data that is not there.
func namedSheet(f *excelize.File, name string) (string, error) {
	for _, s := range f.GetSheetList() {
		if strings.EqualFold(s, name) {
			return s, nil
		}
	}
	return "", structuralf("sheet %q not found in workbook", name)
}

// sheetRows reads all rows of a sheet.
func sheetRows(f *excelize.File, sheet string) ([][]string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// cellAt returns the trimmed cell at col, tolerating ragged rows.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// rowEmpty reports whether every cell in the row is blank.
func rowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// firstNonEmptyRow returns the index of the first row with content, or -1.
func firstNonEmptyRow(rows [][]string) int {
	for i, row := range rows {
		if !rowEmpty(row) {
			return i
		}
	}
	return -1
}
