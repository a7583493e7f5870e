package parser

import (
	"fmt"
	"strings"

	"github.com/finboard/command-center/internal/domain/ingest/header"
	"github.com/finboard/command-center/internal/domain/ingest/normalizer"
)

// Bill is a validated bill record: integer-cent amount, ISO due date.
// Required fields are non-null by construction; a row that fails validation
// becomes a RowError and never materializes a Bill.
type Bill struct {
	Row         int    `json:"row" csv:"row"`
	Title       string `json:"title" csv:"title"`
	AmountCents int64  `json:"amount_cents" csv:"amount_cents"`
	DueDate     string `json:"due_date" csv:"due_date"`
	Category    string `json:"category,omitempty" csv:"category"`
	Payee       string `json:"payee,omitempty" csv:"payee"`
	Notes       string `json:"notes,omitempty" csv:"notes"`
	// Metadata carries unmatched header columns verbatim.
	Metadata map[string]string `json:"metadata,omitempty" csv:"-"`
}

// BillSummary aggregates totals across the parsed records.
type BillSummary struct {
	TotalCents       int64            `json:"total_cents"`
	ByCategory       map[string]int64 `json:"by_category"`
	RecordCount      int              `json:"record_count"`
	DistinctDueDates int              `json:"distinct_due_dates"`
	EarliestDue      string           `json:"earliest_due,omitempty"`
	LatestDue        string           `json:"latest_due,omitempty"`
}

// BillParseResult is the complete outcome of one bill parse call.
type BillParseResult struct {
	Records   []Bill      `json:"records"`
	Errors    []RowError  `json:"errors"`
	TotalRows int         `json:"total_rows"`
	Summary   BillSummary `json:"summary"`
}

// ParseBills parses a bill workbook, selecting the sheet by name heuristic.
func ParseBills(data []byte) (*BillParseResult, error) {
	return parseBillWorkbook(data, "", DefaultBillSheetHint)
}

// ParseBillsSheet parses a named sheet; a missing sheet is a structural
// failure.
func ParseBillsSheet(data []byte, sheet string) (*BillParseResult, error) {
	return parseBillWorkbook(data, sheet, "")
}

func parseBillWorkbook(data []byte, sheet, hint string) (*BillParseResult, error) {
	f, err := openWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := sheet
	if name == "" {
		if name, err = pickSheet(f, hint); err != nil {
			return nil, err
		}
	} else {
		if name, err = namedSheet(f, name); err != nil {
			return nil, err
		}
	}

	rows, err := sheetRows(f, name)
	if err != nil {
		return nil, err
	}
	return parseBillRows(rows)
}

// parseBillRows runs the narrow-layout pass: one record per data row.
func parseBillRows(rows [][]string) (*BillParseResult, error) {
	headerIdx := firstNonEmptyRow(rows)
	if headerIdx < 0 {
		return nil, structuralf("sheet has no rows")
	}

	res := header.Resolve(rows[headerIdx], header.BillVocabulary)
	if len(res.ByField) == 0 {
		return nil, structuralf("no recognizable bill columns in header row %d", headerIdx+1)
	}

	result := &BillParseResult{
		Records: []Bill{},
		Errors:  []RowError{},
		Summary: BillSummary{ByCategory: map[string]int64{}},
	}
	dueDates := map[string]struct{}{}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 1
		result.TotalRows++

		// Spreadsheet-computed aggregates would double-count if imported.
		if isComputedLabel(cellAt(row, res.Column(header.FieldTitle))) {
			continue
		}

		bill, violations := buildBill(row, rowNum, res)
		if len(violations) > 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: strings.Join(violations, "; ")})
			continue
		}

		result.Records = append(result.Records, bill)
		foldBill(&result.Summary, dueDates, bill)
	}

	if result.TotalRows == 0 {
		return nil, structuralf("sheet has no data rows below the header")
	}
	result.Summary.DistinctDueDates = len(dueDates)
	return result, nil
}

// buildBill normalizes one row, returning the record and every rule it
// violated. The record is only valid when violations is empty.
func buildBill(row []string, rowNum int, res header.Resolution) (Bill, []string) {
	var violations []string

	title := cellAt(row, res.Column(header.FieldTitle))
	if title == "" {
		violations = append(violations, "title is required")
	}

	var cents int64
	rawAmount := cellAt(row, res.Column(header.FieldAmount))
	if rawAmount == "" {
		violations = append(violations, "amount is required")
	} else if c, ok := normalizer.Cents(rawAmount); ok {
		cents = c
	} else {
		violations = append(violations, fmt.Sprintf("amount %q is not a valid amount", rawAmount))
	}

	rawDue := cellAt(row, res.Column(header.FieldDueDate))
	due := normalizer.ISODate(rawDue)
	if due == "" {
		if rawDue == "" {
			violations = append(violations, "due date is required")
		} else {
			violations = append(violations, fmt.Sprintf("due date %q is not a recognizable date", rawDue))
		}
	}

	var meta map[string]string
	for col, name := range res.Extensions {
		if v := cellAt(row, col); v != "" {
			if meta == nil {
				meta = map[string]string{}
			}
			meta[name] = v
		}
	}

	return Bill{
		Row:         rowNum,
		Title:       title,
		AmountCents: cents,
		DueDate:     due,
		Category:    cellAt(row, res.Column(header.FieldCategory)),
		Payee:       cellAt(row, res.Column(header.FieldPayee)),
		Notes:       cellAt(row, res.Column(header.FieldNotes)),
		Metadata:    meta,
	}, violations
}

func foldBill(s *BillSummary, dueDates map[string]struct{}, b Bill) {
	s.TotalCents += b.AmountCents
	s.RecordCount++
	if b.Category != "" {
		s.ByCategory[b.Category] += b.AmountCents
	}
	dueDates[b.DueDate] = struct{}{}
	if s.EarliestDue == "" || b.DueDate < s.EarliestDue {
		s.EarliestDue = b.DueDate
	}
	if b.DueDate > s.LatestDue {
		s.LatestDue = b.DueDate
	}
}
