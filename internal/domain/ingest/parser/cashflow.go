package parser

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/finboard/command-center/internal/domain/ingest/header"
	"github.com/finboard/command-center/internal/domain/ingest/normalizer"
)

// CashFlowTransaction is one dated cash movement extracted from the wide
// cash-flow grid: a single non-empty, non-zero cell under a dated column.
// Amounts keep the sheet's own numeric scale.
type CashFlowTransaction struct {
	Row       int             `json:"row"`
	LineItem  string          `json:"line_item"`
	Section   Section         `json:"section"`
	Direction string          `json:"direction"`
	Category  string          `json:"category,omitempty"`
	Date      string          `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
}

// CashFlowSummary aggregates totals across the parsed transactions.
type CashFlowSummary struct {
	TotalIn       decimal.Decimal             `json:"total_in"`
	TotalOut      decimal.Decimal             `json:"total_out"`
	BySection     map[Section]decimal.Decimal `json:"by_section"`
	ByCategory    map[string]decimal.Decimal  `json:"by_category"`
	RecordCount   int                         `json:"record_count"`
	DistinctDates int                         `json:"distinct_dates"`
	EarliestDate  string                      `json:"earliest_date,omitempty"`
	LatestDate    string                      `json:"latest_date,omitempty"`
}

// CashFlowParseResult is the complete outcome of one cash-flow parse call.
// Warnings flag dated cells holding non-numeric text.
type CashFlowParseResult struct {
	Records   []CashFlowTransaction `json:"records"`
	Errors    []RowError            `json:"errors"`
	Warnings  []RowWarning          `json:"warnings"`
	TotalRows int                   `json:"total_rows"`
	Summary   CashFlowSummary       `json:"summary"`
}

// ParseCashFlow parses a cash-flow workbook, selecting the sheet by name
// heuristic ("cash flow" by default).
func ParseCashFlow(data []byte) (*CashFlowParseResult, error) {
	return ParseCashFlowWithHint(data, DefaultCashFlowSheetHint)
}

// ParseCashFlowWithHint parses with a custom sheet-name hint.
func ParseCashFlowWithHint(data []byte, hint string) (*CashFlowParseResult, error) {
	return parseCashFlowWorkbook(data, "", hint)
}

// ParseCashFlowSheet parses a named sheet; a missing sheet is a structural
// failure.
func ParseCashFlowSheet(data []byte, sheet string) (*CashFlowParseResult, error) {
	return parseCashFlowWorkbook(data, sheet, "")
}

func parseCashFlowWorkbook(data []byte, sheet, hint string) (*CashFlowParseResult, error) {
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
	return parseCashFlowRows(rows)
}

// cashFlowLayout is the per-sheet column map: the label column plus every
// header cell that reads as a date.
type cashFlowLayout struct {
	labelCol  int
	dateCols  map[int]string // column -> ISO date
	orderCols []int          // date columns in sheet order
}

// resolveCashFlowLayout reads the header row. Date columns are recognized
// either as date strings or as serials inside the sane operating window, so
// ordinary numeric headers are not misread as dates.
func resolveCashFlowLayout(headers []string) (cashFlowLayout, bool) {
	layout := cashFlowLayout{labelCol: -1, dateCols: map[int]string{}}
	res := header.Resolve(headers, header.CashFlowVocabulary)

	for col, h := range headers {
		iso := normalizer.ISODateSerialWindow(h, normalizer.SerialWindowLow, normalizer.SerialWindowHigh)
		if iso != "" {
			layout.dateCols[col] = iso
			layout.orderCols = append(layout.orderCols, col)
		}
	}
	sort.Ints(layout.orderCols)
	if len(layout.dateCols) == 0 {
		return layout, false
	}

	layout.labelCol = res.Column(header.FieldLabel)
	if layout.labelCol < 0 {
		for col := range headers {
			if _, isDate := layout.dateCols[col]; !isDate {
				layout.labelCol = col
				break
			}
		}
	}
	if layout.labelCol < 0 {
		layout.labelCol = 0
	}
	return layout, true
}

// parseCashFlowRows runs the wide-layout pass. Section markers and category
// headers mutate tracker state that applies to every subsequent row, so the
// pass is order-dependent and runs top-to-bottom exactly once.
func parseCashFlowRows(rows [][]string) (*CashFlowParseResult, error) {
	headerIdx := firstNonEmptyRow(rows)
	if headerIdx < 0 {
		return nil, structuralf("sheet has no rows")
	}

	layout, ok := resolveCashFlowLayout(rows[headerIdx])
	if !ok {
		return nil, structuralf("no dated value columns in header row %d", headerIdx+1)
	}

	result := &CashFlowParseResult{
		Records:  []CashFlowTransaction{},
		Errors:   []RowError{},
		Warnings: []RowWarning{},
		Summary: CashFlowSummary{
			BySection:  map[Section]decimal.Decimal{},
			ByCategory: map[string]decimal.Decimal{},
		},
	}
	tracker := sectionTracker{}
	dates := map[string]struct{}{}

	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if rowEmpty(row) {
			continue
		}
		rowNum := i + 1
		result.TotalRows++

		label := cellAt(row, layout.labelCol)
		payload := make([]string, 0, len(layout.orderCols))
		for _, col := range layout.orderCols {
			payload = append(payload, cellAt(row, col))
		}

		kind, section := classifyRow(label, payload, sectionKeywords)
		if kind != DataRow {
			tracker.apply(kind, label, section)
			continue
		}
		if tracker.section == SectionNone {
			result.Errors = append(result.Errors, RowError{
				Row:     rowNum,
				Message: "data row appears before any section marker (cash in / cash out / investments)",
			})
			continue
		}

		parseCashFlowCells(result, dates, row, rowNum, label, layout, tracker)
	}

	if result.TotalRows == 0 {
		return nil, structuralf("sheet has no data rows below the header")
	}
	result.Summary.DistinctDates = len(dates)
	return result, nil
}

// parseCashFlowCells folds one data row's dated cells into the result. Empty
// and zero cells are silently absent; text cells become warnings, never
// values.
func parseCashFlowCells(result *CashFlowParseResult, dates map[string]struct{}, row []string, rowNum int, label string, layout cashFlowLayout, tracker sectionTracker) {
	for _, col := range layout.orderCols {
		raw := cellAt(row, col)
		if raw == "" {
			continue
		}
		iso := layout.dateCols[col]

		v, ok := normalizer.Magnitude(raw)
		if !ok {
			colName, _ := excelize.ColumnNumberToName(col + 1)
			result.Warnings = append(result.Warnings, RowWarning{
				Row:      rowNum,
				Column:   colName,
				LineItem: label,
				Date:     iso,
				RawValue: raw,
				Message:  "expected a number, found text; cell skipped",
			})
			continue
		}
		if v.IsZero() {
			continue
		}

		tx := CashFlowTransaction{
			Row:       rowNum,
			LineItem:  label,
			Section:   tracker.section,
			Direction: tracker.section.Direction(),
			Category:  tracker.category,
			Date:      iso,
			Amount:    v,
		}
		result.Records = append(result.Records, tx)
		foldCashFlow(&result.Summary, dates, tx)
	}
}

func foldCashFlow(s *CashFlowSummary, dates map[string]struct{}, tx CashFlowTransaction) {
	s.RecordCount++
	if tx.Direction == "in" {
		s.TotalIn = s.TotalIn.Add(tx.Amount)
	} else {
		s.TotalOut = s.TotalOut.Add(tx.Amount)
	}
	s.BySection[tx.Section] = s.BySection[tx.Section].Add(tx.Amount)
	if tx.Category != "" {
		s.ByCategory[tx.Category] = s.ByCategory[tx.Category].Add(tx.Amount)
	}
	dates[tx.Date] = struct{}{}
	if s.EarliestDate == "" || tx.Date < s.EarliestDate {
		s.EarliestDate = tx.Date
	}
	if tx.Date > s.LatestDate {
		s.LatestDate = tx.Date
	}
}
