package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/finboard/command-center/internal/domain/ingest/cost"
	"github.com/finboard/command-center/internal/domain/ingest/header"
	"github.com/finboard/command-center/internal/domain/ingest/normalizer"
)

// BudgetLine is one line item of an annual budget: a label, the category it
// sits under, and twelve monthly amounts in integer cents.
type BudgetLine struct {
	Row      int    `json:"row"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	// MonthlyCents is indexed January..December; months without a column or
	// with an empty cell are zero (no charge that month).
	MonthlyCents [12]int64           `json:"monthly_cents"`
	AnnualCents  int64               `json:"annual_cents"`
	Cost         cost.Classification `json:"cost"`
	Metadata     map[string]string   `json:"metadata,omitempty"`
}

// BudgetSummary aggregates totals across the parsed lines.
type BudgetSummary struct {
	AnnualTotalCents int64            `json:"annual_total_cents"`
	ByCategory       map[string]int64 `json:"by_category"`
	FixedCount       int              `json:"fixed_count"`
	VariableCount    int              `json:"variable_count"`
	RecordCount      int              `json:"record_count"`
}

// BudgetParseResult is the complete outcome of one budget parse call.
type BudgetParseResult struct {
	Records   []BudgetLine  `json:"records"`
	Errors    []RowError    `json:"errors"`
	TotalRows int           `json:"total_rows"`
	Summary   BudgetSummary `json:"summary"`
}

// ParseBudget parses a budget workbook, selecting the sheet by name
// heuristic.
func ParseBudget(data []byte) (*BudgetParseResult, error) {
	return ParseBudgetWithHint(data, DefaultBudgetSheetHint)
}

// ParseBudgetWithHint parses with a custom sheet-name hint.
func ParseBudgetWithHint(data []byte, hint string) (*BudgetParseResult, error) {
	return parseBudgetWorkbook(data, "", hint)
}

// ParseBudgetSheet parses a named sheet; a missing sheet is a structural
// failure.
func ParseBudgetSheet(data []byte, sheet string) (*BudgetParseResult, error) {
	return parseBudgetWorkbook(data, sheet, "")
}

func parseBudgetWorkbook(data []byte, sheet, hint string) (*BudgetParseResult, error) {
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
	return parseBudgetRows(rows)
}

// budgetLayout is the per-sheet column map built once from the header row.
type budgetLayout struct {
	labelCol   int
	monthCols  map[int]time.Month // column -> month
	orderCols  []int              // month columns in sheet order
	extensions map[int]string
}

// resolveBudgetLayout finds the header row: the first row naming at least
// one calendar month. The label column resolves by alias, falling back to
// the first non-month column.
func resolveBudgetLayout(rows [][]string) (budgetLayout, int, bool) {
	for idx, row := range rows {
		if rowEmpty(row) {
			continue
		}
		monthCols := map[int]time.Month{}
		for col, h := range row {
			if m, ok := header.MonthColumn(h); ok {
				monthCols[col] = m
			}
		}
		if len(monthCols) == 0 {
			continue
		}

		res := header.Resolve(row, header.BudgetVocabulary)
		labelCol := res.Column(header.FieldLabel)
		if labelCol < 0 {
			for col := range row {
				if _, isMonth := monthCols[col]; !isMonth {
					labelCol = col
					break
				}
			}
		}
		if labelCol < 0 {
			labelCol = 0
		}

		layout := budgetLayout{
			labelCol:   labelCol,
			monthCols:  monthCols,
			extensions: map[int]string{},
		}
		for col := range monthCols {
			layout.orderCols = append(layout.orderCols, col)
		}
		sort.Ints(layout.orderCols)
		for col, name := range res.Extensions {
			if _, isMonth := monthCols[col]; !isMonth && col != labelCol {
				layout.extensions[col] = name
			}
		}
		return layout, idx, true
	}
	return budgetLayout{}, -1, false
}

// parseBudgetRows runs the wide-layout pass: one line per data row, category
// inherited from the most recent header-like row.
func parseBudgetRows(rows [][]string) (*BudgetParseResult, error) {
	layout, headerIdx, ok := resolveBudgetLayout(rows)
	if !ok {
		return nil, structuralf("no month columns found in any header row")
	}

	result := &BudgetParseResult{
		Records: []BudgetLine{},
		Errors:  []RowError{},
		Summary: BudgetSummary{ByCategory: map[string]int64{}},
	}
	tracker := sectionTracker{}

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

		kind, _ := classifyRow(label, payload, nil)
		if kind != DataRow {
			tracker.apply(kind, label, SectionNone)
			continue
		}

		line, violations := buildBudgetLine(row, rowNum, label, tracker.category, layout)
		if len(violations) > 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: strings.Join(violations, "; ")})
			continue
		}

		result.Records = append(result.Records, line)
		foldBudgetLine(&result.Summary, line)
	}

	if result.TotalRows == 0 {
		return nil, structuralf("sheet has no data rows below the header")
	}
	return result, nil
}

func buildBudgetLine(row []string, rowNum int, label, category string, layout budgetLayout) (BudgetLine, []string) {
	var violations []string
	var monthly [12]int64

	for _, col := range layout.orderCols {
		raw := cellAt(row, col)
		if raw == "" {
			continue
		}
		month := layout.monthCols[col]
		if c, ok := normalizer.Cents(raw); ok {
			monthly[month-1] = c
		} else {
			violations = append(violations, fmt.Sprintf("%s value %q is not a valid amount", month, raw))
		}
	}

	var annual int64
	for _, c := range monthly {
		annual += c
	}

	var meta map[string]string
	for col, name := range layout.extensions {
		if v := cellAt(row, col); v != "" {
			if meta == nil {
				meta = map[string]string{}
			}
			meta[name] = v
		}
	}

	return BudgetLine{
		Row:          rowNum,
		Name:         label,
		Category:     category,
		MonthlyCents: monthly,
		AnnualCents:  annual,
		Cost:         cost.ClassifyCents(monthly[:], cost.MinSamplesAnnual),
		Metadata:     meta,
	}, violations
}

func foldBudgetLine(s *BudgetSummary, line BudgetLine) {
	s.AnnualTotalCents += line.AnnualCents
	s.RecordCount++
	if line.Category != "" {
		s.ByCategory[line.Category] += line.AnnualCents
	}
	if line.Cost == cost.Fixed {
		s.FixedCount++
	} else {
		s.VariableCount++
	}
}
