package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		payload  []string
		sections map[string]Section
		kind     RowKind
		section  Section
	}{
		{
			name:    "blank label skipped",
			label:   "   ",
			payload: []string{"100"},
			kind:    SkippedRow,
		},
		{
			name:     "section marker exact match",
			label:    "Cash In",
			payload:  nil,
			sections: sectionKeywords,
			kind:     SectionMarkerRow,
			section:  SectionCashIn,
		},
		{
			name:     "marker aliases resolve",
			label:    "Money Out",
			payload:  nil,
			sections: sectionKeywords,
			kind:     SectionMarkerRow,
			section:  SectionCashOut,
		},
		{
			name:     "marker match is not substring",
			label:    "Cash In Hand",
			payload:  []string{"250"},
			sections: sectionKeywords,
			kind:     DataRow,
		},
		{
			name:    "computed total skipped",
			label:   "Total",
			payload: []string{"9100"},
			kind:    SkippedRow,
		},
		{
			name:    "computed net prefix skipped",
			label:   "Net Cash Flow",
			payload: []string{"3500"},
			kind:    SkippedRow,
		},
		{
			name:    "computed balance skipped",
			label:   "Ending Balance",
			payload: []string{"12000"},
			kind:    SkippedRow,
		},
		{
			name:    "label without numbers is a category header",
			label:   "Utilities",
			payload: []string{"", "", ""},
			kind:    CategoryHeaderRow,
		},
		{
			name:    "all-zero payload is a category header",
			label:   "Utilities",
			payload: []string{"0", "0"},
			kind:    CategoryHeaderRow,
		},
		{
			name:    "label with numbers is data",
			label:   "Electric",
			payload: []string{"", "142.10"},
			kind:    DataRow,
		},
		{
			name:     "section words are plain data without a section map",
			label:    "Income",
			payload:  []string{"5000"},
			sections: nil,
			kind:     DataRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, section := classifyRow(tt.label, tt.payload, tt.sections)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.section, section)
		})
	}
}

func TestSectionDirection(t *testing.T) {
	assert.Equal(t, "in", SectionCashIn.Direction())
	assert.Equal(t, "out", SectionCashOut.Direction())
	assert.Equal(t, "out", SectionInvestments.Direction())
}

func TestSectionTracker(t *testing.T) {
	tracker := sectionTracker{}

	tracker.apply(SectionMarkerRow, "Cash Out", SectionCashOut)
	assert.Equal(t, SectionCashOut, tracker.section)

	tracker.apply(CategoryHeaderRow, "  Payroll  ", SectionNone)
	assert.Equal(t, "Payroll", tracker.category)

	tracker.apply(DataRow, "Salaries", SectionNone)
	assert.Equal(t, SectionCashOut, tracker.section, "data rows leave state untouched")
	assert.Equal(t, "Payroll", tracker.category)

	tracker.apply(SectionMarkerRow, "Investments", SectionInvestments)
	assert.Equal(t, SectionInvestments, tracker.section)
	assert.Empty(t, tracker.category, "a new section clears the inherited category")
}
