package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/finboard/command-center/internal/domain/ingest/guard"
	"github.com/finboard/command-center/pkg/config"
)

func billWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Bills"))

	rows := [][]any{
		{"Title", "Amount", "Due Date", "Category"},
		{"Rent", "$1,850.00", "6/1/2025", "Housing"},
		{"Internet", 79.99, "6/1/2025", "Utilities"},
		{"Phone", "sixty", "6/3/2025", "Utilities"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Bills", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), nil)
}

func TestImportBills(t *testing.T) {
	svc := newTestService(t)

	report, err := svc.Import(context.Background(), ImportRequest{
		FileName: "bills.xlsx",
		Kind:     guard.KindBill,
		Data:     billWorkbook(t),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.JobID)
	assert.Equal(t, guard.KindBill, report.Kind)
	assert.Equal(t, "bills.xlsx", report.FileName)
	assert.Equal(t, 3, report.RowsTotal)
	assert.Equal(t, 2, report.RowsImported)
	assert.Equal(t, 1, report.RowsFailed)
	assert.Equal(t, "$1,929.99", report.TotalDisplay)
	require.NotNil(t, report.Bill)
	assert.Nil(t, report.Budget)
	assert.Nil(t, report.CashFlow)
}

func TestImportBillsCSV(t *testing.T) {
	svc := newTestService(t)
	data := []byte("Title,Amount,Due Date\nRent,1850,6/1/2025\n")

	report, err := svc.Import(context.Background(), ImportRequest{
		FileName: "export.csv",
		Kind:     guard.KindBill,
		Data:     data,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.RowsImported)
	assert.Len(t, report.Fingerprint, 64, "csv imports carry a header fingerprint")
}

func TestImportRejections(t *testing.T) {
	svc := newTestService(t)

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := svc.Import(context.Background(), ImportRequest{
			FileName: "bills.pdf",
			Kind:     guard.KindBill,
			Data:     []byte("x"),
		})
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := svc.Import(context.Background(), ImportRequest{
			FileName: "bills.xlsx",
			Kind:     guard.KindBill,
		})
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := svc.Import(context.Background(), ImportRequest{
			FileName: "bills.xlsx",
			Kind:     guard.Kind("ledger"),
			Data:     []byte("x"),
		})
		assert.ErrorIs(t, err, ErrRejected)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.Import(ctx, ImportRequest{
			FileName: "bills.xlsx",
			Kind:     guard.KindBill,
			Data:     billWorkbook(t),
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := &config.Config{
		Ingest: config.IngestConfig{
			MaxBillBudgetMB: 1,
		},
	}
	svc := New(nil, cfg)

	big := make([]byte, (1<<20)+1)
	_, err := svc.Import(context.Background(), ImportRequest{
		FileName: "bills.xlsx",
		Kind:     guard.KindBill,
		Data:     big,
	})
	assert.ErrorIs(t, err, ErrRejected)
}

func TestKindFromString(t *testing.T) {
	tests := []struct {
		input    string
		expected guard.Kind
		ok       bool
	}{
		{"bill", guard.KindBill, true},
		{"Bills", guard.KindBill, true},
		{"budget", guard.KindBudget, true},
		{"cashflow", guard.KindCashFlow, true},
		{"cash-flow", guard.KindCashFlow, true},
		{"CASH_FLOW", guard.KindCashFlow, true},
		{"ledger", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		k, err := KindFromString(tt.input)
		if tt.ok {
			require.NoError(t, err)
			assert.Equal(t, tt.expected, k)
		} else {
			assert.Error(t, err)
		}
	}
}
