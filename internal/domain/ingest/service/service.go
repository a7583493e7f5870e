// Package service orchestrates spreadsheet ingestion: admission checks,
// parser dispatch, and report assembly.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/finboard/command-center/internal/domain/ingest/guard"
	"github.com/finboard/command-center/internal/domain/ingest/parser"
	"github.com/finboard/command-center/internal/domain/ingest/sniffer"
	"github.com/finboard/command-center/pkg/config"
	"github.com/finboard/command-center/pkg/money"
)

// ErrRejected wraps an admission failure from the guard.
var ErrRejected = errors.New("file rejected")

// Service wires the guard and parsers behind a single import entry point.
type Service struct {
	logger       *slog.Logger
	limits       guard.Limits
	cashFlowHint string
	budgetHint   string
}

// New creates an ingestion service. A nil logger falls back to slog.Default.
func New(logger *slog.Logger, cfg *config.Config) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	limits := guard.DefaultLimits()
	cashFlowHint := parser.DefaultCashFlowSheetHint
	budgetHint := parser.DefaultBudgetSheetHint
	if cfg != nil {
		if cfg.Ingest.MaxBillBudgetMB > 0 {
			limits.BillBudgetMaxBytes = int64(cfg.Ingest.MaxBillBudgetMB) << 20
		}
		if cfg.Ingest.MaxCashFlowMB > 0 {
			limits.CashFlowMaxBytes = int64(cfg.Ingest.MaxCashFlowMB) << 20
		}
		if cfg.Ingest.CashFlowSheetHint != "" {
			cashFlowHint = cfg.Ingest.CashFlowSheetHint
		}
		if cfg.Ingest.BudgetSheetHint != "" {
			budgetHint = cfg.Ingest.BudgetSheetHint
		}
	}
	return &Service{
		logger:       logger,
		limits:       limits,
		cashFlowHint: cashFlowHint,
		budgetHint:   budgetHint,
	}
}

// ImportRequest describes one uploaded spreadsheet.
type ImportRequest struct {
	FileName string
	Kind     guard.Kind
	Data     []byte
}

// Report summarizes one import run. Exactly one of Bill, Budget, or CashFlow
// is set, matching the requested kind.
type Report struct {
	JobID        uuid.UUID  `json:"job_id"`
	Kind         guard.Kind `json:"kind"`
	FileName     string     `json:"file_name"`
	Fingerprint  string     `json:"fingerprint,omitempty"`
	RowsTotal    int        `json:"rows_total"`
	RowsImported int        `json:"rows_imported"`
	RowsFailed   int        `json:"rows_failed"`
	WarningCount int        `json:"warning_count"`
	TotalDisplay string     `json:"total_display"`

	Bill     *parser.BillParseResult     `json:"bill,omitempty"`
	Budget   *parser.BudgetParseResult   `json:"budget,omitempty"`
	CashFlow *parser.CashFlowParseResult `json:"cash_flow,omitempty"`
}

// Import validates, parses, and summarizes one uploaded file. Structural
// failures come back as errors; row-level failures live inside the report.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	verdict := guard.ValidateWithLimits(req.FileName, int64(len(req.Data)), req.Kind, s.limits)
	if !verdict.Valid {
		s.logger.Warn("upload rejected",
			"file", req.FileName, "kind", req.Kind, "reason", verdict.Error)
		return nil, fmt.Errorf("%w: %s", ErrRejected, verdict.Error)
	}

	report := &Report{
		JobID:    uuid.New(),
		Kind:     req.Kind,
		FileName: req.FileName,
	}

	var err error
	switch req.Kind {
	case guard.KindBill:
		err = s.importBills(req, report)
	case guard.KindBudget:
		err = s.importBudget(req, report)
	case guard.KindCashFlow:
		err = s.importCashFlow(req, report)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrRejected, req.Kind)
	}
	if err != nil {
		s.logger.Error("import failed",
			"jobID", report.JobID, "file", req.FileName, "kind", req.Kind, "error", err)
		return nil, err
	}

	s.logger.Info("import finished",
		"jobID", report.JobID,
		"file", req.FileName,
		"kind", req.Kind,
		"rowsTotal", report.RowsTotal,
		"rowsImported", report.RowsImported,
		"rowsFailed", report.RowsFailed,
		"warnings", report.WarningCount)
	return report, nil
}

func (s *Service) importBills(req ImportRequest, report *Report) error {
	var result *parser.BillParseResult
	var err error
	if strings.EqualFold(filepath.Ext(req.FileName), ".csv") {
		if cfg, sniffErr := sniffer.DetectConfig(req.Data); sniffErr == nil {
			report.Fingerprint = cfg.Fingerprint
		}
		result, err = parser.ParseBillsCSV(req.Data)
	} else {
		result, err = parser.ParseBills(req.Data)
	}
	if err != nil {
		return err
	}
	report.Bill = result
	report.RowsTotal = result.TotalRows
	report.RowsImported = len(result.Records)
	report.RowsFailed = len(result.Errors)
	report.TotalDisplay = money.New(result.Summary.TotalCents, money.USD).Display()
	return nil
}

func (s *Service) importBudget(req ImportRequest, report *Report) error {
	result, err := parser.ParseBudgetWithHint(req.Data, s.budgetHint)
	if err != nil {
		return err
	}
	report.Budget = result
	report.RowsTotal = result.TotalRows
	report.RowsImported = len(result.Records)
	report.RowsFailed = len(result.Errors)
	report.TotalDisplay = money.New(result.Summary.AnnualTotalCents, money.USD).Display()
	return nil
}

func (s *Service) importCashFlow(req ImportRequest, report *Report) error {
	result, err := parser.ParseCashFlowWithHint(req.Data, s.cashFlowHint)
	if err != nil {
		return err
	}
	report.CashFlow = result
	report.RowsTotal = result.TotalRows
	report.RowsImported = len(result.Records)
	report.RowsFailed = len(result.Errors)
	report.WarningCount = len(result.Warnings)
	net := result.Summary.TotalIn.Sub(result.Summary.TotalOut)
	report.TotalDisplay = money.NewFromDecimal(net, money.USD).Display()
	return nil
}

// KindFromString maps a user-facing kind flag to a guard kind.
func KindFromString(v string) (guard.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "bill", "bills":
		return guard.KindBill, nil
	case "budget":
		return guard.KindBudget, nil
	case "cashflow", "cash-flow", "cash_flow":
		return guard.KindCashFlow, nil
	}
	return "", fmt.Errorf("unknown import kind %q", v)
}
