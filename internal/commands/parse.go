package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/finboard/command-center/internal/domain/ingest/service"
	"github.com/finboard/command-center/pkg/config"
)

func newParseCommand() *cobra.Command {
	var kind string
	var csvOut string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a bill, budget, or cash-flow spreadsheet and print a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], kind, csvOut)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "import kind: bill, budget, or cashflow (required)")
	_ = cmd.MarkFlagRequired("kind")
	cmd.Flags().StringVar(&csvOut, "csv-out", "", "write normalized bill records to a CSV file")

	return cmd
}

func runParse(cmd *cobra.Command, path, kind, csvOut string) error {
	k, err := service.KindFromString(kind)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	svc := service.New(logger, cfg)

	report, err := svc.Import(cmd.Context(), service.ImportRequest{
		FileName: filepath.Base(path),
		Kind:     k,
		Data:     data,
	})
	if err != nil {
		return err
	}

	if csvOut != "" {
		if report.Bill == nil {
			return fmt.Errorf("--csv-out only applies to bill imports")
		}
		f, err := os.Create(csvOut)
		if err != nil {
			return fmt.Errorf("creating csv output: %w", err)
		}
		defer f.Close()
		if err := gocsv.Marshal(report.Bill.Records, f); err != nil {
			return fmt.Errorf("writing csv output: %w", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
