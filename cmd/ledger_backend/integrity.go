package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/internal/platform/config"
)

var (
	errLedgerUnbalanced   = errors.New("ledger integrity check failed")
	errIntegrityNeedsData = errors.New("check-integrity needs STORAGE_DRIVER=postgres: the memory driver starts empty in every process")
)

func newCheckIntegrityCommand() *cobra.Command {
	var entityID string
	var asOfStr string
	var approvedOnly bool

	cmd := &cobra.Command{
		Use:   "check-integrity",
		Short: "Verify the balance sheet and trial balance of an entity",
		Long: "Runs the balance sheet and trial balance as of a date and exits non-zero " +
			"when assets differ from liabilities plus equity or debits differ from credits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asOf := domain.TruncateToDay(time.Now())
			if asOfStr != "" {
				parsed, err := dto.ParseDate("as-of", asOfStr)
				if err != nil {
					return err
				}
				asOf = parsed
			}

			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.StorageDriver == config.StorageMemory {
				return errIntegrityNeedsData
			}
			ctx := cmd.Context()
			repos, closeRepos, err := openRepositories(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeRepos()

			svc := services.NewServiceContainer(repos)
			opts := domain.ReportOptions{ApprovedOnly: approvedOnly}
			bs, err := svc.Reporting.BalanceSheet(ctx, entityID, asOf, opts)
			if err != nil {
				return err
			}
			tb, err := svc.Reporting.TrialBalance(ctx, entityID, asOf, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "entity %s as of %s\n", entityID, asOf.Format(dto.DateLayout))
			fmt.Fprintf(out, "  assets %s, liabilities %s, equity %s, difference %s\n",
				bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity, bs.Difference)
			fmt.Fprintf(out, "  trial balance debit %s, credit %s\n", tb.TotalDebit, tb.TotalCredit)

			if !bs.IsBalanced || !tb.IsBalanced {
				fmt.Fprintln(out, "UNBALANCED")
				return errLedgerUnbalanced
			}
			fmt.Fprintln(out, "OK")
			return nil
		},
	}

	cmd.Flags().StringVar(&entityID, "entity", "", "entity ID (required)")
	_ = cmd.MarkFlagRequired("entity")
	cmd.Flags().StringVar(&asOfStr, "as-of", "", "report date, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&approvedOnly, "approved-only", false, "only count approved entries")

	return cmd
}
