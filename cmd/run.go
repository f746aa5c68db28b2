package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
	"github.com/lehigh-university-libraries/storagecalc/internal/report"
	"github.com/lehigh-university-libraries/storagecalc/internal/shell"
	"github.com/spf13/cobra"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var reportPath string
	var ledgerPath string
	var human bool
	var levels bool

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Estimate images interactively or from a script",
		Long: `Reads estimation commands from standard input, or from a script file.

Commands, one per line (case-insensitive):
  <format> <width> <height>   estimate an image (format: jpg, jp2 or bmp)
  g <id> <id> ...             group and compress images
  q                           quit and print the total

The session can be exported when input ends.`,
		Example: `  # Interactive session
  storagecalc run

  # Process a script and keep a Parquet ledger of every event
  storagecalc run images.txt --ledger session.parquet

  # Human-readable sizes and a YAML summary
  storagecalc run images.txt --human --report summary.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open script: %w", err)
				}
				defer f.Close()
				in = f
			}

			session := estimator.NewSession(opts.cfg)
			sh := shell.New(session, cmd.OutOrStdout(), shell.Options{
				HumanReadable: human || opts.cfg.Output.HumanReadable,
				ShowLevels:    levels,
			})

			slog.Debug("Session started", "session_id", session.ID)
			runErr := sh.Run(cmd.Context(), in)

			// An interrupted session is still exported.
			sum := report.Summarize(session)
			if reportPath != "" {
				if err := report.Export(reportPath, sum); err != nil {
					return fmt.Errorf("failed to export report: %w", err)
				}
				slog.Info("Report written", "path", reportPath)
			}
			if ledgerPath != "" {
				if err := report.WriteLedger(ledgerPath, report.LedgerRows(sum)); err != nil {
					return fmt.Errorf("failed to export ledger: %w", err)
				}
				slog.Info("Ledger written", "path", ledgerPath, "images", len(sum.Images), "groups", len(sum.Groups))
			}

			if errors.Is(runErr, context.Canceled) {
				return nil
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Write a session summary (.yaml or .parquet)")
	cmd.Flags().StringVar(&ledgerPath, "ledger", "", "Write a Parquet ledger of every event")
	cmd.Flags().BoolVar(&human, "human", false, "Print sizes with digit grouping and units")
	cmd.Flags().BoolVar(&levels, "levels", false, "Print every pyramid level of each image")

	return cmd
}
