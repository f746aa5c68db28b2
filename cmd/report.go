package cmd

import (
	"github.com/lehigh-university-libraries/storagecalc/internal/report"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var format string
	var human bool

	cmd := &cobra.Command{
		Use:   "report <summary.yaml|ledger.parquet>",
		Short: "Render an exported session",
		Long: `Loads a session exported by "storagecalc run" and prints it.

Parquet ledgers are replayed row by row, so the total is recomputed from the
recorded events.`,
		Example: `  storagecalc report session.parquet
  storagecalc report summary.yaml --format json
  storagecalc report session.parquet --format csv > session.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := report.Load(args[0])
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), sum, format, human)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, csv)")
	cmd.Flags().BoolVar(&human, "human", false, "Print sizes with digit grouping and units")

	return cmd
}
