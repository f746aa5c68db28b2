package cmd

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
	"github.com/spf13/cobra"
)

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	var human bool

	cmd := &cobra.Command{
		Use:   "estimate <format> <width> <height>",
		Short: "Estimate the size of a single image",
		Example: `  storagecalc estimate jpg 1000 1000
  storagecalc estimate jp2 640 480 --human`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := footprint.ParseFormat(args[0])
			if err != nil {
				return err
			}
			width, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid width %q: %w", args[1], err)
			}
			height, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid height %q: %w", args[2], err)
			}

			session := estimator.NewSession(opts.cfg)
			img, err := session.Create(format, width, height)
			if err != nil {
				return err
			}

			size := func(n uint64) string {
				if human || opts.cfg.Output.HumanReadable {
					return fmt.Sprintf("%s (%s)", humanize.Comma(int64(n)), humanize.Bytes(n))
				}
				return strconv.FormatUint(n, 10)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "[%s] %dx%d\n", img.Format(), width, height)
			fmt.Fprintf(out, "  base:    %s\n", size(img.Codec().BaseSize(width, height)))
			for _, l := range session.Levels(img) {
				fmt.Fprintf(out, "  level:   %dx%d %s\n", l.Width, l.Height, size(l.Size))
			}
			fmt.Fprintf(out, "  total:   %s\n", size(img.Size()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&human, "human", false, "Print sizes with digit grouping and units")

	return cmd
}
