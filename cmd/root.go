package cmd

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/storagecalc/internal/config"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags and the configuration they
// resolve to before any subcommand runs.
type rootOptions struct {
	verbose    bool
	configPath string
	cfg        *config.Config
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "storagecalc",
		Short: "Storage footprint estimator for JPEG, JPEG 2000 and BMP images",
		Long: `Storagecalc estimates how many bytes a collection of images will occupy.

Baseline JPEG and BMP images are stored with a resolution pyramid, JPEG 2000
images are not. Images can be grouped and compressed together, which applies
a logarithmic discount to their combined size.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if opts.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			slog.Debug("Configuration loaded",
				"path", opts.configPath,
				"min_size", cfg.Pyramid.MinSize,
				"compression_factor", cfg.Group.CompressionFactor)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML configuration file")

	// Add subcommands
	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newEstimateCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newReportCmd())

	return cmd
}
