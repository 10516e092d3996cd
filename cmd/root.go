package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pensions-cli/internal/config"
)

var (
	cfg *config.Config

	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "pensions-cli",
	Short: "Consolidate yearly pension scheme workbooks",
	Long:  "Reads a workbook with one sheet per year of pension scheme returns, merges the years, derives per-member assets, classifies each scheme by size and value, and flags schemes that stopped reporting.",

	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		applyLogFlags(cmd, &c.Log)
		if err := config.InitLogger(c.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		cfg = c
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = zap.L().Sync()
	},
}

// applyLogFlags lets --log-level and --log-format override config when set.
func applyLogFlags(cmd *cobra.Command, log *config.LogConfig) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		log.Level = logLevel
	}
	if flags.Changed("log-format") {
		log.Format = logFormat
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides log.level)")
	pf.StringVar(&logFormat, "log-format", "", "log encoding: json or console (overrides log.format)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("pensions-cli failed", zap.Error(err))
		os.Exit(1)
	}
}
