package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"opsflow/internal/common/config"
	"opsflow/internal/common/logger"
)

// Build-time variables set via ldflags
var (
	Version   = "v0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const programName = "opsflow"

type rootOptions struct {
	ConfigFile string
	Verbose    bool
}

var rootOpts = &rootOptions{}

var rootCmd = &cobra.Command{
	Use:   programName,
	Short: "OpsFlow operations dashboard and AI gateway",
	Long: `OpsFlow operations dashboard and AI gateway

Runs the dashboard API, the AI proxy that holds the model credential, or a single
capability from the command line. Every capability falls back to the local
standard engine when the AI path is unavailable.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootOpts.ConfigFile, "config", "c", "", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(), newProxyCmd(), newInvoiceCmd(), newMarketingCmd(), newInventoryCmd(), newVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if rootOpts.ConfigFile != "" {
		return config.LoadFromFile(rootOpts.ConfigFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) logger.Logger {
	return newLoggerTo(cfg, cfg.Logging.Output)
}

// newCLILogger keeps stdout free for command output.
func newCLILogger(cfg *config.Config) logger.Logger {
	output := cfg.Logging.Output
	if output == "" || output == "stdout" {
		output = "stderr"
	}
	return newLoggerTo(cfg, output)
}

func newLoggerTo(cfg *config.Config, output string) logger.Logger {
	level := cfg.Logging.Level
	if rootOpts.Verbose {
		level = "debug"
	}
	return logger.NewZapAdapter(logger.NewWithOptions(logger.Options{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: output,
	}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n", programName, Version, GitCommit, BuildTime)
		},
	}
}
