package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/capturesort/cmd/capturesort/lib"
	"github.com/user/capturesort/internal/config"
)

type rootOptions struct {
	configPath string
	inDir      string
	outDir     string
	workers    int
	dryRun     bool
	verify     bool
	reportPath string
	logLevel   string
	logFormat  string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:           "capturesort --inDir <dir> --outDir <dir>",
		Short:         "Organize camera-trap images into dated folders by capture date",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &opts)
			if err != nil {
				return err
			}
			_, err = capturesort.Run(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.inDir, "inDir", "", "Root directory containing the partition folders (required)")
	flags.StringVar(&opts.outDir, "outDir", "", "Destination root for the organized copies (required)")
	flags.IntVar(&opts.workers, "workers", config.MaxWorkers, fmt.Sprintf("Number of copy workers, clamped to [%d,%d]", config.MinWorkers, config.MaxWorkers))
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Log every decision without creating directories or files")
	flags.BoolVar(&opts.verify, "verify", false, "Compare SHA-256 digests of each copy against its source")
	flags.StringVar(&opts.reportPath, "report", "", "Write a plain-text run report to this file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newConfigCommand(&opts))

	return rootCmd
}

// loadConfig reads the config file and layers explicitly set flags on top.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("inDir") {
		cfg.Organize.InDir = opts.inDir
	}
	if flags.Changed("outDir") {
		cfg.Organize.OutDir = opts.outDir
	}
	if flags.Changed("workers") {
		cfg.Organize.Workers = opts.workers
	}
	if flags.Changed("dry-run") {
		cfg.Organize.DryRun = opts.dryRun
	}
	if flags.Changed("verify") {
		cfg.Organize.Verify = opts.verify
	}
	if flags.Changed("report") {
		cfg.Organize.ReportPath = opts.reportPath
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	if err := cfg.RequireDirectories(); err != nil {
		return nil, err
	}
	return cfg, nil
}
