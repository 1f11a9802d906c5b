package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/capturesort/internal/config"
)

func newConfigCommand(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}

	var output string
	sampleCmd := &cobra.Command{
		Use:   "sample",
		Short: "Print or write a sample configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if output == "" {
				fmt.Fprint(out, config.SampleConfig())
				return nil
			}
			target, err := config.ExpandPath(output)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			return nil
		},
	}
	sampleCmd.Flags().StringVarP(&output, "output", "o", "", "Write the sample to this file instead of stdout")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration file values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Config path: %s\n", path)
			} else {
				fmt.Fprintln(out, "No config file found; defaults in effect")
			}
			fmt.Fprintf(out, "in_dir = %q\nout_dir = %q\nworkers = %d\ndry_run = %t\nverify = %t\n",
				cfg.Organize.InDir, cfg.Organize.OutDir, cfg.Organize.Workers, cfg.Organize.DryRun, cfg.Organize.Verify)
			fmt.Fprintf(out, "partition_pattern = %q\nextensions = %q\n", cfg.Discovery.PartitionPattern, cfg.Discovery.Extensions)
			fmt.Fprintf(out, "log_level = %q\nlog_format = %q\n", cfg.Logging.Level, cfg.Logging.Format)
			return nil
		},
	}

	configCmd.AddCommand(sampleCmd, showCmd)
	return configCmd
}
