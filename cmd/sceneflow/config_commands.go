package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sceneflow/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sceneflow configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write an annotated sample config to the default location",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return err
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample config to %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the resolved config file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ctx.configPath)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(ctx.configPath); err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No config file at %s; showing defaults.\n", ctx.configPath)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "paths.data_dir = %q\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "paths.log_dir = %q\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "propagation.batch_limit = %d\n", cfg.Propagation.BatchLimit)
			fmt.Fprintf(out, "propagation.poll_interval = %d\n", cfg.Propagation.PollInterval)
			fmt.Fprintf(out, "propagation.claim_lease_seconds = %d\n", cfg.Propagation.ClaimLeaseSeconds)
			fmt.Fprintf(out, "propagation.default_priority = %d\n", cfg.Propagation.DefaultPriority)
			fmt.Fprintf(out, "logging.format = %q\n", cfg.Logging.Format)
			fmt.Fprintf(out, "logging.level = %q\n", cfg.Logging.Level)
			return nil
		},
	})

	return cmd
}
