package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"streamsched/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var follow bool
	var lines int
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Display streamsched logs",
		Long:  "Print the end of the log file. --component and --collection narrow the output.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()
			out := cmd.OutOrStdout()

			opts := logs.TailOptions{Offset: -1, Limit: lines, Filter: filter}
			if lines <= 0 {
				opts.Offset = 0
				opts.Limit = 0
			}
			printed := false
			for {
				result, err := logs.Tail(cmd.Context(), path, opts)
				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return fmt.Errorf("tail logs: %w", err)
				}
				for _, line := range result.Lines {
					fmt.Fprintln(out, line)
					printed = true
				}
				if !follow {
					if !printed {
						fmt.Fprintf(out, "No log entries available in %s\n", path)
					}
					return nil
				}
				if cmd.Context().Err() != nil {
					return nil
				}
				opts.Offset = result.Offset
				opts.Limit = 0
				opts.Follow = true
				opts.Wait = time.Second
			}
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 10, "Number of lines to show (0 for all)")
	cmd.Flags().StringVar(&filter.Component, "component", "", "Only show lines from this component")
	cmd.Flags().StringVar(&filter.Collection, "collection", "", "Only show lines about this collection (e.g. todayNormal)")
	return cmd
}
