package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"streamsched/internal/config"
	"streamsched/internal/daemonrun"
	"streamsched/internal/ipc"
	"streamsched/internal/preflight"
)

type statusReport struct {
	Daemon        preflight.Result   `json:"daemon"`
	PID           int                `json:"pid,omitempty"`
	API           string             `json:"api"`
	TokenRequired bool               `json:"tokenRequired"`
	Editor        string             `json:"editor"`
	Checks        []preflight.Result `json:"checks"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and storage status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			report := buildStatusReport(cmd, ctx, cfg)
			if jsonOut {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderStatusReport(report, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func buildStatusReport(cmd *cobra.Command, ctx *commandContext, cfg *config.Config) statusReport {
	base := ipc.BaseURL(ctx.apiAddress(cfg))
	daemon, _ := preflight.CheckService(cmd.Context(), base, cfg.Paths.APIToken)
	daemon.Name = "Daemon"
	report := statusReport{
		Daemon:        daemon,
		API:           base,
		TokenRequired: cfg.Paths.APIToken != "",
		Editor:        cfg.Editor.Variant,
		Checks:        preflight.RunAll(cmd.Context(), cfg),
	}
	if pid, ok := daemonrun.ReadPID(cfg.Paths.DataDir); ok {
		report.PID = pid
	}
	return report
}

func renderStatusReport(report statusReport, colorize bool) []string {
	lines := renderSectionHeader("Daemon", colorize)
	switch {
	case report.Daemon.Passed:
		detail := report.Daemon.Detail
		if report.PID > 0 {
			detail += " pid " + strconv.Itoa(report.PID)
		}
		lines = append(lines, renderStatusLine("Daemon", statusOK, detail, colorize))
	case report.PID > 0:
		lines = append(lines, renderStatusLine("Daemon", statusWarn, fmt.Sprintf("pid %d recorded but API unreachable: %s", report.PID, report.Daemon.Detail), colorize))
	default:
		lines = append(lines, renderStatusLine("Daemon", statusInfo, "Not running", colorize))
	}
	lines = append(lines,
		renderStatusLine("API", statusInfo, report.API, colorize),
		renderStatusLine("Token required", statusInfo, yesNo(report.TokenRequired), colorize),
		renderStatusLine("Editor", statusInfo, report.Editor, colorize),
		"",
	)

	lines = append(lines, renderSectionHeader("Storage", colorize)...)
	for _, check := range report.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}
	return lines
}
