package main

import (
	"github.com/spf13/cobra"

	"streamsched/internal/tui"
	"streamsched/internal/view"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var freeText bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit stream slots interactively",
		Long: "Open the slot editor. Every keystroke is saved; with a daemon running\n" +
			"the overlay updates as you type.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			variant := view.ParseVariant(cfg.Editor.Variant)
			if freeText {
				variant = view.VariantFreeText
			}
			return ctx.withBackend(cmd, func(b backend) error {
				return tui.Run(cmd.Context(), b, tui.Options{
					Variant: variant,
					Logger:  ctx.fileLogger(cfg),
				})
			})
		},
	}
	cmd.Flags().BoolVar(&freeText, "free-text", false, "Edit slot times as text instead of with the clock picker")
	return cmd
}
