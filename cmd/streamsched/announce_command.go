package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"streamsched/internal/notifications"
)

func newAnnounceCommand(ctx *commandContext) *cobra.Command {
	var template int
	var timestamps bool
	var jsonOut bool
	var post bool

	cmd := &cobra.Command{
		Use:   "announce",
		Short: "Render a Discord announcement from the current slots",
		Long: "Render the selected Discord template with today's and tomorrow's slots.\n" +
			"Times become Discord timestamps unless --timestamps=false is given.\n" +
			"With --post the message is also sent to announce.webhook_url.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *bool
			if cmd.Flags().Changed("timestamps") {
				override = &timestamps
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			notifier := notifications.NewService(cfg)
			if post && !notifier.Enabled() {
				return errors.New("announce.webhook_url is not set; cannot post")
			}
			return ctx.withBackend(cmd, func(b backend) error {
				msg, err := b.Announce(cmd.Context(), template, override)
				if err != nil {
					return fmt.Errorf("render announcement: %w", err)
				}
				if jsonOut {
					if err := writeJSON(cmd, msg); err != nil {
						return err
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), msg.Text())
				}
				if !post {
					return nil
				}
				if err := notifier.PostAnnouncement(cmd.Context(), msg.Title, msg.Body); err != nil {
					return fmt.Errorf("post announcement: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Posted announcement to Discord")
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&template, "template", "t", -1, "Template index (defaults to the document's current template)")
	cmd.Flags().BoolVar(&timestamps, "timestamps", true, "Render times as Discord timestamps")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&post, "post", false, "Send the announcement to the configured Discord webhook")
	return cmd
}
