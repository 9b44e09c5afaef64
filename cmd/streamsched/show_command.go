package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"streamsched/internal/announce"
	"streamsched/internal/api"
	"streamsched/internal/schedule"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show [collection]",
		Short: "Print the stream slots",
		Long:  "Print every collection, or only one (today-normal, today-work, tomorrow-normal, tomorrow-work).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := schedule.Keys()
			if len(args) == 1 {
				key, err := schedule.ParseKey(args[0])
				if err != nil {
					return err
				}
				keys = []schedule.Key{key}
			}

			return ctx.withBackend(cmd, func(b backend) error {
				if warn := b.LoadWarning(); warn != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: stored schedule unreadable, showing defaults: %v\n", warn)
				}
				snap := b.Snapshot()
				if jsonOut {
					out := make(map[string][]api.Slot, len(keys))
					for _, key := range keys {
						out[string(key)] = api.FromSlots(snap[key])
					}
					return writeJSON(cmd, out)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for i, key := range keys {
					if i > 0 {
						fmt.Fprintln(out)
					}
					for _, line := range renderSectionHeader(collectionLabel(key), colorize) {
						fmt.Fprintln(out, line)
					}
					fmt.Fprintln(out, renderSlotTable(snap[key]))
				}
				fmt.Fprintf(out, "\nSource: %s\n", b.Source())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func collectionLabel(key schedule.Key) string {
	return announce.Heading(key.Day(), string(key.Type()))
}

func renderSlotTable(slots []schedule.Slot) string {
	if len(slots) == 0 {
		return "  No stream slots"
	}
	rows := make([][]string, 0, len(slots))
	for i, slot := range slots {
		rows = append(rows, []string{strconv.Itoa(i + 1), slot.Time, slot.Title, slot.Desc})
	}
	return renderTable([]string{"#", "Time", "Title", "Description"}, rows, map[int]bool{0: true}, 60)
}
