package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"streamsched/internal/api"
	"streamsched/internal/schedule"
)

func newSlotsCommand(ctx *commandContext) *cobra.Command {
	slotsCmd := &cobra.Command{
		Use:   "slots",
		Short: "Add, edit or delete stream slots",
	}
	slotsCmd.AddCommand(newSlotsAddCommand(ctx))
	slotsCmd.AddCommand(newSlotsSetCommand(ctx))
	slotsCmd.AddCommand(newSlotsDeleteCommand(ctx))
	return slotsCmd
}

func newSlotsAddCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "add <collection>",
		Short: "Append a slot after the last one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := schedule.ParseKey(args[0])
			if err != nil {
				return err
			}
			return ctx.withBackend(cmd, func(b backend) error {
				slot, err := b.AddSlot(cmd.Context(), key)
				if err != nil {
					return fmt.Errorf("add slot: %w", err)
				}
				if jsonOut {
					return writeJSON(cmd, api.SlotResponse{Key: string(key), Slot: api.FromSlot(slot)})
				}
				position := len(b.Slots(key))
				fmt.Fprintf(cmd.OutOrStdout(), "Added slot %d to %s: %s\n", position, collectionLabel(key), slot.Time)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newSlotsSetCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <collection> <slot> <field> <value>",
		Short: "Set the time, title or description of a slot",
		Long: "Set one field of a slot. <slot> is a 1-based position as listed by \"show\".\n" +
			"Slot ids from \"show --json\" are accepted only with --api against a running\n" +
			"daemon; without one, ids are minted afresh on every load.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := schedule.ParseKey(args[0])
			if err != nil {
				return err
			}
			field, err := schedule.ParseField(args[2])
			if err != nil {
				return err
			}
			value := args[3]
			return ctx.withBackend(cmd, func(b backend) error {
				slot, position, err := resolveSlot(b, key, args[1])
				if err != nil {
					return err
				}
				if err := b.UpdateFieldByID(cmd.Context(), key, slot.ID, field, value); err != nil {
					return fmt.Errorf("update slot: %w", err)
				}
				if field == schedule.FieldTime {
					if _, _, parseErr := schedule.ParseRange(value); parseErr != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is not in \"H:MM AM - H:MM PM\" form; announcements will show it as written\n", value)
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s of slot %d in %s\n", field, position, collectionLabel(key))
				return nil
			})
		},
	}
	return cmd
}

func newSlotsDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <collection> <slot>",
		Short: "Delete a slot",
		Long: "Delete a slot after confirmation. <slot> is a 1-based position, or a slot id\n" +
			"when talking to a running daemon. The last slot of a collection cannot be deleted.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := schedule.ParseKey(args[0])
			if err != nil {
				return err
			}
			return ctx.withBackend(cmd, func(b backend) error {
				slot, position, err := resolveSlot(b, key, args[1])
				if err != nil {
					return err
				}
				confirm := schedule.AlwaysConfirm
				if !yes {
					confirm = promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
				}
				err = b.DeleteSlotByID(cmd.Context(), key, slot.ID, confirm)
				switch {
				case errors.Is(err, schedule.ErrLastSlot):
					return fmt.Errorf("cannot delete: you must have at least one stream slot")
				case errors.Is(err, schedule.ErrDeleteDeclined):
					fmt.Fprintln(cmd.OutOrStdout(), "Delete cancelled")
					return nil
				case err != nil:
					return fmt.Errorf("delete slot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted slot %d (%s) from %s\n", position, slot.Time, collectionLabel(key))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// resolveSlot accepts a 1-based position or a slot id.
func resolveSlot(b backend, key schedule.Key, ref string) (schedule.Slot, int, error) {
	slots := b.Slots(key)
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(slots) {
			return schedule.Slot{}, 0, fmt.Errorf("%w: %s has %d slots", schedule.ErrSlotNotFound, collectionLabel(key), len(slots))
		}
		return slots[n-1], n, nil
	}
	for i, slot := range slots {
		if slot.ID == ref {
			return slot, i + 1, nil
		}
	}
	if b.Source() != remoteSource {
		return schedule.Slot{}, 0, fmt.Errorf("%w: %q (ids only persist within a running daemon; use a position)", schedule.ErrSlotNotFound, ref)
	}
	return schedule.Slot{}, 0, fmt.Errorf("%w: %q", schedule.ErrSlotNotFound, ref)
}

func promptConfirmer(in io.Reader, out io.Writer) schedule.Confirmer {
	return schedule.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}
