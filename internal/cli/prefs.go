package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/tugas/internal/prefs"
)

func newPrefsCommand(ctx context.Context, a *App) *cobra.Command {
	var resetFlag bool

	cmd := &cobra.Command{
		Use:   "prefs [key [value]]",
		Short: "Show or change the saved UI preferences.",
		Long:  "prefs lists every preference, prints one, or sets one. --reset restores the default for the given key, or for all keys.",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if resetFlag && len(args) > 1 {
				return fmt.Errorf("--reset takes at most one key")
			}

			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			if resetFlag {
				if err := a.prefs.Reset(args...); err != nil {
					return err
				}
				keys := args
				if len(keys) == 0 {
					keys = prefs.Keys()
				}
				for _, key := range keys {
					fmt.Fprintf(out, "%s=%s\n", key, a.prefs.Get(key))
				}
				return nil
			}

			switch len(args) {
			case 0:
				for _, key := range prefs.Keys() {
					fmt.Fprintf(out, "%s=%s\n", key, a.prefs.Get(key))
				}
			case 1:
				if prefs.Allowed(args[0]) == nil {
					return fmt.Errorf("%w %q", prefs.ErrUnknownKey, args[0])
				}
				fmt.Fprintln(out, a.prefs.Get(args[0]))
			default:
				if err := a.prefs.Set(args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(out, "%s=%s\n", args[0], a.prefs.Get(args[0]))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resetFlag, "reset", false, "Restore defaults (one key, or all when no key is given)")

	return cmd
}
