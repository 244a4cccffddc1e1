package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faizmokh/tugas/internal/prefs"
	"github.com/faizmokh/tugas/internal/tracker"
)

func newListCommand(ctx context.Context, a *App) *cobra.Command {
	var (
		sortFlag  bool
		groupFlag bool
		jsonFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assignments, sorted and grouped per your preferences.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			opts := tracker.ViewOptions{
				Sort:  a.prefs.Bool(prefs.KeySort),
				Group: a.prefs.Bool(prefs.KeyGroup),
			}
			if cmd.Flags().Changed("sort") {
				opts.Sort = sortFlag
			}
			if cmd.Flags().Changed("group") {
				opts.Group = groupFlag
			}

			if jsonFlag {
				data, err := tracker.EncodeJSON(tracker.Derive(a.store.Assignments(), a.store.Classes(), opts))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
				return nil
			}

			if a.store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No assignments")
				return nil
			}

			printGroups(cmd, a.store.View(opts), positions(a.store.Assignments()), a.today())
			return nil
		},
	}

	cmd.Flags().BoolVar(&sortFlag, "sort", false, "Sort by due date (default: saved preference)")
	cmd.Flags().BoolVar(&groupFlag, "group", false, "Group by class (default: saved preference)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the listing as JSON")

	return cmd
}

func newAddCommand(ctx context.Context, a *App) *cobra.Command {
	var (
		classFlag string
		dueFlag   string
		linkFlag  string
	)

	cmd := &cobra.Command{
		Use:   "add <name ...>",
		Short: "Add an assignment.",
		Long:  "add appends an assignment. The class defaults to the first configured class.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			class := classFlag
			if class == "" {
				class = a.store.Classes()[0]
			}

			added, err := a.store.Add(ctx, tracker.Assignment{
				Class:   class,
				Name:    joinName(args),
				DueDate: dueFlag,
				Link:    linkFlag,
			})
			if err != nil {
				return err
			}
			warnPersist(cmd, a.store)

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", formatAssignment(added, a.today()))
			return nil
		},
	}

	cmd.Flags().StringVar(&classFlag, "class", "", "Class identifier (default: first configured class)")
	cmd.Flags().StringVar(&dueFlag, "due", "", "Due date in YYYY-MM-DD")
	cmd.Flags().StringVar(&linkFlag, "link", "", "Optional URL")

	return cmd
}

func newEditCommand(ctx context.Context, a *App) *cobra.Command {
	var (
		classFlag string
		dueFlag   string
		linkFlag  string
	)

	cmd := &cobra.Command{
		Use:   "edit <ref> [name ...]",
		Short: "Modify an assignment by position or id prefix.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			current, err := a.store.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			updated := current
			if name := joinName(args[1:]); name != "" {
				updated.Name = name
			}
			if cmd.Flags().Changed("class") {
				updated.Class = classFlag
			}
			if cmd.Flags().Changed("due") {
				updated.DueDate = dueFlag
			}
			if cmd.Flags().Changed("link") {
				updated.Link = linkFlag
			}

			saved, err := a.store.Update(ctx, current.ID, updated)
			if err != nil {
				return err
			}
			warnPersist(cmd, a.store)

			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", formatAssignment(saved, a.today()))
			return nil
		},
	}

	cmd.Flags().StringVar(&classFlag, "class", "", "New class identifier")
	cmd.Flags().StringVar(&dueFlag, "due", "", "New due date in YYYY-MM-DD")
	cmd.Flags().StringVar(&linkFlag, "link", "", "New URL (empty to clear)")

	return cmd
}

func newDeleteCommand(ctx context.Context, a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <ref>",
		Short: "Remove an assignment by position or id prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			target, err := a.store.Resolve(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			removed, err := a.store.Delete(ctx, target.ID)
			if err != nil {
				return err
			}
			warnPersist(cmd, a.store)

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatAssignment(removed, a.today()))
			return nil
		},
	}

	return cmd
}
