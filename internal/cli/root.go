package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/faizmokh/tugas/internal/files"
	"github.com/faizmokh/tugas/internal/ui"
	"github.com/faizmokh/tugas/internal/version"
)

// NewRootCommand creates the top-level Cobra command to host subcommands and TUI launcher.
func NewRootCommand(ctx context.Context, a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tugas",
		Short:   "Track school assignments from your terminal.",
		Version: version.Info(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(ctx, true); err != nil {
				return err
			}
			defer a.close()

			exportDir, err := os.Getwd()
			if err != nil {
				exportDir = a.files.BasePath()
			}

			m := ui.NewModel(ctx, a.store, a.prefs, ui.Options{ExportDir: exportDir})
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newListCommand(ctx, a),
		newAddCommand(ctx, a),
		newEditCommand(ctx, a),
		newDeleteCommand(ctx, a),
		newExportCommand(ctx, a),
		newImportCommand(ctx, a),
		newPrefsCommand(ctx, a),
		newVersionCommand(),
	)

	return cmd
}

// ExecuteCommand is a thin wrapper that executes the Cobra root command.
func ExecuteCommand(ctx context.Context) error {
	manager, err := files.NewManager("")
	if err != nil {
		return err
	}
	cmd := NewRootCommand(ctx, NewApp(manager))
	return cmd.Execute()
}

// Main is a helper used by cmd/tugas/main.go to keep wiring contained in one package.
func Main(ctx context.Context) {
	if err := ExecuteCommand(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tugas %s\n", version.Info())
			return nil
		},
	}
}
