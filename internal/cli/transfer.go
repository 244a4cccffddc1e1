package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/faizmokh/tugas/internal/files"
	"github.com/faizmokh/tugas/internal/tracker"
)

func newExportCommand(ctx context.Context, a *App) *cobra.Command {
	var (
		outputFlag string
		formatFlag string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every assignment as JSON, YAML or Markdown.",
		Long:  "export prints the stored list to stdout, or replaces --output atomically. The format follows --format, then the output extension, then defaults to JSON.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			format := formatFlag
			if format == "" && outputFlag != "" {
				format = tracker.FormatForPath(outputFlag)
			}

			list := a.store.Assignments()
			data, err := tracker.Encode(format, list, a.store.Classes())
			if err != nil {
				return err
			}

			if outputFlag == "" {
				out := cmd.OutOrStdout()
				if _, err := out.Write(data); err != nil {
					return err
				}
				if len(data) > 0 && data[len(data)-1] != '\n' {
					fmt.Fprintln(out)
				}
				return nil
			}

			if err := files.WriteAtomic(outputFlag, data); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d assignment%s to %s\n", len(list), plural(len(list)), outputFlag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "File to write (default: stdout)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "json, yaml or markdown")

	return cmd
}

func newImportCommand(ctx context.Context, a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace all assignments with a JSON export.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			if err := a.open(ctx, false); err != nil {
				return err
			}
			defer a.close()

			n, err := a.store.Import(ctx, data)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			warnPersist(cmd, a.store)

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d assignment%s\n", n, plural(n))
			return nil
		},
	}

	return cmd
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
