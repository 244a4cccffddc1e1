package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/faizmokh/tugas/internal/tracker"
)

func formatAssignment(a tracker.Assignment, today time.Time) string {
	builder := strings.Builder{}
	builder.Grow(48 + len(a.Class) + len(a.Name) + len(a.Link))

	builder.WriteString("[")
	builder.WriteString(a.ShortID())
	builder.WriteString("] ")
	builder.WriteString(a.Class)
	builder.WriteString(": ")
	builder.WriteString(a.Name)
	builder.WriteString(", due ")
	builder.WriteString(tracker.DueLabel(a, today))

	if a.Link != "" {
		builder.WriteString(" <")
		builder.WriteString(a.Link)
		builder.WriteString(">")
	}

	return builder.String()
}

// positions maps ids to their 1-based place in the stored order, which is
// what numeric references resolve against.
func positions(list []tracker.Assignment) map[string]int {
	out := make(map[string]int, len(list))
	for i, a := range list {
		out[a.ID] = i + 1
	}
	return out
}

func printGroups(cmd *cobra.Command, groups []tracker.Group, index map[string]int, today time.Time) {
	out := cmd.OutOrStdout()
	for i, group := range groups {
		if group.Class != "" {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", group.Class)
		}
		for _, a := range group.Assignments {
			fmt.Fprintf(out, "%d. %s\n", index[a.ID], formatAssignment(a, today))
		}
	}
}

// warnPersist tells the user a change only lives in memory.
func warnPersist(cmd *cobra.Command, store *tracker.Store) {
	if err := store.PersistErr(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: change not saved: %v\n", err)
	}
}

func joinName(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
