package cli

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/faizmokh/tugas/internal/tracker"
)

func TestAddCommandAppendsAssignment(t *testing.T) {
	a := newTestApp(t)

	out := executeCommand(t, a, "add", "--class", "PHYS 2210", "--due", "2025-09-10", "--link", "https://example.edu/lab", "Lab", "report")
	assertContains(t, out, "PHYS 2210: Lab report, due Wed 10 Sep (in 8 days) <https://example.edu/lab>")

	out = executeCommand(t, a, "add", "--due", "2025-09-04", "HW 2")
	assertContains(t, out, "MATH 1210: HW 2")
}

func TestAddCommandRejectsInvalidInput(t *testing.T) {
	a := newTestApp(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing due", []string{"add", "HW"}, tracker.ErrDueDateRequired},
		{"bad due", []string{"add", "--due", "2025-13-01", "HW"}, tracker.ErrInvalidDueDate},
		{"unknown class", []string{"add", "--class", "BIO 1000", "--due", "2025-09-10", "HW"}, tracker.ErrUnknownClass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, a, "", tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if out := executeCommand(t, a, "list"); !strings.Contains(out, "No assignments") {
		t.Fatalf("store changed after rejected adds: %q", out)
	}
}

func TestListCommandSortsAndGroups(t *testing.T) {
	a := newTestApp(t)
	executeCommand(t, a, "add", "--class", "PHYS 2210", "--due", "2025-09-08", "Lab 1")
	executeCommand(t, a, "add", "--class", "MATH 1210", "--due", "2025-09-10", "HW 1")
	executeCommand(t, a, "add", "--class", "PHYS 2210", "--due", "2025-09-03", "Quiz")

	out := executeCommand(t, a, "list")
	if strings.Index(out, "3. ") > strings.Index(out, "1. ") {
		t.Fatalf("expected Quiz (position 3) first when sorted: %q", out)
	}

	out = executeCommand(t, a, "list", "--sort=false")
	if !strings.HasPrefix(out, "1. ") {
		t.Fatalf("expected insertion order: %q", out)
	}

	out = executeCommand(t, a, "list", "--group")
	if strings.Index(out, "MATH 1210\n") > strings.Index(out, "PHYS 2210\n") {
		t.Fatalf("expected MATH group before PHYS: %q", out)
	}
	if strings.Index(out, "Quiz") > strings.Index(out, "Lab 1") {
		t.Fatalf("expected date order within group: %q", out)
	}
}

func TestListCommandJSON(t *testing.T) {
	a := newTestApp(t)
	executeCommand(t, a, "add", "--due", "2025-09-10", "HW 1")

	out := executeCommand(t, a, "list", "--json")
	var got []tracker.Assignment
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("Unmarshal: %v\n%s", err, out)
	}
	if len(got) != 1 || got[0].Name != "HW 1" {
		t.Fatalf("unexpected listing: %#v", got)
	}
}

func TestEditCommandUpdatesFields(t *testing.T) {
	a := newTestApp(t)
	executeCommand(t, a, "add", "--due", "2025-09-10", "--link", "https://old", "HW 1")

	out := executeCommand(t, a, "edit", "1", "--due", "2025-09-12", "--link", "", "HW", "1", "final")
	assertContains(t, out, "Updated")
	assertContains(t, out, "MATH 1210: HW 1 final, due Fri 12 Sep")
	assertNotContains(t, out, "https://old")
}

func TestEditAndDeleteRejectUnknownRef(t *testing.T) {
	a := newTestApp(t)

	for _, args := range [][]string{{"edit", "7", "x"}, {"delete", "nope"}} {
		_, _, err := run(t, a, "", args...)
		if !errors.Is(err, tracker.ErrNotFound) {
			t.Fatalf("%v: err = %v, want ErrNotFound", args, err)
		}
	}
}

func TestDeleteCommandRemovesByPosition(t *testing.T) {
	a := newTestApp(t)
	executeCommand(t, a, "add", "--due", "2025-09-10", "HW 1")
	executeCommand(t, a, "add", "--due", "2025-09-11", "HW 2")

	out := executeCommand(t, a, "delete", "1")
	assertContains(t, out, "Deleted")
	assertContains(t, out, "HW 1")

	out = executeCommand(t, a, "list")
	assertNotContains(t, out, "HW 1")
	assertContains(t, out, "1. ")
	assertContains(t, out, "HW 2")
}

func TestEditCommandKeepsImportedClass(t *testing.T) {
	a := newTestApp(t)
	payload := `[{"class":"CHEM 1010","name":"Titration","dueDate":"2025-10-01"}]`
	if _, _, err := run(t, a, payload, "import", "-"); err != nil {
		t.Fatalf("import: %v", err)
	}

	out := executeCommand(t, a, "edit", "1", "Titration", "report")
	assertContains(t, out, "CHEM 1010: Titration report")

	if _, _, err := run(t, a, "", "edit", "1", "--class", "BIO 1000"); !errors.Is(err, tracker.ErrUnknownClass) {
		t.Fatalf("err = %v, want ErrUnknownClass", err)
	}
}
