package ui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/faizmokh/tugas/internal/tracker"
)

const (
	fieldClass = iota
	fieldName
	fieldDue
	fieldLink
	fieldCount
)

// form edits one assignment. The class is picked from the configured set
// with left/right; the other fields are free text.
type form struct {
	editingID string
	classes   []string
	classIdx  int
	inputs    [fieldCount - 1]textinput.Model
	focus     int
}

func newForm(classes []string) form {
	f := form{classes: slices.Clone(classes)}

	placeholders := [fieldCount - 1]string{"Problem set 2", "YYYY-MM-DD", "https:// (optional)"}
	limits := [fieldCount - 1]int{120, 10, 400}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 48
		f.inputs[i] = ti
	}
	return f
}

// load fills the form from an existing assignment.
func (f form) load(a tracker.Assignment) form {
	f.editingID = a.ID
	idx := slices.Index(f.classes, a.Class)
	if idx < 0 && a.Class != "" {
		// Imported records can carry classes outside the configured set.
		f.classes = append(f.classes, a.Class)
		idx = len(f.classes) - 1
	}
	f.classIdx = max(idx, 0)
	f.inputs[fieldName-1].SetValue(a.Name)
	f.inputs[fieldDue-1].SetValue(a.DueDate)
	f.inputs[fieldLink-1].SetValue(a.Link)
	return f
}

func (f *form) setFocus(field int) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	var cmd tea.Cmd
	for i := range f.inputs {
		if i+1 == f.focus {
			cmd = f.inputs[i].Focus()
			continue
		}
		f.inputs[i].Blur()
	}
	return cmd
}

func (f form) class() string {
	if len(f.classes) == 0 {
		return ""
	}
	return f.classes[f.classIdx]
}

func (f form) assignment() tracker.Assignment {
	return tracker.Assignment{
		ID:      f.editingID,
		Class:   f.class(),
		Name:    f.inputs[fieldName-1].Value(),
		DueDate: f.inputs[fieldDue-1].Value(),
		Link:    f.inputs[fieldLink-1].Value(),
	}
}

func (f form) update(msg tea.KeyMsg) (form, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		cmd := f.setFocus(f.focus + 1)
		return f, cmd
	case "shift+tab", "up":
		cmd := f.setFocus(f.focus - 1)
		return f, cmd
	}

	if f.focus == fieldClass {
		n := len(f.classes)
		switch msg.String() {
		case "left", "h":
			if n > 0 {
				f.classIdx = (f.classIdx + n - 1) % n
			}
		case "right", "l", " ":
			if n > 0 {
				f.classIdx = (f.classIdx + 1) % n
			}
		}
		return f, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus-1], cmd = f.inputs[f.focus-1].Update(msg)
	return f, cmd
}

func (f form) view(s styles) string {
	var b strings.Builder

	title := "New assignment"
	if f.editingID != "" {
		title = "Edit assignment"
	}
	b.WriteString(s.Focused.Render(title))
	b.WriteString(s.Muted.Render("  (tab next field, ←/→ class, enter save, esc cancel)"))
	b.WriteByte('\n')

	labels := [fieldCount]string{"Class", "Name", "Due", "Link"}
	for field := 0; field < fieldCount; field++ {
		label := s.Label.Render(labels[field])
		if field == f.focus {
			label = s.Focused.Width(7).Render(labels[field])
		}
		b.WriteString(label)
		b.WriteByte(' ')
		if field == fieldClass {
			fmt.Fprintf(&b, "‹ %s ›", f.class())
		} else {
			b.WriteString(f.inputs[field-1].View())
		}
		b.WriteByte('\n')
	}
	return b.String()
}
