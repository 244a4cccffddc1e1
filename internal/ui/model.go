package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/tugas/internal/files"
	"github.com/faizmokh/tugas/internal/prefs"
	"github.com/faizmokh/tugas/internal/tracker"
)

// Options configures the TUI.
type Options struct {
	// ExportDir is where the export prompt suggests writing files.
	ExportDir string
	// Today overrides the clock used for relative due dates.
	Today func() time.Time
}

// Model owns Bubble Tea state for the assignment table.
type Model struct {
	ctx   context.Context
	store *tracker.Store
	prefs *prefs.Prefs
	opts  Options

	keys   keyMap
	help   help.Model
	table  table.Model
	styles styles
	rows   []tracker.Assignment

	mode      mode
	form      form
	pathInput textinput.Model

	width  int
	height int

	statusLine  string
	warningLine string
	errorLine   string
}

type mode uint8

const (
	modeBrowse mode = iota
	modeForm
	modeImport
	modeExport
)

// importLoadedMsg carries the outcome of reading an import file.
type importLoadedMsg struct {
	path string
	data []byte
	err  error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// NewModel seeds the model from the store and the saved preferences.
func NewModel(ctx context.Context, store *tracker.Store, p *prefs.Prefs, opts Options) Model {
	if opts.Today == nil {
		opts.Today = time.Now
	}

	m := Model{
		ctx:   ctx,
		store: store,
		prefs: p,
		opts:  opts,
		keys:  defaultKeyMap(),
		help:  help.New(),
		table: table.New(
			table.WithColumns(columns(100)),
			table.WithFocused(true),
			table.WithHeight(12),
			table.WithKeyMap(tableKeyMap()),
		),
		pathInput: newPathInput(),
	}
	m.applyTheme()
	m.refresh()
	m.statusLine = fmt.Sprintf("Loaded %d assignment%s.", len(m.rows), plural(len(m.rows)))
	return m
}

func newPathInput() textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 1024
	ti.Width = 60
	return ti
}

// Init sets the terminal title.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("tugas")
}

// Update routes key presses by mode and applies async results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil
	case importLoadedMsg:
		return m.handleImportLoaded(msg)
	case exportDoneMsg:
		return m.handleExportDone(msg)
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.handleFormKey(msg)
		case modeImport, modeExport:
			return m.handlePathKey(msg)
		default:
			return m.handleKey(msg)
		}
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warningLine = ""
	m.errorLine = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Add):
		m.form = newForm(m.store.Classes())
		m.mode = modeForm
		m.statusLine = ""
		cmd := m.form.setFocus(fieldName)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		selected, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.form = newForm(m.store.Classes()).load(selected)
		m.mode = modeForm
		m.statusLine = ""
		cmd := m.form.setFocus(fieldName)
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		selected, ok := m.selected()
		if !ok {
			return m, nil
		}
		removed, err := m.store.Delete(m.ctx, selected.ID)
		if err != nil {
			m.errorLine = fmt.Sprintf("Delete failed: %v", err)
			return m, nil
		}
		m.statusLine = fmt.Sprintf("Deleted %q. Press u to undo.", removed.Name)
		m.afterMutation()
	case key.Matches(msg, m.keys.Undo):
		if !m.store.Undo(m.ctx) {
			m.statusLine = "Nothing to undo."
			return m, nil
		}
		m.statusLine = "Undid last change."
		m.afterMutation()
	case key.Matches(msg, m.keys.Redo):
		if !m.store.Redo(m.ctx) {
			m.statusLine = "Nothing to redo."
			return m, nil
		}
		m.statusLine = "Redid change."
		m.afterMutation()
	case key.Matches(msg, m.keys.Sort):
		m.statusLine = "Sort by due date " + onOff(m.prefs.Toggle(prefs.KeySort)) + "."
		m.refresh()
	case key.Matches(msg, m.keys.Group):
		m.statusLine = "Group by class " + onOff(m.prefs.Toggle(prefs.KeyGroup)) + "."
		m.refresh()
	case key.Matches(msg, m.keys.Theme):
		m.statusLine = "Theme: " + m.prefs.ToggleTheme() + "."
		m.applyTheme()
	case key.Matches(msg, m.keys.Width):
		m.statusLine = "Table width: " + m.prefs.ToggleWidth() + "."
		m.layout()
	case key.Matches(msg, m.keys.Panel):
		m.statusLine = "Details panel " + onOff(m.prefs.Toggle(prefs.KeyPanel)) + "."
		m.layout()
	case key.Matches(msg, m.keys.Import):
		return m.beginPath(modeImport, "")
	case key.Matches(msg, m.keys.Export):
		name := files.ExportName(m.opts.Today(), tracker.FormatJSON)
		return m.beginPath(modeExport, filepath.Join(m.opts.ExportDir, name))
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		return m.cancel("Cancelled.")
	case tea.KeyEnter:
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	input := m.form.assignment()

	var (
		saved tracker.Assignment
		err   error
		verb  = "Added"
	)
	if input.ID != "" {
		verb = "Updated"
		saved, err = m.store.Update(m.ctx, input.ID, input)
	} else {
		saved, err = m.store.Add(m.ctx, input)
	}
	if err != nil {
		if tracker.IsValidation(err) {
			m.warningLine = capitalize(err.Error()) + "."
			return m, nil
		}
		m.errorLine = fmt.Sprintf("%s failed: %v", strings.TrimSuffix(verb, "ed"), err)
		return m, nil
	}

	m.mode = modeBrowse
	m.warningLine = ""
	m.statusLine = fmt.Sprintf("%s %q.", verb, saved.Name)
	m.afterMutation()
	m.selectID(saved.ID)
	return m, nil
}

func (m Model) beginPath(next mode, value string) (tea.Model, tea.Cmd) {
	m.mode = next
	m.pathInput.SetValue(value)
	m.pathInput.CursorEnd()
	if next == modeImport {
		m.pathInput.Placeholder = "path/to/assignments.json"
	} else {
		m.pathInput.Placeholder = "path/to/export.json (.yaml and .md also work)"
	}
	m.statusLine = ""
	cmd := m.pathInput.Focus()
	return m, cmd
}

func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		return m.cancel("Cancelled.")
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			m.warningLine = "A file path is required."
			return m, nil
		}
		current := m.mode
		m.mode = modeBrowse
		m.pathInput.Blur()
		m.warningLine = ""
		if current == modeImport {
			m.statusLine = fmt.Sprintf("Reading %s...", path)
			return m, readImportCmd(path)
		}
		m.statusLine = fmt.Sprintf("Writing %s...", path)
		return m, m.exportCmd(path)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m Model) cancel(message string) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	m.form = form{}
	m.pathInput.Blur()
	m.pathInput.SetValue("")
	m.warningLine = ""
	m.errorLine = ""
	m.statusLine = message
	return m, nil
}

// readImportCmd reads the file off the update loop; the result message has
// a single success or failure outcome.
func readImportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		return importLoadedMsg{path: path, data: data, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	list := m.store.Assignments()
	classes := m.store.Classes()
	return func() tea.Msg {
		data, err := tracker.Encode(tracker.FormatForPath(path), list, classes)
		if err == nil {
			err = files.WriteAtomic(path, data)
		}
		return exportDoneMsg{path: path, count: len(list), err: err}
	}
}

func (m Model) handleImportLoaded(msg importLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusLine = ""
		m.errorLine = fmt.Sprintf("Import failed: %v", msg.err)
		return m, nil
	}

	n, err := m.store.Import(m.ctx, msg.data)
	if err != nil {
		m.statusLine = ""
		switch {
		case errors.Is(err, tracker.ErrInvalidFormat):
			m.errorLine = "Import failed: invalid format, expected a JSON array."
		case errors.Is(err, tracker.ErrParse):
			m.errorLine = fmt.Sprintf("Import failed: %s is not valid JSON.", filepath.Base(msg.path))
		default:
			m.errorLine = fmt.Sprintf("Import failed: %v", err)
		}
		return m, nil
	}

	m.statusLine = fmt.Sprintf("Imported %d assignment%s from %s.", n, plural(n), filepath.Base(msg.path))
	m.afterMutation()
	return m, nil
}

func (m Model) handleExportDone(msg exportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.statusLine = ""
		m.errorLine = fmt.Sprintf("Export failed: %v", msg.err)
		return m, nil
	}
	m.errorLine = ""
	m.statusLine = fmt.Sprintf("Exported %d assignment%s to %s.", msg.count, plural(msg.count), msg.path)
	return m, nil
}

func (m *Model) afterMutation() {
	if err := m.store.PersistErr(); err != nil {
		m.warningLine = fmt.Sprintf("Changes kept in memory but not saved: %v", err)
	}
	m.refresh()
}

func (m *Model) viewOptions() tracker.ViewOptions {
	return tracker.ViewOptions{
		Sort:  m.prefs.Bool(prefs.KeySort),
		Group: m.prefs.Bool(prefs.KeyGroup),
	}
}

// refresh re-derives the table rows from the store.
func (m *Model) refresh() {
	m.rows = tracker.Derive(m.store.Assignments(), m.store.Classes(), m.viewOptions())

	today := m.opts.Today()
	rows := make([]table.Row, 0, len(m.rows))
	for _, a := range m.rows {
		rows = append(rows, table.Row{
			a.ShortID(),
			a.Class,
			a.Name,
			tracker.DueLabel(a, today),
			a.Link,
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Model) selectID(id string) {
	for i, a := range m.rows {
		if a.ID == id {
			m.table.SetCursor(i)
			return
		}
	}
}

func (m Model) selected() (tracker.Assignment, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return tracker.Assignment{}, false
	}
	return m.rows[idx], true
}

func (m *Model) applyTheme() {
	t := lightTheme()
	if m.prefs.Dark() {
		t = darkTheme()
	}
	m.styles = newStyles(t)
	m.table.SetStyles(m.styles.Table)
}

func (m Model) tableWidth() int {
	width := m.width
	if width <= 0 {
		width = 100
	}
	return width * m.prefs.WidthPercent() / 100
}

// layout sizes the table from the terminal and the width preference.
func (m *Model) layout() {
	width := m.tableWidth()
	m.table.SetColumns(columns(width))
	m.table.SetWidth(width)

	if m.height <= 0 {
		return
	}
	reserved := 7
	if m.prefs.Bool(prefs.KeyPanel) {
		reserved += 6
	}
	if m.help.ShowAll {
		reserved += 4
	}
	m.table.SetHeight(max(m.height-reserved, 3))
}

func columns(width int) []table.Column {
	const (
		idWidth    = 8
		classWidth = 10
		dueWidth   = 22
		padding    = 2 * 5
	)
	rest := max(width-idWidth-classWidth-dueWidth-padding, 20)
	name := rest * 3 / 5
	return []table.Column{
		{Title: "ID", Width: idWidth},
		{Title: "Class", Width: classWidth},
		{Title: "Assignment", Width: name},
		{Title: "Due", Width: dueWidth},
		{Title: "Link", Width: rest - name},
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("tugas"))
	b.WriteString(m.styles.Badge.Render(m.summary()))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.styles.Muted.Render("No assignments yet. Press a to add one."))
		b.WriteByte('\n')
	} else {
		b.WriteString(m.table.View())
		b.WriteByte('\n')
	}

	if m.mode == modeBrowse && m.prefs.Bool(prefs.KeyPanel) {
		if selected, ok := m.selected(); ok {
			b.WriteString(m.detailsView(selected))
			b.WriteByte('\n')
		}
	}

	switch m.mode {
	case modeForm:
		b.WriteByte('\n')
		b.WriteString(m.form.view(m.styles))
	case modeImport, modeExport:
		label := "Import from (replaces all assignments; enter to load, esc to cancel):"
		if m.mode == modeExport {
			label = "Export to (enter to write, esc to cancel):"
		}
		b.WriteByte('\n')
		b.WriteString(m.styles.Focused.Render(label))
		b.WriteByte('\n')
		b.WriteString(m.pathInput.View())
		b.WriteByte('\n')
	}

	switch {
	case m.errorLine != "":
		b.WriteString("\n" + m.styles.Error.Render("! "+m.errorLine) + "\n")
	case m.warningLine != "":
		b.WriteString("\n" + m.styles.Warning.Render("⚠ "+m.warningLine) + "\n")
	case m.statusLine != "":
		b.WriteString("\n" + m.styles.Status.Render(m.statusLine) + "\n")
	}

	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) summary() string {
	opts := m.viewOptions()
	parts := []string{fmt.Sprintf("%d assignment%s", len(m.rows), plural(len(m.rows)))}
	if opts.Sort {
		parts = append(parts, "by due date")
	}
	if opts.Group {
		parts = append(parts, "grouped")
	}
	parts = append(parts, m.prefs.Get(prefs.KeyTheme), m.prefs.Get(prefs.KeyTableWidth))
	return strings.Join(parts, " · ")
}

func (m Model) detailsView(a tracker.Assignment) string {
	due := tracker.DueLabel(a, m.opts.Today())
	if strings.HasSuffix(due, "(overdue)") {
		due = m.styles.Overdue.Render(due)
	}
	link := a.Link
	if link == "" {
		link = m.styles.Muted.Render("none")
	}

	lines := []string{
		m.styles.Label.Render("Name") + " " + a.Name,
		m.styles.Label.Render("Class") + " " + a.Class,
		m.styles.Label.Render("Due") + " " + due,
		m.styles.Label.Render("Link") + " " + link,
	}
	return m.styles.Panel.Width(max(m.tableWidth()-4, 20)).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
