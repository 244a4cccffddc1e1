package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EncodeJSON renders list as a 2-space indented JSON array.
func EncodeJSON(list []Assignment) ([]byte, error) {
	if list == nil {
		list = []Assignment{}
	}
	return json.MarshalIndent(list, "", "  ")
}

// EncodeYAML renders list as a YAML sequence.
func EncodeYAML(list []Assignment) ([]byte, error) {
	if list == nil {
		list = []Assignment{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(list); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeMarkdown renders list as a checklist under one heading per class,
// ordered by priority and then by due date.
func EncodeMarkdown(list []Assignment, priority []string) []byte {
	var b strings.Builder
	b.WriteString("# Assignments\n")

	for _, group := range Partition(list, priority, ViewOptions{Sort: true, Group: true}) {
		b.WriteString("\n## ")
		b.WriteString(group.Class)
		b.WriteByte('\n')
		for _, a := range group.Assignments {
			fmt.Fprintf(&b, "- [ ] [%s] %s", a.DueDate, a.Name)
			if a.Link != "" {
				fmt.Fprintf(&b, " (%s)", a.Link)
			}
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

// record accepts the canonical field names plus the legacy "className" and
// "due" spellings.
type record struct {
	ID        string `json:"id"`
	Class     string `json:"class"`
	ClassName string `json:"className"`
	Name      string `json:"name"`
	DueDate   string `json:"dueDate"`
	Due       string `json:"due"`
	Link      string `json:"link"`
}

func (r record) assignment() Assignment {
	a := Assignment{
		ID:      r.ID,
		Class:   r.Class,
		Name:    r.Name,
		DueDate: r.DueDate,
		Link:    r.Link,
	}
	if a.Class == "" {
		a.Class = r.ClassName
	}
	if a.DueDate == "" {
		a.DueDate = r.Due
	}
	return a
}

// DecodeList parses an exported list. Malformed JSON yields ErrParse; any
// top-level value other than an array of objects yields ErrInvalidFormat.
// Individual records are not validated.
func DecodeList(content []byte) ([]Assignment, error) {
	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if _, ok := raw.([]any); !ok {
		return nil, ErrInvalidFormat
	}

	var records []record
	if err := json.Unmarshal(content, &records); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	list := make([]Assignment, 0, len(records))
	for _, r := range records {
		list = append(list, r.assignment())
	}
	return list, nil
}

// Export formats.
const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by Encode for unsupported format names.
var ErrUnknownFormat = errors.New("unknown export format")

// Encode renders list in the named format.
func Encode(format string, list []Assignment, priority []string) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON, "":
		return EncodeJSON(list)
	case FormatYAML, "yml":
		return EncodeYAML(list)
	case FormatMarkdown, "md":
		return EncodeMarkdown(list, priority), nil
	default:
		return nil, fmt.Errorf("%w %q (expected json|yaml|markdown)", ErrUnknownFormat, format)
	}
}

// FormatForPath picks an export format from a file extension, defaulting to JSON.
func FormatForPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".yaml"), strings.HasSuffix(lower, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".markdown"):
		return FormatMarkdown
	default:
		return FormatJSON
	}
}
