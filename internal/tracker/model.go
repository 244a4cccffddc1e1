package tracker

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for due dates.
const DateLayout = "2006-01-02"

// DefaultClasses is the class priority used when no configuration overrides it.
var DefaultClasses = []string{"MATH 1210", "PHYS 2210", "ECE 1400"}

// Assignment is one tracked piece of coursework.
type Assignment struct {
	ID      string `json:"id" yaml:"id"`
	Class   string `json:"class" yaml:"class"`
	Name    string `json:"name" yaml:"name"`
	DueDate string `json:"dueDate" yaml:"dueDate"`
	Link    string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Due parses DueDate as a calendar date in UTC.
func (a Assignment) Due() (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(a.DueDate))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ShortID is the leading part of the id shown in listings.
func (a Assignment) ShortID() string {
	if len(a.ID) > 8 {
		return a.ID[:8]
	}
	return a.ID
}

// SampleAssignments is the seed set offered to a brand new store.
func SampleAssignments() []Assignment {
	return []Assignment{
		{Class: "MATH 1210", Name: "Problem set 1", DueDate: "2025-09-05"},
		{Class: "PHYS 2210", Name: "Lab 1 report", DueDate: "2025-09-03", Link: "https://example.edu/phys2210/lab1"},
		{Class: "ECE 1400", Name: "Homework 1", DueDate: "2025-09-08"},
	}
}

func cloneList(list []Assignment) []Assignment {
	out := make([]Assignment, len(list))
	copy(out, list)
	return out
}
