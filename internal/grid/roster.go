package grid

import (
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// EventsFromRecords converts remote records into events. Records without a
// user keep an empty token and a date that cannot be parsed is left zero, so
// neither can ever match a roster cell.
func EventsFromRecords(records []Record) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		events = append(events, Event{
			EmployeeToken: r.token(),
			Date:          parseDate(r.Date),
			Present:       r.Status == statusPresent,
		})
	}
	return events
}

// Roster returns the distinct employees referenced by records, in the order
// they are first seen. Records without a token code are skipped.
func Roster(records []Record) []Employee {
	var employees []Employee
	seen := make(map[string]struct{})
	for _, r := range records {
		token := r.token()
		if token == "" {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}

		name := NamePlaceholder
		if strings.TrimSpace(r.User.Name) != "" {
			name = r.User.Name
		}
		employees = append(employees, Employee{Token: token, Name: name})
	}
	return employees
}

func (r Record) token() string {
	if r.User == nil {
		return ""
	}
	return strings.TrimSpace(r.User.TokenCode)
}

func parseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
