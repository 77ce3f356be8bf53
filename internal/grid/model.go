package grid

import "time"

const (
	statusPresent = "Present"

	// NamePlaceholder is shown when a record carries a token but no name.
	NamePlaceholder = "—"
)

// Record is an attendance record as returned by the remote attendance API.
type Record struct {
	ID     string      `json:"_id"`
	User   *RecordUser `json:"userId"`
	Status string      `json:"status"`
	Date   string      `json:"date"`
}

type RecordUser struct {
	Name      string `json:"name"`
	TokenCode string `json:"tokenCode"`
}

// Event is a single date-stamped attendance mark for one employee.
type Event struct {
	EmployeeToken string
	Date          time.Time
	Present       bool
}

type Employee struct {
	Token string `json:"tokenCode"`
	Name  string `json:"name"`
}

// Status is the state of one grid cell.
type Status int

const (
	Absent Status = iota
	Present
	Pending
)

// Code returns the single character marker used in tables and exports.
func (s Status) Code() string {
	switch s {
	case Present:
		return "P"
	case Pending:
		return "–"
	default:
		return "A"
	}
}

func (s Status) String() string {
	switch s {
	case Present:
		return "Present"
	case Pending:
		return "Pending"
	default:
		return "Absent"
	}
}

// Matrix is the rectangular export table, header row first.
type Matrix [][]string

type Summary struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Pending int `json:"pending"`
}
