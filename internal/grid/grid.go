// Package grid derives the employee by day attendance matrix for one month.
//
// A Builder is a pure value: it never fetches data and only reads the clock
// through the function it was given, so it is safe to share between
// goroutines once built.
package grid

import (
	"strconv"
	"time"
)

var matrixHeader = []string{"Token", "Employee"}

type dayKey struct {
	token string
	year  int
	month time.Month
	day   int
}

type Builder struct {
	employees []Employee
	month     int
	year      int
	now       func() time.Time
	loc       *time.Location
	present   map[dayKey]struct{}
}

type Option func(*Builder)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLocation sets the time zone calendar days are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.loc = loc
		}
	}
}

// New indexes events for the given month. employees is expected to be the
// distinct-token projection of events; it is not validated.
func New(events []Event, employees []Employee, month int, year int, options ...Option) *Builder {
	b := &Builder{
		employees: employees,
		month:     month,
		year:      year,
		now:       time.Now,
		loc:       time.Local,
		present:   make(map[dayKey]struct{}),
	}
	for _, opt := range options {
		opt(b)
	}

	// any present mark for a day wins over absent marks for the same day
	for _, e := range events {
		if !e.Present || e.Date.IsZero() || e.EmployeeToken == "" {
			continue
		}
		d := e.Date.In(b.loc)
		b.present[dayKey{e.EmployeeToken, d.Year(), d.Month(), d.Day()}] = struct{}{}
	}
	return b
}

// DaysIn returns the number of calendar days in month of year.
func DaysIn(month int, year int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (b *Builder) Month() int {
	return b.month
}

func (b *Builder) Year() int {
	return b.year
}

func (b *Builder) Days() int {
	return DaysIn(b.month, b.year)
}

func (b *Builder) Employees() []Employee {
	return b.employees
}

// IsCurrentMonth reports whether the builder's month is the one containing today.
func (b *Builder) IsCurrentMonth() bool {
	today := b.now().In(b.loc)
	return int(today.Month()) == b.month && today.Year() == b.year
}

// Status returns the cell value for employee on day of the builder's month.
func (b *Builder) Status(employee Employee, day int) Status {
	target := time.Date(b.year, time.Month(b.month), day, 0, 0, 0, 0, b.loc)
	if _, ok := b.present[dayKey{employee.Token, target.Year(), target.Month(), target.Day()}]; ok {
		return Present
	}
	if b.IsCurrentMonth() && target.After(b.today()) {
		return Pending
	}
	return Absent
}

// Row returns the statuses of employee for days 1..Days().
func (b *Builder) Row(employee Employee) []Status {
	row := make([]Status, b.Days())
	for day := 1; day <= len(row); day++ {
		row[day-1] = b.Status(employee, day)
	}
	return row
}

// Matrix renders the grid as [Token, Employee, 1..N] plus one row per employee.
func (b *Builder) Matrix() Matrix {
	days := b.Days()

	header := make([]string, 0, days+len(matrixHeader))
	header = append(header, matrixHeader...)
	for day := 1; day <= days; day++ {
		header = append(header, strconv.Itoa(day))
	}

	m := make(Matrix, 0, len(b.employees)+1)
	m = append(m, header)
	for _, emp := range b.employees {
		row := make([]string, 0, len(header))
		row = append(row, emp.Token, emp.Name)
		for _, s := range b.Row(emp) {
			row = append(row, s.Code())
		}
		m = append(m, row)
	}
	return m
}

// Summary counts cells up to today for the current month, or over the whole
// month otherwise. Present and Absent always add up to Total; days that have
// not happened yet are reported as Pending and never counted as absent.
func (b *Builder) Summary() Summary {
	days := b.Days()
	counted := days
	if b.IsCurrentMonth() {
		counted = b.today().Day()
	}

	var s Summary
	s.Total = len(b.employees) * counted
	for _, emp := range b.employees {
		for day := 1; day <= days; day++ {
			status := b.Status(emp, day)
			switch {
			case day > counted:
				if status == Pending {
					s.Pending++
				}
			case status == Present:
				s.Present++
			}
		}
	}
	s.Absent = s.Total - s.Present
	return s
}

func (b *Builder) today() time.Time {
	now := b.now().In(b.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, b.loc)
}
