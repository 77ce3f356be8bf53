// Package export serializes an attendance matrix to CSV and XLSX and reads
// it back. Cell values are taken verbatim from the matrix.
package export

import (
	"errors"
	"fmt"
	"strings"
)

type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"

	sheetName = "Attendance"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case CSV, XLSX:
		return f, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnsupportedFormat)
}

// FileName returns attendance_<month>_<year>.<format>.
func FileName(month int, year int, format Format) string {
	return fmt.Sprintf("attendance_%d_%d.%s", month, year, format)
}

func (f Format) ContentType() string {
	if f == XLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
