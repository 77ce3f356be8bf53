package export

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/syrilster/attendance-grid/internal/grid"
)

func sampleMatrix(t *testing.T, employees []grid.Employee) grid.Matrix {
	t.Helper()
	now := func() time.Time { return time.Date(2025, time.November, 10, 12, 0, 0, 0, time.UTC) }
	events := []grid.Event{
		{EmployeeToken: "EMP1", Date: time.Date(2025, time.November, 3, 9, 0, 0, 0, time.UTC), Present: true},
		{EmployeeToken: "EMP2", Date: time.Date(2025, time.November, 4, 9, 0, 0, 0, time.UTC), Present: true},
	}
	return grid.New(events, employees, 11, 2025, grid.WithClock(now), grid.WithLocation(time.UTC)).Matrix()
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		employees []grid.Employee
	}{
		{
			name: "two employees",
			employees: []grid.Employee{
				{Token: "EMP1", Name: "Asha, K"},
				{Token: "EMP2", Name: grid.NamePlaceholder},
			},
		},
		{
			name: "header only",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sampleMatrix(t, tt.employees)
			require.Len(t, m, len(tt.employees)+1)

			var csvBuf bytes.Buffer
			require.NoError(t, WriteCSV(&csvBuf, m))
			gotCSV, err := ReadCSV(&csvBuf)
			require.NoError(t, err)
			require.Equal(t, m, gotCSV)

			var xlsxBuf bytes.Buffer
			require.NoError(t, WriteXLSX(&xlsxBuf, m))
			gotXLSX, err := ReadXLSX(xlsxBuf.Bytes())
			require.NoError(t, err)
			require.Equal(t, m, gotXLSX)

			require.Equal(t, gotCSV, gotXLSX)
			for _, row := range gotXLSX {
				require.Len(t, row, 30+2)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" XLSX ")
	require.NoError(t, err)
	require.Equal(t, XLSX, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	require.Equal(t, CSV, f)

	_, err = ParseFormat("pdf")
	require.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestFileName(t *testing.T) {
	require.Equal(t, "attendance_11_2025.csv", FileName(11, 2025, CSV))
	require.Equal(t, "attendance_2_2025.xlsx", FileName(2, 2025, XLSX))
}

func TestReadXLSX_Invalid(t *testing.T) {
	_, err := ReadXLSX([]byte("not a workbook"))
	require.Error(t, err)
}
