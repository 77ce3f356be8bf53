package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"github.com/syrilster/attendance-grid/internal/grid"
)

const (
	nameColWidth = 24
	dayColWidth  = 4
)

// WriteXLSX writes the matrix to a single sheet workbook, one string cell per
// matrix cell, with the header row in bold.
func WriteXLSX(w io.Writer, m grid.Matrix) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	for i, row := range m {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(m) > 0 {
		if err := styleSheet(f, len(m[0])); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func styleSheet(f *excelize.File, cols int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(sheetName, "A", "B", nameColWidth); err != nil {
		return err
	}
	if cols > 2 {
		last, err := excelize.ColumnNumberToName(cols)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, "C", last, dayColWidth); err != nil {
			return err
		}
	}
	return nil
}

// ReadXLSX decodes the first sheet of a workbook produced by WriteXLSX.
func ReadXLSX(b []byte) (grid.Matrix, error) {
	file, err := xlsx.OpenBinary(b)
	if err != nil {
		return nil, err
	}

	m := grid.Matrix{}
	if len(file.Sheets) == 0 {
		return m, nil
	}

	for _, row := range file.Sheets[0].Rows {
		if row == nil {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.Value
		}
		m = append(m, cells)
	}
	return m, nil
}
