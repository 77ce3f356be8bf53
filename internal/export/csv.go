package export

import (
	"encoding/csv"
	"io"

	"github.com/syrilster/attendance-grid/internal/grid"
)

// WriteCSV writes one CSV line per matrix row.
func WriteCSV(w io.Writer, m grid.Matrix) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(m); err != nil {
		return err
	}
	return cw.Error()
}

// ReadCSV decodes what WriteCSV produced.
func ReadCSV(r io.Reader) (grid.Matrix, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	return grid.Matrix(rows), nil
}
