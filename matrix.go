package matgrid

import "fmt"

// Matrix is a host-resident, row-major 2-D array of float64 values with a
// fixed shape. A Matrix owns its backing storage; operations in this
// package never alias it with device memory, so inputs are safe to reuse
// after any call. Only the two documented in-place operations mutate an
// argument.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero-filled rows×cols matrix.
// It panics if either dimension is not positive, since a zero-area matrix
// has no meaning in this library.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("matgrid: invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}
}

// MatrixFromRows builds a matrix from a slice of rows, copying the data.
// All rows must have the same, non-zero length.
func MatrixFromRows(rows [][]float64) (*Matrix, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, shapeError("MatrixFromRows", "matrix must have at least one row and one column")
	}
	cols := len(rows[0])
	m := NewMatrix(len(rows), cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, shapeError("MatrixFromRows",
				fmt.Sprintf("ragged input: row %d has %d columns, want %d", i, len(r), cols))
		}
		copy(m.row(i), r)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the element at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	return m.data[i*m.cols+j]
}

// Set stores v at row i, column j.
func (m *Matrix) Set(i, j int, v float64) {
	m.data[i*m.cols+j] = v
}

// Data returns the row-major backing slice. Mutating it mutates the matrix.
func (m *Matrix) Data() []float64 { return m.data }

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	c := NewMatrix(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// row returns the backing slice for row i.
func (m *Matrix) row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// sameShape reports whether m and o have identical dimensions.
func (m *Matrix) sameShape(o *Matrix) bool {
	return m.rows == o.rows && m.cols == o.cols
}

// shape renders the dimensions for error messages.
func (m *Matrix) shape() string {
	return fmt.Sprintf("%dx%d", m.rows, m.cols)
}
