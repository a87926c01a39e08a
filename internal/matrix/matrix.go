// Package matrix holds the rows×cols grid of entries the wizard edits.
//
// Indices are 0-based in this package. Errors name the 1-based row or
// column a user would see.
package matrix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
)

var (
	ErrBadShape         = errors.New("matrix: rows and columns must be positive")
	ErrOutOfRange       = errors.New("matrix: index out of range")
	ErrEmptyMatrix      = errors.New("matrix: matrix is empty")
	ErrRaggedRows       = errors.New("matrix: rows have different column counts")
	ErrMalformedLiteral = errors.New("matrix: malformed literal")
)

// Matrix is a rows×cols grid of canonical entries stored row-major.
type Matrix struct {
	rows, cols int
	cells      []entry.Entry
}

// New returns a rows×cols matrix with every cell Integer(0).
func New(rows, cols int) (*Matrix, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: got %d×%d", ErrBadShape, rows, cols)
	}
	return &Matrix{rows: rows, cols: cols, cells: make([]entry.Entry, rows*cols)}, nil
}

// FromEntries builds a matrix from a rectangular grid. Entries are cloned.
func FromEntries(grid [][]entry.Entry) (*Matrix, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	m, err := New(len(grid), len(grid[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range grid {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRows, r+1, len(row), m.cols)
		}
		for c, e := range row {
			m.cells[r*m.cols+c] = e.Clone()
		}
	}
	return m, nil
}

// FromStrings normalizes every cell and builds a matrix. The first invalid
// cell aborts the whole build and is returned as an *entry.ValidationError
// located at its 1-based position.
func FromStrings(grid [][]string) (*Matrix, error) {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return nil, ErrEmptyMatrix
	}
	cols := len(grid[0])
	m, err := New(len(grid), cols)
	if err != nil {
		return nil, err
	}
	for r, row := range grid {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRows, r+1, len(row), cols)
		}
		for c, raw := range row {
			e, err := entry.Normalize(raw, entry.Position{Row: r + 1, Col: c + 1})
			if err != nil {
				return nil, err
			}
			m.cells[r*cols+c] = e
		}
	}
	return m, nil
}

func (m *Matrix) Rows() int { return m.rows }
func (m *Matrix) Cols() int { return m.cols }

// Dimensions renders the shape as "R×C".
func (m *Matrix) Dimensions() string {
	return fmt.Sprintf("%d×%d", m.rows, m.cols)
}

func (m *Matrix) checkRow(r int) error {
	if r < 0 || r >= m.rows {
		return fmt.Errorf("%w: row %d not in 1..%d", ErrOutOfRange, r+1, m.rows)
	}
	return nil
}

func (m *Matrix) checkCol(c int) error {
	if c < 0 || c >= m.cols {
		return fmt.Errorf("%w: column %d not in 1..%d", ErrOutOfRange, c+1, m.cols)
	}
	return nil
}

// At returns the entry at (r, c).
func (m *Matrix) At(r, c int) (entry.Entry, error) {
	if err := m.checkRow(r); err != nil {
		return entry.Entry{}, err
	}
	if err := m.checkCol(c); err != nil {
		return entry.Entry{}, err
	}
	return m.cells[r*m.cols+c], nil
}

// Set stores an already normalized entry at (r, c). It does not
// re-validate e.
func (m *Matrix) Set(r, c int, e entry.Entry) error {
	if err := m.checkRow(r); err != nil {
		return err
	}
	if err := m.checkCol(c); err != nil {
		return err
	}
	m.cells[r*m.cols+c] = e
	return nil
}

// Row returns a copy of row r.
func (m *Matrix) Row(r int) ([]entry.Entry, error) {
	if err := m.checkRow(r); err != nil {
		return nil, err
	}
	out := make([]entry.Entry, m.cols)
	copy(out, m.cells[r*m.cols:(r+1)*m.cols])
	return out, nil
}

// Col returns a copy of column c.
func (m *Matrix) Col(c int) ([]entry.Entry, error) {
	if err := m.checkCol(c); err != nil {
		return nil, err
	}
	out := make([]entry.Entry, m.rows)
	for r := range out {
		out[r] = m.cells[r*m.cols+c]
	}
	return out, nil
}

// SetRow replaces row r.
func (m *Matrix) SetRow(r int, vals []entry.Entry) error {
	if err := m.checkRow(r); err != nil {
		return err
	}
	if len(vals) != m.cols {
		return fmt.Errorf("%w: row needs %d entries, got %d", ErrBadShape, m.cols, len(vals))
	}
	copy(m.cells[r*m.cols:(r+1)*m.cols], vals)
	return nil
}

// SetCol replaces column c.
func (m *Matrix) SetCol(c int, vals []entry.Entry) error {
	if err := m.checkCol(c); err != nil {
		return err
	}
	if len(vals) != m.rows {
		return fmt.Errorf("%w: column needs %d entries, got %d", ErrBadShape, m.rows, len(vals))
	}
	for r, e := range vals {
		m.cells[r*m.cols+c] = e
	}
	return nil
}

// Clone returns a deep copy that shares nothing with m.
func (m *Matrix) Clone() *Matrix {
	if m == nil {
		return nil
	}
	c := &Matrix{rows: m.rows, cols: m.cols, cells: make([]entry.Entry, len(m.cells))}
	for i, e := range m.cells {
		c.cells[i] = e.Clone()
	}
	return c
}

// Equal reports whether m and o have the same shape and entries.
func (m *Matrix) Equal(o *Matrix) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.cells {
		if !m.cells[i].Equal(o.cells[i]) {
			return false
		}
	}
	return true
}

// Strings returns the display string of every cell.
func (m *Matrix) Strings() [][]string {
	out := make([][]string, m.rows)
	for r := range out {
		out[r] = make([]string, m.cols)
		for c := range out[r] {
			out[r][c] = m.cells[r*m.cols+c].String()
		}
	}
	return out
}

// String renders m as a bracketed literal, e.g. [[1, 2], [3, x]].
func (m *Matrix) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for r, row := range m.Strings() {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteString("[" + strings.Join(row, ", ") + "]")
	}
	b.WriteByte(']')
	return b.String()
}
