package matrix

import (
	"fmt"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
)

// View is the read-only picture of a matrix handed to renderers and
// stores. Degraded marks cells holding Unsimplified entries, whose text
// cannot be normalized back.
type View struct {
	Rows     int        `json:"rows" yaml:"rows"`
	Cols     int        `json:"cols" yaml:"cols"`
	Cells    [][]string `json:"cells" yaml:"cells"`
	Degraded [][]bool   `json:"degraded,omitempty" yaml:"degraded,omitempty"`
}

// View returns a detached snapshot of m for display or persistence.
func (m *Matrix) View() View {
	v := View{Rows: m.rows, Cols: m.cols, Cells: m.Strings()}
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if !m.cells[r*m.cols+c].IsDegraded() {
				continue
			}
			if v.Degraded == nil {
				v.Degraded = make([][]bool, m.rows)
				for i := range v.Degraded {
					v.Degraded[i] = make([]bool, m.cols)
				}
			}
			v.Degraded[r][c] = true
		}
	}
	return v
}

// IsDegraded reports whether cell (r, c) of the view is Unsimplified.
func (v View) IsDegraded(r, c int) bool {
	return v.Degraded != nil && r < len(v.Degraded) && c < len(v.Degraded[r]) && v.Degraded[r][c]
}

// FromView rebuilds a matrix from a view. Canonical cells are normalized
// again; degraded cells are restored verbatim.
func FromView(v View) (*Matrix, error) {
	if len(v.Cells) != v.Rows {
		return nil, fmt.Errorf("%w: view has %d rows, header says %d", ErrRaggedRows, len(v.Cells), v.Rows)
	}
	m, err := New(v.Rows, v.Cols)
	if err != nil {
		return nil, err
	}
	for r, row := range v.Cells {
		if len(row) != v.Cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedRows, r+1, len(row), v.Cols)
		}
		for c, text := range row {
			if v.IsDegraded(r, c) {
				m.cells[r*v.Cols+c] = entry.Unsimplified(text)
				continue
			}
			e, err := entry.Normalize(text, entry.Position{Row: r + 1, Col: c + 1})
			if err != nil {
				return nil, err
			}
			m.cells[r*v.Cols+c] = e
		}
	}
	return m, nil
}

// Clone returns a deep copy of v.
func (v View) Clone() View {
	out := View{Rows: v.Rows, Cols: v.Cols}
	if v.Cells != nil {
		out.Cells = make([][]string, len(v.Cells))
		for i, row := range v.Cells {
			out.Cells[i] = append([]string(nil), row...)
		}
	}
	if v.Degraded != nil {
		out.Degraded = make([][]bool, len(v.Degraded))
		for i, row := range v.Degraded {
			out.Degraded[i] = append([]bool(nil), row...)
		}
	}
	return out
}
