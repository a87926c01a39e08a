package transform

import (
	"testing"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
)

// benchMatrix builds an n×n matrix of mixed constants and polynomials.
func benchMatrix(b *testing.B, n int) *matrix.Matrix {
	b.Helper()
	cells := []string{"1", "-2/3", "x", "0.25", "2y + 1", "5"}
	grid := make([][]string, n)
	for r := range grid {
		grid[r] = make([]string, n)
		for c := range grid[r] {
			grid[r][c] = cells[(r*n+c)%len(cells)]
		}
	}
	m, err := matrix.FromStrings(grid)
	if err != nil {
		b.Fatal(err)
	}
	return m
}

// BenchmarkApply_ScaledAdd benchmarks a row operation on the largest grid.
func BenchmarkApply_ScaledAdd(b *testing.B) {
	m := benchMatrix(b, 10)
	cmd := ScaledAdd(Row, 0, 9, entry.Frac(-7, 3))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Apply(m, cmd); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkApply_Swap benchmarks a column swap, which only copies.
func BenchmarkApply_Swap(b *testing.B) {
	m := benchMatrix(b, 10)
	cmd := Swap(Col, 2, 7)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Apply(m, cmd); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseCommand benchmarks reading the transformation form.
func BenchmarkParseCommand(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ParseCommand("r3", "r1", "-1/2", "+")
	}
}
