package transform

import (
	"errors"
	"testing"

	"github.com/JonMunkholm/MatrixWizard/internal/entry"
	"github.com/JonMunkholm/MatrixWizard/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMatrix(t *testing.T, cells [][]string) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromStrings(cells)
	require.NoError(t, err)
	return m
}

func TestApply(t *testing.T) {
	t.Parallel()

	k := entry.MustParse
	tests := []struct {
		name  string
		cells [][]string
		cmd   Command
		want  string
	}{
		{"swap rows", [][]string{{"1", "2"}, {"3", "4"}}, Swap(Row, 0, 1), "[[3, 4], [1, 2]]"},
		{"swap cols", [][]string{{"1", "2"}, {"3", "4"}}, Swap(Col, 0, 1), "[[2, 1], [4, 3]]"},
		{"swap same is noop", [][]string{{"1", "2"}, {"3", "4"}}, Swap(Row, 1, 1), "[[1, 2], [3, 4]]"},
		{"add row", [][]string{{"1", "2"}, {"3", "4"}}, ScaledAdd(Row, 1, 0, k("-3")), "[[1, 2], [0, -2]]"},
		{"subtract col", [][]string{{"1", "2"}, {"3", "4"}}, ScaledSubtract(Col, 1, 0, k("2")), "[[1, 0], [3, -2]]"},
		{"add fractions", [][]string{{"1/2", "1/3"}, {"1", "1"}}, ScaledAdd(Row, 1, 0, k("1/2")), "[[1/2, 1/3], [5/4, 7/6]]"},
		{"add symbolic", [][]string{{"x", "1"}, {"y", "x"}}, ScaledAdd(Row, 1, 0, k("2")), "[[x, 1], [2x+y, x+2]]"},
		{"self add", [][]string{{"1", "x"}, {"5", "6"}}, ScaledAdd(Row, 0, 0, k("2")), "[[3, 3x], [5, 6]]"},
		{"self subtract zeroes", [][]string{{"1", "x"}}, ScaledSubtract(Row, 0, 0, k("1")), "[[0, 0]]"},
		{"scale row", [][]string{{"1/2", "x"}, {"3", "4"}}, Scale(Row, 0, k("2")), "[[1, 2x], [3, 4]]"},
		{"scale col", [][]string{{"1", "2"}, {"3", "4"}}, Scale(Col, 1, k("-1/2")), "[[1, -1], [3, -2]]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := mustMatrix(t, tt.cells)
			before := m.String()

			got, err := Apply(m, tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
			assert.Equal(t, before, m.String(), "input must not change")
		})
	}
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]string{{"1", "x"}, {"3", "4"}})
	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{"target row out of range", Swap(Row, 2, 0), ErrIndexOutOfRange},
		{"source col out of range", ScaledAdd(Col, 0, 5, entry.Int(1)), ErrIndexOutOfRange},
		{"negative index", Scale(Row, -1, entry.Int(2)), ErrIndexOutOfRange},
		{"variable coefficient", Scale(Row, 0, entry.MustParse("x")), ErrCoefficientMustBeConstant},
		{"polynomial coefficient", ScaledAdd(Row, 0, 1, entry.MustParse("x+1")), ErrCoefficientMustBeConstant},
		{"degraded coefficient", ScaledSubtract(Row, 0, 1, entry.Unsimplified("(x)*(y)")), ErrCoefficientMustBeConstant},
		{"zero scale", Scale(Col, 0, entry.Zero()), ErrZeroScale},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Apply(m, tt.cmd)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Apply(nil, Swap(Row, 0, 0))
	assert.ErrorIs(t, err, matrix.ErrEmptyMatrix)
}

func TestApply_IndexErrorNamesOperand(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]string{{"1", "2"}})
	_, err := Apply(m, ScaledAdd(Col, 0, 3, entry.Int(1)))

	var ie *IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, Col, ie.Axis)
	assert.Equal(t, 3, ie.Index)
	assert.Equal(t, "column 4 is out of range (matrix has 2)", ie.Error())
}

func TestSwapIsSelfInverse(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]string{
		{"1", "x", "1/2"},
		{"-y", "0", "2a+3"},
		{"λ", "7/3", "m-n"},
	})
	for _, axis := range []Axis{Row, Col} {
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				if i == j {
					continue
				}
				once, err := Apply(m, Swap(axis, i, j))
				require.NoError(t, err)
				twice, err := Apply(once, Swap(axis, i, j))
				require.NoError(t, err)
				assert.True(t, m.Equal(twice), "%s %d<->%d", axis, i, j)
			}
		}
	}
}

func TestAddThenSubtractRestores(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]string{
		{"1", "-2/3", "5"},
		{"0.5", "4", "-7/9"},
	})
	for _, ks := range []string{"1", "-3", "2/5", "0.25"} {
		k := entry.MustParse(ks)
		added, err := Apply(m, ScaledAdd(Row, 0, 1, k))
		require.NoError(t, err)
		back, err := Apply(added, ScaledSubtract(Row, 0, 1, k))
		require.NoError(t, err)
		assert.True(t, m.Equal(back), "k=%s", ks)
	}
}

func TestScaleByOneIsIdentity(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]string{{"x-1/2", "a/b"}, {"3", "λ"}})
	for _, axis := range []Axis{Row, Col} {
		for i := 0; i < 2; i++ {
			got, err := Apply(m, Scale(axis, i, entry.Int(1)))
			require.NoError(t, err)
			assert.True(t, m.Equal(got))
		}
	}
}

func TestApply_DegradedOperands(t *testing.T) {
	t.Parallel()

	m := mustMatrix(t, [][]string{{"a/b", "1"}, {"x", "2"}})

	got, err := Apply(m, ScaledAdd(Row, 1, 0, entry.Int(2)))
	require.NoError(t, err)
	cell, err := got.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, entry.KindUnsimplified, cell.Kind())
	assert.Equal(t, "(x)+(2)*(a/b)", cell.String())

	cell, err = got.At(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "4", cell.String())
}

func TestCommandString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "r1 ↔ r2", Swap(Row, 0, 1).String())
	assert.Equal(t, "r2 + 3×r1", ScaledAdd(Row, 1, 0, entry.Int(3)).String())
	assert.Equal(t, "c1 − 1/2×c3", ScaledSubtract(Col, 0, 2, entry.Frac(1, 2)).String())
	assert.Equal(t, "-2×c2", Scale(Col, 1, entry.Int(-2)).String())
}
