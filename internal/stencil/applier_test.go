package stencil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// seededGrid fills the input with an irregular field so that reordering a
// sum would show up in the low bits.
func seededGrid(size int) *Grid {
	g := NewGrid(size)
	g.Fill(func(i, j int) float64 {
		return float64((i*7919+j*104729)%1013)/97.0 + 0.1*float64(i) - 0.3*float64(j)
	})
	return g
}

func runPasses(t *testing.T, a Applier, size int, w *Weights, passes int) []float64 {
	t.Helper()
	g := seededGrid(size)
	for p := 0; p < passes; p++ {
		a.Apply(g, w)
		g.Perturb()
	}
	out := make([]float64, len(g.OutData()))
	copy(out, g.OutData())
	return out
}

func TestApplier_TiledMatchesUntiled(t *testing.T) {
	const size = 37
	for _, shape := range []Shape{Star, Compact} {
		for _, radius := range []int{1, 2, 3} {
			w, err := NewWeights(radius, shape)
			require.NoError(t, err)
			want := runPasses(t, Applier{}, size, w, 3)

			// Tiles that divide the interior evenly and tiles that do not.
			for _, tile := range []int{1, 3, 5, 7, 16, size - 2*radius, size} {
				got := runPasses(t, Applier{Tile: tile}, size, w, 3)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("shape=%v radius=%d tile=%d mismatch (-untiled +tiled):\n%s", shape, radius, tile, diff)
				}
			}
		}
	}
}

func TestApplier_WorkersMatchSerial(t *testing.T) {
	const size = 41
	for _, shape := range []Shape{Star, Compact} {
		w, err := NewWeights(2, shape)
		require.NoError(t, err)
		want := runPasses(t, Applier{}, size, w, 2)

		for _, a := range []Applier{
			{Workers: 2},
			{Workers: 3},
			{Workers: 8, Tile: 4},
			{Workers: 100},
		} {
			got := runPasses(t, a, size, w, 2)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("shape=%v %+v mismatch (-serial +parallel):\n%s", shape, a, diff)
			}
		}
	}
}

func TestApplier_LinearFieldGivesGradient(t *testing.T) {
	const size = 12
	for _, shape := range []Shape{Star, Compact} {
		w, err := NewWeights(2, shape)
		require.NoError(t, err)

		g := NewGrid(size)
		g.Fill(func(i, j int) float64 { return float64(i + j) })
		Applier{}.Apply(g, w)

		for j := 0; j < size; j++ {
			for i := 0; i < size; i++ {
				interior := i >= 2 && i < size-2 && j >= 2 && j < size-2
				if interior {
					assert.InDelta(t, 2.0, g.OutAt(i, j), 1e-12, "shape=%v (%d,%d)", shape, i, j)
				} else {
					assert.Equal(t, 0.0, g.OutAt(i, j), "boundary (%d,%d) written", i, j)
				}
			}
		}
	}
}

func TestApplier_Accumulates(t *testing.T) {
	w, err := NewWeights(1, Star)
	require.NoError(t, err)

	g := NewGrid(6)
	g.Fill(func(i, j int) float64 { return float64(i + j) })
	a := Applier{Tile: 2}
	for p := 1; p <= 4; p++ {
		a.Apply(g, w)
		g.Perturb()
		assert.InDelta(t, 2.0*float64(p), g.OutAt(2, 3), 1e-12)
	}
}

func TestApplier_GridTooSmall(t *testing.T) {
	w, err := NewWeights(2, Star)
	require.NoError(t, err)

	g := NewGrid(4)
	g.Fill(func(i, j int) float64 { return 1 })
	Applier{Workers: 4}.Apply(g, w)
	for _, v := range g.OutData() {
		assert.Equal(t, 0.0, v)
	}
}

func TestGrid_Perturb(t *testing.T) {
	g := NewGrid(3)
	g.SetIn(1, 2, 5)
	g.Perturb()

	assert.Equal(t, 6.0, g.InAt(1, 2))
	assert.Equal(t, 1.0, g.InAt(0, 0))
	assert.Equal(t, 6.0, g.In.At(2, 1), "cell (1,2) must be row 2, column 1")
	assert.Equal(t, 7, g.Index(1, 2))
	for _, v := range g.OutData() {
		assert.Equal(t, 0.0, v)
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi int
		n      int
		want   [][2]int
	}{
		{"even", 0, 6, 3, [][2]int{{0, 2}, {2, 4}, {4, 6}}},
		{"uneven", 2, 9, 3, [][2]int{{2, 5}, {5, 7}, {7, 9}}},
		{"more workers than rows", 1, 3, 5, [][2]int{{1, 2}, {2, 3}}},
		{"zero workers", 0, 4, 0, [][2]int{{0, 4}}},
		{"empty", 3, 3, 2, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Bands(tc.lo, tc.hi, tc.n)); diff != "" {
				t.Errorf("Bands mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
