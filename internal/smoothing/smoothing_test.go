package smoothing

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialFilter(t *testing.T) {
	t.Run("first call passes through", func(t *testing.T) {
		f := NewExponentialFilter(0.3)
		x, y := f.Update(100, 200)
		assert.Equal(t, 100.0, x)
		assert.Equal(t, 200.0, y)
	})

	t.Run("blends with previous output", func(t *testing.T) {
		f := NewExponentialFilter(0.25)
		f.Update(0, 0)

		x, y := f.Update(100, 40)
		assert.InDelta(t, 25.0, x, 1e-9)
		assert.InDelta(t, 10.0, y, 1e-9)

		// The previous value is the smoothed output, not the raw input.
		x, _ = f.Update(100, 40)
		assert.InDelta(t, 0.25*100+0.75*25, x, 1e-9)
	})

	t.Run("alpha is clamped", func(t *testing.T) {
		f := NewExponentialFilter(3)
		f.Update(0, 0)
		x, _ := f.Update(10, 10)
		assert.Equal(t, 10.0, x)

		g := NewExponentialFilter(-1)
		g.Update(0, 0)
		x, _ = g.Update(10, 10)
		assert.Equal(t, 0.0, x)
	})

	t.Run("reset reseeds", func(t *testing.T) {
		f := NewExponentialFilter(0.5)
		f.Update(0, 0)
		f.Update(10, 10)
		f.Reset()

		x, y := f.Update(7, 9)
		assert.Equal(t, 7.0, x)
		assert.Equal(t, 9.0, y)
	})
}

func TestMovingAverageFilter(t *testing.T) {
	t.Run("averages partial window", func(t *testing.T) {
		f := NewMovingAverageFilter(4)
		f.Update(10, 0)
		x, y := f.Update(20, 4)
		assert.InDelta(t, 15.0, x, 1e-9)
		assert.InDelta(t, 2.0, y, 1e-9)
	})

	t.Run("evicts oldest first", func(t *testing.T) {
		f := NewMovingAverageFilter(3)
		f.Update(1, 1)
		f.Update(2, 2)
		f.Update(3, 3)
		x, _ := f.Update(10, 10)

		assert.Equal(t, 3, f.Len())
		assert.InDelta(t, (2.0+3.0+10.0)/3, x, 1e-9)
	})

	t.Run("window of one is identity", func(t *testing.T) {
		f := NewMovingAverageFilter(0)
		f.Update(5, 5)
		x, y := f.Update(8, 13)
		assert.Equal(t, 8.0, x)
		assert.Equal(t, 13.0, y)
		assert.Equal(t, 1, f.Len())
	})

	t.Run("reset empties history", func(t *testing.T) {
		f := NewMovingAverageFilter(5)
		f.Update(100, 100)
		f.Update(200, 200)
		f.Reset()

		assert.Equal(t, 0, f.Len())
		x, _ := f.Update(1, 1)
		assert.Equal(t, 1.0, x)
	})
}

func TestDeadZoneFilter(t *testing.T) {
	f := NewDeadZoneFilter(5)

	x, y := f.Update(100, 100)
	require.Equal(t, 100.0, x)
	require.Equal(t, 100.0, y)

	// 3-4-5 move lands exactly on the threshold and is suppressed.
	x, y = f.Update(103, 104)
	assert.Equal(t, 100.0, x)
	assert.Equal(t, 100.0, y)

	// Distance is measured from the last emitted position, not the last input.
	x, y = f.Update(106, 100)
	assert.Equal(t, 106.0, x)
	assert.Equal(t, 100.0, y)

	f.Reset()
	x, y = f.Update(1, 2)
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 2.0, y)
}

func TestSmoother_PipelineOrder(t *testing.T) {
	s := NewSmoother(2, 1, 0.5)

	x, y := s.Update(0, 0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	// exponential: 50, average of [0, 50]: 25, dead zone: 25 > 1 so adopted.
	x, y = s.Update(100, 100)
	assert.InDelta(t, 25.0, x, 1e-9)
	assert.InDelta(t, 25.0, y, 1e-9)

	// exponential: 75, average of [50, 75]: 62.5.
	x, _ = s.Update(100, 100)
	assert.InDelta(t, 62.5, x, 1e-9)
}

func TestSmoother_DeadZoneHoldsSmallMoves(t *testing.T) {
	s := NewSmoother(1, 8, 1)

	s.Update(500, 500)
	x, y := s.Update(505, 503)
	assert.Equal(t, 500.0, x)
	assert.Equal(t, 500.0, y)

	x, y = s.Update(520, 500)
	assert.Equal(t, 520.0, x)
	assert.Equal(t, 500.0, y)
}

func TestSmoother_ResetRestoresPassThrough(t *testing.T) {
	s := NewDefaultSmoother()
	for i := 0; i < 20; i++ {
		s.Update(float64(i*37), float64(i*11))
	}

	s.Reset()

	x, y := s.Update(812.5, 94.25)
	assert.Equal(t, 812.5, x)
	assert.Equal(t, 94.25, y)
}

func TestSmoother_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	coord := gen.Float64Range(0, 4000)
	window := gen.IntRange(1, 20)
	alpha := gen.Float64Range(0, 1)
	deadZone := gen.Float64Range(0, 20)

	properties.Property("constant input is reproduced exactly", prop.ForAll(
		func(x, y float64, n int, a, dz float64) bool {
			s := NewSmoother(n, dz, a)
			for i := 0; i < 3*n+2; i++ {
				gx, gy := s.Update(x, y)
				if gx != x || gy != y {
					return false
				}
			}
			return true
		},
		coord, coord, window, alpha, deadZone,
	))

	properties.Property("sub-filters converge exactly on constant input", prop.ForAll(
		func(x, y float64, n int, a float64) bool {
			e := NewExponentialFilter(a)
			m := NewMovingAverageFilter(n)
			for i := 0; i < n+2; i++ {
				ex, ey := e.Update(x, y)
				mx, my := m.Update(x, y)
				if ex != x || ey != y || mx != x || my != y {
					return false
				}
			}
			return true
		},
		coord, coord, window, alpha,
	))

	properties.Property("reset restores first-call semantics", prop.ForAll(
		func(history []float64, x, y float64, n int, a, dz float64) bool {
			s := NewSmoother(n, dz, a)
			for _, v := range history {
				s.Update(v, 4000-v)
			}
			s.Reset()
			gx, gy := s.Update(x, y)
			return gx == x && gy == y
		},
		gen.SliceOf(coord), coord, coord, window, alpha, deadZone,
	))

	properties.TestingRun(t)
}
