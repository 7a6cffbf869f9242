package gesture

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handmouse/internal/detector"
)

func TestClassifier_Pinch(t *testing.T) {
	c := NewDefaultClassifier()

	t.Run("thumb and index close together", func(t *testing.T) {
		hand := detector.OpenPalmLandmarks()
		hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.50, Y: 0.50}
		hand.Points[detector.IndexTip] = detector.Point3D{X: 0.52, Y: 0.51}

		pinching, distance := c.Pinch(&hand)

		assert.True(t, pinching)
		assert.InDelta(t, 0.0224, distance, 1e-4)
	})

	t.Run("distance equal to threshold is not a pinch", func(t *testing.T) {
		hand := detector.OpenPalmLandmarks()
		hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.40, Y: 0.40}
		hand.Points[detector.IndexTip] = detector.Point3D{X: 0.43, Y: 0.44}

		exact := detector.Distance(hand.Points[detector.ThumbTip], hand.Points[detector.IndexTip])
		pinching, distance := NewClassifier(exact, DefaultFistThreshold).Pinch(&hand)

		assert.False(t, pinching)
		assert.Equal(t, exact, distance)
	})

	t.Run("open palm is not a pinch", func(t *testing.T) {
		hand := detector.OpenPalmLandmarks()
		pinching, _ := c.Pinch(&hand)
		assert.False(t, pinching)
	})
}

func TestClassifier_TwoFingerPinch(t *testing.T) {
	c := NewDefaultClassifier()

	hand := detector.TwoFingerPinchLandmarks()
	twoFinger, distance := c.TwoFingerPinch(&hand)
	assert.True(t, twoFinger)
	assert.Less(t, distance, DefaultPinchThreshold)

	pinching, _ := c.Pinch(&hand)
	assert.False(t, pinching, "middle pinch should not read as index pinch")
}

func TestClassifier_BothPinchesReported(t *testing.T) {
	c := NewDefaultClassifier()

	hand := detector.OpenPalmLandmarks()
	hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.50, Y: 0.30}
	hand.Points[detector.IndexTip] = detector.Point3D{X: 0.51, Y: 0.30}
	hand.Points[detector.MiddleTip] = detector.Point3D{X: 0.49, Y: 0.31}

	flags := c.Classify(&hand)

	assert.True(t, flags.Pinching)
	assert.True(t, flags.TwoFingerPinching)
	assert.True(t, flags.AnyPinch())
}

func TestClassifier_Fist(t *testing.T) {
	c := NewDefaultClassifier()

	wrist := detector.Point3D{X: 0.5, Y: 0.5}
	hand := detector.HandLandmarks{}
	hand.Points[detector.Wrist] = wrist

	offsets := []detector.Point3D{
		{X: 0.05}, {X: -0.05}, {Y: 0.05}, {Y: -0.05}, {Z: 0.05},
	}
	for i, tip := range detector.Fingertips {
		hand.Points[tip] = detector.Point3D{X: wrist.X + offsets[i].X, Y: wrist.Y + offsets[i].Y, Z: wrist.Z + offsets[i].Z}
	}

	assert.True(t, c.Fist(&hand), "average 0.05 should be a fist")

	// Two fingertips out to 0.2 lifts the average to 0.11.
	hand.Points[detector.IndexTip] = detector.Point3D{X: wrist.X + 0.2, Y: wrist.Y}
	hand.Points[detector.PinkyTip] = detector.Point3D{X: wrist.X, Y: wrist.Y - 0.2}

	assert.False(t, c.Fist(&hand), "average 0.11 should not be a fist")
}

func TestClassifier_Presets(t *testing.T) {
	c := NewDefaultClassifier()

	tests := []struct {
		name  string
		hand  detector.HandLandmarks
		check func(t *testing.T, f Flags)
	}{
		{
			name: "open palm",
			hand: detector.OpenPalmLandmarks(),
			check: func(t *testing.T, f Flags) {
				assert.True(t, f.ScrollPose)
				assert.False(t, f.Pointing)
				assert.False(t, f.Fist)
				assert.False(t, f.AnyPinch())
			},
		},
		{
			name: "pointing",
			hand: detector.PointingLandmarks(),
			check: func(t *testing.T, f Flags) {
				assert.True(t, f.Pointing)
				assert.False(t, f.ScrollPose)
				assert.False(t, f.Fist)
				assert.False(t, f.AnyPinch())
			},
		},
		{
			name: "fist",
			hand: detector.FistLandmarks(),
			check: func(t *testing.T, f Flags) {
				assert.True(t, f.Fist)
				assert.False(t, f.Pointing)
				assert.False(t, f.ScrollPose)
				assert.False(t, f.AnyPinch())
			},
		},
		{
			name: "pinch",
			hand: detector.PinchLandmarks(),
			check: func(t *testing.T, f Flags) {
				assert.True(t, f.Pinching)
				assert.False(t, f.TwoFingerPinching)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, c.Classify(&tt.hand))
		})
	}
}

func TestClassifier_ScrollPoseNeedsThreeFingers(t *testing.T) {
	c := NewDefaultClassifier()
	hand := detector.OpenPalmLandmarks()
	require.Equal(t, 4, c.ExtendedFingers(&hand))

	// Curl the pinky: three fingers remain extended.
	hand.Points[detector.PinkyTip] = hand.Points[detector.PinkyMCP]
	assert.Equal(t, 3, c.ExtendedFingers(&hand))
	assert.True(t, c.ScrollPose(&hand))

	// Curl the ring finger too: only two remain.
	hand.Points[detector.RingTip] = hand.Points[detector.RingMCP]
	assert.Equal(t, 2, c.ExtendedFingers(&hand))
	assert.False(t, c.ScrollPose(&hand))
}

func TestClassifier_Anchors(t *testing.T) {
	c := NewDefaultClassifier()
	hand := detector.OpenPalmLandmarks()

	flags := c.Classify(&hand)

	assert.Equal(t, hand.Points[detector.Wrist].Y, flags.VerticalPosition)
	assert.Equal(t, hand.Points[detector.IndexTip], flags.Cursor)
}

func TestClassifier_NaNDegradesToNoGesture(t *testing.T) {
	c := NewDefaultClassifier()

	hand := detector.HandLandmarks{}
	for i := range hand.Points {
		hand.Points[i] = detector.Point3D{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	}

	flags := c.Classify(&hand)

	assert.False(t, flags.Pinching)
	assert.False(t, flags.TwoFingerPinching)
	assert.False(t, flags.Fist)
	assert.False(t, flags.Pointing)
	assert.False(t, flags.ScrollPose)
}

func TestClassifier_PinchMonotonic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("pinching iff distance below threshold", prop.ForAll(
		func(dx, dy, dz, threshold float64) bool {
			hand := detector.OpenPalmLandmarks()
			hand.Points[detector.ThumbTip] = detector.Point3D{X: 0.5, Y: 0.5}
			hand.Points[detector.IndexTip] = detector.Point3D{X: 0.5 + dx, Y: 0.5 + dy, Z: dz}

			pinching, distance := NewClassifier(threshold, DefaultFistThreshold).Pinch(&hand)
			return pinching == (distance < threshold)
		},
		gen.Float64Range(-0.1, 0.1),
		gen.Float64Range(-0.1, 0.1),
		gen.Float64Range(-0.1, 0.1),
		gen.Float64Range(0.001, 0.2),
	))

	properties.Property("classification ignores previous frames", prop.ForAll(
		func(dx, dy float64) bool {
			c := NewDefaultClassifier()
			moved := detector.Translate(detector.PinchLandmarks(), dx, dy)
			palm := detector.OpenPalmLandmarks()

			first := c.Classify(&moved)
			c.Classify(&palm)
			second := c.Classify(&moved)
			return first == second
		},
		gen.Float64Range(-0.3, 0.3),
		gen.Float64Range(-0.3, 0.3),
	))

	properties.TestingRun(t)
}
