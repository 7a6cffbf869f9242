package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands  []HandLandmarks
	script [][]HandLandmarks
	err    error
	calls  int
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by every Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.script = nil
}

// SetScript sets a per-call sequence of results. Call i returns script[i];
// once the script is exhausted Detect falls back to the hands set by SetHands.
// A nil entry simulates a frame with no hand.
func (m *MockDetector) SetScript(script [][]HandLandmarks) {
	m.script = script
	m.calls = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	call := m.calls
	m.calls++
	if call < len(m.script) {
		return m.script[call], nil
	}
	return m.hands, nil
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Close marks the detector closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// OpenPalmLandmarks returns a right hand with all fingers extended upward.
// Every long finger clears the extension distance, so it reads as the scroll pose.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// PinchLandmarks returns an open palm with the thumb tip touching the index tip.
func PinchLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	landmarks.Points[ThumbIP] = Point3D{X: 0.64, Y: 0.45, Z: 0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.60, Y: 0.36, Z: 0.0}
	return landmarks
}

// TwoFingerPinchLandmarks returns an open palm with the thumb tip touching the
// middle fingertip.
func TwoFingerPinchLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.42, Z: 0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.51, Y: 0.29, Z: 0.0}
	return landmarks
}

// PointingLandmarks returns a hand with only the index finger extended.
func PointingLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()

	// Thumb tucked against the palm
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.68, Z: -0.01}
	landmarks.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.66, Z: -0.02}

	// Middle, ring and pinky curled back toward their knuckles
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.62, Z: -0.04}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.70, Z: -0.03}

	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.64, Z: -0.04}
	landmarks.Points[RingDIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	landmarks.Points[RingTip] = Point3D{X: 0.45, Y: 0.71, Z: -0.03}

	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.67, Z: -0.04}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	landmarks.Points[PinkyTip] = Point3D{X: 0.40, Y: 0.73, Z: -0.03}

	return landmarks
}

// FistLandmarks returns a closed hand with every fingertip 0.05 from the wrist.
func FistLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.9,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.53, Y: 0.79, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.54, Y: 0.78, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.55, Y: 0.79, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.80, Z: 0.0}

	landmarks.Points[IndexMCP] = Point3D{X: 0.52, Y: 0.72, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.02}
	landmarks.Points[IndexDIP] = Point3D{X: 0.51, Y: 0.72, Z: -0.02}
	landmarks.Points[IndexTip] = Point3D{X: 0.50, Y: 0.75, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.49, Y: 0.72, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.48, Y: 0.71, Z: -0.02}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.46, Y: 0.76, Z: -0.02}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.80, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.47, Y: 0.74, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.47, Y: 0.78, Z: -0.02}
	landmarks.Points[RingDIP] = Point3D{X: 0.48, Y: 0.83, Z: -0.02}
	landmarks.Points[RingTip] = Point3D{X: 0.50, Y: 0.85, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.45, Y: 0.76, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.46, Y: 0.79, Z: 0.02}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.48, Y: 0.80, Z: 0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.50, Y: 0.80, Z: 0.05}

	return landmarks
}

// Translate returns a copy of h with every landmark shifted by (dx, dy).
func Translate(h HandLandmarks, dx, dy float64) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
