// Package detector provides hand landmark types and the hand detection backends
// that produce them.
package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Fingertips lists the tip landmark of every finger, thumb first.
var Fingertips = [5]int{ThumbTip, IndexTip, MiddleTip, RingTip, PinkyTip}

// Finger pairs a fingertip with the MCP joint at its base.
type Finger struct {
	Tip  int
	Base int
}

// LongFingers are the four non-thumb fingers, index to pinky.
var LongFingers = [4]Finger{
	{Tip: IndexTip, Base: IndexMCP},
	{Tip: MiddleTip, Base: MiddleMCP},
	{Tip: RingTip, Base: RingMCP},
	{Tip: PinkyTip, Base: PinkyMCP},
}

// Point3D represents a landmark position in normalized camera space.
// X and Y are in [0, 1] relative to the frame; Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe for one hand
// in one frame.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Point returns the landmark at index i.
func (h *HandLandmarks) Point(i int) Point3D {
	return h.Points[i]
}

// First returns the first detected hand, or nil when there is none.
// Only one hand is ever tracked; additional hands are ignored.
func First(hands []HandLandmarks) *HandLandmarks {
	if len(hands) == 0 {
		return nil
	}
	return &hands[0]
}
