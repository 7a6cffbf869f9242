// Package gesture classifies single-frame hand poses into the pointer gestures
// handmouse understands: pinch, two-finger pinch, fist, pointing and scroll pose.
package gesture

import "github.com/ayusman/handmouse/internal/detector"

// Default thresholds in normalized camera space.
const (
	DefaultPinchThreshold = 0.05
	DefaultFistThreshold  = 0.1
)

// Fixed finger geometry thresholds. These are not configurable; callers with
// unusual hand sizes should scale the landmarks instead.
const (
	// ExtendedDistance is the tip-to-MCP distance above which a finger counts as extended.
	ExtendedDistance = 0.15
	// BentDistance is the tip-to-MCP distance below which a finger counts as bent.
	BentDistance = 0.12
	// ScrollFingers is how many of the four long fingers must be extended for the scroll pose.
	ScrollFingers = 3
)

// Flags is the per-frame gesture snapshot for one hand.
type Flags struct {
	Pinching          bool             `json:"pinching"`
	PinchDistance     float64          `json:"pinch_distance"`
	TwoFingerPinching bool             `json:"two_finger_pinching"`
	TwoFingerDistance float64          `json:"two_finger_distance"`
	Fist              bool             `json:"fist"`
	Pointing          bool             `json:"pointing"`
	ScrollPose        bool             `json:"scroll_pose"`
	VerticalPosition  float64          `json:"vertical_position"`
	Cursor            detector.Point3D `json:"cursor"`
}

// AnyPinch reports whether either pinch gesture is active.
func (f Flags) AnyPinch() bool {
	return f.Pinching || f.TwoFingerPinching
}

// Classifier maps hand landmarks to gesture flags. It holds only thresholds,
// so every frame is classified independently of the previous one.
type Classifier struct {
	pinchThreshold float64
	fistThreshold  float64
}

// NewClassifier creates a Classifier. The pinch threshold is shared by the
// index and middle finger pinches.
func NewClassifier(pinchThreshold, fistThreshold float64) *Classifier {
	return &Classifier{
		pinchThreshold: pinchThreshold,
		fistThreshold:  fistThreshold,
	}
}

// NewDefaultClassifier creates a Classifier with the default thresholds.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultPinchThreshold, DefaultFistThreshold)
}

// Pinch detects the thumb tip touching the index fingertip.
// Returns whether the hand is pinching and the raw distance.
func (c *Classifier) Pinch(h *detector.HandLandmarks) (bool, float64) {
	distance := detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip])
	return distance < c.pinchThreshold, distance
}

// TwoFingerPinch detects the thumb tip touching the middle fingertip.
func (c *Classifier) TwoFingerPinch(h *detector.HandLandmarks) (bool, float64) {
	distance := detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.MiddleTip])
	return distance < c.pinchThreshold, distance
}

// Fist detects all fingertips collectively close to the wrist, using the mean
// wrist-to-tip distance over the five fingertips.
func (c *Classifier) Fist(h *detector.HandLandmarks) bool {
	wrist := h.Points[detector.Wrist]

	var total float64
	for _, tip := range detector.Fingertips {
		total += detector.Distance(wrist, h.Points[tip])
	}
	return total/float64(len(detector.Fingertips)) < c.fistThreshold
}

// Pointing detects the index finger extended while the middle finger is bent.
func (c *Classifier) Pointing(h *detector.HandLandmarks) bool {
	indexExtended := detector.Distance(h.Points[detector.IndexMCP], h.Points[detector.IndexTip]) > ExtendedDistance
	middleBent := detector.Distance(h.Points[detector.MiddleMCP], h.Points[detector.MiddleTip]) < BentDistance
	return indexExtended && middleBent
}

// ExtendedFingers counts the long fingers whose tip is farther than
// ExtendedDistance from its MCP joint. The thumb is never counted.
func (c *Classifier) ExtendedFingers(h *detector.HandLandmarks) int {
	count := 0
	for _, f := range detector.LongFingers {
		if detector.Distance(h.Points[f.Tip], h.Points[f.Base]) > ExtendedDistance {
			count++
		}
	}
	return count
}

// ScrollPose detects an open hand: at least three long fingers extended.
func (c *Classifier) ScrollPose(h *detector.HandLandmarks) bool {
	return c.ExtendedFingers(h) >= ScrollFingers
}

// VerticalPosition returns the wrist Y coordinate, the scroll anchor signal.
func (c *Classifier) VerticalPosition(h *detector.HandLandmarks) float64 {
	return h.Points[detector.Wrist].Y
}

// CursorAnchor returns the index fingertip, the position that drives the cursor.
func (c *Classifier) CursorAnchor(h *detector.HandLandmarks) detector.Point3D {
	return h.Points[detector.IndexTip]
}

// Classify computes every gesture flag for one hand. Both pinch flags may be
// set at once; deciding precedence is left to the caller.
func (c *Classifier) Classify(h *detector.HandLandmarks) Flags {
	pinching, pinchDistance := c.Pinch(h)
	twoFinger, twoFingerDistance := c.TwoFingerPinch(h)

	return Flags{
		Pinching:          pinching,
		PinchDistance:     pinchDistance,
		TwoFingerPinching: twoFinger,
		TwoFingerDistance: twoFingerDistance,
		Fist:              c.Fist(h),
		Pointing:          c.Pointing(h),
		ScrollPose:        c.ScrollPose(h),
		VerticalPosition:  c.VerticalPosition(h),
		Cursor:            c.CursorAnchor(h),
	}
}
