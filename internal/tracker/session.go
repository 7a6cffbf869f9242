// Package tracker runs the per-frame gesture pipeline for one tracking
// session: classify the hand, smooth the cursor into screen space and step
// the interaction state machine.
package tracker

import (
	"time"

	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/gesture"
	"github.com/ayusman/handmouse/internal/interaction"
	"github.com/ayusman/handmouse/internal/smoothing"
)

// Screen is the target display size in pixels.
type Screen struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Cursor is a position in screen pixels.
type Cursor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Result is the outcome of one processed frame.
type Result struct {
	Tracked bool                 `json:"tracked"`
	Flags   gesture.Flags        `json:"flags"`
	Cursor  Cursor               `json:"cursor"`
	Actions []interaction.Action `json:"actions"`
}

// Stats counts frames and emitted actions over a session.
type Stats struct {
	Frames        int64 `json:"frames"`
	TrackedFrames int64 `json:"tracked_frames"`
	LostFrames    int64 `json:"lost_frames"`
	LeftPresses   int64 `json:"left_presses"`
	RightClicks   int64 `json:"right_clicks"`
	Scrolls       int64 `json:"scrolls"`
}

// Session owns the smoother and state machine of one tracking run.
// It is not safe for concurrent use.
type Session struct {
	classifier *gesture.Classifier
	smoother   *smoothing.Smoother
	machine    *interaction.Machine

	screen Screen
	speed  float64
	stats  Stats
}

// NewSession builds a session from cfg for the given screen.
func NewSession(cfg config.Config, screen Screen) *Session {
	if screen.Width < 1 {
		screen.Width = 1
	}
	if screen.Height < 1 {
		screen.Height = 1
	}

	return &Session{
		classifier: gesture.NewClassifier(cfg.PinchThreshold, cfg.FistThreshold),
		smoother:   smoothing.NewSmoother(cfg.SmoothingWindow, cfg.DeadZone, cfg.Alpha),
		machine: interaction.NewMachine(interaction.Config{
			ClickCooldown:   cfg.ClickCooldownDuration(),
			ScrollCooldown:  cfg.ScrollCooldownDuration(),
			ScrollThreshold: cfg.ScrollThreshold,
			FrameHeight:     float64(cfg.CameraHeight),
			ScrollDivisor:   cfg.ScrollDivisor,
		}),
		screen: screen,
		speed:  cfg.SpeedMultiplier,
	}
}

// Process runs one frame. A nil hand means no hand was detected: the
// smoother is reset, the machine is told the hand is lost and no actions are
// produced. Otherwise the result starts with a Move to the smoothed cursor,
// followed by any click or scroll actions.
func (s *Session) Process(hand *detector.HandLandmarks, now time.Time) Result {
	s.stats.Frames++

	if hand == nil {
		s.stats.LostFrames++
		s.smoother.Reset()
		s.machine.Lost()
		return Result{}
	}
	s.stats.TrackedFrames++

	flags := s.classifier.Classify(hand)
	cursor := s.toScreen(flags.Cursor)

	actions := []interaction.Action{interaction.MoveTo(cursor.X, cursor.Y)}
	actions = append(actions, s.machine.Step(flags, now)...)
	s.count(actions)

	return Result{
		Tracked: true,
		Flags:   flags,
		Cursor:  cursor,
		Actions: actions,
	}
}

// toScreen mirrors the normalized anchor horizontally, scales it to the
// screen, smooths it and applies the speed multiplier.
func (s *Session) toScreen(p detector.Point3D) Cursor {
	w := float64(s.screen.Width)
	h := float64(s.screen.Height)

	x, y := s.smoother.Update((1-p.X)*w, p.Y*h)
	x *= s.speed
	y *= s.speed

	return Cursor{
		X: int(clamp(x, 0, w-1)),
		Y: int(clamp(y, 0, h-1)),
	}
}

func clamp(v, lo, hi float64) float64 {
	// NaN compares false both ways and lands on lo.
	if !(v >= lo) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Session) count(actions []interaction.Action) {
	for _, a := range actions {
		switch {
		case a.Kind == interaction.ButtonDown && a.Button == interaction.Left:
			s.stats.LeftPresses++
		case a.Kind == interaction.Click && a.Button == interaction.Right:
			s.stats.RightClicks++
		case a.Kind == interaction.Scroll:
			s.stats.Scrolls++
		}
	}
}

// Release returns the actions that leave no button held. Call it when the
// session ends.
func (s *Session) Release() []interaction.Action {
	return s.machine.Release()
}

// Pause is used when tracking is suspended: it releases any held button and
// forgets the cursor and scroll history, as if the hand had left the frame.
func (s *Session) Pause() []interaction.Action {
	actions := s.machine.Release()
	s.smoother.Reset()
	s.machine.Lost()
	return actions
}

// State returns the interaction state.
func (s *Session) State() interaction.State {
	return s.machine.State()
}

// Stats returns the counters so far.
func (s *Session) Stats() Stats {
	return s.stats
}

// Screen returns the screen the session maps to.
func (s *Session) Screen() Screen {
	return s.screen
}
