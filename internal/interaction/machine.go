package interaction

import (
	"math"
	"time"

	"github.com/ayusman/handmouse/internal/gesture"
)

// Default interaction parameters.
const (
	DefaultClickCooldown   = 300 * time.Millisecond
	DefaultScrollCooldown  = 100 * time.Millisecond
	DefaultScrollThreshold = 30.0
	DefaultFrameHeight     = 480.0
	DefaultScrollDivisor   = 10.0
)

// Config holds the debounce and scroll parameters.
type Config struct {
	// ClickCooldown is the minimum time between a click press and the next one.
	// It is shared by the left and right channels.
	ClickCooldown time.Duration
	// ScrollCooldown is the minimum time between scroll actions.
	ScrollCooldown time.Duration
	// ScrollThreshold is the vertical movement, in camera pixels, needed to scroll.
	ScrollThreshold float64
	// FrameHeight converts normalized vertical movement into camera pixels.
	FrameHeight float64
	// ScrollDivisor converts camera pixels into scroll units.
	ScrollDivisor float64
}

// DefaultConfig returns the default interaction parameters.
func DefaultConfig() Config {
	return Config{
		ClickCooldown:   DefaultClickCooldown,
		ScrollCooldown:  DefaultScrollCooldown,
		ScrollThreshold: DefaultScrollThreshold,
		FrameHeight:     DefaultFrameHeight,
		ScrollDivisor:   DefaultScrollDivisor,
	}
}

// State is the session-scoped interaction record.
type State struct {
	// LeftDown is true between an emitted left ButtonDown and its ButtonUp.
	LeftDown bool `json:"left_down"`
	// RightActive is true from a right Click until the middle pinch ends.
	RightActive bool      `json:"right_active"`
	LastClick   time.Time `json:"last_click"`
	LastScroll  time.Time `json:"last_scroll"`
	// ScrollAnchor is the wrist height of the previous scroll frame, nil when unset.
	ScrollAnchor *float64 `json:"scroll_anchor,omitempty"`
}

// Machine is the interaction state machine. It is not safe for concurrent use;
// each tracking session owns its own Machine.
type Machine struct {
	config Config

	leftDown    bool
	rightActive bool
	lastClick   time.Time
	lastScroll  time.Time
	anchor      float64
	anchored    bool
}

// NewMachine creates a Machine. A non-positive ScrollDivisor falls back to the default.
func NewMachine(config Config) *Machine {
	if config.ScrollDivisor <= 0 {
		config.ScrollDivisor = DefaultScrollDivisor
	}
	return &Machine{config: config}
}

// Step consumes one frame of gesture flags and returns the click and scroll
// actions it triggers, in left, right, scroll order.
func (m *Machine) Step(flags gesture.Flags, now time.Time) []Action {
	var actions []Action

	if a, ok := m.stepLeft(flags.Pinching, now); ok {
		actions = append(actions, a)
	}
	if a, ok := m.stepRight(flags.TwoFingerPinching, now); ok {
		actions = append(actions, a)
	}
	if a, ok := m.stepScroll(flags, now); ok {
		actions = append(actions, a)
	}

	return actions
}

// stepLeft runs the left channel: press is debounced, release never is.
func (m *Machine) stepLeft(pinching bool, now time.Time) (Action, bool) {
	switch {
	case pinching && !m.leftDown:
		if now.Sub(m.lastClick) > m.config.ClickCooldown {
			m.leftDown = true
			m.lastClick = now
			return Press(Left), true
		}
	case !pinching && m.leftDown:
		m.leftDown = false
		return Release(Left), true
	}
	return Action{}, false
}

// stepRight runs the right channel: one click per pinch, re-armed on release.
func (m *Machine) stepRight(pinching bool, now time.Time) (Action, bool) {
	if !pinching {
		m.rightActive = false
		return Action{}, false
	}
	if m.rightActive || now.Sub(m.lastClick) <= m.config.ClickCooldown {
		return Action{}, false
	}
	m.rightActive = true
	m.lastClick = now
	return ClickButton(Right), true
}

// stepScroll runs the scroll channel. Any pinch clears the anchor so the next
// scroll gesture starts from a fresh baseline.
func (m *Machine) stepScroll(flags gesture.Flags, now time.Time) (Action, bool) {
	if flags.AnyPinch() {
		m.anchored = false
		return Action{}, false
	}
	if !flags.ScrollPose {
		return Action{}, false
	}
	if now.Sub(m.lastScroll) < m.config.ScrollCooldown {
		return Action{}, false
	}

	current := flags.VerticalPosition
	action, fired := Action{}, false

	if m.anchored {
		deltaY := (current - m.anchor) * m.config.FrameHeight
		if math.Abs(deltaY) > m.config.ScrollThreshold {
			// Image Y grows downward, so a hand moving down scrolls down.
			action = ScrollBy(-int(deltaY / m.config.ScrollDivisor))
			fired = true
			m.lastScroll = now
		}
	}

	m.anchor = current
	m.anchored = true
	return action, fired
}

// Lost records a frame without a hand. No actions are produced and the
// cooldown timers are kept, so a reacquired hand cannot click early. The
// scroll anchor is dropped to avoid a jump across the gap.
func (m *Machine) Lost() {
	m.anchored = false
}

// Release returns the actions needed to leave no button held, and clears the
// held state. It is called on shutdown.
func (m *Machine) Release() []Action {
	if !m.leftDown {
		return nil
	}
	m.leftDown = false
	return []Action{Release(Left)}
}

// State returns a copy of the current interaction state.
func (m *Machine) State() State {
	s := State{
		LeftDown:    m.leftDown,
		RightActive: m.rightActive,
		LastClick:   m.lastClick,
		LastScroll:  m.lastScroll,
	}
	if m.anchored {
		anchor := m.anchor
		s.ScrollAnchor = &anchor
	}
	return s
}
