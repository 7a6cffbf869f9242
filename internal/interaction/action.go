// Package interaction turns per-frame gesture flags into discrete pointer
// actions, debounced with click and scroll cooldowns.
package interaction

import (
	"fmt"
)

// Kind identifies a pointer action.
type Kind int

const (
	// Move positions the cursor at (X, Y) in screen pixels.
	Move Kind = iota
	// ButtonDown presses and holds Button.
	ButtonDown
	// ButtonUp releases Button.
	ButtonUp
	// Click presses and releases Button in one step.
	Click
	// Scroll scrolls vertically by Amount; positive is up.
	Scroll
)

var kindNames = map[Kind]string{
	Move:       "move",
	ButtonDown: "button_down",
	ButtonUp:   "button_up",
	Click:      "click",
	Scroll:     "scroll",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Button identifies a pointer button.
type Button int

const (
	// Left is the primary button.
	Left Button = iota
	// Right is the secondary button.
	Right
)

// String returns "left" or "right".
func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// Action is one command for the pointer driver.
type Action struct {
	Kind   Kind   `json:"kind"`
	Button Button `json:"button"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

// MoveTo returns a Move action.
func MoveTo(x, y int) Action {
	return Action{Kind: Move, X: x, Y: y}
}

// Press returns a ButtonDown action.
func Press(b Button) Action {
	return Action{Kind: ButtonDown, Button: b}
}

// Release returns a ButtonUp action.
func Release(b Button) Action {
	return Action{Kind: ButtonUp, Button: b}
}

// ClickButton returns a Click action.
func ClickButton(b Button) Action {
	return Action{Kind: Click, Button: b}
}

// ScrollBy returns a Scroll action.
func ScrollBy(amount int) Action {
	return Action{Kind: Scroll, Amount: amount}
}

// String formats the action for logs.
func (a Action) String() string {
	switch a.Kind {
	case Move:
		return fmt.Sprintf("move(%d, %d)", a.X, a.Y)
	case ButtonDown, ButtonUp, Click:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Button)
	case Scroll:
		return fmt.Sprintf("scroll(%d)", a.Amount)
	default:
		return a.Kind.String()
	}
}
