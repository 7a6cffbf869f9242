// Package pointer injects interaction actions into the operating system's
// pointer.
package pointer

import (
	"errors"
	"fmt"

	"github.com/ayusman/handmouse/internal/interaction"
)

// Driver performs pointer operations.
type Driver interface {
	Move(x, y int) error
	Down(b interaction.Button) error
	Up(b interaction.Button) error
	Click(b interaction.Button) error
	// Scroll scrolls vertically; positive amounts scroll up.
	Scroll(amount int) error
	// ScreenSize returns the primary display size in pixels.
	ScreenSize() (width, height int)
}

// Dispatch performs actions in order. A failing action does not stop the
// remaining ones, so a trailing ButtonUp is still attempted; all failures are
// returned joined.
func Dispatch(d Driver, actions []interaction.Action) error {
	var errs []error
	for _, a := range actions {
		if err := apply(d, a); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a, err))
		}
	}
	return errors.Join(errs...)
}

func apply(d Driver, a interaction.Action) error {
	switch a.Kind {
	case interaction.Move:
		return d.Move(a.X, a.Y)
	case interaction.ButtonDown:
		return d.Down(a.Button)
	case interaction.ButtonUp:
		return d.Up(a.Button)
	case interaction.Click:
		return d.Click(a.Button)
	case interaction.Scroll:
		return d.Scroll(a.Amount)
	default:
		return fmt.Errorf("unknown action kind %d", int(a.Kind))
	}
}
