package pointer

import (
	"github.com/go-vgo/robotgo"

	"github.com/ayusman/handmouse/internal/interaction"
)

// RobotgoDriver drives the real pointer through robotgo.
type RobotgoDriver struct{}

// NewRobotgoDriver creates a RobotgoDriver.
func NewRobotgoDriver() *RobotgoDriver {
	return &RobotgoDriver{}
}

// Move positions the cursor.
func (d *RobotgoDriver) Move(x, y int) error {
	robotgo.Move(x, y)
	return nil
}

// Down presses and holds b.
func (d *RobotgoDriver) Down(b interaction.Button) error {
	return robotgo.Toggle(b.String())
}

// Up releases b.
func (d *RobotgoDriver) Up(b interaction.Button) error {
	return robotgo.Toggle(b.String(), "up")
}

// Click clicks b once.
func (d *RobotgoDriver) Click(b interaction.Button) error {
	robotgo.Click(b.String())
	return nil
}

// Scroll scrolls vertically.
func (d *RobotgoDriver) Scroll(amount int) error {
	robotgo.Scroll(0, amount)
	return nil
}

// ScreenSize returns the main display size.
func (d *RobotgoDriver) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}
