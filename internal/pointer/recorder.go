package pointer

import (
	"sync"

	"github.com/ayusman/handmouse/internal/interaction"
)

// Recorder is a Driver that records every call instead of touching the real
// pointer. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	width   int
	height  int
	actions []interaction.Action
	held    map[interaction.Button]bool
	err     error
}

// NewRecorder creates a Recorder reporting the given screen size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:  width,
		height: height,
		held:   make(map[interaction.Button]bool),
	}
}

// SetError makes every subsequent call fail with err. Calls are still recorded.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) record(a interaction.Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions = append(r.actions, a)
	switch a.Kind {
	case interaction.ButtonDown:
		r.held[a.Button] = true
	case interaction.ButtonUp:
		delete(r.held, a.Button)
	}
	return r.err
}

func (r *Recorder) Move(x, y int) error {
	return r.record(interaction.MoveTo(x, y))
}

func (r *Recorder) Down(b interaction.Button) error {
	return r.record(interaction.Press(b))
}

func (r *Recorder) Up(b interaction.Button) error {
	return r.record(interaction.Release(b))
}

func (r *Recorder) Click(b interaction.Button) error {
	return r.record(interaction.ClickButton(b))
}

func (r *Recorder) Scroll(amount int) error {
	return r.record(interaction.ScrollBy(amount))
}

func (r *Recorder) ScreenSize() (int, int) {
	return r.width, r.height
}

// Actions returns a copy of everything recorded so far.
func (r *Recorder) Actions() []interaction.Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]interaction.Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// NonMoves returns the recorded actions other than Move.
func (r *Recorder) NonMoves() []interaction.Action {
	var out []interaction.Action
	for _, a := range r.Actions() {
		if a.Kind != interaction.Move {
			out = append(out, a)
		}
	}
	return out
}

// Held reports whether b is currently pressed.
func (r *Recorder) Held(b interaction.Button) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.held[b]
}

// Reset clears the recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions = nil
	r.held = make(map[interaction.Button]bool)
}
