package pointer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/handmouse/internal/interaction"
)

var (
	_ Driver = (*RobotgoDriver)(nil)
	_ Driver = (*Recorder)(nil)
)

func TestDispatch(t *testing.T) {
	rec := NewRecorder(1920, 1080)

	actions := []interaction.Action{
		interaction.MoveTo(100, 200),
		interaction.Press(interaction.Left),
		interaction.MoveTo(110, 205),
		interaction.Release(interaction.Left),
		interaction.ClickButton(interaction.Right),
		interaction.ScrollBy(-7),
	}

	require.NoError(t, Dispatch(rec, actions))

	if diff := cmp.Diff(actions, rec.Actions()); diff != "" {
		t.Errorf("recorded actions mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, rec.Held(interaction.Left))
}

func TestDispatch_Empty(t *testing.T) {
	rec := NewRecorder(1920, 1080)

	assert.NoError(t, Dispatch(rec, nil))
	assert.Empty(t, rec.Actions())
}

func TestDispatch_ContinuesAfterError(t *testing.T) {
	rec := NewRecorder(1920, 1080)
	boom := errors.New("no display")
	rec.SetError(boom)

	err := Dispatch(rec, []interaction.Action{
		interaction.MoveTo(1, 1),
		interaction.Release(interaction.Left),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "button_up(left)")
	assert.Len(t, rec.Actions(), 2, "every action is attempted")
}

func TestDispatch_UnknownKind(t *testing.T) {
	rec := NewRecorder(1920, 1080)

	err := Dispatch(rec, []interaction.Action{{Kind: interaction.Kind(99)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown action kind 99")
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(1280, 720)

	w, h := rec.ScreenSize()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)

	require.NoError(t, rec.Down(interaction.Left))
	assert.True(t, rec.Held(interaction.Left))
	assert.False(t, rec.Held(interaction.Right))

	require.NoError(t, rec.Move(5, 5))
	assert.Equal(t, []interaction.Action{interaction.Press(interaction.Left)}, rec.NonMoves())

	rec.Reset()
	assert.Empty(t, rec.Actions())
	assert.False(t, rec.Held(interaction.Left))
}
