package app

import (
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/interaction"
	"github.com/ayusman/handmouse/internal/pointer"
	"github.com/ayusman/handmouse/internal/tracker"
)

// Event is one processed frame as published to observers.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	tracker.Result
}

// Significant reports whether the frame produced anything besides a cursor move.
func (e Event) Significant() bool {
	for _, a := range e.Actions {
		if a.Kind != interaction.Move {
			return true
		}
	}
	return false
}

// EventSink receives processed frames. Publish must not block the loop.
type EventSink interface {
	Publish(Event)
}

// processFrame runs one frame through the pipeline:
//  1. skip detection while disabled, releasing buttons on the transition
//  2. detect hands, treating detector errors as no hand
//  3. run the first hand through the tracking session
//  4. dispatch the resulting actions to the pointer driver
//  5. log, publish and record status
func (a *App) processFrame(frame *gocv.Mat) {
	defer frame.Close()

	now := a.clock()

	if !a.IsEnabled() {
		if !a.suspended {
			a.pause()
		}
		return
	}
	if a.suspended {
		a.suspended = false
		a.logger.Info("tracking resumed")
	}

	var hands []detector.HandLandmarks
	if d := a.Detector(); d != nil {
		var err error
		hands, err = d.Detect(frame)
		if err != nil {
			a.logger.Warn("hand detection failed", "error", err)
			hands = nil
		}
	}

	wasTracked := a.Snapshot().Tracked
	res := a.session.Process(detector.First(hands), now)

	a.dispatch(res.Actions)
	a.logFrame(res, wasTracked)

	if a.config.Events != nil {
		a.config.Events.Publish(Event{Timestamp: now, Result: res})
	}

	a.mu.Lock()
	a.status.Tracked = res.Tracked
	if res.Tracked {
		a.status.Cursor = res.Cursor
	}
	a.status.Stats = a.session.Stats()
	a.status.State = a.session.State()
	a.mu.Unlock()
}

// dispatch sends actions to the driver. Failures are logged and never stop
// the loop.
func (a *App) dispatch(actions []interaction.Action) {
	if len(actions) == 0 {
		return
	}

	if err := pointer.Dispatch(a.config.Driver, actions); err != nil {
		a.logger.Error("pointer dispatch failed", "error", err)
	}

	for _, act := range actions {
		if act.Kind == interaction.Move {
			continue
		}
		a.mu.Lock()
		a.status.LastAction = act.String()
		a.mu.Unlock()
		if a.config.OnAction != nil {
			a.config.OnAction(act)
		}
	}
}

func (a *App) logFrame(res tracker.Result, wasTracked bool) {
	a.logger.Debug("frame",
		"tracked", res.Tracked,
		"cursor_x", res.Cursor.X,
		"cursor_y", res.Cursor.Y,
		"pinch", res.Flags.PinchDistance,
		"two_finger_pinch", res.Flags.TwoFingerDistance,
		"fist", res.Flags.Fist,
		"pointing", res.Flags.Pointing,
		"scroll_pose", res.Flags.ScrollPose)

	if !a.config.Settings.PrintGestures {
		return
	}

	switch {
	case res.Tracked && !wasTracked:
		a.logger.Info("hand detected")
	case !res.Tracked && wasTracked:
		a.logger.Info("hand lost")
	}

	for _, act := range res.Actions {
		if act.Kind != interaction.Move {
			a.logger.Info("gesture", "action", act.String())
		}
	}
}

// pause releases held buttons and clears tracking history while disabled.
func (a *App) pause() {
	a.suspended = true
	a.dispatch(a.session.Pause())

	a.mu.Lock()
	a.status.Tracked = false
	a.status.State = a.session.State()
	a.mu.Unlock()

	a.logger.Info("tracking paused")
}
