// Package app runs the frame loop that turns camera frames into pointer
// actions.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ayusman/handmouse/internal/capture"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/interaction"
	"github.com/ayusman/handmouse/internal/pointer"
	"github.com/ayusman/handmouse/internal/store"
	"github.com/ayusman/handmouse/internal/tracker"
)

// MaxReadFailures is the number of consecutive failed camera reads after
// which Run gives up.
const MaxReadFailures = 30

// Config holds the collaborators of the application.
type Config struct {
	Settings config.Config
	Camera   capture.Camera
	Detector detector.Detector
	Driver   pointer.Driver

	// Store records session statistics when set.
	Store *store.Store
	// Events receives every processed frame when set.
	Events EventSink
	// OnAction is called from the loop goroutine for every non-move action.
	OnAction func(interaction.Action)

	Logger *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Status is a point-in-time view of the application for the status API.
type Status struct {
	Enabled    bool              `json:"enabled"`
	Running    bool              `json:"running"`
	SessionID  string            `json:"session_id,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	Screen     tracker.Screen    `json:"screen"`
	Tracked    bool              `json:"tracked"`
	Cursor     tracker.Cursor    `json:"cursor"`
	LastAction string            `json:"last_action,omitempty"`
	Stats      tracker.Stats     `json:"stats"`
	State      interaction.State `json:"state"`
}

// App is the main application that drives the pointer from hand gestures.
type App struct {
	config  Config
	logger  *slog.Logger
	clock   func() time.Time
	session *tracker.Session

	// suspended is owned by the loop goroutine.
	suspended bool

	mu       sync.RWMutex
	detector detector.Detector
	enabled  bool
	status   Status
}

// New creates a new App. Screen size comes from the settings when both
// dimensions are set, otherwise from the pointer driver.
func New(cfg Config) (*App, error) {
	if cfg.Camera == nil || cfg.Detector == nil || cfg.Driver == nil {
		return nil, errors.New("app: camera, detector and driver are required")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	screen := tracker.Screen{Width: cfg.Settings.ScreenWidth, Height: cfg.Settings.ScreenHeight}
	if screen.Width == 0 || screen.Height == 0 {
		screen.Width, screen.Height = cfg.Driver.ScreenSize()
	}

	a := &App{
		config:   cfg,
		logger:   logger.With("component", "app"),
		clock:    clock,
		session:  tracker.NewSession(cfg.Settings, screen),
		detector: cfg.Detector,
		enabled:  true,
	}
	a.status = Status{Enabled: true, Screen: a.session.Screen()}

	return a, nil
}

// SetEnabled enables or disables pointer control. While disabled frames are
// still read but not processed, and any held button is released.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
	a.status.Enabled = enabled
}

// IsEnabled returns whether pointer control is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.config.Camera
}

// Settings returns the effective settings.
func (a *App) Settings() config.Config {
	return a.config.Settings
}

// Snapshot returns the current status. It is safe to call from any goroutine.
func (a *App) Snapshot() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// Run processes frames until ctx is done, the camera stream ends or the
// camera fails MaxReadFailures times in a row. On every exit path any held
// button is released and the camera and detector are closed.
func (a *App) Run(ctx context.Context) error {
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}

	a.startSession()
	a.logger.Info("tracking started",
		"screen_width", a.session.Screen().Width,
		"screen_height", a.session.Screen().Height)

	defer a.shutdown()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			a.logger.Info("tracking stopped", "reason", ctx.Err())
			return nil
		default:
		}

		frame, err := a.config.Camera.ReadFrame()
		if err != nil {
			if errors.Is(err, capture.ErrEndOfStream) {
				a.logger.Info("tracking stopped", "reason", "end of stream")
				return nil
			}
			failures++
			a.logger.Warn("frame read failed", "error", err, "consecutive", failures)
			if failures >= MaxReadFailures {
				return fmt.Errorf("camera failed %d times in a row: %w", failures, err)
			}
			continue
		}
		failures = 0

		a.processFrame(frame)
	}
}

// shutdown releases held buttons, closes the camera and detector and stores
// the session record.
func (a *App) shutdown() {
	a.dispatch(a.session.Release())

	if err := a.config.Camera.Close(); err != nil {
		a.logger.Error("closing camera", "error", err)
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			a.logger.Error("closing detector", "error", err)
		}
	}

	a.finishSession()

	a.mu.Lock()
	a.status.Running = false
	a.status.State = a.session.State()
	a.mu.Unlock()
}

func (a *App) startSession() {
	now := a.clock()
	var id string

	if a.config.Store != nil {
		rec := &store.Session{StartedAt: now}
		if err := a.config.Store.Sessions().Create(rec); err != nil {
			a.logger.Error("recording session", "error", err)
		} else {
			id = rec.ID
			a.logger = a.logger.With("session", id)
		}
	}

	a.mu.Lock()
	a.status.Running = true
	a.status.SessionID = id
	a.status.StartedAt = now
	a.mu.Unlock()
}

func (a *App) finishSession() {
	id := a.Snapshot().SessionID
	if a.config.Store == nil || id == "" {
		return
	}

	stats := a.session.Stats()
	counts := store.Counts{
		Frames:        stats.Frames,
		TrackedFrames: stats.TrackedFrames,
		LostFrames:    stats.LostFrames,
		LeftPresses:   stats.LeftPresses,
		RightClicks:   stats.RightClicks,
		Scrolls:       stats.Scrolls,
	}
	if err := a.config.Store.Sessions().Finish(id, counts, a.clock()); err != nil {
		a.logger.Error("finishing session", "error", err)
	}
}
