package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/handmouse/internal/app"
	"github.com/ayusman/handmouse/internal/capture"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/interaction"
	"github.com/ayusman/handmouse/internal/pointer"
	"github.com/ayusman/handmouse/internal/server"
	"github.com/ayusman/handmouse/internal/store"
)

type rig struct {
	store  *store.Store
	driver *pointer.Recorder
	app    *app.App
	ts     *httptest.Server
}

// newRig wires the pipeline the way main does, with the camera, detector
// and pointer replaced by mocks. Stored overrides are applied to the
// defaults before the app is built.
func newRig(t *testing.T, dbPath string, script [][]detector.HandLandmarks) *rig {
	t.Helper()

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	settings := config.Default()
	overrides, err := s.Settings().All()
	if err != nil {
		t.Fatalf("Settings().All() error = %v", err)
	}
	if err := settings.ApplySettings(overrides); err != nil {
		t.Fatalf("ApplySettings() error = %v", err)
	}

	frames := capture.BlankFrames(len(script), 64, 48)
	t.Cleanup(func() { capture.CloseFrames(frames) })

	det := detector.NewMockDetector()
	det.SetScript(script)

	r := &rig{store: s, driver: pointer.NewRecorder(1000, 800)}
	hub := server.NewHub(settings.EventRate, nil)

	r.app, err = app.New(app.Config{
		Settings: settings,
		Camera:   capture.NewMockCamera(frames, false),
		Detector: det,
		Driver:   r.driver,
		Store:    s,
		Events:   hub,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}

	r.ts = httptest.NewServer(server.New(server.Config{Status: r.app, Hub: hub, Store: s}))
	t.Cleanup(r.ts.Close)
	return r
}

func (r *rig) getJSON(t *testing.T, path string, v any) {
	t.Helper()
	resp, err := r.ts.Client().Get(r.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s error = %v", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s status = %d, want %d", path, resp.StatusCode, http.StatusOK)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode %s error = %v", path, err)
	}
}

func pinchScript() [][]detector.HandLandmarks {
	open := detector.OpenPalmLandmarks()
	pinch := detector.PinchLandmarks()
	return [][]detector.HandLandmarks{{open}, {pinch}, {pinch}, {open}, nil}
}

func TestE2E_PinchDragSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	r := newRig(t, filepath.Join(t.TempDir(), "data.db"), pinchScript())

	if err := r.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	got := r.driver.NonMoves()
	want := []interaction.Action{interaction.Press(interaction.Left), interaction.Release(interaction.Left)}
	if len(got) != len(want) {
		t.Fatalf("dispatched %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if r.driver.Held(interaction.Left) {
		t.Error("left button still held after run")
	}

	t.Run("Status", func(t *testing.T) {
		var status struct {
			Running bool   `json:"running"`
			Session string `json:"session_id"`
			Stats   struct {
				Frames      int64 `json:"frames"`
				LostFrames  int64 `json:"lost_frames"`
				LeftPresses int64 `json:"left_presses"`
			} `json:"stats"`
		}
		r.getJSON(t, "/api/status", &status)

		if status.Running {
			t.Error("running = true after the camera ran dry")
		}
		if status.Session == "" {
			t.Error("session_id is empty")
		}
		if status.Stats.Frames != 5 || status.Stats.LostFrames != 1 || status.Stats.LeftPresses != 1 {
			t.Errorf("stats = %+v, want 5 frames, 1 lost, 1 press", status.Stats)
		}
	})

	t.Run("Sessions", func(t *testing.T) {
		var body struct {
			Sessions []struct {
				ID          string  `json:"id"`
				EndedAt     *string `json:"ended_at"`
				Frames      int64   `json:"frames"`
				LeftPresses int64   `json:"left_presses"`
			} `json:"sessions"`
		}
		r.getJSON(t, "/api/sessions", &body)

		if len(body.Sessions) != 1 {
			t.Fatalf("len(sessions) = %d, want 1", len(body.Sessions))
		}
		sess := body.Sessions[0]
		if sess.ID != r.app.Snapshot().SessionID {
			t.Errorf("session id = %q, want %q", sess.ID, r.app.Snapshot().SessionID)
		}
		if sess.EndedAt == nil {
			t.Error("session was not finished")
		}
		if sess.Frames != 5 || sess.LeftPresses != 1 {
			t.Errorf("session counts = %d frames, %d presses, want 5 and 1", sess.Frames, sess.LeftPresses)
		}
	})
}

func TestE2E_StoredOverrideAppliesOnRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dbPath := filepath.Join(t.TempDir(), "data.db")

	first := newRig(t, dbPath, pinchScript())
	req, err := http.NewRequest(http.MethodPut, first.ts.URL+"/api/settings/pinch_threshold",
		strings.NewReader(`{"value": "0.01"}`))
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := first.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := first.app.Settings().PinchThreshold; got != config.Default().PinchThreshold {
		t.Errorf("running threshold = %v, want unchanged default", got)
	}

	second := newRig(t, dbPath, pinchScript())
	if got := second.app.Settings().PinchThreshold; got != 0.01 {
		t.Fatalf("threshold after restart = %v, want 0.01", got)
	}

	if err := second.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := second.driver.NonMoves(); len(got) != 0 {
		t.Errorf("tighter threshold still pinched: %v", got)
	}
}
