// Package config holds the tunable options of handmouse and loads them from
// YAML files and persisted overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid config")

// Config is the flat set of named options.
type Config struct {
	CameraIndex  int  `yaml:"camera_index" json:"camera_index"`
	CameraWidth  int  `yaml:"camera_width" json:"camera_width"`
	CameraHeight int  `yaml:"camera_height" json:"camera_height"`
	MirrorFrame  bool `yaml:"mirror_frame" json:"mirror_frame"`

	MaxHands               int     `yaml:"max_hands" json:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence" json:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence" json:"min_tracking_confidence"`

	PinchThreshold  float64 `yaml:"pinch_threshold" json:"pinch_threshold"`
	FistThreshold   float64 `yaml:"fist_threshold" json:"fist_threshold"`
	ScrollThreshold float64 `yaml:"scroll_threshold" json:"scroll_threshold"` // camera pixels

	SmoothingWindow int     `yaml:"smoothing_window" json:"smoothing_window"`
	DeadZone        float64 `yaml:"dead_zone" json:"dead_zone"` // screen pixels
	Alpha           float64 `yaml:"alpha" json:"alpha"`
	SpeedMultiplier float64 `yaml:"speed_multiplier" json:"speed_multiplier"`
	ScrollDivisor   float64 `yaml:"scroll_divisor" json:"scroll_divisor"`

	// ScreenWidth and ScreenHeight override the size reported by the pointer
	// driver when non-zero.
	ScreenWidth  int `yaml:"screen_width" json:"screen_width"`
	ScreenHeight int `yaml:"screen_height" json:"screen_height"`

	ClickCooldown  float64 `yaml:"click_cooldown" json:"click_cooldown"`   // seconds
	ScrollCooldown float64 `yaml:"scroll_cooldown" json:"scroll_cooldown"` // seconds

	PrintGestures bool    `yaml:"print_gestures" json:"print_gestures"`
	ListenAddr    string  `yaml:"listen_addr" json:"listen_addr"`
	EventRate     float64 `yaml:"event_rate" json:"event_rate"` // websocket frames per second
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		CameraIndex:  0,
		CameraWidth:  640,
		CameraHeight: 480,
		MirrorFrame:  true,

		MaxHands:               1,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.7,

		PinchThreshold:  0.05,
		FistThreshold:   0.1,
		ScrollThreshold: 30,

		SmoothingWindow: 10,
		DeadZone:        8,
		Alpha:           0.5,
		SpeedMultiplier: 1.2,
		ScrollDivisor:   10,

		ClickCooldown:  0.3,
		ScrollCooldown: 0.1,

		PrintGestures: true,
		ListenAddr:    "localhost:8080",
		EventRate:     15,
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default value; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := decodeInto(&cfg, data); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeInto(cfg *Config, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplySettings overlays string-valued overrides, keyed by YAML name, and
// validates the result. On error the receiver is left unchanged.
func (c *Config) ApplySettings(settings map[string]string) error {
	if len(settings) == 0 {
		return nil
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Plain scalars let YAML resolve each value to the field's type.
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: settings[k]},
		)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	next := *c
	if err := decodeInto(&next, data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Validate checks every option and returns all violations joined.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.CameraIndex >= 0, "camera_index must be >= 0, got %d", c.CameraIndex)
	check(c.CameraWidth > 0, "camera_width must be positive, got %d", c.CameraWidth)
	check(c.CameraHeight > 0, "camera_height must be positive, got %d", c.CameraHeight)
	check(c.MaxHands >= 1, "max_hands must be >= 1, got %d", c.MaxHands)
	check(inUnit(c.MinDetectionConfidence), "min_detection_confidence must be in [0, 1], got %v", c.MinDetectionConfidence)
	check(inUnit(c.MinTrackingConfidence), "min_tracking_confidence must be in [0, 1], got %v", c.MinTrackingConfidence)
	check(c.PinchThreshold > 0, "pinch_threshold must be positive, got %v", c.PinchThreshold)
	check(c.FistThreshold > 0, "fist_threshold must be positive, got %v", c.FistThreshold)
	check(c.ScrollThreshold >= 0, "scroll_threshold must be >= 0, got %v", c.ScrollThreshold)
	check(c.SmoothingWindow >= 1, "smoothing_window must be >= 1, got %d", c.SmoothingWindow)
	check(c.DeadZone >= 0, "dead_zone must be >= 0, got %v", c.DeadZone)
	check(inUnit(c.Alpha), "alpha must be in [0, 1], got %v", c.Alpha)
	check(c.SpeedMultiplier > 0, "speed_multiplier must be positive, got %v", c.SpeedMultiplier)
	check(c.ScrollDivisor > 0, "scroll_divisor must be positive, got %v", c.ScrollDivisor)
	check(c.ScreenWidth >= 0, "screen_width must be >= 0, got %d", c.ScreenWidth)
	check(c.ScreenHeight >= 0, "screen_height must be >= 0, got %d", c.ScreenHeight)
	check(c.ClickCooldown >= 0, "click_cooldown must be >= 0, got %v", c.ClickCooldown)
	check(c.ScrollCooldown >= 0, "scroll_cooldown must be >= 0, got %v", c.ScrollCooldown)
	check(c.EventRate > 0, "event_rate must be positive, got %v", c.EventRate)

	return errors.Join(errs...)
}

func inUnit(v float64) bool {
	return v >= 0 && v <= 1
}

// ClickCooldownDuration returns ClickCooldown as a time.Duration.
func (c Config) ClickCooldownDuration() time.Duration {
	return seconds(c.ClickCooldown)
}

// ScrollCooldownDuration returns ScrollCooldown as a time.Duration.
func (c Config) ScrollCooldownDuration() time.Duration {
	return seconds(c.ScrollCooldown)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
