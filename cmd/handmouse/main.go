package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/ayusman/handmouse/internal/app"
	"github.com/ayusman/handmouse/internal/capture"
	"github.com/ayusman/handmouse/internal/config"
	"github.com/ayusman/handmouse/internal/detector"
	"github.com/ayusman/handmouse/internal/interaction"
	"github.com/ayusman/handmouse/internal/pointer"
	"github.com/ayusman/handmouse/internal/server"
	"github.com/ayusman/handmouse/internal/store"
	"github.com/ayusman/handmouse/internal/tray"
)

type options struct {
	configPath string
	dbPath     string
	camera     int
	addr       string
	noTray     bool
	noServer   bool
	verbose    bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "YAML config file")
	flag.StringVar(&o.dbPath, "db", "", "settings and session database (default ~/.handmouse/handmouse.db)")
	flag.IntVar(&o.camera, "camera", -1, "camera index, overrides camera_index")
	flag.StringVar(&o.addr, "addr", "", "status server address, overrides listen_addr")
	flag.BoolVar(&o.noTray, "no-tray", false, "run without the system tray")
	flag.BoolVar(&o.noServer, "no-server", false, "run without the status server")
	flag.BoolVar(&o.verbose, "v", false, "debug logging")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(opts, logger); err != nil {
		logger.Error("handmouse failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options, logger *slog.Logger) error {
	settings := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return err
		}
		settings = loaded
	}

	dbPath, err := resolveDBPath(opts.dbPath)
	if err != nil {
		return err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	overrides, err := st.Settings().All()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := settings.ApplySettings(overrides); err != nil {
		logger.Warn("ignoring stored settings", "error", err)
	}

	if opts.camera >= 0 {
		settings.CameraIndex = opts.camera
	}
	if opts.addr != "" {
		settings.ListenAddr = opts.addr
	}

	det, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        settings.MaxHands,
		MinConfidence:   settings.MinDetectionConfidence,
		MinTrackingConf: settings.MinTrackingConfidence,
	})
	if err != nil {
		return fmt.Errorf("hand detector: %w", err)
	}

	cam := capture.NewCamera(capture.Options{
		DeviceID: settings.CameraIndex,
		Width:    settings.CameraWidth,
		Height:   settings.CameraHeight,
		FPS:      capture.DefaultFPS,
		Mirror:   settings.MirrorFrame,
	})

	hub := server.NewHub(settings.EventRate, logger)

	var tr *tray.Tray
	if !opts.noTray {
		tr = tray.New()
	}

	a, err := app.New(app.Config{
		Settings: settings,
		Camera:   cam,
		Detector: det,
		Driver:   pointer.NewRobotgoDriver(),
		Store:    st,
		Events:   hub,
		OnAction: func(act interaction.Action) {
			if tr != nil {
				tr.SetLastAction(act)
			}
		},
		Logger: logger,
	})
	if err != nil {
		det.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !opts.noServer {
		srv := server.New(server.Config{Status: a, Hub: hub, Store: st, Logger: logger})
		go func() {
			if err := srv.Serve(ctx, settings.ListenAddr); err != nil {
				logger.Error("status server stopped", "error", err)
			}
		}()
	}

	if tr == nil {
		return a.Run(ctx)
	}

	// The tray owns the main goroutine; the loop runs beside it.
	tr.OnToggle(a.SetEnabled)
	tr.OnStatus(func() {
		url := "http://" + settings.ListenAddr + "/api/status"
		if err := openBrowser(url); err != nil {
			logger.Warn("opening browser", "url", url, "error", err)
		}
	})
	tr.OnQuit(stop)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Quit()
	}()

	tr.Run()
	stop()
	return <-errCh
}

func resolveDBPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, ".handmouse", "handmouse.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return path, nil
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "linux", "freebsd", "openbsd":
		cmd = exec.Command("xdg-open", url)
	default:
		return errors.New("unsupported platform " + runtime.GOOS)
	}
	return cmd.Start()
}
