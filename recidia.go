// Package recidia wires a capture backend, the pipeline and its consumers
// together.
package recidia

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/nsf/termbox-go"
	"github.com/pkg/errors"

	"github.com/noriah/recidia/config"
	"github.com/noriah/recidia/graphic"
	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/internal/log"
	"github.com/noriah/recidia/processor"
	"github.com/noriah/recidia/settings"
	"github.com/noriah/recidia/transport/websocket"
)

// AppName is the app name
const AppName = "recidia"

// AppDesc is the app description
const AppDesc = "Real-time audio spectrum visualizer"

// AppSite is the app website
const AppSite = "https://github.com/noriah/recidia"

// Run captures from the configured source and draws until ctx is done, the
// user quits or a consumer fails.
func Run(ctx context.Context, cfg *config.Config) error {
	log.SetLevel(cfg.Level())

	backend, err := input.InitBackend(cfg.Input.Backend)
	if err != nil {
		return err
	}
	defer backend.Close()

	device, err := input.GetDevice(backend, cfg.Input.Device)
	if err != nil {
		return err
	}

	var rate float64
	if r, ok := input.DeviceRate(device); ok {
		log.Infof("using the %v Hz rate of %v", r, device)
		rate = r
	}

	store := settings.New(cfg.SettingsConfig(rate))
	ring := input.NewRing(store.BufferSize.Max())

	session, err := backend.Start(input.SessionConfig{
		Device:     device,
		SampleRate: store.SampleRate(),
		Channels:   cfg.Input.Channels,
	})
	if err != nil {
		return errors.Wrap(err, "failed to start the input backend")
	}

	proc := processor.New(processor.Config{
		Settings: store,
		Ring:     ring,
		Engine:   cfg.Engine(),
		Window:   cfg.Window(),
	})

	logFile, err := redirectLog(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var display *graphic.Display

	if !cfg.Display.Headless {
		display = graphic.New(store, proc, graphic.Styles{
			Foreground: termbox.Attribute(cfg.Display.Foreground),
			Background: termbox.Attribute(cfg.Display.Background),
		})

		if err := display.Init(); err != nil {
			return err
		}
		defer display.Close()

		ctx = display.Start(ctx)
	}

	var (
		wg   sync.WaitGroup
		errc = make(chan error, 1)
	)

	fail := func(err error) {
		select {
		case errc <- err:
		default:
		}
		cancel()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		proc.Run(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		// a lost source leaves the ring silent and the spectrum flat; the
		// consumers keep going until the user quits
		switch err := session.Start(ctx, ring); {
		case ctx.Err() != nil:
		case err != nil:
			log.Errorf("input session failed: %v", err)
		default:
			log.Infof("input from %v ended", device)
		}
	}()

	if addr := cfg.WebSocket.Address; addr != "" {
		server := websocket.New(proc, cfg.WebSocket.Interval)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := server.ListenAndServe(ctx, addr); err != nil {
				fail(err)
			}
		}()
	}

	if cfg.Display.Headless && cfg.Display.Raw {
		raw := NewRawOutput(store, proc, os.Stdout)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := raw.Run(ctx); err != nil {
				fail(err)
			}
		}()
	}

	if display != nil {
		display.Run(ctx)
		cancel()
	} else {
		<-ctx.Done()
	}

	wg.Wait()

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}

// redirectLog keeps log output off the screen while the terminal renderer
// owns it. The returned file, if any, must be closed by the caller.
func redirectLog(cfg *config.Config) (io.Closer, error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open log file")
		}
		log.SetOutput(f)
		return f, nil
	}

	if !cfg.Display.Headless {
		log.SetOutput(io.Discard)
	}

	return nil, nil
}
