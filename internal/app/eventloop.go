package app

import (
	"errors"

	"github.com/gdamore/tcell/v2"

	"inlay/internal/config"
)

// ErrQuit is returned through the key handlers when the user asks to
// leave. Run treats it as a clean exit.
var ErrQuit = errors.New("quit requested")

// Run drives the application on the given screen until quit. The config
// watcher, when one is running, posts an interrupt event so reloads are
// picked up without waiting for a key press.
func (app *App) Run(screen tcell.Screen) error {
	app.screen = screen

	if len(app.configPaths) > 0 {
		w, err := config.NewWatcher(app.configPaths, app.onReload)
		if err != nil {
			app.log.Warningf("config watcher: %s", err)
		} else {
			app.watcher = w
		}
	}

	for {
		app.draw()
		ev := screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := app.handleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return err
		}
	}
}

// onReload runs on the watcher goroutine. The latest configuration wins a
// full reload slot; the interrupt just wakes the event loop.
func (app *App) onReload(cfg *config.Config, err error) {
	if err != nil {
		app.log.Errorf("config reload: %s", err)
		return
	}
	select {
	case app.reloads <- cfg:
	default:
		select {
		case <-app.reloads:
		default:
		}
		select {
		case app.reloads <- cfg:
		default:
		}
	}
	if app.screen != nil {
		_ = app.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// handleEvent processes one terminal event on the event loop goroutine.
// Pending config reloads are drained first so they apply before the event
// is interpreted.
func (app *App) handleEvent(ev tcell.Event) error {
	select {
	case cfg := <-app.reloads:
		app.applyConfig(cfg)
	default:
	}

	switch tev := ev.(type) {
	case *tcell.EventResize:
		app.screen.Sync()
	case *tcell.EventKey:
		return app.handleKey(tev)
	case *tcell.EventInterrupt:
		// Wake-up only; the reload drain above did the work.
	}
	return nil
}
