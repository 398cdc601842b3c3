package app

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dshills/blockdnd/internal/config"
	"github.com/dshills/blockdnd/internal/document"
	"github.com/dshills/blockdnd/internal/drag"
	"github.com/dshills/blockdnd/internal/event"
	"github.com/dshills/blockdnd/internal/logging"
	"github.com/dshills/blockdnd/internal/renderer"
	"github.com/dshills/blockdnd/internal/renderer/backend"
	"github.com/dshills/blockdnd/internal/selection"
)

// Options configures the application.
type Options struct {
	// Path is the markdown file to edit. Empty opens a scratch buffer that
	// cannot be saved.
	Path string

	// ReadOnly rejects every edit, drags included.
	ReadOnly bool

	// Settings are the loaded settings.
	Settings config.Settings

	// ConfigPath is watched for changes when set.
	ConfigPath string

	// Override is reapplied to every reloaded Settings, so command-line
	// flags keep winning over the file.
	Override func(*config.Settings)

	// Backend defaults to the controlling terminal.
	Backend backend.Backend

	// Scheduler defaults to timers posted onto the event loop.
	Scheduler drag.Scheduler

	// Logger defaults to logging.NullLogger.
	Logger *logging.Logger
}

// Application is the central coordinator: one document, one view, one drag
// controller.
type Application struct {
	opts     Options
	log      *logging.Logger
	settings config.Settings

	backend backend.Backend
	bus     *event.Bus
	subs    []event.Subscription

	doc  *document.Buffer
	view *renderer.View
	ctrl *drag.Controller

	sel     selection.Selection
	pressed bool
	message string

	running atomic.Bool
	quit    bool
}

// New creates an Application. The terminal is not touched until Run.
func New(opts Options) (*Application, error) {
	log := opts.Logger
	if log == nil {
		log = logging.NullLogger
	}

	app := &Application{
		opts:     opts,
		log:      log.WithComponent("app"),
		settings: opts.Settings,
		backend:  opts.Backend,
	}

	var docOpts []document.Option
	if opts.ReadOnly {
		docOpts = append(docOpts, document.WithReadOnly(true))
	}
	if opts.Path != "" {
		doc, err := document.Open(opts.Path, docOpts...)
		if err != nil {
			return nil, &InitError{Component: "document", Err: err}
		}
		app.doc = doc
	} else {
		app.doc = document.NewBuffer("", docOpts...)
	}

	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return nil, &InitError{Component: "terminal", Err: err}
		}
		app.backend = term
	}

	app.bus = event.NewBus(event.WithPanicHandler(func(e event.Event, recovered any) {
		app.log.Error("subscriber for %s panicked: %v", e.Topic, recovered)
	}))

	sched := opts.Scheduler
	if sched == nil {
		sched = &loopScheduler{post: app.post}
	}

	app.view = renderer.NewView(app.doc, 0, 0)
	app.ctrl = drag.New(dragOptions(app.settings), drag.Deps{
		View:      app.view,
		Workspace: app,
		Visuals:   app.view,
		Scheduler: sched,
		Publisher: app.bus,
		Logger:    log,
	})
	app.subscribe()

	return app, nil
}

// dragOptions maps settings onto the controller's options.
func dragOptions(s config.Settings) drag.Options {
	return drag.Options{
		ShowHandleOnHover: s.ShowHandleOnHover,
		Touch:             s.TouchMode,
		LongPressDelay:    s.LongPressDelay,
		HoverHideDelay:    s.HoverHideDelay,
		RefreshDebounce:   s.RefreshDebounce,
		DragThreshold:     s.DragThreshold,
	}
}

// Run initializes the terminal and processes events until quit or until ctx
// is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.start(); err != nil {
		return err
	}
	defer app.backend.Shutdown()
	defer app.unsubscribe()

	if app.opts.ConfigPath != "" {
		w := config.NewWatcher(app.opts.ConfigPath, app.onConfigReload)
		if err := w.Start(ctx); err != nil {
			app.log.Warn("config watcher not started: %v", err)
		} else {
			defer w.Close()
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = app.post(func() { app.quit = true })
		case <-stop:
		}
	}()

	app.log.Info("editing %q", app.doc.Path())
	app.draw()
	for !app.quit {
		ev := app.backend.PollEvent()
		if ev.Type == backend.EventClosed {
			break
		}
		if err := app.HandleEvent(ev); err != nil {
			if errors.Is(err, ErrQuit) {
				break
			}
			app.log.Warn("event: %v", err)
			app.message = err.Error()
		}
		app.draw()
	}
	return nil
}

// start brings up the backend and lays out the first frame.
func (app *Application) start() error {
	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	w, h := app.backend.Size()
	app.view.Resize(w, h)
	app.moveCaret(app.doc.Caret(), 0, false)
	_ = app.ctrl.Refresh()
	return nil
}

func (app *Application) post(f func()) error {
	return app.backend.Post(f)
}

// onConfigReload runs on the watcher goroutine.
func (app *Application) onConfigReload(s config.Settings, err error) {
	_ = app.post(func() {
		if err != nil {
			app.log.Warn("config reload failed: %v", err)
			app.message = "config error: " + err.Error()
			return
		}
		app.applySettings(s)
	})
}

// applySettings swaps in reloaded settings.
func (app *Application) applySettings(s config.Settings) {
	if app.opts.Override != nil {
		app.opts.Override(&s)
	}
	app.settings = s
	app.log.SetLevel(logging.ParseLogLevel(s.LogLevel))
	app.ctrl.SetOptions(dragOptions(s))
	app.bus.Publish(event.TopicConfigReloaded, s)
}

// Settings returns the settings in effect.
func (app *Application) Settings() config.Settings {
	return app.settings
}

// Document returns the edited document.
func (app *Application) Document() *document.Buffer {
	return app.doc
}

// Controller returns the drag controller.
func (app *Application) Controller() *drag.Controller {
	return app.ctrl
}

// View returns the view.
func (app *Application) View() *renderer.View {
	return app.view
}

// Selection returns the editor selection.
func (app *Application) Selection() selection.Selection {
	return app.sel
}

// Message returns the status message.
func (app *Application) Message() string {
	return app.message
}
