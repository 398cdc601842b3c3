package app

import (
	"errors"
	"fmt"

	"github.com/dshills/blockdnd/internal/drag"
	"github.com/dshills/blockdnd/internal/event"
)

// subscribe registers the bus wiring between document, view and controller.
func (app *Application) subscribe() {
	app.subs = append(app.subs,
		// Document edits -> relayout, then a debounced block refresh.
		app.bus.Subscribe(event.TopicDocumentChanged, func(event.Event) {
			app.view.Layout()
			app.view.EnsureVisible(app.sel.Head.Line)
			app.ctrl.Invalidate()
		}),

		// Scroll and resize -> debounced block refresh.
		app.bus.Subscribe(event.TopicLayoutInvalidated, func(event.Event) {
			app.ctrl.Invalidate()
		}),

		app.bus.Subscribe(event.TopicConfigReloaded, func(event.Event) {
			app.log.Info("settings reloaded")
			app.message = "settings reloaded"
		}),

		app.bus.Subscribe(event.TopicDocumentSaved, func(e event.Event) {
			app.message = fmt.Sprintf("saved %s", e.Payload)
		}),

		app.bus.Subscribe("drag.*", app.onDrag),
	)
}

func (app *Application) unsubscribe() {
	for _, s := range app.subs {
		s.Unsubscribe()
	}
	app.subs = nil
}

// onDrag mirrors the drag lifecycle on the status line. Failed drags leave
// no message behind.
func (app *Application) onDrag(e event.Event) {
	switch p := e.Payload.(type) {
	case drag.Started:
		app.message = fmt.Sprintf("moving %s", lineSpan(p.Start, p.End))
	case drag.Committed:
		app.message = fmt.Sprintf("moved %s", lineSpan(p.Start, p.End))
	case drag.Cancelled:
		app.message = ""
		if p.Reason != nil && !errors.Is(p.Reason, drag.ErrIllegalTarget) {
			app.log.Debug("drag %s cancelled: %v", p.SessionID, p.Reason)
		}
	}
}

func lineSpan(start, end int) string {
	if start == end {
		return fmt.Sprintf("line %d", start+1)
	}
	return fmt.Sprintf("lines %d-%d", start+1, end+1)
}
