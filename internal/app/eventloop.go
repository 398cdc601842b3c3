package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/blockdnd/internal/document"
	"github.com/dshills/blockdnd/internal/drag"
	"github.com/dshills/blockdnd/internal/event"
	"github.com/dshills/blockdnd/internal/renderer"
	"github.com/dshills/blockdnd/internal/renderer/backend"
)

// wheelStep is how many lines one wheel notch scrolls.
const wheelStep = 3

// HandleEvent processes a backend event. It returns ErrQuit when the
// application should exit.
func (app *Application) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		// A new layout detaches the rows a drag holds.
		if app.ctrl.SessionOpen() {
			app.pressed = false
			app.ctrl.Cancel()
		}
		app.view.Resize(ev.Width, ev.Height)
		app.layoutChanged()
	case backend.EventKey:
		return app.handleKey(ev)
	case backend.EventMouse:
		app.handleMouse(ev)
	case backend.EventInterrupt:
		if ev.Func != nil {
			ev.Func()
		}
	}
	return nil
}

func (app *Application) layoutChanged() {
	app.bus.Publish(event.TopicLayoutInvalidated, nil)
}

func (app *Application) modality() drag.Modality {
	if app.settings.TouchMode {
		return drag.ModalityTouch
	}
	return drag.ModalityPointer
}

// handleMouse turns terminal mouse reports into drag events. Terminals
// report button state rather than transitions, so press and release are
// derived from the previous state.
func (app *Application) handleMouse(ev backend.Event) {
	switch ev.MouseButton {
	case backend.MouseWheelUp:
		app.scroll(-wheelStep)
		return
	case backend.MouseWheelDown:
		app.scroll(wheelStep)
		return
	case backend.MouseMiddle, backend.MouseRight:
		return
	}

	// A press resolves handles against the current rows, not the ones a
	// pending refresh is about to replace.
	if ev.MouseButton == backend.MouseLeft && !app.pressed {
		if err := app.ctrl.Flush(); err != nil {
			app.log.Debug("flush: %v", err)
		}
	}

	m := app.modality()
	x, y := float64(ev.MouseX), renderer.PointerY(ev.MouseY)
	handle := app.view.HandleAt(ev.MouseX, ev.MouseY)
	line := app.view.ElementAt(ev.MouseY)

	var de drag.Event
	switch {
	case ev.MouseButton == backend.MouseLeft && !app.pressed:
		app.pressed = true
		de = drag.Down(m, x, y, handle, line)
		if handle == drag.NoTarget && line != drag.NoTarget && m == drag.ModalityPointer {
			app.clickText(ev.MouseX, line, ev.Mod)
		}
	case ev.MouseButton == backend.MouseLeft:
		de = drag.Move(m, x, y, handle, line)
	case app.pressed:
		app.pressed = false
		de = drag.Up(m, x, y)
	default:
		de = drag.Move(m, x, y, handle, line)
	}

	if err := app.ctrl.Handle(de); err != nil {
		app.log.Debug("drag %s: %v", de.Type, err)
	}
}

// scroll moves the view unless a drag holds the current layout.
func (app *Application) scroll(delta int) {
	if app.ctrl.SessionOpen() {
		return
	}
	if app.view.ScrollBy(delta) {
		app.layoutChanged()
	}
}

// clickText places the caret under the pointer.
func (app *Application) clickText(x, element int, mod backend.ModMask) {
	lines := app.view.Lines()
	if element < 0 || element >= len(lines) {
		return
	}
	l := lines[element]
	col := renderer.ColumnAt(l.Text(), x-renderer.GutterWidth)
	app.moveCaret(l.DocLine(), col, mod.Has(backend.ModShift))
}

func (app *Application) handleKey(ev backend.Event) error {
	extend := ev.Mod.Has(backend.ModShift)
	head := app.sel.Head

	switch ev.Key {
	case backend.KeyCtrlQ, backend.KeyCtrlC:
		return ErrQuit
	case backend.KeyEscape:
		app.pressed = false
		app.ctrl.Cancel()
		return nil
	}

	// Editing and caret movement wait for the drag to finish.
	if app.ctrl.SessionOpen() {
		return nil
	}

	switch ev.Key {
	case backend.KeyUp:
		app.moveCaret(head.Line-1, head.Col, extend)
	case backend.KeyDown:
		app.moveCaret(head.Line+1, head.Col, extend)
	case backend.KeyLeft:
		app.moveCaret(head.Line, head.Col-1, extend)
	case backend.KeyRight:
		app.moveCaret(head.Line, head.Col+1, extend)
	case backend.KeyHome:
		app.moveCaret(head.Line, 0, extend)
	case backend.KeyEnd:
		app.moveCaret(head.Line, maxCol, extend)
	case backend.KeyPageUp:
		app.moveCaret(head.Line-app.view.TextRows(), head.Col, extend)
	case backend.KeyPageDown:
		app.moveCaret(head.Line+app.view.TextRows(), head.Col, extend)
	case backend.KeyCtrlZ:
		return app.history("undo", app.doc.Undo)
	case backend.KeyCtrlY:
		return app.history("redo", app.doc.Redo)
	case backend.KeyCtrlS:
		return app.save()
	}
	return nil
}

const maxCol = int(^uint(0) >> 1)

// moveCaret clamps and sets the caret, extending the selection when asked.
func (app *Application) moveCaret(line, col int, extend bool) {
	line = max(min(line, app.doc.LineCount()-1), 0)
	text, _ := app.doc.Line(line)
	col = max(min(col, len([]rune(text))), 0)

	next := caretAt(line, col)
	if extend {
		next.Anchor = app.sel.Anchor
	}
	app.sel = next
	app.doc.SetCaret(line)

	if app.view.EnsureVisible(line) {
		app.layoutChanged()
	}
}

func (app *Application) history(op string, apply func() error) error {
	if err := apply(); err != nil {
		if errors.Is(err, document.ErrNothingToUndo) || errors.Is(err, document.ErrNothingToRedo) {
			app.message = "nothing to " + op
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	app.sel = caretAt(app.doc.Caret(), 0)
	app.message = ""
	app.bus.Publish(event.TopicDocumentChanged, DocumentChanged{
		Revision: app.doc.Revision(),
		Caret:    app.doc.Caret(),
	})
	return nil
}

func (app *Application) save() error {
	if err := app.doc.Save(); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	app.log.Info("saved %s", app.doc.Path())
	app.bus.Publish(event.TopicDocumentSaved, filepath.Base(app.doc.Path()))
	return nil
}

// draw renders one frame.
func (app *Application) draw() {
	app.view.Draw(app.backend, renderer.Frame{
		Selection:  app.sel,
		Caret:      app.sel.Head,
		ShowCursor: !app.ctrl.SessionOpen(),
		Status:     app.status(),
	})
}

func (app *Application) status() string {
	name := "[scratch]"
	if p := app.doc.Path(); p != "" {
		name = filepath.Base(p)
	}
	if app.doc.Dirty() {
		name += " [+]"
	}
	s := fmt.Sprintf("%s  %d:%d", name, app.sel.Head.Line+1, app.sel.Head.Col+1)
	if app.message != "" {
		s += "  " + app.message
	}
	return s
}
