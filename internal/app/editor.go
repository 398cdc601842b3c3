package app

import (
	"github.com/dshills/blockdnd/internal/drag"
	"github.com/dshills/blockdnd/internal/event"
	"github.com/dshills/blockdnd/internal/selection"
)

// editor exposes the open document and its selection to the drag
// controller.
type editor struct {
	app *Application
}

// ActiveEditor implements drag.Workspace.
func (app *Application) ActiveEditor() (drag.Editor, error) {
	if app.doc == nil {
		return nil, drag.ErrNoActiveEditor
	}
	return editor{app: app}, nil
}

func (e editor) ReadAllText() string {
	return e.app.doc.ReadAllText()
}

func (e editor) Selection() selection.Selection {
	return e.app.sel
}

// ReplaceAllText applies a move and collapses the selection onto the caret.
func (e editor) ReplaceAllText(text string, caretLine int) error {
	if err := e.app.doc.ReplaceAllText(text, caretLine); err != nil {
		return err
	}
	e.app.sel = caretAt(caretLine, 0)
	e.app.bus.Publish(event.TopicDocumentChanged, DocumentChanged{
		Revision: e.app.doc.Revision(),
		Caret:    caretLine,
	})
	return nil
}

// DocumentChanged is published on document.changed.
type DocumentChanged struct {
	Revision uint64
	Caret    int
}

func caretAt(line, col int) selection.Selection {
	c := selection.Cursor{Line: line, Col: col}
	return selection.Selection{Anchor: c, Head: c}
}
