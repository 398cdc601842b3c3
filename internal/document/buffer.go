package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Errors returned by buffer operations.
var (
	ErrReadOnly        = errors.New("document is read-only")
	ErrCaretOutOfRange = errors.New("caret line out of range")
	ErrLineOutOfRange  = errors.New("line out of range")
	ErrNoPath          = errors.New("document has no file path")
)

// Buffer is an in-memory document. All methods are safe for concurrent use.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	lineCount  int
	caret      int
	revision   uint64
	lineEnding LineEnding
	readOnly   bool
	dirty      bool
	path       string
	history    *History
	now        func() time.Time
}

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the style used when saving.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithReadOnly rejects every replacement.
func WithReadOnly(ro bool) Option {
	return func(b *Buffer) {
		b.readOnly = ro
	}
}

// WithHistoryLimit bounds the number of undo steps.
func WithHistoryLimit(n int) Option {
	return func(b *Buffer) {
		b.history = NewHistory(n)
	}
}

// WithPath associates the buffer with a file.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// NewBuffer creates a buffer holding text.
func NewBuffer(text string, opts ...Option) *Buffer {
	b := &Buffer{
		lineEnding: DetectLineEnding(text),
		history:    NewHistory(0),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.setText(normalize(text))
	return b
}

// Open reads the file at path into a new buffer.
func Open(path string, opts ...Option) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		data = nil
	}
	return NewBuffer(string(data), append([]Option{WithPath(path)}, opts...)...), nil
}

func (b *Buffer) setText(text string) {
	b.text = text
	b.lineCount = strings.Count(text, "\n") + 1
	b.revision++
}

// ReadAllText returns the whole document with LF line endings.
func (b *Buffer) ReadAllText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// ReplaceAllText swaps the whole document for text in one undoable step
// and places the caret at the start of caretLine.
// Nothing changes when an error is returned.
func (b *Buffer) ReplaceAllText(text string, caretLine int) error {
	return b.Replace("replace", text, caretLine)
}

// Replace is ReplaceAllText with a history label.
func (b *Buffer) Replace(label, text string, caretLine int) error {
	text = normalize(text)
	lines := strings.Count(text, "\n") + 1

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	if caretLine < 0 || caretLine >= lines {
		return fmt.Errorf("%w: %d of %d lines", ErrCaretOutOfRange, caretLine, lines)
	}

	b.history.Push(Change{
		Label:       label,
		Before:      b.text,
		After:       text,
		CaretBefore: b.caret,
		CaretAfter:  caretLine,
		Timestamp:   b.now(),
	})
	b.setText(text)
	b.caret = caretLine
	b.dirty = true
	return nil
}

// Undo reverts the newest change.
func (b *Buffer) Undo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	c, err := b.history.popUndo()
	if err != nil {
		return err
	}
	b.setText(c.Before)
	b.caret = c.CaretBefore
	b.dirty = true
	return nil
}

// Redo re-applies the newest undone change.
func (b *Buffer) Redo() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readOnly {
		return ErrReadOnly
	}
	c, err := b.history.popRedo()
	if err != nil {
		return err
	}
	b.setText(c.After)
	b.caret = c.CaretAfter
	b.dirty = true
	return nil
}

// Lines returns the document split into lines.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Split(b.text, "\n")
}

// LineCount returns the number of lines. An empty document has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineCount
}

// Line returns a single line.
func (b *Buffer) Line(i int) (string, error) {
	lines := b.Lines()
	if i < 0 || i >= len(lines) {
		return "", fmt.Errorf("%w: %d", ErrLineOutOfRange, i)
	}
	return lines[i], nil
}

// Caret returns the caret line.
func (b *Buffer) Caret() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.caret
}

// SetCaret moves the caret, clamped to the document.
func (b *Buffer) SetCaret(line int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.caret = max(0, min(line, b.lineCount-1))
}

// Revision increments on every content change.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Dirty reports unsaved changes.
func (b *Buffer) Dirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// Path returns the associated file path.
func (b *Buffer) Path() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// LineEnding returns the style used when saving.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// UndoCount returns the number of undo steps available.
func (b *Buffer) UndoCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.UndoCount()
}

// RedoCount returns the number of redo steps available.
func (b *Buffer) RedoCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.history.RedoCount()
}

// Save writes the buffer to its path, restoring the original line endings.
func (b *Buffer) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.path == "" {
		return ErrNoPath
	}

	data := b.text
	if b.lineEnding != LineEndingLF {
		data = strings.ReplaceAll(data, "\n", b.lineEnding.Sequence())
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), ".blockdnd-save-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("save %s: %w", b.path, err)
	}

	b.dirty = false
	return nil
}
