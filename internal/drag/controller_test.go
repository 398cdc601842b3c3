package drag

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/blockdnd/internal/block"
	"github.com/dshills/blockdnd/internal/block/markdown"
	"github.com/dshills/blockdnd/internal/event"
	"github.com/dshills/blockdnd/internal/selection"
)

// Each fake line is lineHeight tall, so line i spans [10i, 10i+10) and its
// midpoint is 10i+5.
const lineHeight = 10

type fakeElement struct {
	text     string
	sig      block.Signal
	line     int
	detached bool
}

func (e *fakeElement) Attached() bool        { return !e.detached }
func (e *fakeElement) Text() string          { return e.text }
func (e *fakeElement) Signals() block.Signal { return e.sig }
func (e *fakeElement) Rect() Rect {
	top := float64(e.line * lineHeight)
	return Rect{Top: top, Bottom: top + lineHeight, Left: 2, Width: 80}
}

type fakeView struct {
	els     []*fakeElement
	lineErr error
}

func newFakeView(text string) *fakeView {
	v := &fakeView{}
	for _, l := range markdown.Scan(text) {
		v.els = append(v.els, &fakeElement{text: l.Text, sig: l.Signals, line: l.Index})
	}
	return v
}

func (v *fakeView) Elements() []Element {
	out := make([]Element, len(v.els))
	for i, el := range v.els {
		out[i] = el
	}
	return out
}

func (v *fakeView) LineOf(el Element) (int, error) {
	if v.lineErr != nil {
		return 0, v.lineErr
	}
	fe := el.(*fakeElement)
	if fe.detached {
		return 0, errors.New("detached")
	}
	return fe.line, nil
}

type fakeEditor struct {
	text     string
	sel      selection.Selection
	caret    int
	replaces int
	err      error
}

func (e *fakeEditor) ReadAllText() string            { return e.text }
func (e *fakeEditor) Selection() selection.Selection { return e.sel }
func (e *fakeEditor) ReplaceAllText(text string, caret int) error {
	if e.err != nil {
		return e.err
	}
	e.text = text
	e.caret = caret
	e.replaces++
	return nil
}

type fakeWorkspace struct {
	ed *fakeEditor
}

func (w *fakeWorkspace) ActiveEditor() (Editor, error) {
	if w.ed == nil {
		return nil, ErrNoActiveEditor
	}
	return w.ed, nil
}

type fakeVisuals struct {
	renders   int
	blocks    []block.Block
	shown     map[int]bool
	active    map[int]bool
	selected  map[int]bool
	dragging  []Element
	indicator *Indicator
}

func newFakeVisuals() *fakeVisuals {
	return &fakeVisuals{
		shown:    make(map[int]bool),
		active:   make(map[int]bool),
		selected: make(map[int]bool),
	}
}

func (v *fakeVisuals) RenderHandles(blocks []block.Block) {
	v.renders++
	v.blocks = blocks
	v.shown = make(map[int]bool)
	v.active = make(map[int]bool)
	v.selected = make(map[int]bool)
}
func (v *fakeVisuals) ShowHandle(i int)               { v.shown[i] = true }
func (v *fakeVisuals) HideHandle(i int)               { delete(v.shown, i) }
func (v *fakeVisuals) HideHandles()                   { v.shown = make(map[int]bool) }
func (v *fakeVisuals) SetHandleActive(i int, on bool) { v.active[i] = on }
func (v *fakeVisuals) MarkDragging(els []Element)     { v.dragging = els }
func (v *fakeVisuals) ClearDragging()                 { v.dragging = nil }
func (v *fakeVisuals) ShowIndicator(ind Indicator)    { v.indicator = &ind }
func (v *fakeVisuals) HideIndicator()                 { v.indicator = nil }
func (v *fakeVisuals) SetSelected(b block.Block, on bool) {
	if on {
		v.selected[b.StartLine] = true
	} else {
		delete(v.selected, b.StartLine)
	}
}

func (v *fakeVisuals) shownHandles() []int {
	var out []int
	for i, ok := range v.shown {
		if ok {
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}

type fakeTimer struct {
	at      time.Duration
	f       func()
	fired   bool
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler runs callbacks only when the test advances its clock.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: s.now + d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) Advance(d time.Duration) {
	s.now += d
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.fired || t.stopped || t.at > s.now {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			return
		}
		next.fired = true
		next.f()
	}
}

func (s *fakeScheduler) pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

type published struct {
	topic   event.Topic
	payload any
}

type recorder struct {
	events []published
}

func (r *recorder) Publish(topic event.Topic, payload any) {
	r.events = append(r.events, published{topic, payload})
}

func (r *recorder) topics() []event.Topic {
	out := make([]event.Topic, len(r.events))
	for i, e := range r.events {
		out[i] = e.topic
	}
	return out
}

func (r *recorder) last() published {
	if len(r.events) == 0 {
		return published{}
	}
	return r.events[len(r.events)-1]
}

type harness struct {
	c     *Controller
	view  *fakeView
	ed    *fakeEditor
	ws    *fakeWorkspace
	vis   *fakeVisuals
	sched *fakeScheduler
	pub   *recorder
}

func newHarness(t *testing.T, text string, opts Options) *harness {
	t.Helper()
	h := &harness{
		view:  newFakeView(text),
		ed:    &fakeEditor{text: text},
		vis:   newFakeVisuals(),
		sched: &fakeScheduler{},
		pub:   &recorder{},
	}
	h.ws = &fakeWorkspace{ed: h.ed}
	h.c = New(opts, Deps{
		View:      h.view,
		Workspace: h.ws,
		Visuals:   h.vis,
		Scheduler: h.sched,
		Publisher: h.pub,
	})
	if err := h.c.Refresh(); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return h
}

// y returns a pointer position whose drop target is line.
func y(line int) float64 {
	return float64(line*lineHeight) + 1
}

func (h *harness) pointerDrag(t *testing.T, handle, target int) error {
	t.Helper()
	b, ok := h.c.Index().At(handle)
	if !ok {
		t.Fatalf("no block %d", handle)
	}
	if err := h.c.Handle(Down(ModalityPointer, 0, y(b.StartLine), handle, b.StartLine)); err != nil {
		return err
	}
	if err := h.c.Handle(Move(ModalityPointer, 0, y(target), NoTarget, NoTarget)); err != nil {
		return err
	}
	return h.c.Handle(Up(ModalityPointer, 0, y(target)))
}

func TestPointerDragMovesBlockDown(t *testing.T) {
	h := newHarness(t, "A\nB\nC\nD", DefaultOptions())

	if err := h.pointerDrag(t, 0, 3); err != nil {
		t.Fatalf("drag error = %v", err)
	}

	if h.ed.text != "B\nC\nA\nD" {
		t.Errorf("text = %q, want %q", h.ed.text, "B\nC\nA\nD")
	}
	if h.ed.caret != 2 {
		t.Errorf("caret = %d, want 2", h.ed.caret)
	}
	if h.ed.replaces != 1 {
		t.Errorf("replaces = %d, want 1", h.ed.replaces)
	}
	if h.c.State() != StateIdle || h.c.SessionOpen() {
		t.Errorf("state = %v, session open = %v; want idle and closed", h.c.State(), h.c.SessionOpen())
	}

	want := []event.Topic{event.TopicDragStarted, event.TopicDragCommitted}
	if diff := cmp.Diff(want, h.pub.topics()); diff != "" {
		t.Errorf("topics mismatch (-want +got):\n%s", diff)
	}
	got := h.pub.last().payload.(Committed)
	if got.Start != 0 || got.End != 0 || got.Target != 3 || got.Caret != 2 {
		t.Errorf("committed = %+v", got)
	}
}

func TestPointerDragMovesBlockUp(t *testing.T) {
	h := newHarness(t, "A\nB\nC\nD", DefaultOptions())

	if err := h.pointerDrag(t, 3, 0); err != nil {
		t.Fatalf("drag error = %v", err)
	}
	if h.ed.text != "D\nA\nB\nC" {
		t.Errorf("text = %q", h.ed.text)
	}
	if h.ed.caret != 0 {
		t.Errorf("caret = %d, want 0", h.ed.caret)
	}
}

func TestDragCodeBlockPastLastLine(t *testing.T) {
	h := newHarness(t, "```\nx\n```\nA", DefaultOptions())

	b, _ := h.c.Index().At(0)
	if b.Type != block.TypeCode || b.EndLine != 2 {
		t.Fatalf("block 0 = %+v, want code 0-2", b)
	}
	if err := h.pointerDrag(t, 0, 4); err != nil {
		t.Fatalf("drag error = %v", err)
	}
	if h.ed.text != "A\n```\nx\n```" {
		t.Errorf("text = %q", h.ed.text)
	}
	if h.ed.caret != 1 {
		t.Errorf("caret = %d, want 1", h.ed.caret)
	}
}

func TestDropInsideOwnRangeIsNoop(t *testing.T) {
	tests := []struct {
		name   string
		handle int
		target int
	}{
		{"own start", 1, 1},
		{"just after end", 1, 2},
		{"click without moving", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "A\nB\nC\nD", DefaultOptions())
			if err := h.pointerDrag(t, tt.handle, tt.target); err != nil {
				t.Fatalf("drag error = %v", err)
			}
			if h.ed.replaces != 0 {
				t.Errorf("replaces = %d, want 0", h.ed.replaces)
			}
			last := h.pub.last()
			if last.topic != event.TopicDragCancelled {
				t.Fatalf("last topic = %q, want %q", last.topic, event.TopicDragCancelled)
			}
			if reason := last.payload.(Cancelled).Reason; !errors.Is(reason, ErrIllegalTarget) {
				t.Errorf("reason = %v, want ErrIllegalTarget", reason)
			}
		})
	}
}

func TestPointerDownStartsSessionImmediately(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())

	if err := h.c.Handle(Down(ModalityPointer, 0, y(1), 1, 1)); err != nil {
		t.Fatalf("Down error = %v", err)
	}
	s, ok := h.c.Session()
	if !ok {
		t.Fatal("no session after pointer down")
	}
	if s.SourceStart != 1 || s.SourceEnd != 1 || s.Modality != ModalityPointer {
		t.Errorf("session = %+v", s)
	}
	if s.ID == "" {
		t.Error("session has no ID")
	}
	if len(h.vis.dragging) != 1 {
		t.Errorf("dragging elements = %d, want 1", len(h.vis.dragging))
	}
	if h.vis.indicator == nil {
		t.Error("indicator not shown")
	}
	if len(h.vis.shownHandles()) != 0 {
		t.Errorf("handles shown during drag: %v", h.vis.shownHandles())
	}

	// A second press is ignored while a session is live.
	if err := h.c.Handle(Down(ModalityPointer, 0, y(0), 0, 0)); err != nil {
		t.Fatalf("second Down error = %v", err)
	}
	if s2, _ := h.c.Session(); s2.ID != s.ID {
		t.Error("second press replaced the session")
	}
}

func TestIndicatorPosition(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())
	_ = h.c.Handle(Down(ModalityPointer, 0, y(0), 0, 0))

	_ = h.c.Handle(Move(ModalityPointer, 0, 24, NoTarget, NoTarget))
	if s, _ := h.c.Session(); s.Target != 2 {
		t.Errorf("target = %d, want 2", s.Target)
	}
	if h.vis.indicator == nil || h.vis.indicator.Y != 20 {
		t.Errorf("indicator = %+v, want Y=20", h.vis.indicator)
	}

	// Below every midpoint: after the last line, at its bottom edge.
	_ = h.c.Handle(Move(ModalityPointer, 0, 100, NoTarget, NoTarget))
	if s, _ := h.c.Session(); s.Target != 3 {
		t.Errorf("target = %d, want 3", s.Target)
	}
	if h.vis.indicator == nil || h.vis.indicator.Y != 30 {
		t.Errorf("indicator = %+v, want Y=30", h.vis.indicator)
	}
}

func TestSelectionExtendsDragRange(t *testing.T) {
	h := newHarness(t, "A\nB\nC\nD", DefaultOptions())
	h.ed.sel = selection.Selection{
		Anchor: selection.Cursor{Line: 2, Col: 1},
		Head:   selection.Cursor{Line: 0, Col: 0},
	}

	if err := h.pointerDrag(t, 1, 4); err != nil {
		t.Fatalf("drag error = %v", err)
	}
	if h.ed.text != "D\nA\nB\nC" {
		t.Errorf("text = %q", h.ed.text)
	}
	if h.ed.caret != 1 {
		t.Errorf("caret = %d, want 1", h.ed.caret)
	}
}

func TestSelectionNotCoveringBlockIsIgnored(t *testing.T) {
	h := newHarness(t, "A\nB\nC\nD", DefaultOptions())
	h.ed.sel = selection.Selection{
		Anchor: selection.Cursor{Line: 2, Col: 0},
		Head:   selection.Cursor{Line: 3, Col: 1},
	}

	if err := h.pointerDrag(t, 0, 2); err != nil {
		t.Fatalf("drag error = %v", err)
	}
	if h.ed.text != "B\nA\nC\nD" {
		t.Errorf("text = %q", h.ed.text)
	}
}

func TestTouchLongPressStartsDrag(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())

	_ = h.c.Handle(Down(ModalityTouch, 10, y(0), 0, 0))
	if h.c.State() != StateArmed {
		t.Fatalf("state = %v, want armed", h.c.State())
	}
	if !h.vis.active[0] {
		t.Error("handle not marked active")
	}

	h.sched.Advance(149 * time.Millisecond)
	if h.c.SessionOpen() {
		t.Fatal("session opened before the long press delay")
	}

	h.sched.Advance(time.Millisecond)
	if h.c.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", h.c.State())
	}

	_ = h.c.Handle(Move(ModalityTouch, 10, y(3), NoTarget, NoTarget))
	_ = h.c.Handle(Up(ModalityTouch, 10, y(3)))
	if h.ed.text != "B\nC\nA" {
		t.Errorf("text = %q", h.ed.text)
	}
	if h.vis.active[0] {
		t.Error("handle still active after drag")
	}
}

func TestTouchAbortsBeforeLongPress(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
	}{
		{"lift", Up(ModalityTouch, 10, y(0))},
		{"wander", Move(ModalityTouch, 10, y(0)+5, NoTarget, NoTarget)},
		{"cancel", Cancel(ModalityTouch)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "A\nB\nC", DefaultOptions())

			_ = h.c.Handle(Down(ModalityTouch, 10, y(0), 0, 0))
			_ = h.c.Handle(tt.ev)
			if h.c.State() != StateIdle {
				t.Fatalf("state = %v, want idle", h.c.State())
			}

			h.sched.Advance(time.Second)
			if h.c.SessionOpen() {
				t.Error("session opened after abort")
			}
			if h.ed.replaces != 0 {
				t.Errorf("replaces = %d, want 0", h.ed.replaces)
			}
			if len(h.pub.events) != 0 {
				t.Errorf("events = %v, want none", h.pub.topics())
			}
		})
	}
}

func TestTouchJitterWithinThresholdKeepsPress(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())

	_ = h.c.Handle(Down(ModalityTouch, 10, y(0), 0, 0))
	_ = h.c.Handle(Move(ModalityTouch, 10.5, y(0)+0.5, NoTarget, NoTarget))
	h.sched.Advance(150 * time.Millisecond)

	if h.c.State() != StateDragging {
		t.Fatalf("state = %v, want dragging", h.c.State())
	}
}

func TestCancelDuringDragLeavesDocument(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())

	_ = h.c.Handle(Down(ModalityPointer, 0, y(0), 0, 0))
	_ = h.c.Handle(Move(ModalityPointer, 0, y(3), NoTarget, NoTarget))
	renders := h.vis.renders
	_ = h.c.Handle(Cancel(ModalityPointer))

	if h.ed.replaces != 0 {
		t.Errorf("replaces = %d, want 0", h.ed.replaces)
	}
	if h.c.SessionOpen() {
		t.Error("session still open")
	}
	if h.vis.dragging != nil || h.vis.indicator != nil {
		t.Error("drag visuals not cleared")
	}
	if h.vis.renders != renders+1 {
		t.Errorf("renders = %d, want %d", h.vis.renders, renders+1)
	}
	if h.pub.last().topic != event.TopicDragCancelled {
		t.Errorf("last topic = %q", h.pub.last().topic)
	}

	// Cancelling again is harmless.
	h.c.Cancel()
}

func TestRefreshDeferredDuringSession(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())
	renders := h.vis.renders
	rev := h.c.Index().Revision()

	_ = h.c.Handle(Down(ModalityPointer, 0, y(0), 0, 0))
	h.c.Invalidate()
	if err := h.c.Refresh(); !errors.Is(err, block.ErrRefreshSuspended) {
		t.Errorf("Refresh() error = %v, want ErrRefreshSuspended", err)
	}
	h.sched.Advance(time.Second)

	if h.vis.renders != renders {
		t.Errorf("renders during session = %d, want %d", h.vis.renders, renders)
	}
	if h.c.Index().Revision() != rev {
		t.Error("block index refreshed during session")
	}
	if !h.c.RefreshOwed() {
		t.Error("refresh not owed")
	}

	_ = h.c.Handle(Move(ModalityPointer, 0, y(3), NoTarget, NoTarget))
	_ = h.c.Handle(Up(ModalityPointer, 0, y(3)))

	if h.c.RefreshOwed() {
		t.Error("owed refresh not honoured")
	}
	if h.vis.renders != renders+1 {
		t.Errorf("renders after session = %d, want %d", h.vis.renders, renders+1)
	}
}

func TestInvalidateDebounces(t *testing.T) {
	h := newHarness(t, "A\nB", DefaultOptions())
	renders := h.vis.renders

	for i := 0; i < 3; i++ {
		h.c.Invalidate()
		h.sched.Advance(50 * time.Millisecond)
	}
	if h.vis.renders != renders {
		t.Fatalf("renders = %d before debounce elapsed", h.vis.renders)
	}

	h.sched.Advance(50 * time.Millisecond)
	if h.vis.renders != renders+1 {
		t.Errorf("renders = %d, want %d", h.vis.renders, renders+1)
	}
	if h.sched.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", h.sched.pending())
	}
}

func TestRefreshPicksUpViewChanges(t *testing.T) {
	h := newHarness(t, "A\nB", DefaultOptions())
	if h.c.Index().Len() != 2 {
		t.Fatalf("blocks = %d, want 2", h.c.Index().Len())
	}

	*h.view = *newFakeView("```\nA\nB\n```")
	h.c.Invalidate()
	h.sched.Advance(100 * time.Millisecond)

	if diff := cmp.Diff([]block.Block{{StartLine: 0, EndLine: 3, Type: block.TypeCode}}, h.vis.blocks); diff != "" {
		t.Errorf("rendered blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestMutationFailureTearsDown(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())
	h.ed.err = errors.New("read only")
	renders := h.vis.renders

	err := h.pointerDrag(t, 0, 3)
	if !errors.Is(err, ErrMutationApply) {
		t.Fatalf("error = %v, want ErrMutationApply", err)
	}
	var de *Error
	if !errors.As(err, &de) || de.Op != "commit" || de.SessionID == "" {
		t.Errorf("error = %#v, want *Error for commit", err)
	}
	if h.c.State() != StateIdle {
		t.Errorf("state = %v", h.c.State())
	}
	if h.vis.renders != renders+1 {
		t.Errorf("renders = %d, want %d", h.vis.renders, renders+1)
	}
	if h.pub.last().topic != event.TopicDragCancelled {
		t.Errorf("last topic = %q", h.pub.last().topic)
	}
}

func TestDocumentShrunkUnderSession(t *testing.T) {
	h := newHarness(t, "A\nB\nC", DefaultOptions())
	h.ed.text = "A"

	err := h.pointerDrag(t, 2, 0)
	if !errors.Is(err, ErrStaleElement) {
		t.Fatalf("error = %v, want ErrStaleElement", err)
	}
	if h.ed.text != "A" {
		t.Errorf("text = %q", h.ed.text)
	}
}

func TestDetachedSourceAbandonsDrag(t *testing.T) {
	tests := []struct {
		name string
		next func(h *harness) error
	}{
		{"move", func(h *harness) error {
			return h.c.Handle(Move(ModalityPointer, 0, y(2), NoTarget, NoTarget))
		}},
		{"release", func(h *harness) error {
			return h.c.Handle(Up(ModalityPointer, 0, y(3)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "A\nB\nC\nD", DefaultOptions())
			_ = h.c.Handle(Down(ModalityPointer, 0, y(0), 0, 0))
			_ = h.c.Handle(Move(ModalityPointer, 0, y(3), NoTarget, NoTarget))
			h.view.els[0].detached = true
			renders := h.vis.renders

			err := tt.next(h)
			if !errors.Is(err, ErrStaleElement) {
				t.Fatalf("error = %v, want ErrStaleElement", err)
			}
			if h.ed.replaces != 0 || h.ed.text != "A\nB\nC\nD" {
				t.Errorf("text = %q after %d replaces, want untouched", h.ed.text, h.ed.replaces)
			}
			if h.c.SessionOpen() || h.c.State() != StateIdle {
				t.Errorf("state = %v, session open = %v; want idle and closed", h.c.State(), h.c.SessionOpen())
			}
			if h.vis.renders != renders+1 {
				t.Errorf("renders = %d, want %d", h.vis.renders, renders+1)
			}
			last := h.pub.last()
			c, ok := last.payload.(Cancelled)
			if last.topic != event.TopicDragCancelled || !ok || !errors.Is(c.Reason, ErrStaleElement) {
				t.Errorf("last event = %+v, want drag.cancelled with ErrStaleElement", last)
			}
		})
	}
}

func TestFlushRunsPendingRefresh(t *testing.T) {
	h := newHarness(t, "A\nB", DefaultOptions())
	renders := h.vis.renders

	if err := h.c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if h.vis.renders != renders {
		t.Fatalf("Flush with nothing pending rendered")
	}

	*h.view = *newFakeView("```\nA\nB\n```")
	h.c.Invalidate()
	if err := h.c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if h.vis.renders != renders+1 {
		t.Errorf("renders = %d, want %d", h.vis.renders, renders+1)
	}
	if diff := cmp.Diff([]block.Block{{StartLine: 0, EndLine: 3, Type: block.TypeCode}}, h.vis.blocks); diff != "" {
		t.Errorf("rendered blocks mismatch (-want +got):\n%s", diff)
	}
	if h.sched.pending() != 0 {
		t.Errorf("pending timers = %d, want 0", h.sched.pending())
	}
}

func TestStartFailures(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(h *harness)
		want    error
	}{
		{"no editor", func(h *harness) { h.ws.ed = nil }, ErrNoActiveEditor},
		{"detached", func(h *harness) { h.view.els[0].detached = true }, ErrStaleElement},
		{"unresolvable", func(h *harness) { h.view.lineErr = errors.New("gone") }, ErrUnresolvablePosition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "A\nB", DefaultOptions())
			tt.prepare(h)
			renders := h.vis.renders

			err := h.c.Handle(Down(ModalityPointer, 0, y(0), 0, 0))
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			if h.c.State() != StateIdle || h.c.SessionOpen() {
				t.Errorf("state = %v, want idle without session", h.c.State())
			}
			if h.vis.renders != renders+1 {
				t.Errorf("renders = %d, want %d", h.vis.renders, renders+1)
			}
			if h.ed.replaces != 0 {
				t.Error("document modified")
			}
		})
	}
}

func TestHoverShowsAndLingers(t *testing.T) {
	h := newHarness(t, "A\n\nB", DefaultOptions())

	_ = h.c.Handle(Move(ModalityPointer, 30, 5, NoTarget, 0))
	if diff := cmp.Diff([]int{0}, h.vis.shownHandles()); diff != "" {
		t.Fatalf("shown mismatch (-want +got):\n%s", diff)
	}
	if !h.c.Hovering() {
		t.Error("Hovering() = false")
	}

	// Empty lines never get a handle.
	_ = h.c.Handle(Move(ModalityPointer, 30, 15, NoTarget, 1))
	if diff := cmp.Diff([]int{0}, h.vis.shownHandles()); diff != "" {
		t.Errorf("shown mismatch (-want +got):\n%s", diff)
	}

	h.sched.Advance(199 * time.Millisecond)
	if !h.vis.shown[0] {
		t.Error("handle hidden before the hide delay")
	}
	h.sched.Advance(time.Millisecond)
	if h.vis.shown[0] {
		t.Error("handle still shown after the hide delay")
	}
	if h.c.Hovering() {
		t.Error("Hovering() = true with no handle visible")
	}
}

func TestHoverReturnCancelsHide(t *testing.T) {
	h := newHarness(t, "A\nB", DefaultOptions())

	_ = h.c.Handle(Move(ModalityPointer, 30, 5, NoTarget, 0))
	_ = h.c.Handle(Move(ModalityPointer, 30, 15, NoTarget, 1))
	h.sched.Advance(100 * time.Millisecond)
	// Pointer reaches the handle of block 0.
	_ = h.c.Handle(Move(ModalityPointer, 0, 5, 0, NoTarget))
	h.sched.Advance(time.Second)

	if !h.vis.shown[0] {
		t.Error("handle 0 hidden while hovered")
	}
	if h.vis.shown[1] {
		t.Error("handle 1 still shown after pointer left")
	}
}

func TestPersistentHandles(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowHandleOnHover = false
	h := newHarness(t, "A\n\nB\nC", opts)

	if diff := cmp.Diff([]int{0, 2, 3}, h.vis.shownHandles()); diff != "" {
		t.Errorf("shown mismatch (-want +got):\n%s", diff)
	}
	_ = h.c.Handle(Move(ModalityPointer, 30, 5, NoTarget, 0))
	_ = h.c.Handle(Move(ModalityPointer, 30, 100, NoTarget, NoTarget))
	h.sched.Advance(time.Second)
	if len(h.vis.shownHandles()) != 3 {
		t.Errorf("hover changed persistent handles: %v", h.vis.shownHandles())
	}
}

func TestTapToSelect(t *testing.T) {
	opts := DefaultOptions()
	opts.Touch = true
	h := newHarness(t, "A\n\nB", opts)

	if len(h.vis.shownHandles()) != 0 {
		t.Fatalf("touch view shows handles before a tap: %v", h.vis.shownHandles())
	}

	_ = h.c.Handle(Down(ModalityTouch, 30, 25, NoTarget, 2))
	if h.c.Selected() != 2 || !h.vis.selected[2] || !h.vis.shown[2] {
		t.Fatalf("selected = %d, visuals = %v/%v", h.c.Selected(), h.vis.selected, h.vis.shown)
	}

	// Tapping the same block again clears the selection.
	_ = h.c.Handle(Down(ModalityTouch, 30, 25, NoTarget, 2))
	if h.c.Selected() != NoTarget || h.vis.selected[2] || h.vis.shown[2] {
		t.Errorf("selection not cleared: %d", h.c.Selected())
	}

	_ = h.c.Handle(Down(ModalityTouch, 30, 5, NoTarget, 0))
	_ = h.c.Handle(Down(ModalityTouch, 30, 15, NoTarget, 1))
	if h.c.Selected() != NoTarget {
		t.Errorf("tap on empty line kept selection %d", h.c.Selected())
	}
}

func TestSelectionSurvivesRefresh(t *testing.T) {
	opts := DefaultOptions()
	opts.Touch = true
	h := newHarness(t, "A\nB", opts)

	_ = h.c.Handle(Down(ModalityTouch, 30, 15, NoTarget, 1))
	h.c.Invalidate()
	h.sched.Advance(100 * time.Millisecond)

	if h.c.Selected() != 1 || !h.vis.selected[1] {
		t.Errorf("selection lost on refresh: %d", h.c.Selected())
	}
}

func TestSetOptionsRefreshes(t *testing.T) {
	h := newHarness(t, "A\nB", DefaultOptions())

	opts := h.c.Options()
	opts.ShowHandleOnHover = false
	h.c.SetOptions(opts)
	h.sched.Advance(opts.RefreshDebounce)

	if diff := cmp.Diff([]int{0, 1}, h.vis.shownHandles()); diff != "" {
		t.Errorf("shown mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorString(t *testing.T) {
	err := &Error{Op: "commit", SessionID: "s1", Err: ErrMutationApply}
	want := "drag commit (session s1): applying move failed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !strings.HasPrefix((&Error{Op: "start", Err: ErrNoActiveEditor}).Error(), "drag start: ") {
		t.Error("unexpected format without session")
	}
}

func TestStrings(t *testing.T) {
	got := fmt.Sprint(StateIdle, StateArmed, StateDragging, ModalityPointer, ModalityTouch, EventDown, EventCancel)
	want := "idle armed dragging pointer touch down cancel"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
