package drag

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/blockdnd/internal/block"
	"github.com/dshills/blockdnd/internal/event"
	"github.com/dshills/blockdnd/internal/linemove"
	"github.com/dshills/blockdnd/internal/logging"
	"github.com/dshills/blockdnd/internal/selection"
)

// Options tunes the interaction.
type Options struct {
	// ShowHandleOnHover hides handles until the pointer hovers their block.
	// When false, pointer-driven views show every handle permanently.
	ShowHandleOnHover bool

	// Touch reports that the view is driven by touch input. Touch views show
	// a handle only for the tapped block.
	Touch bool

	// LongPressDelay is how long a touch must rest on a handle to start a drag.
	LongPressDelay time.Duration

	// HoverHideDelay is how long a handle stays visible after the pointer
	// leaves its block.
	HoverHideDelay time.Duration

	// RefreshDebounce coalesces invalidations into one refresh.
	RefreshDebounce time.Duration

	// DragThreshold is how far a touch may wander before a pending long
	// press is abandoned.
	DragThreshold float64
}

// DefaultOptions returns the stock timings.
func DefaultOptions() Options {
	return Options{
		ShowHandleOnHover: true,
		LongPressDelay:    150 * time.Millisecond,
		HoverHideDelay:    200 * time.Millisecond,
		RefreshDebounce:   100 * time.Millisecond,
		DragThreshold:     1,
	}
}

// Deps are the collaborators a Controller drives.
type Deps struct {
	View      View
	Workspace Workspace
	Visuals   Visuals
	Scheduler Scheduler

	// Publisher receives drag.* events; nil disables publishing.
	Publisher event.Publisher

	// Logger defaults to logging.NullLogger.
	Logger *logging.Logger
}

// armed is a pending press on a handle.
type armed struct {
	block    int
	modality Modality
	origin   point
	y        float64
	timer    Timer
}

// Controller owns the block index and the drag session of one view.
type Controller struct {
	opts Options

	view      View
	workspace Workspace
	visuals   Visuals
	sched     Scheduler
	pub       event.Publisher
	log       *logging.Logger

	index    *block.Index
	elements []Element

	state   State
	arm     *armed
	session *Session

	refreshOwed bool
	debounce    Timer

	hovered    int
	hovering   bool
	visible    map[int]bool
	hideTimers map[int]Timer

	selected int
}

// New creates a Controller. It gates its own block index.
func New(opts Options, deps Deps) *Controller {
	log := deps.Logger
	if log == nil {
		log = logging.NullLogger
	}
	c := &Controller{
		opts:       opts,
		view:       deps.View,
		workspace:  deps.Workspace,
		visuals:    deps.Visuals,
		sched:      deps.Scheduler,
		pub:        deps.Publisher,
		log:        log.WithComponent("drag"),
		hovered:    NoTarget,
		selected:   NoTarget,
		visible:    make(map[int]bool),
		hideTimers: make(map[int]Timer),
	}
	c.index = block.NewIndex(c)
	return c
}

// SessionOpen reports whether a drag session is live.
func (c *Controller) SessionOpen() bool {
	return c.session != nil
}

// Index returns the block index.
func (c *Controller) Index() *block.Index {
	return c.index
}

// State returns the interaction state.
func (c *Controller) State() State {
	return c.state
}

// Session returns a copy of the live session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Options returns the current options.
func (c *Controller) Options() Options {
	return c.opts
}

// SetOptions replaces the options. Visibility changes apply on the next
// refresh; a live session keeps running.
func (c *Controller) SetOptions(opts Options) {
	c.opts = opts
	c.Invalidate()
}

// Selected returns the tap-selected block index, or NoTarget.
func (c *Controller) Selected() int {
	return c.selected
}

// Handle feeds one input event through the state machine. The returned
// error describes an interaction that was aborted; it has already been
// recovered from and is informational only.
func (c *Controller) Handle(ev Event) error {
	switch ev.Type {
	case EventDown:
		return c.down(ev)
	case EventMove:
		return c.move(ev)
	case EventUp:
		return c.up()
	case EventCancel:
		c.Cancel()
	}
	return nil
}

func (c *Controller) down(ev Event) error {
	if c.state != StateIdle {
		return nil
	}
	if ev.Handle == NoTarget {
		if ev.Modality == ModalityTouch {
			c.tap(ev.Line)
		}
		return nil
	}
	if _, ok := c.index.At(ev.Handle); !ok {
		return nil
	}

	c.state = StateArmed
	c.visuals.SetHandleActive(ev.Handle, true)
	c.arm = &armed{
		block:    ev.Handle,
		modality: ev.Modality,
		origin:   point{X: ev.X, Y: ev.Y},
		y:        ev.Y,
	}
	if ev.Modality == ModalityPointer {
		return c.start()
	}
	c.arm.timer = c.sched.AfterFunc(c.opts.LongPressDelay, c.longPress)
	return nil
}

func (c *Controller) longPress() {
	if c.state != StateArmed || c.arm == nil {
		return
	}
	c.arm.timer = nil
	if err := c.start(); err != nil {
		c.log.Debug("long press did not start a drag: %v", err)
	}
}

func (c *Controller) move(ev Event) error {
	switch c.state {
	case StateArmed:
		if c.arm == nil {
			return nil
		}
		if c.arm.origin.dist(ev.X, ev.Y) > c.opts.DragThreshold {
			c.disarm()
			return nil
		}
		c.arm.y = ev.Y
	case StateDragging:
		return c.track(ev.Y)
	case StateIdle:
		if ev.Modality == ModalityPointer {
			c.hover(ev)
		}
	}
	return nil
}

func (c *Controller) up() error {
	switch c.state {
	case StateArmed:
		c.disarm()
	case StateDragging:
		return c.commit()
	}
	return nil
}

// Cancel abandons any pending press or live drag without touching the
// document, then re-renders. It is safe to call in any state.
func (c *Controller) Cancel() {
	if c.session != nil {
		c.publish(event.TopicDragCancelled, Cancelled{SessionID: c.session.ID, Reason: wrapErr("cancel", c.session, errCancelled)})
	}
	c.teardown()
}

var errCancelled = errors.New("cancelled")

func wrapErr(op string, s *Session, err error) error {
	e := &Error{Op: op, Err: err}
	if s != nil {
		e.SessionID = s.ID
	}
	return e
}

// disarm returns from Armed to Idle with no side effects.
func (c *Controller) disarm() {
	if c.arm != nil {
		if c.arm.timer != nil {
			c.arm.timer.Stop()
		}
		c.visuals.SetHandleActive(c.arm.block, false)
		c.arm = nil
	}
	c.state = StateIdle
}

// start turns the armed press into a session.
func (c *Controller) start() error {
	a := c.arm

	ed, err := c.workspace.ActiveEditor()
	if err != nil || ed == nil {
		if err == nil {
			err = ErrNoActiveEditor
		} else if !errors.Is(err, ErrNoActiveEditor) {
			err = fmt.Errorf("%w: %w", ErrNoActiveEditor, err)
		}
		c.teardown()
		return wrapErr("start", nil, err)
	}

	b, ok := c.index.At(a.block)
	if !ok || b.EndLine >= len(c.elements) {
		c.teardown()
		return wrapErr("start", nil, ErrStaleElement)
	}
	first, last := c.elements[b.StartLine], c.elements[b.EndLine]
	if !first.Attached() || !last.Attached() {
		c.teardown()
		return wrapErr("start", nil, ErrStaleElement)
	}
	startLine, err := c.view.LineOf(first)
	if err != nil {
		c.teardown()
		return wrapErr("start", nil, fmt.Errorf("%w: %w", ErrUnresolvablePosition, err))
	}
	endLine, err := c.view.LineOf(last)
	if err != nil {
		c.teardown()
		return wrapErr("start", nil, fmt.Errorf("%w: %w", ErrUnresolvablePosition, err))
	}

	src := selection.Extend(block.Block{StartLine: startLine, EndLine: endLine, Type: b.Type}, ed.Selection())

	c.stopHideTimers()
	c.hovering = false
	c.deselect()

	c.session = &Session{
		ID:          uuid.NewString(),
		Block:       a.block,
		SourceStart: src.Start,
		SourceEnd:   src.End,
		OriginY:     a.y,
		Target:      NoTarget,
		Modality:    a.modality,
		editor:      ed,
	}
	c.arm = nil
	c.state = StateDragging

	c.session.marked = c.elementsIn(src)
	c.visuals.MarkDragging(c.session.marked)
	c.visuals.HideHandles()
	c.visible = make(map[int]bool)

	c.log.WithField("session", c.session.ID).Debug("drag started: lines %d-%d (%s)", src.Start, src.End, a.modality)
	c.publish(event.TopicDragStarted, Started{
		SessionID: c.session.ID,
		Start:     src.Start,
		End:       src.End,
		Modality:  a.modality,
	})

	return c.track(a.y)
}

// elementsIn returns the attached elements whose lines fall inside r.
func (c *Controller) elementsIn(r selection.Range) []Element {
	var out []Element
	for _, el := range c.view.Elements() {
		if !el.Attached() {
			continue
		}
		line, err := c.view.LineOf(el)
		if err != nil {
			continue
		}
		if r.Contains(line) {
			out = append(out, el)
		}
	}
	return out
}

// track recomputes the drop target for pointer position y.
func (c *Controller) track(y float64) error {
	s := c.session
	if !s.sourceAttached() {
		return c.abandon("track", s)
	}

	var (
		hit   Element
		after bool
	)
	for _, el := range c.view.Elements() {
		if !el.Attached() {
			continue
		}
		hit, after = el, true
		if y < el.Rect().Mid() {
			after = false
			break
		}
	}

	if hit == nil {
		s.Target = NoTarget
		c.visuals.HideIndicator()
		return nil
	}

	line, err := c.view.LineOf(hit)
	if err != nil {
		err = wrapErr("track", s, fmt.Errorf("%w: %w", ErrUnresolvablePosition, err))
		c.publish(event.TopicDragCancelled, Cancelled{SessionID: s.ID, Reason: err})
		c.teardown()
		return err
	}

	r := hit.Rect()
	ind := Indicator{Y: r.Top, Left: r.Left, Width: r.Width}
	s.Target = line
	if after {
		ind.Y = r.Bottom
		s.Target = line + 1
	}
	c.visuals.ShowIndicator(ind)
	return nil
}

// commit applies the move, if legal, and ends the session.
func (c *Controller) commit() error {
	s := c.session
	log := c.log.WithField("session", s.ID)

	if !s.sourceAttached() {
		return c.abandon("commit", s)
	}
	if s.Target == NoTarget || !linemove.Legal(s.SourceStart, s.SourceEnd, s.Target) {
		log.Debug("drop at %d inside lines %d-%d ignored", s.Target, s.SourceStart, s.SourceEnd)
		c.publish(event.TopicDragCancelled, Cancelled{SessionID: s.ID, Reason: wrapErr("commit", s, ErrIllegalTarget)})
		c.teardown()
		return nil
	}

	err := c.apply(s)
	if err != nil {
		log.Error("move failed: %v", err)
		c.publish(event.TopicDragCancelled, Cancelled{SessionID: s.ID, Reason: err})
	}
	c.teardown()
	return err
}

func (c *Controller) apply(s *Session) error {
	lines := strings.Split(s.editor.ReadAllText(), "\n")

	res, err := linemove.Move(lines, s.SourceStart, s.SourceEnd, s.Target)
	if err != nil {
		// The document no longer has the lines the view showed.
		return wrapErr("commit", s, fmt.Errorf("%w: %w", ErrStaleElement, err))
	}
	if err := s.editor.ReplaceAllText(strings.Join(res.Lines, "\n"), res.Caret); err != nil {
		return wrapErr("commit", s, fmt.Errorf("%w: %w", ErrMutationApply, err))
	}

	c.log.WithField("session", s.ID).Info("moved lines %d-%d to %d", s.SourceStart, s.SourceEnd, s.Target)
	c.publish(event.TopicDragCommitted, Committed{
		SessionID: s.ID,
		Start:     s.SourceStart,
		End:       s.SourceEnd,
		Target:    s.Target,
		Caret:     res.Caret,
	})
	return nil
}

// abandon ends a session whose source elements were detached.
func (c *Controller) abandon(op string, s *Session) error {
	err := wrapErr(op, s, ErrStaleElement)
	c.log.WithField("session", s.ID).Debug("source lines detached, drag abandoned")
	c.publish(event.TopicDragCancelled, Cancelled{SessionID: s.ID, Reason: err})
	c.teardown()
	return err
}

// teardown is the single exit of every interaction: it clears timers and
// visuals, drops the session and re-renders immediately.
func (c *Controller) teardown() {
	c.disarm()
	if c.session != nil {
		c.visuals.SetHandleActive(c.session.Block, false)
		c.session = nil
	}
	c.visuals.ClearDragging()
	c.visuals.HideIndicator()

	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
	c.hovering = false
	c.deselect()
	c.refreshOwed = false
	_ = c.Refresh()
}

// Invalidate schedules a debounced refresh. During a session the refresh is
// owed and performed when the session ends.
func (c *Controller) Invalidate() {
	if c.session != nil {
		c.refreshOwed = true
		return
	}
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = c.sched.AfterFunc(c.opts.RefreshDebounce, func() {
		c.debounce = nil
		if c.session != nil {
			c.refreshOwed = true
			return
		}
		_ = c.Refresh()
	})
}

// Flush performs a pending debounced refresh now. It does nothing when no
// refresh is pending.
func (c *Controller) Flush() error {
	if c.debounce == nil {
		return nil
	}
	c.debounce.Stop()
	c.debounce = nil
	return c.Refresh()
}

// RefreshOwed reports whether an invalidation arrived during the session.
func (c *Controller) RefreshOwed() bool {
	return c.refreshOwed
}

// Refresh re-segments the view's lines and rebuilds the handles now.
func (c *Controller) Refresh() error {
	if c.index.RefreshSuspended() {
		c.refreshOwed = true
		return block.ErrRefreshSuspended
	}

	els := c.view.Elements()
	lines := make([]block.Line, len(els))
	for i, el := range els {
		lines[i] = block.Line{Index: i, Text: el.Text(), Signals: el.Signals()}
	}
	if err := c.index.Refresh(lines); err != nil {
		return err
	}
	c.elements = els

	c.stopHideTimers()
	c.visible = make(map[int]bool)
	c.hovered = NoTarget
	c.hovering = false

	blocks := c.index.Blocks()
	c.visuals.RenderHandles(blocks)
	if c.persistentHandles() {
		for i, b := range blocks {
			if !b.IsEmpty {
				c.visible[i] = true
				c.visuals.ShowHandle(i)
			}
		}
	}

	if c.opts.Touch && c.selected != NoTarget {
		sel := c.selected
		c.selected = NoTarget
		if b, ok := c.index.At(sel); ok && !b.IsEmpty {
			c.selectBlock(sel)
		}
	}
	return nil
}

func (c *Controller) persistentHandles() bool {
	return !c.opts.Touch && !c.opts.ShowHandleOnHover
}

func (c *Controller) publish(topic event.Topic, payload any) {
	if c.pub != nil {
		c.pub.Publish(topic, payload)
	}
}
