package drag

// hover tracks which block the pointer is over and keeps its handle
// visible. A handle that loses the pointer lingers for HoverHideDelay so the
// pointer can travel from the text to the handle.
func (c *Controller) hover(ev Event) {
	if c.opts.Touch || !c.opts.ShowHandleOnHover {
		return
	}

	b := NoTarget
	switch {
	case ev.Handle != NoTarget:
		b = ev.Handle
	case ev.Line != NoTarget:
		b = c.index.IndexOf(ev.Line)
	}
	if b == c.hovered {
		return
	}

	if c.hovered != NoTarget {
		c.scheduleHide(c.hovered)
	}
	c.hovered = b
	if b != NoTarget {
		c.showHandle(b)
	}
}

// Hovering reports whether any hover-revealed handle is visible.
func (c *Controller) Hovering() bool {
	return c.hovering
}

// HandleVisible reports whether the controller currently shows block i's
// handle.
func (c *Controller) HandleVisible(i int) bool {
	return c.visible[i]
}

func (c *Controller) showHandle(i int) {
	b, ok := c.index.At(i)
	if !ok || b.IsEmpty {
		return
	}
	if t, ok := c.hideTimers[i]; ok {
		t.Stop()
		delete(c.hideTimers, i)
	}
	c.hovering = true
	c.visible[i] = true
	c.visuals.ShowHandle(i)
}

func (c *Controller) scheduleHide(i int) {
	if !c.visible[i] {
		return
	}
	if t, ok := c.hideTimers[i]; ok {
		t.Stop()
	}
	c.hideTimers[i] = c.sched.AfterFunc(c.opts.HoverHideDelay, func() {
		delete(c.hideTimers, i)
		if c.session != nil || c.hovered == i {
			return
		}
		delete(c.visible, i)
		c.visuals.HideHandle(i)
		if len(c.visible) == 0 {
			c.hovering = false
		}
	})
}

func (c *Controller) stopHideTimers() {
	for i, t := range c.hideTimers {
		t.Stop()
		delete(c.hideTimers, i)
	}
}

// tap toggles the touch selection of the block containing line. Tapping an
// empty line or outside any block clears it.
func (c *Controller) tap(line int) {
	if c.session != nil {
		return
	}
	i := NoTarget
	if line != NoTarget {
		i = c.index.IndexOf(line)
	}
	b, ok := c.index.At(i)
	if !ok || b.IsEmpty || i == c.selected {
		c.deselect()
		return
	}
	c.selectBlock(i)
}

func (c *Controller) selectBlock(i int) {
	c.deselect()
	b, ok := c.index.At(i)
	if !ok {
		return
	}
	c.selected = i
	c.visible[i] = true
	c.visuals.SetSelected(b, true)
	c.visuals.ShowHandle(i)
}

func (c *Controller) deselect() {
	if c.selected == NoTarget {
		return
	}
	i := c.selected
	c.selected = NoTarget
	if b, ok := c.index.At(i); ok {
		c.visuals.SetSelected(b, false)
	}
	if c.opts.Touch {
		delete(c.visible, i)
		c.visuals.HideHandle(i)
	}
}
