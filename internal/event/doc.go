// Package event provides the synchronous event bus that carries layout
// invalidations, document changes, configuration reloads and drag outcomes
// between the terminal host and the drag core.
//
// # Topics
//
// Topics are dotted paths such as "drag.committed". Subscriptions take a
// pattern in which "*" matches exactly one segment and "**" matches zero or
// more segments:
//
//	bus := event.NewBus()
//	sub := bus.Subscribe("drag.*", func(e event.Event) {
//	    log.Info("drag outcome %s", e.Topic)
//	})
//	defer sub.Unsubscribe()
//
// # Delivery
//
// Publish delivers on the caller's goroutine, in subscription order. The
// blockdnd host runs a single event loop, so handlers observe events in the
// same order the loop produced them. A panicking handler is recovered and
// reported through the bus panic hook; remaining handlers still run.
package event
