// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package viewer

import "golang.org/x/net/html"

// Event names a user interaction.
type Event string

const (
	Click  Event = "click"
	Change Event = "change"
)

// Handler reacts to an event on target.
type Handler func(target *html.Node)

// Dispatcher maps nodes to the handlers registered on them. Handlers close
// over the nodes they affect, so no global listener state is needed.
type Dispatcher struct {
	handlers map[*html.Node]map[Event][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[*html.Node]map[Event][]Handler{}}
}

// On registers h for ev on n.
func (d *Dispatcher) On(n *html.Node, ev Event, h Handler) {
	byEvent, ok := d.handlers[n]
	if !ok {
		byEvent = map[Event][]Handler{}
		d.handlers[n] = byEvent
	}
	byEvent[ev] = append(byEvent[ev], h)
}

// Fire runs the handlers for ev on n in registration order and reports
// whether any ran.
func (d *Dispatcher) Fire(n *html.Node, ev Event) bool {
	hs := d.handlers[n][ev]
	for _, h := range hs {
		h(n)
	}
	return len(hs) > 0
}
