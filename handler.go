// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"fmt"

	"github.com/gogama/unixhttpx/request"
)

// A HandlerGroup holds one chain of event handlers per Event. Install
// it in a Client through Options.Handlers.
//
// A HandlerGroup must not be modified while a Client using it is
// running exchanges.
type HandlerGroup struct {
	chains [numEvents][]Handler
}

// PushBack appends h to the chain of handlers for evt. Handlers in a
// chain run in the order they were added.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("unixhttpx: nil handler")
	}
	if evt < 0 || int(evt) >= numEvents {
		panic(fmt.Sprintf("unixhttpx: unknown event %d", int(evt)))
	}

	g.chains[evt] = append(g.chains[evt], h)
}

// Len returns the number of handlers in the chain for evt.
func (g *HandlerGroup) Len(evt Event) int {
	if evt < 0 || int(evt) >= numEvents {
		return 0
	}
	return len(g.chains[evt])
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	for _, h := range g.chains[evt] {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during an exchange.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with the appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
