// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"fmt"
	"testing"
	"time"

	"github.com/gogama/unixhttpx/request"
	"github.com/stretchr/testify/assert"
)

func TestHandlerGroup(t *testing.T) {
	var evts []string
	var execs []*request.Execution
	h1 := &testHandler{seq: 1, evts: &evts, execs: &execs}
	h2 := &testHandler{seq: 2, evts: &evts, execs: &execs}
	g := &HandlerGroup{}
	t.Run("PushBack", func(t *testing.T) {
		assert.Panics(t, func() { g.PushBack(BeforeSend, nil) })
		assert.Panics(t, func() { g.PushBack(Event(123), h1) })
		assert.Panics(t, func() { g.PushBack(Event(-1), h1) })
		g.PushBack(BeforeSend, h1)
		g.PushBack(BeforeSend, h2)
		g.PushBack(AfterSend, h1)
		assert.Equal(t, 2, g.Len(BeforeSend))
		assert.Equal(t, 0, g.Len(BeforeReadBody))
		assert.Equal(t, 1, g.Len(AfterSend))
		assert.Equal(t, 0, g.Len(Event(123)))
	})
	t.Run("run", func(t *testing.T) {
		e1 := &request.Execution{Start: time.Unix(1, 0)}
		e2 := &request.Execution{Start: time.Unix(2, 0)}
		assert.Empty(t, evts)
		assert.Empty(t, execs)
		g.run(AfterTimeout, e1)
		assert.Empty(t, evts)
		assert.Empty(t, execs)
		g.run(BeforeSend, e1)
		assert.Equal(t, []string{"1.BeforeSend", "2.BeforeSend"}, evts)
		assert.Equal(t, []*request.Execution{e1, e1}, execs)
		evts = evts[:0]
		execs = execs[:0]
		g.run(AfterSend, e2)
		assert.Equal(t, []string{"1.AfterSend"}, evts)
		assert.Equal(t, []*request.Execution{e2}, execs)
	})
	t.Run("zero value", func(t *testing.T) {
		var empty HandlerGroup
		assert.NotPanics(t, func() { empty.run(BeforeReadBody, &request.Execution{}) })
	})
}

type testHandler struct {
	seq   int
	evts  *[]string
	execs *[]*request.Execution
}

func (h *testHandler) Handle(evt Event, e *request.Execution) {
	*h.evts = append(*h.evts, fmt.Sprintf("%d.%s", h.seq, evt))
	*h.execs = append(*h.execs, e)
}

func TestHandlerFunc(t *testing.T) {
	var _evt Event
	var _e *request.Execution
	var f = func(evt Event, e *request.Execution) {
		_evt = evt
		_e = e
	}
	h := HandlerFunc(f)
	e := &request.Execution{}
	h.Handle(BeforeReadBody, e)

	assert.Equal(t, BeforeReadBody, _evt)
	assert.Same(t, e, _e)
}
