// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/unixhttpx/transient"
)

// An Execution is the state of one request/response exchange over a
// Unix socket connection.
type Execution struct {
	// Plan specifies the request being exchanged. It is never nil.
	Plan *Plan

	// Start is the time the exchange started. It is set once, before
	// the request is built.
	Start time.Time

	// End is the time the exchange ended. It contains the zero value
	// until the exchange ends.
	End time.Time

	// Request is the HTTP request built from the plan. It is nil if the
	// plan could not be turned into a valid request.
	Request *http.Request

	// Response is the HTTP response received. Its Body has already been
	// consumed by the time the exchange ends; use the Body field of the
	// execution instead.
	Response *http.Response

	// Err is the error that ended the exchange, or nil. Once the
	// exchange has ended, Err has the same value as the error returned
	// by the client's executing method.
	Err error

	// Body is the complete response body. It will be nil if the
	// exchange ended in an error before the body was read.
	//
	// For a response with a non-2XX status, both Body and Err are set:
	// the body is collected in full and carried by the error too.
	Body []byte

	data context.Context
}

// StatusCode returns the status code from the HTTP response, or zero
// if there is no response.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}

	return e.Response.StatusCode
}

// Header returns the HTTP response header, or nil if there is no
// response.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}

	return e.Response.Header
}

// Duration returns the duration of the exchange so far if it is still
// underway, its total duration if it has ended, and zero if it has not
// started.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started reports whether the exchange has started.
func (e *Execution) Started() bool {
	return !e.Start.IsZero()
}

// Ended reports whether the exchange has ended.
func (e *Execution) Ended() bool {
	return !e.End.IsZero()
}

// Timeout reports whether the exchange error is a timeout.
func (e *Execution) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// SetValue attaches arbitrary user data to the execution. It is meant
// for event handlers which need to pass state from one event to the
// next.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}

	e.data = context.WithValue(ctx, key, value)
}

// Value returns the user data stored under key, or nil.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}

	return ctx.Value(key)
}
