// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client's Options to extend it
// with custom functionality.
type Event int

const (
	// BeforeSend identifies the event that occurs after the request
	// has been built from the plan, but before it is sent.
	//
	// When Client fires BeforeSend, the execution's request field is
	// set to the HTTP request that WILL BE sent after all BeforeSend
	// handlers have finished. Handlers may modify the request, for
	// example to add header fields, but should keep its context.
	BeforeSend Event = iota
	// BeforeReadBody identifies the event that occurs after the request
	// has resulted in an HTTP response (as opposed to an error) but
	// before the response body is read and buffered.
	//
	// When Client fires BeforeReadBody, the execution's response field
	// is set to the HTTP response whose body WILL BE read after all
	// BeforeReadBody handlers have finished.
	//
	// BeforeReadBody fires for every response, regardless of status
	// code.
	BeforeReadBody
	// AfterTimeout identifies the event that occurs after an exchange
	// failed because of a timeout, either from the timeout policy or
	// from the plan's context deadline.
	//
	// When Client fires AfterTimeout, the execution's error field is
	// set to the timeout error. The connection the exchange ran on has
	// been shut down.
	AfterTimeout
	// AfterSend identifies the event that occurs after the exchange is
	// concluded, regardless of whether it concluded successfully or
	// not.
	//
	// When Client fires AfterSend, the execution's end time is set, and
	// it is in the same state that will be returned to the caller.
	AfterSend
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeSend",
	"BeforeReadBody",
	"AfterTimeout",
	"AfterSend",
}

// Events returns a slice containing all events which can occur in an
// exchange run by Client, in the order in which they would occur.
func Events() []Event {
	return []Event{
		BeforeSend,
		BeforeReadBody,
		AfterTimeout,
		AfterSend,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
