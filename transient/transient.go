// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// A Category is the transience category of a particular error, as
// reported by function Categorize.
//
// The category Not means the error says nothing about the state of the
// socket or the server behind it, so reconnecting is unlikely to help.
//
// All other categories describe a condition of the socket or of the
// connection running over it, after which a fresh connection has some
// prospect of success.
type Category int

const (
	// Not indicates any error which is not transient.
	Not Category = iota
	// Timeout indicates a client-side timeout.
	//
	// Function Categorize returns Timeout if the error or any of its
	// wrapped causes has a Timeout() function that reports true.
	Timeout
	// ConnRefused indicates nothing is accepting connections on the
	// socket file, and corresponds to the POSIX error code
	// ECONNREFUSED. On a Unix socket this typically means the server
	// process exited without removing its socket file.
	ConnRefused
	// NoSocket indicates the socket file does not exist, and
	// corresponds to the POSIX error code ENOENT. The server has either
	// not started yet or has shut down cleanly.
	NoSocket
	// ConnReset indicates the peer reset a previously established
	// connection, and corresponds to the POSIX error code ECONNRESET.
	ConnReset
	// Closed indicates a previously established connection was closed
	// underneath the operation: end of stream where more data was
	// expected, a write to a peer which has gone away (EPIPE), or use
	// of a socket which was closed locally.
	Closed
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"NoSocket",
	"ConnReset",
	"Closed",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Unknown"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of the given error. A nil
// error, and an error that is not transient, both produce Not.
//
// In assessing transience, Categorize looks at wrapped cause errors
// contained within err, not just err itself. A timeout takes precedence
// over every other category.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED:
			return ConnRefused
		case syscall.ENOENT:
			return NoSocket
		case syscall.ECONNRESET:
			return ConnReset
		case syscall.EPIPE:
			return Closed
		}
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
		return Closed
	}

	return Not
}

// ConnectionLost reports whether err means an established connection
// is gone, i.e. its category is ConnReset or Closed.
func ConnectionLost(err error) bool {
	c := Categorize(err)
	return c == ConnReset || c == Closed
}

type hasTimeout interface {
	Timeout() bool
}
