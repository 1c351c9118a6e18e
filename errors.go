// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gogama/unixhttpx/conn"
	"github.com/gogama/unixhttpx/transient"
)

// A Kind identifies the step of the client lifecycle at which an Error
// occurred.
type Kind int

const (
	// SocketConnectionInitiation means the Unix socket could not be
	// dialed. The cause is the error returned by the Dialer.
	SocketConnectionInitiation Kind = iota
	// Handshake means the socket was dialed but could not be prepared
	// for HTTP/1.1.
	Handshake
	// RequestBuild means the request could not be built: an invalid
	// method, endpoint, or header field.
	RequestBuild
	// RequestSend means the request could not be sent, or no response
	// head was received for it.
	RequestSend
	// ResponseCollect means the response head was received but its
	// body could not be read in full.
	ResponseCollect
	// SocketConnectionClosed is the terminal outcome of a connection
	// which ended on its own. A nil cause means the connection was
	// closed gracefully.
	SocketConnectionClosed
)

var kindNames = []string{
	"SocketConnectionInitiation",
	"Handshake",
	"RequestBuild",
	"RequestSend",
	"ResponseCollect",
	"SocketConnectionClosed",
}

var kindMessages = []string{
	"failed to connect to socket",
	"handshake failed",
	"failed to build request",
	"failed to send request",
	"failed to collect response body",
	"socket connection closed",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// An Error is a failure of the client itself, as opposed to an
// unsuccessful response from the server (see ResponseError).
//
// Use errors.As to obtain an Error, and errors.Is or errors.As on it
// to inspect the underlying cause.
type Error struct {
	// Kind is the step at which the error occurred.
	Kind Kind
	// Err is the underlying cause. It is nil only for a
	// SocketConnectionClosed error describing a graceful close.
	Err error
}

func (e *Error) Error() string {
	msg := "unixhttpx: " + e.message()
	if e.Err == nil {
		return msg
	}
	return msg + ": " + e.Err.Error()
}

func (e *Error) message() string {
	if e.Kind < 0 || int(e.Kind) >= len(kindMessages) {
		return e.Kind.String()
	}
	return kindMessages[e.Kind]
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Canceled reports whether the request could not be completed because
// the connection was gone: it had already ended, or it was lost before
// the response head arrived. The Client which produced such an error
// will never send successfully again and should be reconnected.
func (e *Error) Canceled() bool {
	return errors.Is(e.Err, conn.ErrCanceled)
}

// Timeout reports whether the cause is a timeout.
func (e *Error) Timeout() bool {
	return transient.Categorize(e.Err) == transient.Timeout
}

// A ResponseError is returned when the server answered with a status
// code outside the 2XX range. The response body was read in full.
type ResponseError struct {
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unixhttpx: unsuccessful response: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotRunning reports whether err means nothing is serving the
// socket: the socket file does not exist, or nothing accepts
// connections on it.
func IsNotRunning(err error) bool {
	var e *Error
	if !errors.As(err, &e) || e.Kind != SocketConnectionInitiation {
		return false
	}
	c := transient.Categorize(e.Err)
	return c == transient.NoSocket || c == transient.ConnRefused
}

// IsCanceled reports whether err is an *Error whose Canceled method
// reports true, meaning the connection is gone and the client must be
// reconnected.
func IsCanceled(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Canceled()
}
