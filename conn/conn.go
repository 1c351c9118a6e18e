// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gogama/unixhttpx/transient"
	"go.uber.org/zap"
)

var (
	// ErrCanceled is wrapped by every Send error meaning the request
	// could not be completed because the connection went away: the
	// connection was no longer being served, or it was lost before the
	// response head arrived. A connection in this state never recovers.
	ErrCanceled = errors.New("unixhttpx/conn: connection closed before response")

	// ErrUnsolicitedResponse is returned by Serve when the peer sends
	// bytes while no request is outstanding.
	ErrUnsolicitedResponse = errors.New("unixhttpx/conn: unsolicited response on idle connection")

	errServed = errors.New("unixhttpx/conn: connection already served")
)

// aLongTimeAgo is a non-zero time in the past, used to make pending
// socket I/O fail immediately.
var aLongTimeAgo = time.Unix(1, 0)

// Options tunes a connection. The zero value is ready to use.
type Options struct {
	// ReadBufferSize is the size of the read buffer. Zero means the
	// bufio default.
	ReadBufferSize int
	// WriteBufferSize is the size of the write buffer. Zero means the
	// bufio default.
	WriteBufferSize int
	// Logger receives debug messages about the connection. Nil means
	// no logging.
	Logger *zap.Logger
}

// SendRequest is the handle used to send requests over a Connection.
type SendRequest struct {
	c *Connection
}

// Connection owns the stream of one HTTP/1.1 connection and drives the
// protocol for its SendRequest handle.
type Connection struct {
	conn   net.Conn
	br     *bufio.Reader
	bw     *bufio.Writer
	logger *zap.Logger
	reqs   chan *exchange
	done   chan struct{}
	served atomic.Bool
}

type exchange struct {
	req    *http.Request
	result chan result
}

type result struct {
	resp *http.Response
	err  error
}

// Handshake prepares c for HTTP/1.1 and returns the handle used to send
// requests along with the connection which must be served to make them
// progress. No bytes are exchanged with the peer.
//
// Handshake fails if c is nil or no longer usable. On failure c is left
// open and remains owned by the caller.
func Handshake(c net.Conn, opts *Options) (*SendRequest, *Connection, error) {
	if c == nil {
		return nil, nil, errors.New("unixhttpx/conn: handshake: nil connection")
	}
	if err := c.SetDeadline(time.Time{}); err != nil {
		return nil, nil, fmt.Errorf("unixhttpx/conn: handshake: %w", err)
	}

	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	conn := &Connection{
		conn:   c,
		br:     bufio.NewReaderSize(c, bufferSize(opts.ReadBufferSize)),
		bw:     bufio.NewWriterSize(c, bufferSize(opts.WriteBufferSize)),
		logger: logger,
		reqs:   make(chan *exchange),
		done:   make(chan struct{}),
	}
	return &SendRequest{c: conn}, conn, nil
}

func bufferSize(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}

// Send sends req and waits for the response head. The caller must read
// the response body to the end or close it; the connection accepts no
// further request until then.
//
// The request context bounds the whole exchange including the body. If
// it is done while the exchange is in flight the connection is no
// longer usable, and it is shut down.
//
// If the connection is not being served, or stops being served before
// the response head arrives, the returned error wraps ErrCanceled.
func (s *SendRequest) Send(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ex := &exchange{
		req:    req,
		result: make(chan result, 1),
	}

	select {
	case s.c.reqs <- ex:
	case <-s.c.done:
		return nil, ErrCanceled
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	r := <-ex.result
	return r.resp, r.err
}

// IsClosed reports whether the connection has stopped being served.
// Once IsClosed returns true the handle is permanently unusable.
func (s *SendRequest) IsClosed() bool {
	select {
	case <-s.c.done:
		return true
	default:
		return false
	}
}

// Done returns a channel which is closed once the connection has
// stopped being served and its stream has been closed.
func (s *SendRequest) Done() <-chan struct{} {
	return s.c.done
}

// Serve drives the connection until the peer closes it, a transport or
// protocol error occurs, or ctx is done. The stream is always closed
// when Serve returns.
//
// Serve returns nil if the connection ended gracefully: the peer closed
// it while idle, or an exchange asked for it to be closed. It returns
// an error wrapping ctx.Err() if it stopped because ctx was done.
//
// Serve may only be called once.
func (c *Connection) Serve(ctx context.Context) error {
	if !c.served.CompareAndSwap(false, true) {
		return errServed
	}
	defer close(c.done)
	defer c.conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.Close()
	})
	defer stop()

	readable := make(chan error)
	resume := make(chan struct{})
	go c.watch(readable, resume)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("unixhttpx/conn: serve: %w", ctx.Err())
		case err := <-readable:
			if ctx.Err() != nil {
				return fmt.Errorf("unixhttpx/conn: serve: %w", ctx.Err())
			}
			if err == nil {
				return ErrUnsolicitedResponse
			}
			if errors.Is(err, io.EOF) {
				c.logger.Debug("peer closed idle connection")
				return nil
			}
			return err
		case ex := <-c.reqs:
			keepAlive, err := c.roundTrip(ctx, ex, readable)
			if err != nil {
				return err
			}
			if !keepAlive {
				c.logger.Debug("closing connection after exchange")
				return nil
			}
			select {
			case resume <- struct{}{}:
			case <-ctx.Done():
				return fmt.Errorf("unixhttpx/conn: serve: %w", ctx.Err())
			}
		}
	}
}

// watch waits for the stream to become readable and reports it on
// readable. After a successful report it does not touch the stream
// again until told to resume, so the reader is free for the exchange
// in progress.
func (c *Connection) watch(readable chan<- error, resume <-chan struct{}) {
	for {
		_, err := c.br.Peek(1)
		select {
		case readable <- err:
		case <-c.done:
			return
		}
		if err != nil {
			return
		}
		select {
		case <-resume:
		case <-c.done:
			return
		}
	}
}

// roundTrip performs one exchange. It always delivers a result to the
// exchange, and reports whether the connection may be reused.
func (c *Connection) roundTrip(ctx context.Context, ex *exchange, readable <-chan error) (bool, error) {
	req := ex.req
	reqCtx := req.Context()
	stop := context.AfterFunc(reqCtx, c.interrupt)

	fail := func(err error) (bool, error) {
		stop()
		sendErr, connErr := c.failure(ctx, reqCtx, err)
		ex.result <- result{err: sendErr}
		return false, connErr
	}

	err := req.Write(c.bw)
	if err == nil {
		err = c.bw.Flush()
	}
	if err != nil {
		return fail(err)
	}

	select {
	case err = <-readable:
	case <-ctx.Done():
		return fail(ctx.Err())
	}
	if err != nil {
		return fail(err)
	}

	resp, err := c.readResponse(req)
	if err != nil {
		return fail(err)
	}

	bodyDone := make(chan bodyResult, 1)
	resp.Body = &bodyEOFSignal{body: resp.Body, stop: stop, done: bodyDone}
	ex.result <- result{resp: resp}

	var out bodyResult
	select {
	case out = <-bodyDone:
	case <-ctx.Done():
		stop()
		return false, fmt.Errorf("unixhttpx/conn: serve: %w", ctx.Err())
	}
	if ctx.Err() != nil {
		return false, fmt.Errorf("unixhttpx/conn: serve: %w", ctx.Err())
	}
	if out.interrupted {
		return false, fmt.Errorf("unixhttpx/conn: request abandoned: %w", context.Cause(reqCtx))
	}
	if out.err != nil {
		return false, out.err
	}

	return !resp.Close && !req.Close && resp.StatusCode != http.StatusSwitchingProtocols, nil
}

// readResponse reads the next final response for req, skipping any
// interim 1XX responses.
func (c *Connection) readResponse(req *http.Request) (*http.Response, error) {
	for {
		resp, err := http.ReadResponse(c.br, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 100 && resp.StatusCode < 200 && resp.StatusCode != http.StatusSwitchingProtocols {
			c.logger.Debug("skipping interim response", zap.Int("status", resp.StatusCode))
			continue
		}
		return resp, nil
	}
}

// failure splits an exchange error into the error for the sender and
// the error that ends the connection.
func (c *Connection) failure(ctx, reqCtx context.Context, err error) (sendErr, connErr error) {
	switch {
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err()), fmt.Errorf("unixhttpx/conn: serve: %w", ctx.Err())
	case reqCtx.Err() != nil:
		abandoned := fmt.Errorf("unixhttpx/conn: request abandoned: %w", context.Cause(reqCtx))
		return abandoned, abandoned
	case errors.Is(err, io.EOF):
		return fmt.Errorf("%w: %w", ErrCanceled, io.ErrUnexpectedEOF), io.ErrUnexpectedEOF
	case transient.ConnectionLost(err):
		return fmt.Errorf("%w: %w", ErrCanceled, err), err
	default:
		return err, err
	}
}

func (c *Connection) interrupt() {
	_ = c.conn.SetDeadline(aLongTimeAgo)
}
