// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/gogama/unixhttpx/conn"
	"github.com/gogama/unixhttpx/request"
	"go.uber.org/zap"
)

// A Client sends HTTP/1.1 requests over one persistent Unix socket
// connection. Create one with Connect.
//
// The connection is served by a background goroutine for as long as
// it lives. When the connection ends, because the server closed it, a
// transport error occurred, or an exchange timed out, every further
// request fails with a RequestSend error whose Canceled method reports
// true. A Client never reconnects by itself: call Reconnect to get a
// fresh Client for the same socket.
//
// A Client is safe for concurrent use by multiple goroutines. Requests
// are never multiplexed: concurrent requests are sent one after
// another, each waiting until the previous response body has been
// read.
//
// On top of the raw connection, Client adds the following features:
//
// • Client reads and buffers the entire HTTP response body into a
// []byte (returned as the Execution.Body field);
//
// • Client treats a response with a non-2XX status as an error
// (ResponseError) carrying the buffered body;
//
// • Client bounds each exchange using a customizable timeout policy;
//
// • Client invokes user-provided handler functions at designated plug-in
// points within each exchange; and
//
// • Client implements the unixhttpx.Executor interface.
type Client struct {
	path   string
	opts   Options
	logger *zap.Logger
	sender *conn.SendRequest
	driver *driver
}

// Connect dials the Unix socket at path and returns a Client whose
// connection is being served. The context bounds the dial only; it has
// no effect on the connection once Connect returns.
//
// If the socket cannot be dialed, the error is an *Error of kind
// SocketConnectionInitiation; use IsNotRunning to tell whether the
// server is simply not running. If the connection cannot be prepared
// for HTTP, the error is an *Error of kind Handshake.
//
// A nil opts is equivalent to a pointer to the zero Options.
func Connect(ctx context.Context, path string, opts *Options) (*Client, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	logger := o.logger().With(zap.String("socket", path))
	logger.Debug("connecting", zap.Stringer("options", &o))

	c, err := dial(ctx, o.dialer(), path)
	if err != nil {
		o.Metrics.dial(err)
		logger.Debug("dial failed", zap.Error(err))
		return nil, err
	}

	sender, connection, err := conn.Handshake(c, &conn.Options{
		ReadBufferSize:  o.ReadBufferSize,
		WriteBufferSize: o.WriteBufferSize,
		Logger:          logger,
	})
	if err != nil {
		_ = c.Close()
		err = &Error{Kind: Handshake, Err: err}
		o.Metrics.dial(err)
		logger.Debug("handshake failed", zap.Error(err))
		return nil, err
	}
	o.Metrics.dial(nil)

	client := &Client{
		path:   path,
		opts:   o,
		logger: logger,
		sender: sender,
		driver: spawnDriver(connection, logger, o.Metrics),
	}
	logger.Info("connected")
	return client, nil
}

// Path returns the socket path the client was connected to.
func (c *Client) Path() string {
	return c.path
}

// Done returns a channel which is closed once the client's connection
// has ended, whether on its own or because of Abort. A client whose
// Done channel is closed can no longer send requests.
func (c *Client) Done() <-chan struct{} {
	return c.driver.done
}

// SendRequest sends a request to endpoint and returns the status code
// and the complete body of a 2XX response.
//
// The endpoint is appended verbatim to "http://unix.socket" to form the
// request URL, so it must be empty or begin with a slash. An empty
// method means GET. Header fields are added in order and duplicates are
// kept. A nil body is sent as an explicitly empty body.
//
// A response with a status code outside the 2XX range results in a
// *ResponseError carrying the status code and body. Any other failure
// results in an *Error whose Kind names the step that failed.
//
// The context bounds the whole exchange. If it is done before the
// exchange completes, the connection is shut down.
func (c *Client) SendRequest(ctx context.Context, endpoint, method string, headers []request.Field, body []byte) (int, []byte, error) {
	p, err := request.NewPlanWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, &Error{Kind: RequestBuild, Err: err}
	}
	p.Header = headers

	e, err := c.Do(p)
	if err != nil {
		return 0, nil, err
	}
	return e.StatusCode(), e.Body, nil
}

// Do runs the exchange described by the plan p, which must not be nil,
// and returns its final state.
//
// The returned Execution is never nil. If the returned error is nil,
// the Execution contains both a non-nil Response and a non-nil Body
// (although Body may have zero length). If the response status code is
// outside the 2XX range, the error is a *ResponseError and the
// Execution still contains the Response and Body. Otherwise, an error
// is an *Error and the Execution's Err field references the same
// error.
//
// For simple use cases, SendRequest or the Get, Head, Post, PostForm,
// and Delete methods may prove easier to use than Do.
func (c *Client) Do(p *request.Plan) (*request.Execution, error) {
	e := &request.Execution{
		Plan: p,
	}
	handlers := c.opts.handlers()

	e.Start = time.Now()
	c.exchange(e, handlers)
	if e.Timeout() {
		handlers.run(AfterTimeout, e)
	}
	e.End = time.Now()
	handlers.run(AfterSend, e)

	c.opts.Metrics.exchange(e)
	if e.Err != nil {
		c.logger.Debug("exchange failed",
			zap.String("method", p.Method),
			zap.String("endpoint", p.Endpoint),
			zap.Duration("duration", e.Duration()),
			zap.Error(e.Err))
	}
	return e, e.Err
}

func (c *Client) exchange(e *request.Execution, handlers *HandlerGroup) {
	p := e.Plan
	ctx := p.Context()
	if d := c.opts.timeoutPolicy().Timeout(e); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	req, err := p.ToRequest(ctx)
	if err != nil {
		e.Err = &Error{Kind: RequestBuild, Err: err}
		return
	}
	e.Request = req
	handlers.run(BeforeSend, e)

	e.Response, err = c.sender.Send(e.Request)
	if err != nil {
		e.Err = &Error{Kind: RequestSend, Err: err}
		return
	}
	readBody(e, handlers)
}

func readBody(e *request.Execution, handlers *HandlerGroup) {
	resp := e.Response
	defer func() {
		_ = resp.Body.Close()
	}()
	handlers.run(BeforeReadBody, e)
	b, err := io.ReadAll(e.Response.Body)
	if err != nil {
		e.Err = &Error{Kind: ResponseCollect, Err: err}
		return
	}
	e.Body = b
	if e.Response.StatusCode < 200 || e.Response.StatusCode > 299 {
		e.Err = &ResponseError{StatusCode: e.Response.StatusCode, Body: b}
	}
}

// Abort shuts the client's connection down and waits for it to end.
//
// If the connection had already ended on its own, Abort returns the
// *Error of kind SocketConnectionClosed describing how it ended. Its
// Err field is nil if the connection was closed gracefully. If the
// connection was still live, Abort returns nil.
//
// Abort may be called more than once and always returns the same
// result. After Abort, every request fails with a RequestSend error
// whose Canceled method reports true.
func (c *Client) Abort() error {
	c.driver.abort()
	out := c.driver.join()
	c.logger.Debug("aborted", zap.Bool("canceled", out.canceled))
	if out.err == nil {
		return nil
	}
	return out.err
}

// Reconnect aborts the client, discarding how its connection ended,
// and connects a new Client to the same socket path with the same
// options. The context bounds the dial only.
//
// The receiver is unusable after Reconnect, whether or not it
// succeeds.
func (c *Client) Reconnect(ctx context.Context) (*Client, error) {
	c.logger.Info("reconnecting")
	_ = c.Abort()
	return Connect(ctx, c.path, &c.opts)
}

// Get issues a GET to the specified endpoint, using the same policies
// followed by Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Get(endpoint string) (*request.Execution, error) {
	return Get(c, endpoint)
}

// Head issues a HEAD to the specified endpoint, using the same
// policies followed by Do.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Head(endpoint string) (*request.Execution, error) {
	return Head(c, endpoint)
}

// Post issues a POST to the specified endpoint, using the same
// policies followed by Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan, request.BodyBytes, and
// unixhttpx.Post, namely: string; []byte; io.Reader; and io.ReadCloser.
//
// To make a request plan with custom headers, use request.NewPlan and
// Client.Do.
func (c *Client) Post(endpoint, contentType string, body interface{}) (*request.Execution, error) {
	return Post(c, endpoint, contentType, body)
}

// PostForm issues a POST to the specified endpoint, with data's keys
// and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewPlan and Client.Do.
func (c *Client) PostForm(endpoint string, data url.Values) (*request.Execution, error) {
	return PostForm(c, endpoint, data)
}

// Delete issues a DELETE to the specified endpoint, using the same
// policies followed by Do.
func (c *Client) Delete(endpoint string) (*request.Execution, error) {
	return Delete(c, endpoint)
}
