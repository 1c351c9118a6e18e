// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// Authority is the placeholder host every request is addressed to. The
// transport is a Unix socket, so there is no real host or port; servers
// should not give the Host header any meaning beyond this value.
const Authority = "unix.socket"

const (
	nilCtxMsg = "unixhttpx/request: nil context"
)

// A Field is one header field line, a name and a value.
type Field struct {
	Name  string
	Value string
}

// A Plan describes one HTTP request to send over a Unix socket
// connection.
//
// Unlike http.Request, a Plan has an endpoint (path plus optional
// query) instead of a URL, an ordered header list instead of a map, and
// a pre-buffered body. A nil or empty Body is sent as an explicitly
// empty body.
//
// Like http.Request, a Plan has a context which bounds the exchange and
// can be used to cancel it at any time.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.). An empty
	// string means GET.
	Method string

	// Endpoint is the request target. It is used verbatim and must
	// either be empty or begin with a slash.
	Endpoint string

	// Header contains the request header fields in the order they are
	// applied to the outgoing request. Duplicate names are allowed.
	Header []Field

	// Body is the request body. Nil means an empty body.
	Body []byte

	// Close indicates whether to close the connection after the
	// response to this request has been read. Setting it ends the
	// connection gracefully once the exchange completes.
	Close bool

	ctx context.Context
}

// NewPlan wraps NewPlanWithContext using the background context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewPlan(method, endpoint string, body interface{}) (*Plan, error) {
	return NewPlanWithContext(context.Background(), method, endpoint, body)
}

// NewPlanWithContext returns a new Plan given a method, endpoint, and
// optional body.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser.
func NewPlanWithContext(ctx context.Context, method, endpoint string, body interface{}) (*Plan, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("unixhttpx/request: invalid method %q", method)
	}
	if err := validEndpoint(endpoint); err != nil {
		return nil, err
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Plan{
		ctx:      ctx,
		Method:   method,
		Endpoint: endpoint,
		Body:     b,
	}, nil
}

// Context returns the plan's context. The returned context is always
// non-nil; it defaults to the background context.
func (p *Plan) Context() context.Context {
	if p.ctx != nil {
		return p.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of p with its context changed to
// ctx, which must be non-nil.
func (p *Plan) WithContext(ctx context.Context) *Plan {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	p2 := new(Plan)
	*p2 = *p
	p2.ctx = ctx
	return p2
}

// AddHeader appends a header field to the end of the plan's header
// list.
func (p *Plan) AddHeader(name, value string) {
	p.Header = append(p.Header, Field{Name: name, Value: value})
}

// SetBasicAuth appends an Authorization header field using HTTP Basic
// Authentication with the provided username and password.
func (p *Plan) SetBasicAuth(username, password string) {
	p.AddHeader("Authorization", "Basic "+basicAuth(username, password))
}

// URL returns the absolute URL the plan is addressed to.
func (p *Plan) URL() string {
	return "http://" + Authority + p.Endpoint
}

// ToRequest builds the HTTP request corresponding to the plan. The
// context of the new request is set to ctx, which may not be nil.
//
// An error is returned if the plan cannot be expressed as a valid
// HTTP/1.1 request: an invalid method or endpoint, or a header field
// whose name or value contains bytes not permitted on the wire.
func (p *Plan) ToRequest(ctx context.Context) (*http.Request, error) {
	method := p.Method
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("unixhttpx/request: invalid method %q", method)
	}
	if err := validEndpoint(p.Endpoint); err != nil {
		return nil, err
	}
	var body *bytes.Reader
	if len(p.Body) > 0 {
		body = bytes.NewReader(p.Body)
	}
	var r *http.Request
	var err error
	if body != nil {
		r, err = http.NewRequestWithContext(ctx, method, p.URL(), body)
	} else {
		r, err = http.NewRequestWithContext(ctx, method, p.URL(), nil)
	}
	if err != nil {
		return nil, err
	}
	for _, f := range p.Header {
		if !httpguts.ValidHeaderFieldName(f.Name) {
			return nil, fmt.Errorf("unixhttpx/request: invalid header field name %q", f.Name)
		}
		if !httpguts.ValidHeaderFieldValue(f.Value) {
			return nil, fmt.Errorf("unixhttpx/request: invalid header field value for %q", f.Name)
		}
		r.Header.Add(f.Name, f.Value)
	}
	if body == nil {
		r.Body = http.NoBody
		r.ContentLength = 0
	}
	r.Close = p.Close
	r.Host = Authority
	return r, nil
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// validMethod reports whether method is a token as defined in
// https://tools.ietf.org/html/rfc7230#section-3.2.6. The empty string
// is interpreted as "GET" before this check runs.
func validMethod(method string) bool {
	return method != "" && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

func validEndpoint(endpoint string) error {
	if endpoint != "" && endpoint[0] != '/' {
		return fmt.Errorf("unixhttpx/request: endpoint %q must begin with '/'", endpoint)
	}
	return nil
}
