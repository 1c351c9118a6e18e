// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"net/url"

	"github.com/gogama/unixhttpx/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do runs the exchange described by a request plan and returns the
// final execution state (and error, if any). Client implements the
// Doer interface, and any other Doer implementation must behave
// substantially the same as Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(p *request.Plan) (*request.Execution, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get issues a GET to the specified endpoint and returns the final
// execution state (and error, if any).
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(endpoint string) (*request.Execution, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head issues a HEAD to the specified endpoint and returns the final
// execution state (and error, if any).
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(endpoint string) (*request.Execution, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post issues a POST to the specified endpoint and returns the final
// execution state (and error, if any).
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.NewPlan, request.BodyBytes, and
// unixhttpx.Post, namely: string; []byte; io.Reader; and io.ReadCloser.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(endpoint, contentType string, body interface{}) (*request.Execution, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// PostForm issues a form POST to the specified endpoint and returns
// the final execution state (and error, if any). The body is set to
// the URL-encoded keys and values from data, and the content type is
// set to application/x-www-form-urlencoded.
//
// Any Doer can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(endpoint string, data url.Values) (*request.Execution, error)
}

// Deleter is the interface that wraps the basic Delete method.
//
// Delete issues a DELETE to the specified endpoint and returns the
// final execution state (and error, if any).
//
// Any Doer can be used to emulate a Deleter via the Delete function.
type Deleter interface {
	Delete(endpoint string) (*request.Execution, error)
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// PostForm, and Delete methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	FormPoster
	Deleter
}

// Get uses the specified Doer to issue a GET to the specified endpoint.
//
// The endpoint must be empty or begin with a slash. Otherwise d is not
// called and the error is an *Error of kind RequestBuild. The same
// holds for Head, Post, PostForm, and Delete.
//
// To make a request plan with custom headers, use request.NewPlan and
// d.Do.
func Get(d Doer, endpoint string) (*request.Execution, error) {
	return simple(d, "GET", endpoint)
}

// Head uses the specified Doer to issue a HEAD to the specified
// endpoint.
func Head(d Doer, endpoint string) (*request.Execution, error) {
	return simple(d, "HEAD", endpoint)
}

// Delete uses the specified Doer to issue a DELETE to the specified
// endpoint.
func Delete(d Doer, endpoint string) (*request.Execution, error) {
	return simple(d, "DELETE", endpoint)
}

func simple(d Doer, method, endpoint string) (*request.Execution, error) {
	p, err := request.NewPlan(method, endpoint, nil)
	if err != nil {
		return nil, &Error{Kind: RequestBuild, Err: err}
	}
	return d.Do(p)
}

// Post uses the specified Doer to issue a POST to the specified
// endpoint, with the given content type.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by Client.Post, request.NewPlan, and
// request.BodyBytes, namely: string; []byte; io.Reader; and
// io.ReadCloser. A body of any other type is a RequestBuild error.
func Post(d Doer, endpoint, contentType string, body interface{}) (*request.Execution, error) {
	p, err := request.NewPlan("POST", endpoint, body)
	if err != nil {
		return nil, &Error{Kind: RequestBuild, Err: err}
	}
	p.AddHeader("Content-Type", contentType)
	return d.Do(p)
}

// PostForm uses the specified Doer to issue a POST to the specified
// endpoint, with data's keys and values URL-encoded as the request
// body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.NewPlan and d.Do.
func PostForm(d Doer, endpoint string, data url.Values) (*request.Execution, error) {
	return Post(d, endpoint, "application/x-www-form-urlencoded", data.Encode())
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("unixhttpx: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(p *request.Plan) (*request.Execution, error) {
	return i.doer.Do(p)
}

func (i inflated) Get(endpoint string) (*request.Execution, error) {
	return Get(i.doer, endpoint)
}

func (i inflated) Head(endpoint string) (*request.Execution, error) {
	return Head(i.doer, endpoint)
}

func (i inflated) Post(endpoint, contentType string, body interface{}) (*request.Execution, error) {
	return Post(i.doer, endpoint, contentType, body)
}

func (i inflated) PostForm(endpoint string, data url.Values) (*request.Execution, error) {
	return PostForm(i.doer, endpoint, data)
}

func (i inflated) Delete(endpoint string) (*request.Execution, error) {
	return Delete(i.doer, endpoint)
}
