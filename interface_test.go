// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"bytes"
	"net/url"
	"testing"

	"github.com/gogama/unixhttpx/request"

	"github.com/stretchr/testify/assert"

	"github.com/stretchr/testify/require"

	"github.com/stretchr/testify/mock"
)

func TestGet(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		expected := &request.Execution{}
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "GET" && p.Endpoint == "/foo" && p.Body == nil
		})).Return(expected, nil).Once()
		e, err := Get(m, "/foo")
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("error invalid endpoint", func(t *testing.T) {
		m := newMockDoer(t)
		e, err := Get(m, "foo")
		assert.Nil(t, e)
		assert.EqualError(t, err, `unixhttpx: failed to build request: unixhttpx/request: endpoint "foo" must begin with '/'`)
		assertBuildError(t, err)
		m.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestHead(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		expected := &request.Execution{}
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "HEAD" && p.Endpoint == "/bar"
		})).Return(expected, nil).Once()
		e, err := Head(m, "/bar")
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("error invalid endpoint", func(t *testing.T) {
		m := newMockDoer(t)
		e, err := Head(m, ":::")
		assert.Nil(t, e)
		assertBuildError(t, err)
		m.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	expected := &request.Execution{}
	m := newMockDoer(t)
	m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
		return p.Method == "DELETE" && p.Endpoint == "/widgets/1"
	})).Return(expected, nil).Once()
	e, err := Delete(m, "/widgets/1")
	assert.Same(t, expected, e)
	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestPost(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		expected := &request.Execution{}
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST" && p.Endpoint == "/baz" &&
				assert.ObjectsAreEqual([]request.Field{{Name: "Content-Type", Value: "ham"}}, p.Header) &&
				bytes.Equal(p.Body, []byte("eggs"))
		})).Return(expected, nil).Once()
		e, err := Post(m, "/baz", "ham", "eggs")
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("error invalid endpoint", func(t *testing.T) {
		m := newMockDoer(t)
		e, err := Post(m, ":::", "text/plain", []byte{'a', 'b', 'c'})
		assert.Nil(t, e)
		assertBuildError(t, err)
		m.AssertNotCalled(t, "Do", mock.Anything)
	})
	t.Run("error invalid body", func(t *testing.T) {
		m := newMockDoer(t)
		e, err := Post(m, "/", "text/plain", 123)
		assert.Nil(t, e)
		assert.EqualError(t, err, "unixhttpx: failed to build request: unixhttpx/request: invalid type (for body use nil, string, []byte, io.Reader or io.ReadCloser)")
		assertBuildError(t, err)
		m.AssertNotCalled(t, "Do", mock.Anything)
	})
}

func TestPostForm(t *testing.T) {
	expected := &request.Execution{}
	m := newMockDoer(t)
	m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
		return p.Method == "POST" && p.Endpoint == "/poster%20boy" &&
			len(p.Header) == 1 && p.Header[0].Value == "application/x-www-form-urlencoded" &&
			len(p.Body) == 0
	})).Return(expected, nil).Once()
	e, err := PostForm(m, "/poster%20boy", url.Values{})
	assert.Same(t, expected, e)
	assert.NoError(t, err)
	m.AssertExpectations(t)
}

func TestInflate(t *testing.T) {
	t.Run("Inflate", func(t *testing.T) {
		t.Run("nil doer", func(t *testing.T) {
			assert.PanicsWithValue(t, "unixhttpx: nil doer", func() {
				Inflate(nil)
			})
		})
		t.Run("already an Executor", func(t *testing.T) {
			cl := &Client{}
			x := Inflate(cl)
			assert.Same(t, cl, x)
		})
		t.Run("not yet an Executor", func(t *testing.T) {
			m := newMockDoer(t)
			x := Inflate(m)
			assert.IsType(t, inflated{}, x)
			assert.Equal(t, inflated{m}, x)
		})
	})
	expected := &request.Execution{}
	t.Run("Do", func(t *testing.T) {
		p, err := request.NewPlan("PUT", "/widgets/1", "foo")
		require.NotNil(t, p)
		require.NoError(t, err)
		m := newMockDoer(t)
		m.On("Do", p).Return(expected, nil).Once()
		x := Inflate(m)
		e, err := x.Do(p)
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("Get", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "GET" && p.Endpoint == "/bar"
		})).Return(expected, nil).Once()
		x := Inflate(m)
		e, err := x.Get("/bar")
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("Head", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "HEAD" && p.Endpoint == "/baz"
		})).Return(expected, nil).Once()
		x := Inflate(m)
		e, err := x.Head("/baz")
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("Post", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST" && p.Endpoint == "/ham" &&
				len(p.Header) == 1 && p.Header[0].Value == "eggs" &&
				p.Body == nil
		})).Return(expected, nil).Once()
		x := Inflate(m)
		e, err := x.Post("/ham", "eggs", nil)
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("PostForm", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "POST" && p.Endpoint == "/form" &&
				bytes.Equal(p.Body, []byte("x=y"))
		})).Return(expected, nil).Once()
		x := Inflate(m)
		e, err := x.PostForm("/form", url.Values{"x": []string{"y"}})
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
	t.Run("Delete", func(t *testing.T) {
		m := newMockDoer(t)
		m.On("Do", mock.MatchedBy(func(p *request.Plan) bool {
			return p.Method == "DELETE" && p.Endpoint == ""
		})).Return(expected, nil).Once()
		x := Inflate(m)
		e, err := x.Delete("")
		assert.Same(t, expected, e)
		assert.NoError(t, err)
		m.AssertExpectations(t)
	})
}

type mockDoer struct {
	mock.Mock
}

func newMockDoer(t *testing.T) *mockDoer {
	m := &mockDoer{}
	m.Test(t)
	return m
}

func (m *mockDoer) Do(p *request.Plan) (*request.Execution, error) {
	args := m.Called(p)
	e := args.Get(0)
	err := args.Error(1)
	if e == nil {
		return nil, err
	}
	return e.(*request.Execution), err
}

func assertBuildError(t *testing.T, err error) {
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, RequestBuild, e.Kind)
}
