// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixtest

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/nettest"
)

func TestServer(t *testing.T) {
	path, err := nettest.LocalPath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0600))

	s, err := NewServer(path, nil)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path)

	cl := &http.Client{
		Transport: &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", path)
			},
		},
	}
	defer cl.CloseIdleConnections()

	testCases := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"hello", "/nolanv", 200, "Hello nolanv"},
		{"hello suffix", "/nolanv17", 200, "Hello nolanv17"},
		{"hello nested", "/nolanv/nope", 404, "404 page not found\n"},
		{"root", "/", 404, "404 page not found\n"},
		{"status", "/status/418", 418, "status 418"},
		{"bad status", "/status/abc", 400, "bad status code"},
		{"close", "/close", 200, "bye"},
		{"sleep", "/sleep/1ms", 200, "slept"},
		{"bad sleep", "/sleep/forever", 400, "bad duration"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			resp, err := cl.Get("http://unix.socket" + testCase.path)
			require.NoError(t, err)
			b, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			require.NoError(t, err)
			assert.Equal(t, testCase.status, resp.StatusCode)
			assert.Equal(t, testCase.body, string(b))
		})
	}

	t.Run("echo", func(t *testing.T) {
		req, err := http.NewRequest("PUT", "http://unix.socket/echo?x=1", strings.NewReader("ham"))
		require.NoError(t, err)
		req.Header.Add("X-Dup", "a")
		req.Header.Add("X-Dup", "b")
		resp, err := cl.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, 200, resp.StatusCode)
		var e Echo
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
		assert.Equal(t, "PUT", e.Method)
		assert.Equal(t, "/echo?x=1", e.RequestURI)
		assert.Equal(t, "unix.socket", e.Host)
		assert.Equal(t, []string{"a", "b"}, e.Header.Values("X-Dup"))
		assert.Equal(t, int64(3), e.ContentLength)
		assert.Equal(t, "ham", e.Body)
	})
	t.Run("drop", func(t *testing.T) {
		_, err := cl.Get("http://unix.socket/drop")
		assert.Error(t, err)
	})
	t.Run("stall", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, "GET", "http://unix.socket/stall", nil)
		require.NoError(t, err)
		resp, err := cl.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, int64(10), resp.ContentLength)
		_, err = io.ReadAll(resp.Body)
		assert.Error(t, err)
	})

	require.NoError(t, s.Stop())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNewServer(t *testing.T) {
	t.Run("bad path", func(t *testing.T) {
		s, err := NewServer("/nonexistent-dir/sock", nil)
		assert.Nil(t, s)
		assert.Error(t, err)
	})
}
