// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package unixtest provides an HTTP server listening on a Unix domain
// socket, for use in tests.
package unixtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// A Server is an HTTP/1.1 server listening on a Unix socket.
//
// It serves the following routes:
//
//	/nolanv*       200 "Hello nolanv*" (no further path segments)
//	/echo          200 JSON-encoded Echo of the request
//	/status/N      status N with body "status N"
//	/close         200 "bye", then the server closes the connection
//	/drop          closes the connection without responding
//	/sleep/D       200 "slept" after sleeping for duration D
//	/stall         200 head promising 10 bytes, sends 2, then waits
//
// Every other path is answered with 404.
type Server struct {
	// Path is the socket path the server listens on.
	Path string

	srv  *http.Server
	done chan struct{}
	err  error
}

// An Echo describes the request received by the /echo route.
type Echo struct {
	Method           string
	RequestURI       string
	Host             string
	Header           http.Header
	ContentLength    int64
	TransferEncoding []string
	Body             string
}

// NewServer starts a server listening on path. A stale socket file at
// path is removed first. If logger is nil, server errors are not
// logged.
func NewServer(path string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("unixtest: failed to remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("unixtest: failed to listen: %w", err)
	}

	s := &Server{
		Path: path,
		srv: &http.Server{
			Handler:  Handler(),
			ErrorLog: zap.NewStdLog(logger.With(zap.String("socket", path))),
		},
		done: make(chan struct{}),
	}
	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.err = err
		}
	}()
	return s, nil
}

// Stop closes the listener, which removes the socket file, along with
// every open connection. It waits for the server to stop.
func (s *Server) Stop() error {
	err := s.srv.Close()
	<-s.done
	if err != nil {
		return err
	}
	return s.err
}

// Handler returns the handler serving the routes documented on Server.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/echo", echo)
	mux.HandleFunc("/status/", status)
	mux.HandleFunc("/close", closeAfter)
	mux.HandleFunc("/drop", drop)
	mux.HandleFunc("/sleep/", sleep)
	mux.HandleFunc("/stall", stall)
	mux.HandleFunc("/", hello)
	return mux
}

func hello(w http.ResponseWriter, req *http.Request) {
	name := strings.TrimPrefix(req.URL.Path, "/")
	if !strings.HasPrefix(name, "nolanv") || strings.Contains(name, "/") {
		http.NotFound(w, req)
		return
	}
	_, _ = io.WriteString(w, "Hello "+name)
}

func echo(w http.ResponseWriter, req *http.Request) {
	b, err := io.ReadAll(req.Body)
	if err != nil {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, fmt.Sprintf("failed to read request: %s", err.Error()))
		return
	}
	e := Echo{
		Method:           req.Method,
		RequestURI:       req.RequestURI,
		Host:             req.Host,
		Header:           req.Header,
		ContentLength:    req.ContentLength,
		TransferEncoding: req.TransferEncoding,
		Body:             string(b),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(&e)
}

func status(w http.ResponseWriter, req *http.Request) {
	code, err := strconv.Atoi(strings.TrimPrefix(req.URL.Path, "/status/"))
	if err != nil || code < 200 || code > 999 {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, "bad status code")
		return
	}
	w.WriteHeader(code)
	_, _ = io.WriteString(w, "status "+strconv.Itoa(code))
}

func closeAfter(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Connection", "close")
	_, _ = io.WriteString(w, "bye")
}

func drop(w http.ResponseWriter, _ *http.Request) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("w does not implement Hijacker")
	}
	c, _, err := hj.Hijack()
	if err != nil {
		return
	}
	_ = c.Close()
}

func sleep(w http.ResponseWriter, req *http.Request) {
	d, err := time.ParseDuration(strings.TrimPrefix(req.URL.Path, "/sleep/"))
	if err != nil {
		w.WriteHeader(400)
		_, _ = io.WriteString(w, "bad duration")
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		_, _ = io.WriteString(w, "slept")
	case <-req.Context().Done():
	}
}

func stall(w http.ResponseWriter, req *http.Request) {
	f, ok := w.(http.Flusher)
	if !ok {
		panic("w does not implement Flusher")
	}
	w.Header().Set("Content-Length", "10")
	w.WriteHeader(200)
	_, _ = io.WriteString(w, "st")
	f.Flush()
	<-req.Context().Done()
}
