// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package unixhttpx provides an HTTP/1.1 client which talks to a server
over one persistent Unix domain socket connection.

Connect a Client to a socket path to begin making requests.

	client, err := unixhttpx.Connect(ctx, "/run/app.sock", nil)
	if err != nil {
		if unixhttpx.IsNotRunning(err) {
			...
		}
		return err
	}
	defer client.Abort()

	status, body, err := client.SendRequest(ctx, "/v1/status", "GET", nil, nil)
	...
	status, body, err = client.SendRequest(ctx, "/v1/items", "POST",
		[]request.Field{{Name: "Content-Type", Value: "application/json"}},
		[]byte(`{"name":"x"}`))

Every request is addressed to the placeholder authority "unix.socket";
the endpoint is the path and query of the request target.

A response with a status code outside the 2XX range is returned as a
*ResponseError carrying the status code and the response body. Every
other failure is an *Error whose Kind names the step which failed:

	var re *unixhttpx.ResponseError
	var e *unixhttpx.Error
	switch {
	case errors.As(err, &re):
		// The server answered, but not with success.
	case errors.As(err, &e) && e.Canceled():
		// The connection is gone. Reconnect.
		client, err = client.Reconnect(ctx)
	}

The client never retries or reconnects on its own. Once its connection
has ended, each request fails with a RequestSend error whose Canceled
method reports true, and the Done channel is closed. Reconnect aborts
the old connection and dials the same socket again.

For control over connection setup, per-exchange timeouts, logging, and
metrics, pass Options:

	client, err := unixhttpx.Connect(ctx, path, &unixhttpx.Options{
		DialTimeout:   time.Second,
		TimeoutPolicy: timeout.Fixed(10 * time.Second),
		Logger:        logger,
		Metrics:       unixhttpx.NewMetrics(prometheus.DefaultRegisterer),
	})

To hook into the fine-grained details of each exchange, install a
handler into the appropriate handler chain:

	handlers := &unixhttpx.HandlerGroup{}
	handlers.PushBack(unixhttpx.BeforeSend, unixhttpx.HandlerFunc(
		func(_ unixhttpx.Event, e *request.Execution) {
			e.Request.Header.Set("X-Request-Id", newID())
		}),
	)

Package unixhttpx also provides basic interfaces for each method of the
client (Doer, Getter, Header, Poster, FormPoster, and Deleter); a
combined interface that composes all the basic methods (Executor); and
utility functions for working with a Doer (Inflate, Get, Head, Post,
PostForm, and Delete).
*/
package unixhttpx
