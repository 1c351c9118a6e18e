// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package conn drives HTTP/1.1 over a single established stream, such as
a Unix domain socket connection.

Handshake splits a stream into two halves. The SendRequest half is a
handle used to submit requests and receive responses. The Connection
half owns the stream and must be served on its own goroutine for the
handle to make progress:

	sender, c, err := conn.Handshake(stream, nil)
	if err != nil {
		...
	}
	go func() {
		err := c.Serve(ctx)
		...
	}()
	resp, err := sender.Send(req)

Framing is done by net/http: requests are written with
(*http.Request).Write and responses read with http.ReadResponse.

Exchanges are processed strictly one at a time. A request is not
accepted by the connection until the body of the previous response has
been read to the end or closed, so callers of Send must always do one
or the other. Send may be called from several goroutines; the calls are
serialized.

Serve returns when the peer closes the connection, when a transport or
protocol error occurs, or when its context is cancelled. After that,
every call to Send fails with an error wrapping ErrCanceled.
*/
package conn
