// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes one HTTP
request to be sent over a Unix socket connection) and Execution
(describes the exchange of that request for a response).

A Plan names an endpoint rather than a URL. A Unix socket has no host
or port, so every request is addressed to the fixed placeholder
authority Authority and the endpoint supplies the path and query:

	p, err := request.NewPlan("GET", "/containers/json?all=1", nil)
	...
	p.AddHeader("Accept", "application/json")
	e, err := client.Do(p)
	...

Headers are kept as an ordered list of name/value pairs and applied to
the outgoing request in that order, so duplicate names are sent as
separate field lines.

A plan may be assigned a context to bound the whole exchange and to
allow it to be cancelled:

	p, err := request.NewPlanWithContext(ctx, "POST", "/upload", body)

The second core type is Execution, which represents the state of one
exchange. Execution is the output type of unixhttpx.Client.Do and the
input type for the callbacks invoked during the exchange: timeout
policies and event handlers. You will typically not allocate Execution
instances yourself.
*/
package request
