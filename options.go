// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gogama/unixhttpx/timeout"
	"go.uber.org/zap"
)

var emptyHandlers = HandlerGroup{}

// Options configures a Client. The zero value, and a nil *Options, are
// valid and select the defaults described on each field.
type Options struct {
	// Dialer opens the socket connection.
	//
	// If Dialer is nil, a net.Dialer with DialTimeout is used.
	Dialer Dialer
	// DialTimeout bounds how long the default Dialer waits for the
	// connection to be established. Zero means no bound other than the
	// context passed to Connect. It is ignored if Dialer is set.
	DialTimeout time.Duration
	// ReadBufferSize is the size of the connection's read buffer. Zero
	// means 4 KiB.
	ReadBufferSize int
	// WriteBufferSize is the size of the connection's write buffer.
	// Zero means 4 KiB.
	WriteBufferSize int
	// TimeoutPolicy specifies the timeout for each exchange, covering
	// both the request and the collection of the response body.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an exchange.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Logger receives the client's log messages.
	//
	// If Logger is nil, nothing is logged.
	Logger *zap.Logger
	// Metrics receives the client's metrics.
	//
	// If Metrics is nil, no metrics are reported.
	Metrics *Metrics
}

func (o *Options) dialer() Dialer {
	if o.Dialer == nil {
		return &net.Dialer{Timeout: o.DialTimeout}
	}
	return o.Dialer
}

func (o *Options) timeoutPolicy() timeout.Policy {
	if o.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}
	return o.TimeoutPolicy
}

func (o *Options) handlers() *HandlerGroup {
	if o.Handlers == nil {
		return &emptyHandlers
	}
	return o.Handlers
}

func (o *Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// String returns a formatted representation of the options, with
// defaults filled in.
func (o *Options) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-18s: %s\n", name, value))
	}

	addSection("Connection")
	if o.Dialer == nil {
		addField("Dialer", "net.Dialer")
	} else {
		addField("Dialer", fmt.Sprintf("%T", o.Dialer))
	}
	addField("Dial Timeout", durationOrNone(o.DialTimeout))
	addField("Read Buffer Size", fmt.Sprintf("%d", bufferSize(o.ReadBufferSize)))
	addField("Write Buffer Size", fmt.Sprintf("%d", bufferSize(o.WriteBufferSize)))

	addSection("Exchange")
	if o.TimeoutPolicy == nil {
		addField("Timeout Policy", "default")
	} else {
		addField("Timeout Policy", fmt.Sprintf("%T", o.TimeoutPolicy))
	}
	addField("Handlers", fmt.Sprintf("%t", o.Handlers != nil))

	addSection("Observability")
	addField("Logger", fmt.Sprintf("%t", o.Logger != nil))
	addField("Metrics", fmt.Sprintf("%t", o.Metrics != nil))

	return sb.String()
}

func durationOrNone(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}

func bufferSize(n int) int {
	if n <= 0 {
		return 4096
	}
	return n
}
