// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/unixhttpx/request"
)

// A Policy defines a timeout policy which may be plugged into the
// client (unixhttpx.Options) to direct how to bound each exchange.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the exchange described by
	// e. A return value of zero or less means no timeout.
	//
	// When Timeout is called the execution has started but no request
	// has been built yet, so only the plan and start time are set.
	Timeout(e *request.Execution) time.Duration
}

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(0)

// DefaultPolicy is the default timeout policy. Local socket exchanges
// are not bounded unless the caller says so, so it is Infinite.
var DefaultPolicy = Infinite

// Fixed constructs a timeout policy that uses the same value for every
// exchange. A value of zero or less means no timeout.
func Fixed(d time.Duration) Policy {
	return fixed(d)
}

// PerMethod constructs a timeout policy which looks up the exchange's
// request method in m, falling back to usual for methods not in m.
//
// Use PerMethod when, for example, reads are expected to complete
// quickly but a long-running POST must not be cut short.
func PerMethod(usual time.Duration, m map[string]time.Duration) Policy {
	m2 := make(map[string]time.Duration, len(m))
	for k, v := range m {
		m2[k] = v
	}
	return perMethod{usual: usual, m: m2}
}

type fixed time.Duration

func (f fixed) Timeout(_ *request.Execution) time.Duration {
	return time.Duration(f)
}

type perMethod struct {
	usual time.Duration
	m     map[string]time.Duration
}

func (p perMethod) Timeout(e *request.Execution) time.Duration {
	method := "GET"
	if e.Plan != nil && e.Plan.Method != "" {
		method = e.Plan.Method
	}
	if d, ok := p.m[method]; ok {
		return d
	}
	return p.usual
}
