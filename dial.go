// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrInvalidSocketPath is wrapped by the error Connect returns when the
// socket path is empty or too long to fit in a Unix socket address.
var ErrInvalidSocketPath = errors.New("unixhttpx: invalid socket path")

var maxSocketPathLen = len(syscall.RawSockaddrUnix{}.Path)

// A Dialer opens stream connections. *net.Dialer implements Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

func dial(ctx context.Context, d Dialer, path string) (net.Conn, error) {
	if err := validSocketPath(path); err != nil {
		return nil, &Error{Kind: SocketConnectionInitiation, Err: err}
	}
	c, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, &Error{Kind: SocketConnectionInitiation, Err: err}
	}
	return c, nil
}

func validSocketPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidSocketPath)
	}
	// The kernel needs room for a terminating NUL.
	if len(path) >= maxSocketPathLen {
		return fmt.Errorf("%w: path must be shorter than %d bytes", ErrInvalidSocketPath, maxSocketPathLen)
	}
	return nil
}
