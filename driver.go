// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"context"
	"errors"

	"github.com/gogama/unixhttpx/conn"
	"go.uber.org/zap"
)

// An outcome is how a driver ended. If canceled is true the driver was
// stopped from outside before the connection ended on its own, and err
// is nil. Otherwise err is a SocketConnectionClosed error.
type outcome struct {
	canceled bool
	err      *Error
}

// A driver serves one connection on its own goroutine and records how
// it ended.
type driver struct {
	cancel context.CancelFunc
	done   chan struct{}
	out    outcome
}

func spawnDriver(c *conn.Connection, logger *zap.Logger, m *Metrics) *driver {
	ctx, cancel := context.WithCancel(context.Background())
	d := &driver{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.connectionOpened()
	go func() {
		defer close(d.done)
		err := c.Serve(ctx)
		m.connectionClosed()
		switch {
		case ctx.Err() != nil && errors.Is(err, context.Canceled):
			d.out = outcome{canceled: true}
			m.driverExit(exitCanceled)
			logger.Debug("connection aborted")
		case err == nil:
			d.out = outcome{err: &Error{Kind: SocketConnectionClosed}}
			m.driverExit(exitClosed)
			logger.Info("connection closed")
		default:
			d.out = outcome{err: &Error{Kind: SocketConnectionClosed, Err: err}}
			m.driverExit(exitError)
			logger.Warn("connection failed", zap.Error(err))
		}
	}()
	return d
}

// abort stops the driver. It is safe to call more than once.
func (d *driver) abort() {
	d.cancel()
}

// join waits for the driver to end and returns its outcome. It may be
// called any number of times.
func (d *driver) join() outcome {
	<-d.done
	return d.out
}
