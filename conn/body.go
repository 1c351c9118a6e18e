// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"io"
	"sync"
)

type bodyResult struct {
	err         error
	interrupted bool
}

// bodyEOFSignal wraps a response body and reports, exactly once, when
// the body has been read to the end, has failed, or has been closed.
//
// Before reporting it detaches the request context from the stream, in
// the reader's goroutine, so a context cancelled after the body was
// fully read can no longer poison the connection.
type bodyEOFSignal struct {
	body io.ReadCloser
	stop func() bool
	once sync.Once
	done chan<- bodyResult
}

func (b *bodyEOFSignal) Read(p []byte) (int, error) {
	n, err := b.body.Read(p)
	if err == io.EOF {
		b.signal(nil)
	} else if err != nil {
		b.signal(err)
	}
	return n, err
}

// Close closes the body, first discarding any unread remainder so the
// connection can carry the next exchange.
func (b *bodyEOFSignal) Close() error {
	err := b.body.Close()
	b.signal(err)
	return err
}

func (b *bodyEOFSignal) signal(err error) {
	b.once.Do(func() {
		b.done <- bodyResult{err: err, interrupted: !b.stop()}
	})
}
