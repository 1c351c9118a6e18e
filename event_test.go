// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	assert.Len(t, eventNames, numEvents)
	assert.Len(t, Events(), numEvents)
	events := Events()
	assert.Equal(t, BeforeSend, events[BeforeSend])
	assert.Equal(t, BeforeReadBody, events[BeforeReadBody])
	assert.Equal(t, AfterTimeout, events[AfterTimeout])
	assert.Equal(t, AfterSend, events[AfterSend])
}

func TestEvent_Name(t *testing.T) {
	assert.Equal(t, "BeforeSend", BeforeSend.Name())
	assert.Equal(t, "BeforeReadBody", BeforeReadBody.Name())
	assert.Equal(t, "AfterTimeout", AfterTimeout.Name())
	assert.Equal(t, "AfterSend", AfterSend.Name())
	assert.Equal(t, "AfterSend", AfterSend.String())
}
