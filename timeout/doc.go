// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for bounding how long a single
// request/response exchange over a Unix socket may take, from writing
// the request until the last byte of the response body is read.
package timeout
