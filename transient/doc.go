// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies errors from Unix socket HTTP exchanges
// into categories a caller can act on: whether the server is not
// running, whether an established connection was lost, or whether the
// operation simply timed out. The categories drive the decision to call
// Reconnect, and are also handy for bucketing error metrics.
//
// Package transient depends only on the standard library, so it can be
// imported on its own without bringing in the rest of the module.
package transient
