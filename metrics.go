// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package unixhttpx

import (
	"errors"

	"github.com/gogama/unixhttpx/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess      = "success"
	resultUnsuccessful = "unsuccessful"
	resultError        = "error"

	exitClosed   = "closed"
	exitError    = "error"
	exitCanceled = "canceled"
)

// Metrics holds the Prometheus collectors a Client reports to. A nil
// *Metrics is valid and reports nothing.
//
// One Metrics may be shared by any number of clients.
type Metrics struct {
	dials       *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    prometheus.Histogram
	driverExits *prometheus.CounterVec
	live        prometheus.Gauge
}

// NewMetrics creates the client collectors and registers them with
// reg. If reg is nil the collectors are created but not registered.
// NewMetrics panics if registration fails.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		dials: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unixhttpx",
				Name:      "dials_total",
				Help:      "Total number of connection attempts, by result.",
			},
			[]string{"result"},
		),
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unixhttpx",
				Name:      "requests_total",
				Help:      "Total number of request/response exchanges, by result.",
			},
			[]string{"result"},
		),
		duration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "unixhttpx",
				Name:      "request_duration_seconds",
				Help:      "Duration of request/response exchanges in seconds.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
		),
		driverExits: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "unixhttpx",
				Name:      "driver_exits_total",
				Help:      "Total number of ended connections, by reason.",
			},
			[]string{"reason"},
		),
		live: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "unixhttpx",
				Name:      "live_connections",
				Help:      "Number of connections currently being served.",
			},
		),
	}
}

func (m *Metrics) dial(err error) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.dials.WithLabelValues(result).Inc()
}

func (m *Metrics) exchange(e *request.Execution) {
	if m == nil {
		return
	}
	result := resultSuccess
	var re *ResponseError
	if errors.As(e.Err, &re) {
		result = resultUnsuccessful
	} else if e.Err != nil {
		result = resultError
	}
	m.requests.WithLabelValues(result).Inc()
	m.duration.Observe(e.Duration().Seconds())
}

func (m *Metrics) driverExit(reason string) {
	if m == nil {
		return
	}
	m.driverExits.WithLabelValues(reason).Inc()
}

func (m *Metrics) connectionOpened() {
	if m == nil {
		return
	}
	m.live.Inc()
}

func (m *Metrics) connectionClosed() {
	if m == nil {
		return
	}
	m.live.Dec()
}
