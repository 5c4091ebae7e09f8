// Copyright (c) 2019 Perlin
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package blobtx

import (
	"context"
	"time"

	"github.com/perlin-network/blobtx/log"
	"github.com/rcrowley/go-metrics"
)

// Metrics counts transactions moving through a Session. A nil *Metrics
// records nothing.
type Metrics struct {
	registry metrics.Registry

	submittedTX metrics.Meter
	sequencedTX metrics.Meter
	settledTX   metrics.Meter
	failedTX    metrics.Meter
	rejectedTX  metrics.Meter
	pollErrors  metrics.Meter

	settleLatency metrics.Timer
}

// NewMetrics registers the meters and logs a summary every interval until
// ctx is done. A zero interval disables the summary.
func NewMetrics(ctx context.Context, interval time.Duration) *Metrics {
	registry := metrics.NewRegistry()

	m := &Metrics{
		registry: registry,

		submittedTX: metrics.NewRegisteredMeter("tx.submitted", registry),
		sequencedTX: metrics.NewRegisteredMeter("tx.sequenced", registry),
		settledTX:   metrics.NewRegisteredMeter("tx.settled", registry),
		failedTX:    metrics.NewRegisteredMeter("tx.settled_as_failed", registry),
		rejectedTX:  metrics.NewRegisteredMeter("tx.rejected", registry),
		pollErrors:  metrics.NewRegisteredMeter("poll.errors", registry),

		settleLatency: metrics.NewRegisteredTimer("settle.latency", registry),
	}

	if interval > 0 {
		go m.report(ctx, interval)
	}

	return m
}

func (m *Metrics) report(ctx context.Context, interval time.Duration) {
	logger := log.Metrics()

	for {
		select {
		case <-time.After(interval):
			logger.Info().
				Int64("tx.submitted", m.submittedTX.Count()).
				Int64("tx.sequenced", m.sequencedTX.Count()).
				Int64("tx.settled", m.settledTX.Count()).
				Int64("tx.settled_as_failed", m.failedTX.Count()).
				Int64("tx.rejected", m.rejectedTX.Count()).
				Int64("poll.errors", m.pollErrors.Count()).
				Float64("tps.submitted", m.submittedTX.Rate1()).
				Float64("tps.settled", m.settledTX.Rate1()).
				Str("settle.latency.max", time.Duration(m.settleLatency.Max()).String()).
				Str("settle.latency.min", time.Duration(m.settleLatency.Min()).String()).
				Str("settle.latency.mean", time.Duration(m.settleLatency.Mean()).String()).
				Msg("Updated metrics.")
		case <-ctx.Done():
			return
		}
	}
}

func (m *Metrics) Registry() metrics.Registry {
	return m.registry
}

func (m *Metrics) markSubmitted() {
	if m != nil {
		m.submittedTX.Mark(1)
	}
}

func (m *Metrics) markRejected() {
	if m != nil {
		m.rejectedTX.Mark(1)
	}
}

func (m *Metrics) markSequenced() {
	if m != nil {
		m.sequencedTX.Mark(1)
	}
}

func (m *Metrics) markPollError() {
	if m != nil {
		m.pollErrors.Mark(1)
	}
}

func (m *Metrics) markSettled(success bool, since time.Time) {
	if m == nil {
		return
	}

	if success {
		m.settledTX.Mark(1)
	} else {
		m.failedTX.Mark(1)
	}

	m.settleLatency.UpdateSince(since)
}

func (m *Metrics) Stop() {
	if m == nil {
		return
	}

	m.submittedTX.Stop()
	m.sequencedTX.Stop()
	m.settledTX.Stop()
	m.failedTX.Stop()
	m.rejectedTX.Stop()
	m.pollErrors.Stop()

	m.settleLatency.Stop()
}
