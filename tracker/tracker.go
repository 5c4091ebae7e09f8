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

// Package tracker follows a submitted transaction through the indexer until
// it settles.
package tracker

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"github.com/perlin-network/blobtx/client"
	"github.com/perlin-network/blobtx/conf"
	"github.com/perlin-network/blobtx/log"
)

// EventSource returns every event recorded so far for a transaction.
type EventSource interface {
	GetTxEvents(ctx context.Context, hash client.TxHash) ([]client.TxEvent, error)
}

type Option func(t *Tracker)

func WithPollInterval(d time.Duration) Option {
	return func(t *Tracker) {
		t.interval = d
	}
}

func WithHandler(h Handler) Option {
	return func(t *Tracker) {
		t.handler = h
	}
}

// WithPollErrorHook registers a function called for every failed poll.
func WithPollErrorHook(fn func(error)) Option {
	return func(t *Tracker) {
		t.onPollError = fn
	}
}

// Tracker polls an EventSource for a single transaction. A Tracker is not
// reusable once it reached a terminal state.
type Tracker struct {
	source   EventSource
	hash     client.TxHash
	handler  Handler
	interval time.Duration

	onPollError func(error)

	consumed atomic.Int64
	state    atomic.Int32
	polls    atomic.Int64
}

func New(source EventSource, hash client.TxHash, opts ...Option) *Tracker {
	t := &Tracker{
		source:   source,
		hash:     hash,
		handler:  HandlerFuncs{},
		interval: conf.GetPollInterval(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Tracker) Hash() client.TxHash {
	return t.hash
}

// Consumed is the number of events already processed.
func (t *Tracker) Consumed() int {
	return int(t.consumed.Load())
}

func (t *Tracker) State() State {
	return State(t.state.Load())
}

// Track polls until the transaction settles or ctx ends. It returns the
// terminal result, or ctx.Err() when cancelled first.
func (t *Tracker) Track(ctx context.Context) (Result, error) {
	logger := log.Tracker("track")
	logger.Debug().Str("tx_hash", string(t.hash)).Msg("Started tracking transaction.")

	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		if res, done := t.poll(ctx); done {
			return res, nil
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}

		timer.Reset(t.interval)

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}
}

type located struct {
	height uint64
	event  client.Event
}

func (t *Tracker) poll(ctx context.Context) (Result, bool) {
	polls := t.polls.Add(1)

	events, err := t.source.GetTxEvents(ctx, t.hash)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, false
		}

		logger := log.Tracker("poll_error")
		logger.Warn().Err(err).Str("tx_hash", string(t.hash)).Msg("Failed to fetch transaction events.")

		if t.onPollError != nil {
			t.onPollError(err)
		}

		return Result{}, false
	}

	flat := flatten(events)
	consumed := t.consumed.Load()

	if int64(len(flat)) < consumed {
		logger := log.Tracker("shrunk")
		logger.Warn().
			Str("tx_hash", string(t.hash)).
			Int("events", len(flat)).
			Int64("consumed", consumed).
			Msg("Indexer returned fewer events than already processed.")

		return Result{}, false
	}

	for _, e := range flat[consumed:] {
		t.consumed.Add(1)

		n := Notification{Hash: t.hash, Event: e.event, BlockHeight: e.height}

		switch e.event.Name {
		case client.EventNewProof:
			n.State = t.State()
			t.handler.OnProgress(n)
		case client.EventSequenced:
			t.advance(Sequenced)
			n.State = t.State()
			t.handler.OnProgress(n)
		case client.EventSettledAsFailed:
			return t.settle(n, SettledFailed, int(polls)), true
		case client.EventSettled:
			return t.settle(n, SettledSuccess, int(polls)), true
		}
	}

	return Result{}, false
}

func (t *Tracker) settle(n Notification, state State, polls int) Result {
	t.advance(state)

	n.State = state
	t.handler.OnSettled(n)

	logger := log.Tracker("settled")
	logger.Debug().
		Str("tx_hash", string(t.hash)).
		Str("state", state.String()).
		Uint64("block_height", n.BlockHeight).
		Int("polls", polls).
		Msg("Transaction reached a terminal state.")

	return Result{
		Hash:        t.hash,
		State:       state,
		BlockHeight: n.BlockHeight,
		Event:       n.Event,
		Polls:       polls,
	}
}

// advance moves the state forward, never backward.
func (t *Tracker) advance(to State) {
	for {
		from := t.state.Load()
		if State(from) >= to {
			return
		}

		if t.state.CompareAndSwap(from, int32(to)) {
			return
		}
	}
}

// flatten orders events by block height, keeping the indexer's order within
// a height, and drops the grouping.
func flatten(events []client.TxEvent) []located {
	sorted := make([]client.TxEvent, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BlockHeight < sorted[j].BlockHeight
	})

	var flat []located

	for _, ev := range sorted {
		for _, e := range ev.Events {
			flat = append(flat, located{height: ev.BlockHeight, event: e})
		}
	}

	return flat
}
