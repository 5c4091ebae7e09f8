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

package tracker

import (
	"fmt"

	"github.com/perlin-network/blobtx/client"
)

// State is the confirmation state of a transaction. It only moves forward.
type State int32

const (
	Submitted State = iota
	Sequenced
	SettledSuccess
	SettledFailed
)

func (s State) String() string {
	switch s {
	case Submitted:
		return "submitted"
	case Sequenced:
		return "sequenced"
	case SettledSuccess:
		return "settled"
	case SettledFailed:
		return "settled_as_failed"
	}

	return fmt.Sprintf("state(%d)", int32(s))
}

func (s State) Terminal() bool {
	return s == SettledSuccess || s == SettledFailed
}

// Notification describes one event observed for a transaction.
type Notification struct {
	Hash        client.TxHash
	State       State
	Event       client.Event
	BlockHeight uint64
}

func (n Notification) String() string {
	hash := shorten(string(n.Hash), 18)

	switch {
	case n.State == SettledSuccess:
		return fmt.Sprintf("Transaction %s settled.", hash)
	case n.State == SettledFailed:
		return fmt.Sprintf("Transaction %s settled as failed.", hash)
	case n.Event.Name == client.EventNewProof:
		return fmt.Sprintf("Transaction %s received a new proof.", hash)
	case n.State == Sequenced:
		return fmt.Sprintf("Transaction %s sequenced. Waiting for settlement...", hash)
	}

	return fmt.Sprintf("Transaction %s: %s.", hash, n.Event.Name)
}

// shorten keeps the head and tail of s when it is longer than n.
func shorten(s string, n int) string {
	if len(s) <= n || n < 5 {
		return s
	}

	keep := (n - 3) / 2

	return s[:keep] + "..." + s[len(s)-keep:]
}

type Handler interface {
	// OnProgress is called for every non-terminal lifecycle event.
	OnProgress(Notification)
	// OnSettled is called exactly once, with the terminal event.
	OnSettled(Notification)
}

// HandlerFuncs adapts optional functions to Handler.
type HandlerFuncs struct {
	Progress func(Notification)
	Settled  func(Notification)
}

func (h HandlerFuncs) OnProgress(n Notification) {
	if h.Progress != nil {
		h.Progress(n)
	}
}

func (h HandlerFuncs) OnSettled(n Notification) {
	if h.Settled != nil {
		h.Settled(n)
	}
}

// Result is the outcome of tracking a transaction to a terminal state.
type Result struct {
	Hash        client.TxHash
	State       State
	BlockHeight uint64
	Event       client.Event
	Polls       int
}

func (r Result) Success() bool {
	return r.State == SettledSuccess
}
