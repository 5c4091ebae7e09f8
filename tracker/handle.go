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

import "context"

// Handle controls a tracker running in its own goroutine.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	result Result
	err    error
}

// Start runs Track in a new goroutine.
func (t *Tracker) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)

	h := &Handle{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(h.done)
		defer cancel()

		h.result, h.err = t.Track(ctx)
	}()

	return h
}

// Stop cancels tracking and waits for the goroutine to exit.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result blocks until tracking ends.
func (h *Handle) Result() (Result, error) {
	<-h.done
	return h.result, h.err
}
