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

package client

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// Event names reported by the indexer over a transaction's lifetime.
const (
	EventNewProof        = "NewProof"
	EventSequenced       = "Sequenced"
	EventSettled         = "Settled"
	EventSettledAsFailed = "SettledAsFailed"
)

type Event struct {
	Name string
	// Metadata is the raw JSON attached to the event, if any.
	Metadata []byte
}

// TxEvent groups the events recorded for a transaction in one block.
type TxEvent struct {
	BlockHash   string
	BlockHeight uint64
	Events      []Event
}

// ParseTxEvents decodes the indexer's event list:
// [{"block_hash": ..., "block_height": n, "events": [{"name": ..., "metadata": ...}]}].
func ParseTxEvents(v *fastjson.Value) ([]TxEvent, error) {
	items, err := v.Array()
	if err != nil {
		return nil, errors.Wrap(err, "tx events must be an array")
	}

	out := make([]TxEvent, 0, len(items))

	for i, item := range items {
		var ev TxEvent

		if err := ev.UnmarshalValue(item); err != nil {
			return nil, errors.Wrapf(err, "tx event %d", i)
		}

		out = append(out, ev)
	}

	return out, nil
}

func (t *TxEvent) UnmarshalValue(v *fastjson.Value) error {
	if v.Type() != fastjson.TypeObject {
		return errors.New("not an object")
	}

	h := v.Get("block_height")
	if h == nil {
		return errors.New("missing block_height")
	}

	height, err := h.Uint64()
	if err != nil {
		return errors.Wrap(err, "invalid block_height")
	}

	t.BlockHeight = height

	t.BlockHash = string(v.GetStringBytes("block_hash"))

	raw := v.Get("events")
	if raw == nil {
		return errors.New("missing events")
	}

	items, err := raw.Array()
	if err != nil {
		return errors.Wrap(err, "invalid events")
	}

	t.Events = make([]Event, 0, len(items))

	for i, item := range items {
		name := item.GetStringBytes("name")
		if name == nil {
			return errors.Errorf("event %d has no name", i)
		}

		e := Event{Name: string(name)}

		if meta := item.Get("metadata"); meta != nil && meta.Type() != fastjson.TypeNull {
			e.Metadata = meta.MarshalTo(nil)
		}

		t.Events = append(t.Events, e)
	}

	return nil
}
