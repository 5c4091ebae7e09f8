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

package blob

import (
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// MarshalArena renders b as {"contract_name": ..., "data": [byte, ...]}.
func (b Blob) MarshalArena(arena *fastjson.Arena) *fastjson.Value {
	o := arena.NewObject()

	data := arena.NewArray()
	for i, x := range b.Data {
		data.SetArrayItem(i, arena.NewNumberInt(int(x)))
	}

	o.Set("contract_name", arena.NewString(b.ContractName))
	o.Set("data", data)

	return o
}

func (b *Blob) UnmarshalValue(v *fastjson.Value) error {
	name := v.GetStringBytes("contract_name")
	if name == nil {
		return errors.New("blob: missing contract_name")
	}

	raw := v.Get("data")
	if raw == nil {
		return errors.New("blob: missing data")
	}

	items, err := raw.Array()
	if err != nil {
		return errors.Wrap(err, "blob: invalid data")
	}

	data := make([]byte, len(items))
	for i, item := range items {
		x, err := item.Uint()
		if err != nil || x > 0xff {
			return errors.Errorf("blob: data[%d] is not a byte", i)
		}

		data[i] = byte(x)
	}

	b.ContractName = string(name)
	b.Data = data

	return nil
}

// MarshalBlobs renders blobs as a JSON array.
func MarshalBlobs(arena *fastjson.Arena, blobs []Blob) *fastjson.Value {
	list := arena.NewArray()
	for i, b := range blobs {
		list.SetArrayItem(i, b.MarshalArena(arena))
	}

	return list
}

func (tx BlobTransaction) MarshalArena(arena *fastjson.Arena) *fastjson.Value {
	o := arena.NewObject()

	o.Set("identity", arena.NewString(tx.Identity))
	o.Set("blobs", MarshalBlobs(arena, tx.Blobs))

	return o
}

// MarshalJSON is a convenience wrapper around MarshalArena.
func (tx BlobTransaction) MarshalJSON() ([]byte, error) {
	var arena fastjson.Arena
	return tx.MarshalArena(&arena).MarshalTo(nil), nil
}

func (tx *BlobTransaction) UnmarshalValue(v *fastjson.Value) error {
	identity := v.GetStringBytes("identity")
	if identity == nil {
		return errors.New("blob: missing identity")
	}

	raw := v.Get("blobs")
	if raw == nil {
		return errors.New("blob: missing blobs")
	}

	items, err := raw.Array()
	if err != nil {
		return errors.Wrap(err, "blob: invalid blobs")
	}

	blobs := make([]Blob, len(items))
	for i, item := range items {
		if err := blobs[i].UnmarshalValue(item); err != nil {
			return errors.Wrapf(err, "blobs[%d]", i)
		}
	}

	tx.Identity = string(identity)
	tx.Blobs = blobs

	return nil
}

func (tx *BlobTransaction) UnmarshalJSON(b []byte) error {
	var parser fastjson.Parser

	v, err := parser.ParseBytes(b)
	if err != nil {
		return errors.Wrap(err, "blob: invalid transaction json")
	}

	return tx.UnmarshalValue(v)
}
