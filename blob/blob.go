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

// Package blob builds the typed contract actions carried by a blob
// transaction and encodes them into blobs.
package blob

import (
	"github.com/perlin-network/blobtx/codec"
	"github.com/perlin-network/blobtx/conf"
)

// Blob is a binary-encoded instruction addressed to one contract. Blobs are
// treated as immutable once built.
type Blob struct {
	ContractName string
	Data         []byte
}

// BlobTransaction is an ordered list of blobs authorized by one identity,
// e.g. "<address>.<identity contract>".
type BlobTransaction struct {
	Identity string
	Blobs    []Blob
}

// BlobIndex is the position of a blob within its transaction.
type BlobIndex uint64

func (i BlobIndex) MarshalBorsh(w *codec.Writer) {
	w.WriteU64(uint64(i))
}

// Ref returns a pointer to i, for use as an optional caller.
func Ref(i BlobIndex) *BlobIndex {
	return &i
}

// Action is a single variant of a contract family's tagged union.
type Action interface {
	codec.Marshaler

	// Variant returns the discriminant and name of the active variant.
	Variant() (uint8, string)
}

// StructuredBlobData wraps an action with its position in the intra
// transaction call graph. Caller designates the blob that invoked this one and
// Callees the blobs this one may invoke. A nil Caller or nil Callees is
// encoded as an absent option.
type StructuredBlobData struct {
	Caller     *BlobIndex
	Callees    []BlobIndex
	Parameters Action
}

func (s StructuredBlobData) MarshalBorsh(w *codec.Writer) {
	w.WriteOptionFlag(s.Caller != nil)
	if s.Caller != nil {
		s.Caller.MarshalBorsh(w)
	}

	w.WriteOptionFlag(s.Callees != nil)
	if s.Callees != nil {
		w.WriteLen(len(s.Callees))
		for _, callee := range s.Callees {
			callee.MarshalBorsh(w)
		}
	}

	s.Parameters.MarshalBorsh(w)
}

// build encodes action for contract following that contract's wrapping
// convention. Contracts that take bare actions have no call graph, so caller
// and callees are dropped for them.
func build(contract string, action Action, caller *BlobIndex, callees []BlobIndex) Blob {
	if !conf.IsStructured(contract) {
		return Blob{ContractName: contract, Data: codec.Encode(action)}
	}

	structured := StructuredBlobData{
		Caller:     caller,
		Parameters: action,
	}

	if callees != nil {
		structured.Callees = make([]BlobIndex, len(callees))
		copy(structured.Callees, callees)
	}

	return Blob{ContractName: contract, Data: codec.Encode(structured)}
}
