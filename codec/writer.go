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

// Package codec implements the little-endian, length-prefixed binary layout
// expected by the ledger's contract verifiers.
//
// Every schema type implements Marshaler. Encoding never fails: a value that
// type-checks always has a well-defined byte representation.
package codec

import (
	"encoding/binary"

	"github.com/valyala/bytebufferpool"
)

// Marshaler is implemented by every value that has a wire representation.
type Marshaler interface {
	MarshalBorsh(w *Writer)
}

// Writer appends encoded values to a pooled buffer.
type Writer struct {
	buf *bytebufferpool.ByteBuffer
}

func NewWriter() *Writer {
	return &Writer{buf: bytebufferpool.Get()}
}

// Encode marshals m into a freshly allocated byte slice.
func Encode(m Marshaler) []byte {
	w := NewWriter()
	defer w.Release()

	m.MarshalBorsh(w)

	return w.Bytes()
}

// Bytes returns a copy of everything written so far.
func (w *Writer) Bytes() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.B)

	return out
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

// Release hands the underlying buffer back to the pool. The writer must not be
// used afterwards.
func (w *Writer) Release() {
	if w.buf != nil {
		bytebufferpool.Put(w.buf)
		w.buf = nil
	}
}

// WriteVariant writes the discriminant of a tagged union variant.
func (w *Writer) WriteVariant(index uint8) {
	w.WriteU8(index)
}

// WriteOptionFlag writes the presence byte of an optional value. The value
// itself, if present, must be written right after.
func (w *Writer) WriteOptionFlag(present bool) {
	w.WriteBool(present)
}

func (w *Writer) WriteBool(x bool) {
	if x {
		w.WriteU8(1)
		return
	}

	w.WriteU8(0)
}

func (w *Writer) WriteU8(x uint8) {
	_ = w.buf.WriteByte(x)
}

func (w *Writer) WriteU16(x uint16) {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], x)
	_, _ = w.buf.Write(buf[:])
}

func (w *Writer) WriteU32(x uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], x)
	_, _ = w.buf.Write(buf[:])
}

func (w *Writer) WriteU64(x uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], x)
	_, _ = w.buf.Write(buf[:])
}

// WriteU128 writes the low word first, then the high word.
func (w *Writer) WriteU128(x Uint128) {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], x.Lo)
	binary.LittleEndian.PutUint64(buf[8:], x.Hi)
	_, _ = w.buf.Write(buf[:])
}

// WriteLen writes a collection length prefix.
func (w *Writer) WriteLen(n int) {
	w.WriteU32(uint32(n))
}

// WriteString writes a u32 byte length followed by the raw UTF-8 bytes.
func (w *Writer) WriteString(x string) {
	w.WriteLen(len(x))
	_, _ = w.buf.WriteString(x)
}

// WriteBytes writes a u32 length followed by the raw bytes.
func (w *Writer) WriteBytes(x []byte) {
	w.WriteLen(len(x))
	_, _ = w.buf.Write(x)
}

// WriteU64s writes a u32 element count followed by each element as a u64.
func (w *Writer) WriteU64s(xs []uint64) {
	w.WriteLen(len(xs))
	for _, x := range xs {
		w.WriteU64(x)
	}
}
