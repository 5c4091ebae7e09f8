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

package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/pkg/errors"
)

var (
	ErrUnexpectedEOF  = errors.New("codec: unexpected end of payload")
	ErrInvalidBool    = errors.New("codec: invalid bool or option flag")
	ErrInvalidUTF8    = errors.New("codec: string is not valid utf-8")
	ErrLengthTooLarge = errors.New("codec: length prefix exceeds remaining payload")
	ErrTrailingBytes  = errors.New("codec: trailing bytes after payload")
)

// Reader decodes values written by Writer. Production code only ever encodes;
// Reader exists to inspect payloads and to verify encodings in tests.
type Reader struct {
	buf []byte
	off int
}

func NewReader(payload []byte) *Reader {
	return &Reader{buf: payload}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.off
}

// Finish returns ErrTrailingBytes if anything is left unread.
func (r *Reader) Finish() error {
	if r.Len() != 0 {
		return errors.Wrapf(ErrTrailingBytes, "%d bytes left", r.Len())
	}

	return nil
}

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, ErrUnexpectedEOF
	}

	b := r.buf[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *Reader) ReadVariant() (uint8, error) {
	return r.ReadU8()
}

func (r *Reader) ReadBool() (bool, error) {
	x, err := r.ReadU8()
	if err != nil {
		return false, err
	}

	switch x {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrInvalidBool, "got %d", x)
	}
}

func (r *Reader) ReadOptionFlag() (bool, error) {
	return r.ReadBool()
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadU128() (Uint128, error) {
	b, err := r.next(16)
	if err != nil {
		return Uint128{}, err
	}

	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

func (r *Reader) ReadLen() (int, error) {
	n, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	return int(n), nil
}

func (r *Reader) ReadBytes() ([]byte, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}

	if n > r.Len() {
		return nil, errors.Wrapf(ErrLengthTooLarge, "want %d bytes, have %d", n, r.Len())
	}

	b, err := r.next(n)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b)

	return out, nil
}

func (r *Reader) ReadString() (string, error) {
	b, err := r.ReadBytes()
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}

	return string(b), nil
}

func (r *Reader) ReadU64s() ([]uint64, error) {
	n, err := r.ReadLen()
	if err != nil {
		return nil, err
	}

	if n*8 > r.Len() {
		return nil, errors.Wrapf(ErrLengthTooLarge, "want %d elements, have %d bytes", n, r.Len())
	}

	xs := make([]uint64, n)
	for i := range xs {
		if xs[i], err = r.ReadU64(); err != nil {
			return nil, err
		}
	}

	return xs, nil
}
