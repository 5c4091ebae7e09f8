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
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

var ErrUint128Overflow = errors.New("codec: value does not fit in 128 bits")

// Uint128 is an unsigned 128-bit integer, used for token amounts.
type Uint128 struct {
	Hi, Lo uint64
}

func NewUint128(x uint64) Uint128 {
	return Uint128{Lo: x}
}

// ParseUint128 parses a base-10 string.
func ParseUint128(s string) (Uint128, error) {
	x, err := uint256.FromDecimal(s)
	if err != nil {
		return Uint128{}, errors.Wrapf(err, "codec: invalid amount %q", s)
	}

	if x.BitLen() > 128 {
		return Uint128{}, errors.Wrapf(ErrUint128Overflow, "amount %q", s)
	}

	return Uint128{Hi: x[1], Lo: x[0]}, nil
}

// Uint128FromBig converts a non-negative big integer.
func Uint128FromBig(b *big.Int) (Uint128, error) {
	x, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 || x.BitLen() > 128 {
		return Uint128{}, errors.Wrapf(ErrUint128Overflow, "amount %s", b)
	}

	return Uint128{Hi: x[1], Lo: x[0]}, nil
}

func (u Uint128) u256() *uint256.Int {
	return &uint256.Int{u.Lo, u.Hi, 0, 0}
}

func (u Uint128) IsZero() bool {
	return u.Hi == 0 && u.Lo == 0
}

// Cmp returns -1, 0 or +1.
func (u Uint128) Cmp(o Uint128) int {
	return u.u256().Cmp(o.u256())
}

func (u Uint128) Big() *big.Int {
	return u.u256().ToBig()
}

func (u Uint128) String() string {
	return u.u256().Dec()
}

func (u Uint128) MarshalBorsh(w *Writer) {
	w.WriteU128(u)
}

// MarshalText lets amounts appear as decimal strings in JSON and logs.
func (u Uint128) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

func (u *Uint128) UnmarshalText(text []byte) error {
	x, err := ParseUint128(string(text))
	if err != nil {
		return err
	}

	*u = x
	return nil
}
