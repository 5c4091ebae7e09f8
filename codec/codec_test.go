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
	"testing"
	"testing/quick"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterLayout(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	defer w.Release()

	w.WriteVariant(2)
	w.WriteString("ab")
	w.WriteU32(7)
	w.WriteOptionFlag(false)
	w.WriteOptionFlag(true)
	w.WriteU64(1)
	w.WriteU128(Uint128{Hi: 1, Lo: 2})

	expected := []byte{
		2,
		2, 0, 0, 0, 'a', 'b',
		7, 0, 0, 0,
		0,
		1,
		1, 0, 0, 0, 0, 0, 0, 0,
		2, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0,
	}

	assert.Equal(t, expected, w.Bytes())
	assert.Equal(t, len(expected), w.Len())
}

func TestWriterU64s(t *testing.T) {
	t.Parallel()

	w := NewWriter()
	defer w.Release()

	w.WriteU64s([]uint64{3, 4})

	assert.Equal(t, []byte{
		2, 0, 0, 0,
		3, 0, 0, 0, 0, 0, 0, 0,
		4, 0, 0, 0, 0, 0, 0, 0,
	}, w.Bytes())
}

func TestEncodeReturnsIndependentSlice(t *testing.T) {
	t.Parallel()

	a := Encode(NewUint128(1))
	b := Encode(NewUint128(2))

	assert.Equal(t, byte(1), a[0])
	assert.Equal(t, byte(2), b[0])
}

func TestReaderRoundTrip(t *testing.T) {
	t.Parallel()

	f := func(s string, b []byte, x32 uint32, x64 uint64, hi, lo uint64, flag bool, xs []uint64) bool {
		w := NewWriter()
		defer w.Release()

		w.WriteString(s)
		w.WriteBytes(b)
		w.WriteU32(x32)
		w.WriteU64(x64)
		w.WriteU128(Uint128{Hi: hi, Lo: lo})
		w.WriteBool(flag)
		w.WriteU64s(xs)

		r := NewReader(w.Bytes())

		gotS, err := r.ReadString()
		if err != nil {
			// quick generates arbitrary strings which may not be valid UTF-8.
			return err == ErrInvalidUTF8
		}

		gotB, err := r.ReadBytes()
		if err != nil {
			return false
		}

		got32, _ := r.ReadU32()
		got64, _ := r.ReadU64()
		got128, _ := r.ReadU128()
		gotFlag, _ := r.ReadBool()
		gotXs, err := r.ReadU64s()
		if err != nil {
			return false
		}

		if len(b) == 0 && len(gotB) == 0 {
			gotB = b
		}
		if len(xs) == 0 && len(gotXs) == 0 {
			gotXs = xs
		}

		return r.Finish() == nil &&
			gotS == s &&
			assert.ObjectsAreEqual(b, gotB) &&
			got32 == x32 && got64 == x64 &&
			got128 == (Uint128{Hi: hi, Lo: lo}) &&
			gotFlag == flag &&
			assert.ObjectsAreEqual(xs, gotXs)
	}

	assert.NoError(t, quick.Check(f, nil))
}

func TestReaderErrors(t *testing.T) {
	t.Parallel()

	_, err := NewReader([]byte{1, 2}).ReadU32()
	assert.Equal(t, ErrUnexpectedEOF, err)

	_, err = NewReader([]byte{2}).ReadBool()
	assert.True(t, errors.Is(err, ErrInvalidBool))

	_, err = NewReader([]byte{9, 0, 0, 0, 'a'}).ReadString()
	assert.True(t, errors.Is(err, ErrLengthTooLarge))

	_, err = NewReader([]byte{2, 0, 0, 0, 0xff, 0xfe}).ReadString()
	assert.Equal(t, ErrInvalidUTF8, err)

	r := NewReader([]byte{1, 2})
	_, _ = r.ReadU8()
	assert.True(t, errors.Is(r.Finish(), ErrTrailingBytes))
}

func TestUint128(t *testing.T) {
	t.Parallel()

	max := "340282366920938463463374607431768211455"

	x, err := ParseUint128(max)
	require.NoError(t, err)
	assert.Equal(t, Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}, x)
	assert.Equal(t, max, x.String())

	_, err = ParseUint128("340282366920938463463374607431768211456")
	assert.True(t, errors.Is(err, ErrUint128Overflow))

	_, err = ParseUint128("-1")
	assert.Error(t, err)

	_, err = ParseUint128("ten")
	assert.Error(t, err)

	y, err := ParseUint128("18446744073709551616")
	require.NoError(t, err)
	assert.Equal(t, Uint128{Hi: 1}, y)
	assert.Equal(t, 1, y.Cmp(NewUint128(^uint64(0))))
	assert.Equal(t, 0, y.Cmp(y))
	assert.True(t, Uint128{}.IsZero())

	b, ok := new(big.Int).SetString("18446744073709551616", 10)
	require.True(t, ok)
	assert.Equal(t, 0, y.Big().Cmp(b))

	z, err := Uint128FromBig(b)
	require.NoError(t, err)
	assert.Equal(t, y, z)

	_, err = Uint128FromBig(big.NewInt(-5))
	assert.Error(t, err)

	text, err := y.MarshalText()
	require.NoError(t, err)

	var back Uint128
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, y, back)
}
