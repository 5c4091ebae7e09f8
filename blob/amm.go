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
	"github.com/perlin-network/blobtx/codec"
	"github.com/perlin-network/blobtx/conf"
)

// AmmAction variants, in declaration order.
const (
	AmmSwap uint8 = iota
	AmmNewPair
)

// AmmAction is an action understood by the automated market maker contract.
type AmmAction interface {
	Action
	ammAction()
}

// TokenPair is encoded as a (string, string) tuple. The first token is the
// one given away in a swap.
type TokenPair struct {
	A, B string
}

func (p TokenPair) MarshalBorsh(w *codec.Writer) {
	w.WriteString(p.A)
	w.WriteString(p.B)
}

// TokenPairAmount is encoded as a (u128, u128) tuple.
type TokenPairAmount struct {
	A, B codec.Uint128
}

func (p TokenPairAmount) MarshalBorsh(w *codec.Writer) {
	w.WriteU128(p.A)
	w.WriteU128(p.B)
}

type (
	Swap struct {
		Pair    TokenPair
		Amounts TokenPairAmount
	}

	NewPair struct {
		Pair    TokenPair
		Amounts TokenPairAmount
	}
)

func (Swap) ammAction()    {}
func (NewPair) ammAction() {}

func (Swap) Variant() (uint8, string)    { return AmmSwap, "Swap" }
func (NewPair) Variant() (uint8, string) { return AmmNewPair, "NewPair" }

func (a Swap) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(AmmSwap)
	a.Pair.MarshalBorsh(w)
	a.Amounts.MarshalBorsh(w)
}

func (a NewPair) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(AmmNewPair)
	a.Pair.MarshalBorsh(w)
	a.Amounts.MarshalBorsh(w)
}

// BuildSwapBlob swaps amountA of tokenA for amountB of tokenB. callees should
// reference the two token blobs the swap settles through.
func BuildSwapBlob(tokenA, tokenB string, amountA, amountB codec.Uint128, caller *BlobIndex, callees []BlobIndex) Blob {
	action := Swap{
		Pair:    TokenPair{A: tokenA, B: tokenB},
		Amounts: TokenPairAmount{A: amountA, B: amountB},
	}

	return build(conf.GetAmmContract(), action, caller, callees)
}

// BuildNewPairBlob creates a liquidity pair seeded with the given amounts.
func BuildNewPairBlob(tokenA, tokenB string, amountA, amountB codec.Uint128, caller *BlobIndex, callees []BlobIndex) Blob {
	action := NewPair{
		Pair:    TokenPair{A: tokenA, B: tokenB},
		Amounts: TokenPairAmount{A: amountA, B: amountB},
	}

	return build(conf.GetAmmContract(), action, caller, callees)
}
