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

// SwapParams describes a swap of AmountA of TokenA for AmountB of TokenB on
// behalf of Account.
type SwapParams struct {
	Account string

	TokenA  string
	TokenB  string
	AmountA codec.Uint128
	AmountB codec.Uint128
}

// ComposeSwap returns the four blobs of a swap, in order:
//
//	first+0: Approve the AMM to spend AmountA of TokenA
//	first+1: Swap, allowed to call first+2 and first+3
//	first+2: TransferFrom Account to the AMM on TokenA, called by first+1
//	first+3: Transfer AmountB of TokenB to Account, called by first+1
//
// first is the index the approve blob will have in the final transaction; it
// is 1 when the identity verification blob sits at index 0.
func ComposeSwap(p SwapParams, first BlobIndex) []Blob {
	amm := conf.GetAmmContract()
	swap := first + 1

	return []Blob{
		BuildApproveBlob(p.TokenA, amm, p.AmountA, nil, nil),
		BuildSwapBlob(p.TokenA, p.TokenB, p.AmountA, p.AmountB, nil, []BlobIndex{swap + 1, swap + 2}),
		BuildTransferFromBlob(p.TokenA, p.Account, amm, p.AmountA, Ref(swap), nil),
		BuildTransferBlob(p.TokenB, p.Account, p.AmountB, Ref(swap), nil),
	}
}

func ComposeTransfer(token, recipient string, amount codec.Uint128) []Blob {
	return []Blob{BuildTransferBlob(token, recipient, amount, nil, nil)}
}

func ComposeApprove(token, spender string, amount codec.Uint128) []Blob {
	return []Blob{BuildApproveBlob(token, spender, amount, nil, nil)}
}

func ComposeNewPair(tokenA, tokenB string, amountA, amountB codec.Uint128) []Blob {
	return []Blob{BuildNewPairBlob(tokenA, tokenB, amountA, amountB, nil, nil)}
}
