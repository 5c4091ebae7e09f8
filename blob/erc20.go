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
)

// ERC20Action variants, in declaration order. The order is part of the wire
// format.
const (
	ERC20TotalSupply uint8 = iota
	ERC20BalanceOf
	ERC20Transfer
	ERC20TransferFrom
	ERC20Approve
	ERC20Allowance
)

// ERC20Action is an action understood by fungible token contracts.
type ERC20Action interface {
	Action
	erc20Action()
}

type (
	TotalSupply struct{}

	BalanceOf struct {
		Account string
	}

	Transfer struct {
		Recipient string
		Amount    codec.Uint128
	}

	TransferFrom struct {
		Sender    string
		Recipient string
		Amount    codec.Uint128
	}

	Approve struct {
		Spender string
		Amount  codec.Uint128
	}

	Allowance struct {
		Owner   string
		Spender string
	}
)

func (TotalSupply) erc20Action()  {}
func (BalanceOf) erc20Action()    {}
func (Transfer) erc20Action()     {}
func (TransferFrom) erc20Action() {}
func (Approve) erc20Action()      {}
func (Allowance) erc20Action()    {}

func (TotalSupply) Variant() (uint8, string)  { return ERC20TotalSupply, "TotalSupply" }
func (BalanceOf) Variant() (uint8, string)    { return ERC20BalanceOf, "BalanceOf" }
func (Transfer) Variant() (uint8, string)     { return ERC20Transfer, "Transfer" }
func (TransferFrom) Variant() (uint8, string) { return ERC20TransferFrom, "TransferFrom" }
func (Approve) Variant() (uint8, string)      { return ERC20Approve, "Approve" }
func (Allowance) Variant() (uint8, string)    { return ERC20Allowance, "Allowance" }

func (a TotalSupply) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(ERC20TotalSupply)
}

func (a BalanceOf) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(ERC20BalanceOf)
	w.WriteString(a.Account)
}

func (a Transfer) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(ERC20Transfer)
	w.WriteString(a.Recipient)
	w.WriteU128(a.Amount)
}

func (a TransferFrom) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(ERC20TransferFrom)
	w.WriteString(a.Sender)
	w.WriteString(a.Recipient)
	w.WriteU128(a.Amount)
}

func (a Approve) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(ERC20Approve)
	w.WriteString(a.Spender)
	w.WriteU128(a.Amount)
}

func (a Allowance) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(ERC20Allowance)
	w.WriteString(a.Owner)
	w.WriteString(a.Spender)
}

func BuildTotalSupplyBlob(token string, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(token, TotalSupply{}, caller, callees)
}

func BuildBalanceOfBlob(token, account string, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(token, BalanceOf{Account: account}, caller, callees)
}

// BuildTransferBlob moves amount of token from the transaction identity to
// recipient.
func BuildTransferBlob(token, recipient string, amount codec.Uint128, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(token, Transfer{Recipient: recipient, Amount: amount}, caller, callees)
}

// BuildTransferFromBlob moves amount of token from sender to recipient using
// an allowance previously granted by sender.
func BuildTransferFromBlob(token, sender, recipient string, amount codec.Uint128, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(token, TransferFrom{Sender: sender, Recipient: recipient, Amount: amount}, caller, callees)
}

// BuildApproveBlob allows spender to move up to amount of token on behalf of
// the transaction identity.
func BuildApproveBlob(token, spender string, amount codec.Uint128, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(token, Approve{Spender: spender, Amount: amount}, caller, callees)
}

func BuildAllowanceBlob(token, owner, spender string, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(token, Allowance{Owner: owner, Spender: spender}, caller, callees)
}
