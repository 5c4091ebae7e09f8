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
	"github.com/pkg/errors"
)

var ErrUnknownVariant = errors.New("blob: unknown action variant")

// Decode reverses the encoding a builder applied to b, using the contract's
// configured family and wrapping convention. Bare actions come back with a nil
// Caller and nil Callees.
func Decode(b Blob) (StructuredBlobData, error) {
	var decode func(*codec.Reader) (Action, error)

	switch b.ContractName {
	case conf.GetIdentityContract():
		decode = func(r *codec.Reader) (Action, error) { return DecodeIdentityAction(r) }
	case conf.GetAmmContract():
		decode = func(r *codec.Reader) (Action, error) { return DecodeAmmAction(r) }
	default:
		decode = func(r *codec.Reader) (Action, error) { return DecodeERC20Action(r) }
	}

	r := codec.NewReader(b.Data)

	var (
		data StructuredBlobData
		err  error
	)

	if conf.IsStructured(b.ContractName) {
		data, err = DecodeStructured(r, decode)
	} else {
		data.Parameters, err = decode(r)
	}

	if err != nil {
		return data, errors.Wrapf(err, "blob: failed to decode blob for contract %q", b.ContractName)
	}

	return data, r.Finish()
}

func DecodeStructured(r *codec.Reader, decode func(*codec.Reader) (Action, error)) (StructuredBlobData, error) {
	var data StructuredBlobData

	present, err := r.ReadOptionFlag()
	if err != nil {
		return data, errors.Wrap(err, "failed to decode caller flag")
	}

	if present {
		caller, err := r.ReadU64()
		if err != nil {
			return data, errors.Wrap(err, "failed to decode caller")
		}

		data.Caller = Ref(BlobIndex(caller))
	}

	if present, err = r.ReadOptionFlag(); err != nil {
		return data, errors.Wrap(err, "failed to decode callees flag")
	}

	if present {
		callees, err := r.ReadU64s()
		if err != nil {
			return data, errors.Wrap(err, "failed to decode callees")
		}

		data.Callees = make([]BlobIndex, len(callees))
		for i := range callees {
			data.Callees[i] = BlobIndex(callees[i])
		}
	}

	if data.Parameters, err = decode(r); err != nil {
		return data, err
	}

	return data, nil
}

func DecodeERC20Action(r *codec.Reader) (ERC20Action, error) {
	variant, err := r.ReadVariant()
	if err != nil {
		return nil, err
	}

	switch variant {
	case ERC20TotalSupply:
		return TotalSupply{}, nil
	case ERC20BalanceOf:
		var a BalanceOf
		a.Account, err = r.ReadString()
		return a, err
	case ERC20Transfer:
		var a Transfer
		if a.Recipient, err = r.ReadString(); err != nil {
			return nil, err
		}
		a.Amount, err = r.ReadU128()
		return a, err
	case ERC20TransferFrom:
		var a TransferFrom
		if a.Sender, err = r.ReadString(); err != nil {
			return nil, err
		}
		if a.Recipient, err = r.ReadString(); err != nil {
			return nil, err
		}
		a.Amount, err = r.ReadU128()
		return a, err
	case ERC20Approve:
		var a Approve
		if a.Spender, err = r.ReadString(); err != nil {
			return nil, err
		}
		a.Amount, err = r.ReadU128()
		return a, err
	case ERC20Allowance:
		var a Allowance
		if a.Owner, err = r.ReadString(); err != nil {
			return nil, err
		}
		a.Spender, err = r.ReadString()
		return a, err
	}

	return nil, errors.Wrapf(ErrUnknownVariant, "erc20 variant %d", variant)
}

func DecodeAmmAction(r *codec.Reader) (AmmAction, error) {
	variant, err := r.ReadVariant()
	if err != nil {
		return nil, err
	}

	if variant != AmmSwap && variant != AmmNewPair {
		return nil, errors.Wrapf(ErrUnknownVariant, "amm variant %d", variant)
	}

	var (
		pair    TokenPair
		amounts TokenPairAmount
	)

	if pair.A, err = r.ReadString(); err != nil {
		return nil, err
	}
	if pair.B, err = r.ReadString(); err != nil {
		return nil, err
	}
	if amounts.A, err = r.ReadU128(); err != nil {
		return nil, err
	}
	if amounts.B, err = r.ReadU128(); err != nil {
		return nil, err
	}

	if variant == AmmSwap {
		return Swap{Pair: pair, Amounts: amounts}, nil
	}

	return NewPair{Pair: pair, Amounts: amounts}, nil
}

func DecodeIdentityAction(r *codec.Reader) (IdentityAction, error) {
	variant, err := r.ReadVariant()
	if err != nil {
		return nil, err
	}

	switch variant {
	case IdentityRegister:
		var a RegisterIdentity
		a.Signature, err = r.ReadString()
		return a, err
	case IdentityVerify:
		var a VerifyIdentity
		if a.Nonce, err = r.ReadU32(); err != nil {
			return nil, err
		}
		a.Signature, err = r.ReadString()
		return a, err
	}

	return nil, errors.Wrapf(ErrUnknownVariant, "identity variant %d", variant)
}
