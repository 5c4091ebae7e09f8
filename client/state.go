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

package client

import (
	"github.com/perlin-network/blobtx/codec"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

type Allowance struct {
	Owner   string
	Spender string
	Amount  codec.Uint128
}

// ContractState is the indexed state of a token contract.
type ContractState struct {
	TotalSupply codec.Uint128
	Balances    map[string]codec.Uint128
	Allowances  []Allowance
}

// Balance returns the balance of account, zero if it holds nothing.
func (s *ContractState) Balance(account string) codec.Uint128 {
	return s.Balances[account]
}

func (s *ContractState) Allowance(owner, spender string) codec.Uint128 {
	for _, a := range s.Allowances {
		if a.Owner == owner && a.Spender == spender {
			return a.Amount
		}
	}

	return codec.Uint128{}
}

func (s *ContractState) Clone() *ContractState {
	c := &ContractState{
		TotalSupply: s.TotalSupply,
		Balances:    make(map[string]codec.Uint128, len(s.Balances)),
		Allowances:  append([]Allowance(nil), s.Allowances...),
	}

	for k, v := range s.Balances {
		c.Balances[k] = v
	}

	return c
}

// ParseContractState decodes {"total_supply": n, "balances": {...},
// "allowances": [...]}. Allowance entries are pairs of an amount and an
// [owner, spender] list, in either order.
func ParseContractState(v *fastjson.Value) (*ContractState, error) {
	if v.Type() != fastjson.TypeObject {
		return nil, errors.New("contract state must be an object")
	}

	state := &ContractState{Balances: make(map[string]codec.Uint128)}

	if total := v.Get("total_supply"); total != nil {
		amount, err := parseAmount(total)
		if err != nil {
			return nil, errors.Wrap(err, "invalid total_supply")
		}

		state.TotalSupply = amount
	}

	if balances := v.Get("balances"); balances != nil && balances.Type() != fastjson.TypeNull {
		o, err := balances.Object()
		if err != nil {
			return nil, errors.Wrap(err, "invalid balances")
		}

		o.Visit(func(key []byte, item *fastjson.Value) {
			if err != nil {
				return
			}

			var amount codec.Uint128
			if amount, err = parseAmount(item); err != nil {
				err = errors.Wrapf(err, "invalid balance for %q", key)
				return
			}

			state.Balances[string(key)] = amount
		})

		if err != nil {
			return nil, err
		}
	}

	if allowances := v.Get("allowances"); allowances != nil && allowances.Type() != fastjson.TypeNull {
		items, err := allowances.Array()
		if err != nil {
			return nil, errors.Wrap(err, "invalid allowances")
		}

		for i, item := range items {
			a, err := parseAllowance(item)
			if err != nil {
				return nil, errors.Wrapf(err, "allowance %d", i)
			}

			state.Allowances = append(state.Allowances, a)
		}
	}

	return state, nil
}

func parseAllowance(v *fastjson.Value) (Allowance, error) {
	var a Allowance

	pair, err := v.Array()
	if err != nil || len(pair) != 2 {
		return a, errors.New("allowance must be a two element array")
	}

	amount, parties := pair[0], pair[1]
	if amount.Type() == fastjson.TypeArray {
		amount, parties = parties, amount
	}

	if a.Amount, err = parseAmount(amount); err != nil {
		return a, err
	}

	names, err := parties.Array()
	if err != nil || len(names) != 2 {
		return a, errors.New("allowance parties must be [owner, spender]")
	}

	owner, err := names[0].StringBytes()
	if err != nil {
		return a, errors.Wrap(err, "invalid owner")
	}

	spender, err := names[1].StringBytes()
	if err != nil {
		return a, errors.Wrap(err, "invalid spender")
	}

	a.Owner, a.Spender = string(owner), string(spender)

	return a, nil
}

// parseAmount accepts a JSON integer of any size or a decimal string.
func parseAmount(v *fastjson.Value) (codec.Uint128, error) {
	switch v.Type() {
	case fastjson.TypeNumber:
		return codec.ParseUint128(string(v.MarshalTo(nil)))
	case fastjson.TypeString:
		return codec.ParseUint128(string(v.GetStringBytes()))
	}

	return codec.Uint128{}, errors.Errorf("expected an amount, got %s", v.Type())
}
