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

// IdentityAction variants, in declaration order.
const (
	IdentityRegister uint8 = iota
	IdentityVerify
)

// IdentityAction is an action understood by the identity contract.
type IdentityAction interface {
	Action
	identityAction()
}

type (
	RegisterIdentity struct {
		Signature string
	}

	VerifyIdentity struct {
		Nonce     uint32
		Signature string
	}
)

func (RegisterIdentity) identityAction() {}
func (VerifyIdentity) identityAction()   {}

func (RegisterIdentity) Variant() (uint8, string) { return IdentityRegister, "RegisterIdentity" }
func (VerifyIdentity) Variant() (uint8, string)   { return IdentityVerify, "VerifyIdentity" }

func (a RegisterIdentity) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(IdentityRegister)
	w.WriteString(a.Signature)
}

func (a VerifyIdentity) MarshalBorsh(w *codec.Writer) {
	w.WriteVariant(IdentityVerify)
	w.WriteU32(a.Nonce)
	w.WriteString(a.Signature)
}

func BuildRegisterIdentityBlob(signature string, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(conf.GetIdentityContract(), RegisterIdentity{Signature: signature}, caller, callees)
}

// BuildVerifyIdentityBlob proves the transaction identity owns the signing
// key. It is always placed first in a transaction. caller and callees only
// apply when the identity contract uses the structured layout.
func BuildVerifyIdentityBlob(nonce uint32, signature string, caller *BlobIndex, callees []BlobIndex) Blob {
	return build(conf.GetIdentityContract(), VerifyIdentity{Nonce: nonce, Signature: signature}, caller, callees)
}
