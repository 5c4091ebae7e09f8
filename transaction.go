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

// Package blobtx assembles signed blob transactions and follows them to
// settlement.
package blobtx

import (
	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/signer"
)

// FirstBlobIndex is the index of the first caller blob in a transaction
// built by NewBlobTransaction. Index 0 holds the identity proof.
const FirstBlobIndex blob.BlobIndex = 1

// NewBlobTransaction places a VerifyIdentity blob carrying sig at index 0,
// followed by blobs in order. blobs is copied.
func NewBlobTransaction(identity string, sig signer.Signature, blobs ...blob.Blob) blob.BlobTransaction {
	all := make([]blob.Blob, 0, len(blobs)+1)
	all = append(all, blob.BuildVerifyIdentityBlob(sig.Nonce, sig.Signature, nil, nil))
	all = append(all, blobs...)

	return blob.BlobTransaction{
		Identity: identity,
		Blobs:    all,
	}
}
