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

// Package signer produces the identity proof attached to every blob
// transaction.
package signer

import (
	"context"

	"github.com/perlin-network/blobtx/blob"
	"github.com/pkg/errors"
)

var ErrSigningFailed = errors.New("signer: signing failed")

// Signature proves that Account authorized a set of blobs. Nonce is consumed
// by the identity contract and must never repeat for an account.
type Signature struct {
	Signature string
	Account   string
	Nonce     uint32
}

func (s Signature) Empty() bool {
	return s.Signature == "" || s.Account == ""
}

type Signer interface {
	SignBlobs(ctx context.Context, blobs []blob.Blob) (Signature, error)
}

// Func adapts a plain function to the Signer interface.
type Func func(ctx context.Context, blobs []blob.Blob) (Signature, error)

func (f Func) SignBlobs(ctx context.Context, blobs []blob.Blob) (Signature, error) {
	return f(ctx, blobs)
}

// Sign asks s to sign blobs. Any failure, including an empty signature, is
// reported as an error matching ErrSigningFailed.
func Sign(ctx context.Context, s Signer, blobs []blob.Blob) (Signature, error) {
	if s == nil {
		return Signature{}, errors.Wrap(ErrSigningFailed, "no signer configured")
	}

	sig, err := s.SignBlobs(ctx, blobs)
	if err != nil {
		return Signature{}, &signingError{cause: err}
	}

	if sig.Empty() {
		return Signature{}, errors.Wrap(ErrSigningFailed, "signer returned an empty signature")
	}

	return sig, nil
}

type signingError struct {
	cause error
}

func (e *signingError) Error() string {
	return ErrSigningFailed.Error() + ": " + e.cause.Error()
}

func (e *signingError) Cause() error {
	return e.cause
}

func (e *signingError) Unwrap() error {
	return e.cause
}

func (e *signingError) Is(target error) bool {
	return target == ErrSigningFailed
}
