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

package signer

import (
	"context"
	"encoding/hex"
	"strings"
	"sync/atomic"

	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/conf"
	"github.com/perlin-network/blobtx/keystore"
	"github.com/perlin-network/blobtx/log"
	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
	"golang.org/x/crypto/ed25519"
)

var arenas fastjson.ArenaPool

// Local signs with an ed25519 key held in memory. Its account is the hex
// encoded public key qualified by the identity contract name.
type Local struct {
	key     ed25519.PrivateKey
	account string

	nonce uint32
}

// NewLocal creates a signer whose first signature carries nonce.
func NewLocal(key ed25519.PrivateKey, nonce uint32) *Local {
	pub := key.Public().(ed25519.PublicKey)

	return &Local{
		key:     key,
		account: hex.EncodeToString(pub) + "." + conf.GetIdentityContract(),
		nonce:   nonce,
	}
}

// LoadLocal reads a key file written by the keystore package.
func LoadLocal(path, password string, nonce uint32) (*Local, error) {
	key, err := keystore.Load(path, password)
	if err != nil {
		return nil, err
	}

	return NewLocal(key, nonce), nil
}

func (l *Local) Account() string {
	return l.account
}

func (l *Local) PublicKey() ed25519.PublicKey {
	return l.key.Public().(ed25519.PublicKey)
}

// Nonce returns the nonce the next signature will carry.
func (l *Local) Nonce() uint32 {
	return atomic.LoadUint32(&l.nonce)
}

func (l *Local) SignBlobs(ctx context.Context, blobs []blob.Blob) (Signature, error) {
	if err := ctx.Err(); err != nil {
		return Signature{}, errors.Wrap(err, "signing cancelled")
	}

	nonce := atomic.AddUint32(&l.nonce, 1) - 1
	sig := ed25519.Sign(l.key, Message(nonce, blobs))

	logger := log.Signer()
	logger.Debug().
		Str("account", l.account).
		Uint32("nonce", nonce).
		Int("num_blobs", len(blobs)).
		Msg("Signed blobs.")

	return Signature{
		Signature: hex.EncodeToString(sig),
		Account:   l.account,
		Nonce:     nonce,
	}, nil
}

// Message is the byte string signed for a set of blobs:
// {"nonce":<nonce>,"blobs":[...]}.
func Message(nonce uint32, blobs []blob.Blob) []byte {
	arena := arenas.Get()
	defer arenas.Put(arena)

	arena.Reset()

	o := arena.NewObject()
	o.Set("nonce", arena.NewNumberInt(int(nonce)))
	o.Set("blobs", blob.MarshalBlobs(arena, blobs))

	return o.MarshalTo(nil)
}

// Verify checks sig against the public key embedded in its account.
func Verify(sig Signature, blobs []blob.Blob) bool {
	pub, err := AccountPublicKey(sig.Account)
	if err != nil {
		return false
	}

	raw, err := hex.DecodeString(sig.Signature)
	if err != nil || len(raw) != ed25519.SignatureSize {
		return false
	}

	return ed25519.Verify(pub, Message(sig.Nonce, blobs), raw)
}

// AccountPublicKey extracts the public key from an account of the form
// <hex public key>.<identity contract>.
func AccountPublicKey(account string) (ed25519.PublicKey, error) {
	name := account
	if i := strings.IndexByte(account, '.'); i >= 0 {
		name = account[:i]
	}

	raw, err := hex.DecodeString(name)
	if err != nil {
		return nil, errors.Wrapf(err, "account %q does not carry a hex public key", account)
	}

	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.Errorf("account %q has a public key of %d bytes", account, len(raw))
	}

	return ed25519.PublicKey(raw), nil
}
