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
	"testing"

	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/codec"
	"github.com/perlin-network/blobtx/conf"
	"github.com/perlin-network/blobtx/keystore"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ed25519"
)

func testBlobs() []blob.Blob {
	return blob.ComposeTransfer("hyllar", "bob.mmid", codec.NewUint128(25))
}

func TestLocalSignsWithIncreasingNonce(t *testing.T) {
	defer conf.Reset()

	key, err := keystore.GenerateKey()
	require.NoError(t, err)

	s := NewLocal(key, 3)
	assert.True(t, strings.HasSuffix(s.Account(), "."+conf.GetIdentityContract()))

	blobs := testBlobs()

	first, err := s.SignBlobs(context.Background(), blobs)
	require.NoError(t, err)
	assert.EqualValues(t, 3, first.Nonce)
	assert.Equal(t, s.Account(), first.Account)
	assert.True(t, Verify(first, blobs))

	second, err := s.SignBlobs(context.Background(), blobs)
	require.NoError(t, err)
	assert.EqualValues(t, 4, second.Nonce)
	assert.NotEqual(t, first.Signature, second.Signature)
	assert.EqualValues(t, 5, s.Nonce())

	// Tampering with the nonce or the blobs invalidates the signature.
	second.Nonce = 9
	assert.False(t, Verify(second, blobs))
	assert.False(t, Verify(first, blob.ComposeTransfer("hyllar", "bob.mmid", codec.NewUint128(26))))
}

func TestLocalAccountFollowsIdentityContract(t *testing.T) {
	defer conf.Reset()

	conf.Update(conf.WithIdentityContract("hydentity"))

	key, err := keystore.GenerateKey()
	require.NoError(t, err)

	s := NewLocal(key, 0)
	assert.True(t, strings.HasSuffix(s.Account(), ".hydentity"))

	pub, err := AccountPublicKey(s.Account())
	require.NoError(t, err)
	assert.Equal(t, s.PublicKey(), pub)
}

func TestLocalRespectsCancellation(t *testing.T) {
	key, err := keystore.GenerateKey()
	require.NoError(t, err)

	s := NewLocal(key, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Sign(ctx, s, testBlobs())
	assert.True(t, errors.Is(err, ErrSigningFailed))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.EqualValues(t, 0, s.Nonce())
}

func TestSignRejectsEmptySignature(t *testing.T) {
	empty := Func(func(context.Context, []blob.Blob) (Signature, error) {
		return Signature{Account: "alice.mmid"}, nil
	})

	_, err := Sign(context.Background(), empty, testBlobs())
	assert.True(t, errors.Is(err, ErrSigningFailed))

	_, err = Sign(context.Background(), nil, testBlobs())
	assert.True(t, errors.Is(err, ErrSigningFailed))

	boom := errors.New("wallet closed")
	failing := Func(func(context.Context, []blob.Blob) (Signature, error) {
		return Signature{}, boom
	})

	_, err = Sign(context.Background(), failing, testBlobs())
	assert.True(t, errors.Is(err, ErrSigningFailed))
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, boom, errors.Cause(err))
}

func TestMessageLayout(t *testing.T) {
	msg := Message(7, []blob.Blob{{ContractName: "hyllar", Data: []byte{1, 2}}})
	assert.Equal(t, `{"nonce":7,"blobs":[{"contract_name":"hyllar","data":[1,2]}]}`, string(msg))

	assert.Equal(t, `{"nonce":0,"blobs":[]}`, string(Message(0, nil)))
}

func TestAccountPublicKeyRejectsGarbage(t *testing.T) {
	_, err := AccountPublicKey("alice.mmid")
	assert.Error(t, err)

	_, err = AccountPublicKey("abcd.mmid")
	assert.Error(t, err)

	_, err = AccountPublicKey(".mmid")
	assert.Error(t, err)
}

func TestAccountPublicKeySuffix(t *testing.T) {
	key, err := keystore.GenerateKey()
	require.NoError(t, err)

	pub := key.Public().(ed25519.PublicKey)
	encoded := hex.EncodeToString(pub)

	for _, account := range []string{encoded, encoded + ".mmid", encoded + ".mmid.extra"} {
		got, err := AccountPublicKey(account)
		require.NoError(t, err, account)
		assert.Equal(t, pub, got, account)
	}
}
