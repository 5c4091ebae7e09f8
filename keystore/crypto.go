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

package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"io"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	KDFScrypt       = "scrypt"
	CipherSecretbox = "secretbox"

	DefaultScryptN      = 262144
	DefaultScryptR      = 8
	DefaultScryptP      = 1
	DefaultScryptKeyLen = 32
	DefaultSaltLen      = 32
)

var ErrCouldNotOpenCipher = errors.New("keystore: could not open secretbox, wrong password?")

// Crypto holds the cipher text and the parameters needed to re-derive the
// key that sealed it. Params are decoded lazily since they arrive as generic
// JSON objects.
type Crypto struct {
	Cipher       string      `json:"cipher"`
	CipherText   string      `json:"cipherText"`
	CipherParams interface{} `json:"cipherParams"`
	KDF          string      `json:"kdf"`
	KDFParams    interface{} `json:"kdfParams"`
}

type ScryptParams struct {
	N      int    `json:"n" mapstructure:"n"`
	R      int    `json:"r" mapstructure:"r"`
	P      int    `json:"p" mapstructure:"p"`
	KeyLen int    `json:"keyLen" mapstructure:"keyLen"`
	Salt   string `json:"salt" mapstructure:"salt"`
}

type SecretboxParams struct {
	Nonce string `json:"nonce" mapstructure:"nonce"`
}

func DefaultScryptParams() ScryptParams {
	return ScryptParams{
		N:      DefaultScryptN,
		R:      DefaultScryptR,
		P:      DefaultScryptP,
		KeyLen: DefaultScryptKeyLen,
	}
}

func seal(key ed25519.PrivateKey, password string, params ScryptParams) (*Crypto, error) {
	if params.Salt == "" {
		salt := make([]byte, DefaultSaltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return nil, errors.Wrap(err, "keystore: failed to generate salt")
		}

		params.Salt = hex.EncodeToString(salt)
	}

	// secretbox keys are exactly 32 bytes.
	params.KeyLen = 32

	var nonce [24]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, errors.Wrap(err, "keystore: failed to generate nonce")
	}

	c := &Crypto{
		Cipher:       CipherSecretbox,
		CipherParams: SecretboxParams{Nonce: hex.EncodeToString(nonce[:])},
		KDF:          KDFScrypt,
		KDFParams:    params,
	}

	dk, err := c.deriveKey(password)
	if err != nil {
		return nil, err
	}

	c.CipherText = hex.EncodeToString(secretbox.Seal(nil, key, &nonce, &dk))

	return c, nil
}

func (c *Crypto) deriveKey(password string) ([32]byte, error) {
	var dk [32]byte

	if c.KDF != KDFScrypt {
		return dk, errors.Errorf("keystore: unsupported kdf %q", c.KDF)
	}

	var params ScryptParams
	if err := mapstructure.Decode(c.KDFParams, &params); err != nil {
		return dk, errors.Wrap(err, "keystore: invalid scrypt params")
	}

	salt, err := hex.DecodeString(params.Salt)
	if err != nil {
		return dk, errors.Wrap(err, "keystore: invalid scrypt salt")
	}

	if params.KeyLen != len(dk) {
		return dk, errors.Errorf("keystore: scrypt key length must be %d", len(dk))
	}

	key, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.KeyLen)
	if err != nil {
		return dk, errors.Wrap(err, "keystore: scrypt failed")
	}

	copy(dk[:], key)

	return dk, nil
}

func (c *Crypto) open(password string) (ed25519.PrivateKey, error) {
	if c.Cipher != CipherSecretbox {
		return nil, errors.Errorf("keystore: unsupported cipher %q", c.Cipher)
	}

	var params SecretboxParams
	if err := mapstructure.Decode(c.CipherParams, &params); err != nil {
		return nil, errors.Wrap(err, "keystore: invalid secretbox params")
	}

	raw, err := hex.DecodeString(params.Nonce)
	if err != nil || len(raw) != 24 {
		return nil, errors.New("keystore: invalid secretbox nonce")
	}

	var nonce [24]byte
	copy(nonce[:], raw)

	box, err := hex.DecodeString(c.CipherText)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: invalid cipher text")
	}

	dk, err := c.deriveKey(password)
	if err != nil {
		return nil, err
	}

	key, ok := secretbox.Open(nil, box, &nonce, &dk)
	if !ok {
		return nil, ErrCouldNotOpenCipher
	}

	return toPrivateKey(key)
}
