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

// Package keystore reads and writes the ed25519 key files used by the local
// blob signer. Keys are stored either in plain text or sealed with secretbox
// under a scrypt-derived key.
package keystore

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ed25519"
)

// Version identifies the key file format.
const Version = 1

var (
	ErrPasswordRequired = errors.New("keystore: key file is encrypted, a password is required")
	ErrInvalidKey       = errors.New("keystore: invalid private key")
)

// KeyFile is the JSON layout of a key file. Exactly one of Key or Crypto is
// set.
type KeyFile struct {
	Account     string    `json:"account"`
	Version     int       `json:"version"`
	TimeCreated time.Time `json:"created"`

	Key    string  `json:"key,omitempty"`
	Crypto *Crypto `json:"crypto,omitempty"`
}

// GenerateKey creates a fresh ed25519 private key.
func GenerateKey() (ed25519.PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "keystore: failed to generate key")
	}

	return key, nil
}

// NewPlainTextKey stores key unencrypted.
func NewPlainTextKey(key ed25519.PrivateKey) *KeyFile {
	return &KeyFile{
		Account:     accountOf(key),
		Version:     Version,
		TimeCreated: time.Now(),
		Key:         hex.EncodeToString(key),
	}
}

// NewEncryptedKey seals key under password using the default scrypt
// parameters.
func NewEncryptedKey(key ed25519.PrivateKey, password string) (*KeyFile, error) {
	return NewEncryptedKeyWithParams(key, password, DefaultScryptParams())
}

func NewEncryptedKeyWithParams(key ed25519.PrivateKey, password string, params ScryptParams) (*KeyFile, error) {
	c, err := seal(key, password, params)
	if err != nil {
		return nil, err
	}

	return &KeyFile{
		Account:     accountOf(key),
		Version:     Version,
		TimeCreated: time.Now(),
		Crypto:      c,
	}, nil
}

func (k *KeyFile) Encrypted() bool {
	return k.Crypto != nil
}

// PrivateKey extracts the private key. password is ignored for plain text
// files.
func (k *KeyFile) PrivateKey(password string) (ed25519.PrivateKey, error) {
	if k.Crypto != nil {
		if password == "" {
			return nil, ErrPasswordRequired
		}

		return k.Crypto.open(password)
	}

	raw, err := hex.DecodeString(k.Key)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidKey, err.Error())
	}

	return toPrivateKey(raw)
}

// Write stores the key file as indented JSON, readable only by its owner.
func (k *KeyFile) Write(path string) error {
	raw, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return errors.Wrap(err, "keystore: failed to marshal key file")
	}

	if err := ioutil.WriteFile(path, raw, 0600); err != nil {
		return errors.Wrapf(err, "keystore: failed to write %q", path)
	}

	return nil
}

func Read(path string) (*KeyFile, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "keystore: failed to read %q", path)
	}

	var k KeyFile
	if err := json.Unmarshal(raw, &k); err != nil {
		return nil, errors.Wrapf(err, "keystore: failed to parse %q", path)
	}

	if k.Version != Version {
		return nil, errors.Errorf("keystore: unsupported key file version %d", k.Version)
	}

	return &k, nil
}

// Load reads the key file at path and extracts its private key.
func Load(path, password string) (ed25519.PrivateKey, error) {
	k, err := Read(path)
	if err != nil {
		return nil, err
	}

	return k.PrivateKey(password)
}

func accountOf(key ed25519.PrivateKey) string {
	return hex.EncodeToString(key.Public().(ed25519.PublicKey))
}

func toPrivateKey(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	}

	return nil, errors.Wrapf(ErrInvalidKey, "unexpected key length %d", len(raw))
}
