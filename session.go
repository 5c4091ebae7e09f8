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

package blobtx

import (
	"context"
	"sync"
	"time"

	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/client"
	"github.com/perlin-network/blobtx/codec"
	"github.com/perlin-network/blobtx/log"
	"github.com/perlin-network/blobtx/signer"
	"github.com/perlin-network/blobtx/tracker"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var ErrNoAccount = errors.New("blobtx: no account to swap from")

// Node is the subset of client.Client a Session needs.
type Node interface {
	tracker.EventSource

	SendBlobTx(ctx context.Context, tx blob.BlobTransaction) (client.TxHash, error)
	GetPairedAmount(ctx context.Context, tokenA, tokenB string, amount codec.Uint128) (codec.Uint128, error)
}

// Session ties a node, a signer and the instrumentation used to submit and
// follow transactions on behalf of one identity.
type Session struct {
	Node    Node
	Signer  signer.Signer
	Metrics *Metrics
	Logger  zerolog.Logger

	// PollInterval overrides conf.GetPollInterval when non-zero.
	PollInterval time.Duration

	mu        sync.Mutex
	submitted map[client.TxHash]time.Time
}

func NewSession(node Node, s signer.Signer) *Session {
	return &Session{
		Node:      node,
		Signer:    s,
		Logger:    log.TX("session"),
		submitted: make(map[client.TxHash]time.Time),
	}
}

// Submit signs blobs, prepends the identity proof and sends the transaction.
// Nothing is sent if signing fails.
func (s *Session) Submit(ctx context.Context, blobs ...blob.Blob) (client.TxHash, error) {
	sig, err := signer.Sign(ctx, s.Signer, blobs)
	if err != nil {
		return "", err
	}

	return s.send(ctx, NewBlobTransaction(sig.Account, sig, blobs...))
}

// Register submits a RegisterIdentity blob for the signer's account. The
// signature covers an empty blob list at the signer's next nonce.
func (s *Session) Register(ctx context.Context) (client.TxHash, error) {
	sig, err := signer.Sign(ctx, s.Signer, nil)
	if err != nil {
		return "", err
	}

	return s.send(ctx, blob.BlobTransaction{
		Identity: sig.Account,
		Blobs:    []blob.Blob{blob.BuildRegisterIdentityBlob(sig.Signature, nil, nil)},
	})
}

func (s *Session) send(ctx context.Context, tx blob.BlobTransaction) (client.TxHash, error) {
	hash, err := s.Node.SendBlobTx(ctx, tx)
	if err != nil {
		var rejection *client.RemoteRejection
		if errors.As(err, &rejection) {
			s.Metrics.markRejected()
		}

		s.Logger.Warn().Err(err).Str("identity", tx.Identity).Msg("Blob transaction was not accepted.")

		return "", err
	}

	s.Metrics.markSubmitted()

	s.mu.Lock()
	if s.submitted == nil {
		s.submitted = make(map[client.TxHash]time.Time)
	}
	s.submitted[hash] = time.Now()
	s.mu.Unlock()

	s.Logger.Info().
		Str("identity", tx.Identity).
		Str("tx_hash", string(hash)).
		Int("num_blobs", len(tx.Blobs)).
		Msg("Submitted blob transaction.")

	return hash, nil
}

// Track follows hash until it settles or ctx ends. h may be nil.
func (s *Session) Track(ctx context.Context, hash client.TxHash, h tracker.Handler) (tracker.Result, error) {
	if h == nil {
		h = tracker.HandlerFuncs{}
	}

	s.mu.Lock()
	since, ok := s.submitted[hash]
	s.mu.Unlock()

	defer s.forget(hash)

	if !ok {
		since = time.Now()
	}

	sequenced := false

	wrapped := tracker.HandlerFuncs{
		Progress: func(n tracker.Notification) {
			if n.State == tracker.Sequenced && !sequenced {
				sequenced = true
				s.Metrics.markSequenced()
			}

			s.Logger.Debug().Str("tx_hash", string(hash)).Str("event", n.Event.Name).Msg(n.String())

			h.OnProgress(n)
		},
		Settled: func(n tracker.Notification) {
			s.Metrics.markSettled(n.State == tracker.SettledSuccess, since)

			s.Logger.Info().Str("tx_hash", string(hash)).Str("state", n.State.String()).Msg(n.String())

			h.OnSettled(n)
		},
	}

	opts := []tracker.Option{
		tracker.WithHandler(wrapped),
		tracker.WithPollErrorHook(func(error) { s.Metrics.markPollError() }),
	}

	if s.PollInterval > 0 {
		opts = append(opts, tracker.WithPollInterval(s.PollInterval))
	}

	return tracker.New(s.Node, hash, opts...).Track(ctx)
}

// forget drops the submission time of hash once tracking ends, whatever the
// outcome.
func (s *Session) forget(hash client.TxHash) {
	s.mu.Lock()
	delete(s.submitted, hash)
	s.mu.Unlock()
}

func (s *Session) Transfer(ctx context.Context, token, recipient string, amount codec.Uint128) (client.TxHash, error) {
	return s.Submit(ctx, blob.ComposeTransfer(token, recipient, amount)...)
}

func (s *Session) Approve(ctx context.Context, token, spender string, amount codec.Uint128) (client.TxHash, error) {
	return s.Submit(ctx, blob.ComposeApprove(token, spender, amount)...)
}

func (s *Session) NewPair(ctx context.Context, tokenA, tokenB string, amountA, amountB codec.Uint128) (client.TxHash, error) {
	return s.Submit(ctx, blob.ComposeNewPair(tokenA, tokenB, amountA, amountB)...)
}

// Swap exchanges p.AmountA of p.TokenA for p.TokenB. A zero AmountB is
// filled in from the app server's paired amount. An empty Account is taken
// from the signer when it exposes one.
func (s *Session) Swap(ctx context.Context, p blob.SwapParams) (client.TxHash, error) {
	if p.Account == "" {
		a, ok := s.Signer.(interface{ Account() string })
		if !ok {
			return "", ErrNoAccount
		}

		p.Account = a.Account()
	}

	if p.AmountB.IsZero() {
		paired, err := s.Node.GetPairedAmount(ctx, p.TokenA, p.TokenB, p.AmountA)
		if err != nil {
			return "", errors.Wrap(err, "failed to fetch paired amount")
		}

		p.AmountB = paired
	}

	return s.Submit(ctx, blob.ComposeSwap(p, FirstBlobIndex)...)
}
