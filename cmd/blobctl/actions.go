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

package main

import (
	"context"
	"encoding/hex"
	"os"
	"strings"

	"github.com/perlin-network/blobtx"
	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/client"
	"github.com/perlin-network/blobtx/codec"
	"github.com/perlin-network/blobtx/conf"
	"github.com/perlin-network/blobtx/keystore"
	"github.com/perlin-network/blobtx/log"
	"github.com/perlin-network/blobtx/signer"
	"github.com/perlin-network/blobtx/tracker"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/urfave/cli"
)

type CLI struct {
	ctx     context.Context
	logger  zerolog.Logger
	metrics *blobtx.Metrics
}

func (c *CLI) setup(ctx *cli.Context) error {
	log.SetWriter("console", log.NewConsoleWriter(os.Stderr, ctx.Bool("no-color")))
	log.SetLevel(ctx.String("log-level"))

	c.logger = log.CLI()

	if path := ctx.String("config"); path != "" {
		opts, err := conf.LoadFile(path)
		if err != nil {
			return err
		}

		conf.Update(opts...)
	}

	if ctx.IsSet("node") || ctx.String("config") == "" {
		conf.Update(conf.WithNodeURL(ctx.String("node")))
	}

	if ctx.IsSet("server") {
		conf.Update(conf.WithServerURL(ctx.String("server")))
	}

	if interval := ctx.Duration("metrics-interval"); interval > 0 {
		c.metrics = blobtx.NewMetrics(c.ctx, interval)
	}

	c.logger.Debug().Msg(conf.Stringify())

	return nil
}

func (c *CLI) teardown(ctx *cli.Context) error {
	c.metrics.Stop()
	return nil
}

func (c *CLI) client() (*client.Client, error) {
	return client.New(client.DefaultConfig())
}

func (c *CLI) session(ctx *cli.Context) (*blobtx.Session, error) {
	node, err := c.client()
	if err != nil {
		return nil, err
	}

	local, err := signer.LoadLocal(ctx.GlobalString("key"), ctx.GlobalString("password"), uint32(ctx.GlobalUint("nonce")))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load key")
	}

	s := blobtx.NewSession(node, local)
	s.Logger = c.logger
	s.Metrics = c.metrics

	return s, nil
}

func (c *CLI) keygen(ctx *cli.Context) error {
	path := ctx.GlobalString("key")

	if _, err := os.Stat(path); err == nil && !ctx.Bool("force") {
		return errors.Errorf("key file %q already exists, pass --force to overwrite it", path)
	}

	key, err := keystore.GenerateKey()
	if err != nil {
		return err
	}

	var file *keystore.KeyFile

	if password := ctx.GlobalString("password"); password != "" {
		if file, err = keystore.NewEncryptedKey(key, password); err != nil {
			return err
		}
	} else {
		file = keystore.NewPlainTextKey(key)
	}

	if err := file.Write(path); err != nil {
		return err
	}

	c.logger.Info().
		Str("path", path).
		Str("account", signer.NewLocal(key, 0).Account()).
		Bool("encrypted", file.Encrypted()).
		Msg("Generated a new key.")

	return nil
}

func (c *CLI) transfer(ctx *cli.Context) error {
	args, err := c.args(ctx, 3, 3)
	if err != nil {
		return err
	}

	amount, err := codec.ParseUint128(args[2])
	if err != nil {
		return err
	}

	return c.submit(ctx, func(s *blobtx.Session) (client.TxHash, error) {
		return s.Transfer(c.ctx, args[0], args[1], amount)
	})
}

func (c *CLI) approve(ctx *cli.Context) error {
	args, err := c.args(ctx, 3, 3)
	if err != nil {
		return err
	}

	amount, err := codec.ParseUint128(args[2])
	if err != nil {
		return err
	}

	return c.submit(ctx, func(s *blobtx.Session) (client.TxHash, error) {
		return s.Approve(c.ctx, args[0], args[1], amount)
	})
}

func (c *CLI) swap(ctx *cli.Context) error {
	args, err := c.args(ctx, 3, 4)
	if err != nil {
		return err
	}

	p := blob.SwapParams{TokenA: args[0], TokenB: args[1]}

	if p.AmountA, err = codec.ParseUint128(args[2]); err != nil {
		return err
	}

	if len(args) == 4 {
		if p.AmountB, err = codec.ParseUint128(args[3]); err != nil {
			return err
		}
	}

	return c.submit(ctx, func(s *blobtx.Session) (client.TxHash, error) {
		return s.Swap(c.ctx, p)
	})
}

func (c *CLI) newPair(ctx *cli.Context) error {
	args, err := c.args(ctx, 4, 4)
	if err != nil {
		return err
	}

	amountA, err := codec.ParseUint128(args[2])
	if err != nil {
		return err
	}

	amountB, err := codec.ParseUint128(args[3])
	if err != nil {
		return err
	}

	return c.submit(ctx, func(s *blobtx.Session) (client.TxHash, error) {
		return s.NewPair(c.ctx, args[0], args[1], amountA, amountB)
	})
}

func (c *CLI) register(ctx *cli.Context) error {
	return c.submit(ctx, func(s *blobtx.Session) (client.TxHash, error) {
		return s.Register(c.ctx)
	})
}

func (c *CLI) faucet(ctx *cli.Context) error {
	args, err := c.args(ctx, 1, 1)
	if err != nil {
		return err
	}

	return c.submit(ctx, func(s *blobtx.Session) (client.TxHash, error) {
		account := s.Signer.(*signer.Local).Account()
		return s.Node.(*client.Client).Faucet(c.ctx, account, args[0])
	})
}

// submit runs fn and, unless --no-wait is set, follows the resulting
// transaction until it settles.
func (c *CLI) submit(ctx *cli.Context, fn func(s *blobtx.Session) (client.TxHash, error)) error {
	s, err := c.session(ctx)
	if err != nil {
		return err
	}

	hash, err := fn(s)
	if err != nil {
		return err
	}

	if ctx.Bool("no-wait") {
		c.logger.Info().Str("tx_hash", string(hash)).Msg("Transaction submitted.")
		return nil
	}

	res, err := s.Track(c.ctx, hash, c.progress(hash))
	if err != nil {
		return err
	}

	if !res.Success() {
		return errors.Errorf("transaction %s settled as failed", hash)
	}

	return nil
}

// progress reports every non-terminal step of hash at info level. Settlement
// is left to the caller.
func (c *CLI) progress(hash client.TxHash) tracker.HandlerFuncs {
	return tracker.HandlerFuncs{
		Progress: func(n tracker.Notification) {
			c.logger.Info().Str("tx_hash", string(hash)).Str("state", n.State.String()).Msg(n.String())
		},
	}
}

func (c *CLI) state(ctx *cli.Context) error {
	args, err := c.args(ctx, 1, 2)
	if err != nil {
		return err
	}

	node, err := c.client()
	if err != nil {
		return err
	}

	state, err := node.GetContractState(c.ctx, args[0])
	if err != nil {
		return err
	}

	if len(args) == 2 {
		c.logger.Info().
			Str("contract", args[0]).
			Str("account", args[1]).
			Str("balance", state.Balance(args[1]).String()).
			Msg("Balance.")

		return nil
	}

	balances := zerolog.Dict()
	for account, amount := range state.Balances {
		balances.Str(account, amount.String())
	}

	allowances := zerolog.Arr()
	for _, a := range state.Allowances {
		allowances.Str(a.Owner + " -> " + a.Spender + ": " + a.Amount.String())
	}

	c.logger.Info().
		Str("contract", args[0]).
		Str("total_supply", state.TotalSupply.String()).
		Dict("balances", balances).
		Array("allowances", allowances).
		Msg("Contract state.")

	return nil
}

func (c *CLI) events(ctx *cli.Context) error {
	args, err := c.args(ctx, 1, 1)
	if err != nil {
		return err
	}

	node, err := c.client()
	if err != nil {
		return err
	}

	events, err := node.GetTxEvents(c.ctx, client.TxHash(args[0]))
	if err != nil {
		return err
	}

	for _, ev := range events {
		for _, e := range ev.Events {
			c.logger.Info().
				Uint64("block_height", ev.BlockHeight).
				Str("block_hash", ev.BlockHash).
				Str("name", e.Name).
				RawJSON("metadata", orNull(e.Metadata)).
				Msg("Event.")
		}
	}

	return nil
}

func (c *CLI) track(ctx *cli.Context) error {
	args, err := c.args(ctx, 1, 1)
	if err != nil {
		return err
	}

	node, err := c.client()
	if err != nil {
		return err
	}

	tctx, cancel := context.WithTimeout(c.ctx, ctx.Duration("timeout"))
	defer cancel()

	hash := client.TxHash(args[0])

	h := c.progress(hash)
	h.Settled = func(n tracker.Notification) {
		c.logger.Info().Str("tx_hash", string(hash)).Str("state", n.State.String()).Msg(n.String())
	}

	res, err := tracker.New(node, hash, tracker.WithHandler(h)).Track(tctx)
	if err != nil {
		return err
	}

	if !res.Success() {
		return errors.Errorf("transaction %s settled as failed", res.Hash)
	}

	return nil
}

func (c *CLI) decode(ctx *cli.Context) error {
	args, err := c.args(ctx, 2, 2)
	if err != nil {
		return err
	}

	data, err := hex.DecodeString(strings.TrimPrefix(args[1], "0x"))
	if err != nil {
		return errors.Wrap(err, "blob data must be hex encoded")
	}

	decoded, err := blob.Decode(blob.Blob{ContractName: args[0], Data: data})
	if err != nil {
		return err
	}

	_, variant := decoded.Parameters.Variant()

	event := c.logger.Info().
		Str("contract", args[0]).
		Str("action", variant).
		Interface("parameters", decoded.Parameters)

	if decoded.Caller != nil {
		event = event.Uint64("caller", uint64(*decoded.Caller))
	}

	if decoded.Callees != nil {
		callees := make([]uint64, len(decoded.Callees))
		for i, x := range decoded.Callees {
			callees[i] = uint64(x)
		}

		event = event.Uints64("callees", callees)
	}

	event.Msg("Decoded blob.")

	return nil
}

func (c *CLI) args(ctx *cli.Context, min, max int) ([]string, error) {
	args := []string(ctx.Args())

	if len(args) < min || len(args) > max {
		return nil, errors.Errorf("invalid usage: %s %s", ctx.Command.Name, ctx.Command.ArgsUsage)
	}

	return args, nil
}

func orNull(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte("null")
	}

	return raw
}
