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
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/perlin-network/blobtx/conf"
	"github.com/perlin-network/blobtx/log"
	"github.com/perlin-network/blobtx/sys"
	"github.com/urfave/cli"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := newApp(ctx).Run(os.Args); err != nil {
		logger := log.CLI()
		logger.Error().Err(err).Msg("Command failed.")

		os.Exit(1)
	}
}

func newApp(ctx context.Context) *cli.App {
	c := &CLI{ctx: ctx}

	app := cli.NewApp()

	app.Name = "blobctl"
	app.Author = "Perlin"
	app.Version = sys.Version
	app.Usage = "build, submit and follow blob transactions"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "node",
			Value:  conf.GetNodeURL(),
			Usage:  "ledger node base url `URL`",
			EnvVar: "BLOBCTL_NODE",
		},
		cli.StringFlag{
			Name:   "server",
			Usage:  "app server base url `URL`, used for paired amounts and the faucet",
			EnvVar: "BLOBCTL_SERVER",
		},
		cli.StringFlag{
			Name:   "key",
			Value:  "wallet.json",
			Usage:  "key file `PATH`",
			EnvVar: "BLOBCTL_KEY",
		},
		cli.StringFlag{
			Name:   "password",
			Usage:  "password of an encrypted key file",
			EnvVar: "BLOBCTL_PASSWORD",
		},
		cli.UintFlag{
			Name:  "nonce",
			Usage: "identity nonce of the next transaction",
		},
		cli.StringFlag{
			Name:  "config",
			Usage: "YAML configuration `PATH`",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "minimum log level (debug, info, warn, error)",
		},
		cli.BoolFlag{
			Name:  "no-color",
			Usage: "disable colored console output",
		},
		cli.DurationFlag{
			Name:  "metrics-interval",
			Usage: "log transaction metrics every `DURATION`, 0 disables reporting",
		},
	}

	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("Version: %s\n", c.App.Version)
		fmt.Printf("Go Version: %s\n", sys.GoVersion)
		fmt.Printf("Git Commit: %s\n", sys.GitCommit)
		fmt.Printf("Built: %s\n", sys.BuiltTime)
	}

	app.Before = c.setup
	app.After = c.teardown

	waitFlag := cli.BoolFlag{
		Name:  "no-wait",
		Usage: "return once the node accepted the transaction",
	}

	app.Commands = []cli.Command{
		{
			Name:   "keygen",
			Usage:  "generate a key file",
			Action: c.keygen,
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "force",
					Usage: "overwrite an existing key file",
				},
			},
		},
		{
			Name:      "transfer",
			Usage:     "transfer tokens",
			ArgsUsage: "<token> <recipient> <amount>",
			Action:    c.transfer,
			Flags:     []cli.Flag{waitFlag},
		},
		{
			Name:      "approve",
			Usage:     "allow a spender to move tokens",
			ArgsUsage: "<token> <spender> <amount>",
			Action:    c.approve,
			Flags:     []cli.Flag{waitFlag},
		},
		{
			Name:      "swap",
			Usage:     "swap tokens through the AMM",
			ArgsUsage: "<token-a> <token-b> <amount-a> [amount-b]",
			Action:    c.swap,
			Flags:     []cli.Flag{waitFlag},
		},
		{
			Name:      "new-pair",
			Usage:     "create an AMM pair",
			ArgsUsage: "<token-a> <token-b> <amount-a> <amount-b>",
			Action:    c.newPair,
			Flags:     []cli.Flag{waitFlag},
		},
		{
			Name:   "register",
			Usage:  "register the key's identity",
			Action: c.register,
			Flags:  []cli.Flag{waitFlag},
		},
		{
			Name:      "faucet",
			Usage:     "ask the app server for tokens",
			ArgsUsage: "<token>",
			Action:    c.faucet,
			Flags:     []cli.Flag{waitFlag},
		},
		{
			Name:      "state",
			Usage:     "print a token contract's state",
			ArgsUsage: "<contract> [account]",
			Action:    c.state,
		},
		{
			Name:      "events",
			Usage:     "print the events recorded for a transaction",
			ArgsUsage: "<tx-hash>",
			Action:    c.events,
		},
		{
			Name:      "track",
			Usage:     "wait for a transaction to settle",
			ArgsUsage: "<tx-hash>",
			Action:    c.track,
			Flags: []cli.Flag{
				cli.DurationFlag{
					Name:  "timeout",
					Value: 5 * time.Minute,
					Usage: "give up after `DURATION`",
				},
			},
		},
		{
			Name:      "decode",
			Usage:     "decode a hex encoded blob payload",
			ArgsUsage: "<contract> <hex-data>",
			Action:    c.decode,
		},
	}

	return app
}
