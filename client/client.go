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

// Package client talks to a blob ledger node and its companion app server
// over HTTP.
package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/codec"
	"github.com/perlin-network/blobtx/conf"
	"github.com/perlin-network/blobtx/log"
	"github.com/perlin-network/blobtx/sys"
	"github.com/pkg/errors"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fastjson"
	"golang.org/x/time/rate"
)

const (
	RouteSendBlobTx    = "/v1/tx/send/blob"
	RouteTxEvents      = "/v1/indexer/transaction/hash/%s/events"
	RouteContractState = "/v1/indexer/contract/%s/state"

	RoutePairedAmount = "/paired_amount/%s/%s/%s"
	RouteFaucet       = "/faucet"

	ReqPost = "POST"
	ReqGet  = "GET"
)

var (
	ErrNoHost   = errors.New("client: no node url provided")
	ErrNoServer = errors.New("client: no app server url configured")
)

// TxHash is the handle the node returns for a submitted transaction.
type TxHash string

type Config struct {
	NodeURL   string
	ServerURL string

	Timeout           time.Duration
	RequestsPerSecond float64
	StateCacheTTL     time.Duration

	// Dial overrides how connections are opened.
	Dial fasthttp.DialFunc
}

// DefaultConfig reads the process wide settings from conf.
func DefaultConfig() Config {
	return Config{
		NodeURL:           conf.GetNodeURL(),
		ServerURL:         conf.GetServerURL(),
		Timeout:           conf.GetRequestTimeout(),
		RequestsPerSecond: conf.GetRequestsPerSecond(),
		StateCacheTTL:     conf.GetStateCacheTTL(),
	}
}

type Client struct {
	config Config

	http    *fasthttp.Client
	limiter *rate.Limiter
	states  *cache.Cache

	parsers fastjson.ParserPool
	arenas  fastjson.ArenaPool
}

func New(config Config) (*Client, error) {
	if config.NodeURL == "" {
		return nil, ErrNoHost
	}

	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	c := &Client{
		config: config,
		http: &fasthttp.Client{
			Name: sys.UserAgent,
			Dial: config.Dial,
		},
	}

	if config.RequestsPerSecond > 0 {
		burst := int(config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}

		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	if config.StateCacheTTL > 0 {
		c.states = cache.New(config.StateCacheTTL, 2*config.StateCacheTTL)
	}

	return c, nil
}

// SendBlobTx submits tx to the node and returns its hash. It makes exactly
// one attempt.
func (c *Client) SendBlobTx(ctx context.Context, tx blob.BlobTransaction) (TxHash, error) {
	arena := c.arenas.Get()
	arena.Reset()
	body := tx.MarshalArena(arena).MarshalTo(nil)
	c.arenas.Put(arena)

	logger := log.Client("send_blob_tx")

	res, err := c.request(ctx, ReqPost, c.config.NodeURL, RouteSendBlobTx, body)
	if err != nil {
		logger.Warn().Err(err).Str("identity", tx.Identity).Msg("Failed to submit blob transaction.")
		return "", err
	}

	hash, err := c.parseString(c.config.NodeURL+RouteSendBlobTx, res)
	if err != nil {
		return "", err
	}

	logger.Debug().
		Str("identity", tx.Identity).
		Int("num_blobs", len(tx.Blobs)).
		Str("tx_hash", hash).
		Msg("Submitted blob transaction.")

	return TxHash(hash), nil
}

// GetTxEvents fetches every event the indexer recorded for hash.
func (c *Client) GetTxEvents(ctx context.Context, hash TxHash) ([]TxEvent, error) {
	path := sprintfPath(RouteTxEvents, string(hash))

	res, err := c.request(ctx, ReqGet, c.config.NodeURL, path, nil)
	if err != nil {
		return nil, err
	}

	parser := c.parsers.Get()
	defer c.parsers.Put(parser)

	v, err := parser.ParseBytes(res)
	if err != nil {
		return nil, &MalformedResponse{URL: c.config.NodeURL + path, Body: string(res), Err: err}
	}

	events, err := ParseTxEvents(v)
	if err != nil {
		return nil, &MalformedResponse{URL: c.config.NodeURL + path, Body: string(res), Err: err}
	}

	return events, nil
}

// GetContractState fetches the current state of a token contract. Results are
// cached for the configured TTL.
func (c *Client) GetContractState(ctx context.Context, name string) (*ContractState, error) {
	if c.states != nil {
		if cached, ok := c.states.Get(name); ok {
			return cached.(*ContractState).Clone(), nil
		}
	}

	path := sprintfPath(RouteContractState, name)

	res, err := c.request(ctx, ReqGet, c.config.NodeURL, path, nil)
	if err != nil {
		return nil, err
	}

	parser := c.parsers.Get()
	defer c.parsers.Put(parser)

	v, err := parser.ParseBytes(res)
	if err != nil {
		return nil, &MalformedResponse{URL: c.config.NodeURL + path, Body: string(res), Err: err}
	}

	state, err := ParseContractState(v)
	if err != nil {
		return nil, &MalformedResponse{URL: c.config.NodeURL + path, Body: string(res), Err: err}
	}

	if c.states != nil {
		c.states.SetDefault(name, state.Clone())
	}

	return state, nil
}

// ForgetState drops the cached state of a contract.
func (c *Client) ForgetState(name string) {
	if c.states != nil {
		c.states.Delete(name)
	}
}

// GetPairedAmount asks the app server how much of tokenB a swap of amount
// tokenA yields.
func (c *Client) GetPairedAmount(ctx context.Context, tokenA, tokenB string, amount codec.Uint128) (codec.Uint128, error) {
	if c.config.ServerURL == "" {
		return codec.Uint128{}, ErrNoServer
	}

	path := sprintfPath(RoutePairedAmount, tokenA, tokenB, amount.String())

	res, err := c.request(ctx, ReqGet, c.config.ServerURL, path, nil)
	if err != nil {
		return codec.Uint128{}, err
	}

	parser := c.parsers.Get()
	defer c.parsers.Put(parser)

	v, err := parser.ParseBytes(res)
	if err == nil {
		var paired codec.Uint128
		if paired, err = parseAmount(v); err == nil {
			return paired, nil
		}
	}

	return codec.Uint128{}, &MalformedResponse{URL: c.config.ServerURL + path, Body: string(res), Err: err}
}

// Faucet asks the app server to credit account with some of token. The
// server submits the transfer itself and returns its hash.
func (c *Client) Faucet(ctx context.Context, account, token string) (TxHash, error) {
	if c.config.ServerURL == "" {
		return "", ErrNoServer
	}

	arena := c.arenas.Get()
	arena.Reset()

	o := arena.NewObject()
	o.Set("username", arena.NewString(account))
	o.Set("token", arena.NewString(token))
	body := o.MarshalTo(nil)

	c.arenas.Put(arena)

	res, err := c.request(ctx, ReqPost, c.config.ServerURL, RouteFaucet, body)
	if err != nil {
		return "", err
	}

	hash, err := c.parseString(c.config.ServerURL+RouteFaucet, res)
	if err != nil {
		return "", err
	}

	return TxHash(hash), nil
}

func (c *Client) parseString(addr string, res []byte) (string, error) {
	parser := c.parsers.Get()
	defer c.parsers.Put(parser)

	v, err := parser.ParseBytes(res)
	if err != nil {
		return "", &MalformedResponse{URL: addr, Body: string(res), Err: err}
	}

	s, err := v.StringBytes()
	if err != nil {
		return "", &MalformedResponse{URL: addr, Body: string(res), Err: err}
	}

	if len(s) == 0 {
		return "", &MalformedResponse{URL: addr, Body: string(res), Err: errors.New("empty transaction hash")}
	}

	return string(s), nil
}

// request performs a single HTTP round trip and returns a copy of the
// response body. The request is bounded by both the configured timeout and
// the deadline of ctx.
func (c *Client) request(ctx context.Context, method, base, path string, body []byte) ([]byte, error) {
	addr := base + path

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &NetworkError{Method: method, URL: addr, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, &NetworkError{Method: method, URL: addr, Err: err}
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	req.SetRequestURI(addr)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")

	if body != nil {
		req.SetBody(body)
	}

	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(res)

	deadline := time.Now().Add(c.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := c.http.DoDeadline(req, res, deadline); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}

		return nil, &NetworkError{Method: method, URL: addr, Err: err}
	}

	if code := res.StatusCode(); code < 200 || code > 299 {
		return nil, newRemoteRejection(method, addr, code, res.Body())
	}

	return append([]byte(nil), res.Body()...), nil
}

func sprintfPath(format string, args ...string) string {
	escaped := make([]interface{}, len(args))
	for i, arg := range args {
		escaped[i] = url.PathEscape(arg)
	}

	return fmt.Sprintf(format, escaped...)
}
