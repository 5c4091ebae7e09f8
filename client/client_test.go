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

package client

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/buaazp/fasthttprouter"
	"github.com/perlin-network/blobtx/blob"
	"github.com/perlin-network/blobtx/codec"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"github.com/valyala/fastjson"
)

func newTestClient(t *testing.T, router *fasthttprouter.Router, opts ...func(*Config)) *Client {
	ln := fasthttputil.NewInmemoryListener()

	server := &fasthttp.Server{Handler: router.Handler}
	go func() { _ = server.Serve(ln) }()

	t.Cleanup(func() { _ = ln.Close() })

	config := Config{
		NodeURL:   "http://node",
		ServerURL: "http://server",
		Timeout:   time.Second,
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}

	for _, opt := range opts {
		opt(&config)
	}

	c, err := New(config)
	require.NoError(t, err)

	return c
}

func testTransaction() blob.BlobTransaction {
	return blob.BlobTransaction{
		Identity: "alice.mmid",
		Blobs: []blob.Blob{
			blob.BuildVerifyIdentityBlob(1, "sig", nil, nil),
			blob.BuildTransferBlob("hyllar", "bob.mmid", codec.NewUint128(5), nil, nil),
		},
	}
}

func TestNewRequiresHost(t *testing.T) {
	_, err := New(Config{})
	assert.Equal(t, ErrNoHost, err)
}

func TestSendBlobTx(t *testing.T) {
	var received blob.BlobTransaction

	router := fasthttprouter.New()
	router.POST(RouteSendBlobTx, func(ctx *fasthttp.RequestCtx) {
		if err := received.UnmarshalJSON(ctx.PostBody()); err != nil {
			ctx.SetStatusCode(fasthttp.StatusBadRequest)
			return
		}

		assert.Equal(t, "application/json", string(ctx.Request.Header.ContentType()))
		ctx.SetBodyString(`"0xdeadbeef"`)
	})

	c := newTestClient(t, router)

	tx := testTransaction()

	hash, err := c.SendBlobTx(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, TxHash("0xdeadbeef"), hash)
	assert.Equal(t, tx, received)
}

func TestSendBlobTxRejection(t *testing.T) {
	var hits int32

	router := fasthttprouter.New()
	router.POST(RouteSendBlobTx, func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&hits, 1)

		ctx.SetStatusCode(fasthttp.StatusBadRequest)
		ctx.SetBodyString("invalid identity")
	})

	c := newTestClient(t, router)

	_, err := c.SendBlobTx(context.Background(), testTransaction())
	require.Error(t, err)

	var rejection *RemoteRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, fasthttp.StatusBadRequest, rejection.StatusCode)
	assert.Equal(t, "invalid identity", rejection.Body)
	assert.Contains(t, err.Error(), "invalid identity")

	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestRemoteRejectionParsesErrorObject(t *testing.T) {
	router := fasthttprouter.New()
	router.POST(RouteSendBlobTx, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"status": "error", "error": "nonce already used"}`)
	})

	c := newTestClient(t, router)

	_, err := c.SendBlobTx(context.Background(), testTransaction())

	var rejection *RemoteRejection
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, "error", rejection.Status)
	assert.Equal(t, "nonce already used", rejection.Message)
}

func TestSendBlobTxMalformed(t *testing.T) {
	for _, body := range []string{`{"hash": 1}`, `not json`, `""`} {
		body := body

		router := fasthttprouter.New()
		router.POST(RouteSendBlobTx, func(ctx *fasthttp.RequestCtx) {
			ctx.SetBodyString(body)
		})

		c := newTestClient(t, router)

		_, err := c.SendBlobTx(context.Background(), testTransaction())

		var malformed *MalformedResponse
		assert.True(t, errors.As(err, &malformed), body)
	}
}

func TestSendBlobTxNetworkError(t *testing.T) {
	dialErr := errors.New("connection refused")

	c, err := New(Config{
		NodeURL: "http://node",
		Timeout: time.Second,
		Dial: func(string) (net.Conn, error) {
			return nil, dialErr
		},
	})
	require.NoError(t, err)

	_, err = c.SendBlobTx(context.Background(), testTransaction())

	var network *NetworkError
	require.True(t, errors.As(err, &network))

	var rejection *RemoteRejection
	assert.False(t, errors.As(err, &rejection))
}

func TestRequestTimeout(t *testing.T) {
	router := fasthttprouter.New()
	router.POST(RouteSendBlobTx, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(200 * time.Millisecond)
		ctx.SetBodyString(`"late"`)
	})

	c := newTestClient(t, router, func(config *Config) {
		config.Timeout = 20 * time.Millisecond
	})

	_, err := c.SendBlobTx(context.Background(), testTransaction())

	var network *NetworkError
	assert.True(t, errors.As(err, &network))
}

func TestCancelledContext(t *testing.T) {
	var hits int32

	router := fasthttprouter.New()
	router.GET("/v1/indexer/transaction/hash/:hash/events", func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&hits, 1)
		ctx.SetBodyString(`[]`)
	})

	c := newTestClient(t, router)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetTxEvents(ctx, "abc")

	var network *NetworkError
	require.True(t, errors.As(err, &network))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.EqualValues(t, 0, atomic.LoadInt32(&hits))
}

func TestGetTxEvents(t *testing.T) {
	router := fasthttprouter.New()
	router.GET("/v1/indexer/transaction/hash/:hash/events", func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "abc", ctx.UserValue("hash"))

		ctx.SetBodyString(`[
			{"block_hash": "b2", "block_height": 2, "events": [{"name": "Settled", "metadata": {"ok": true}}]},
			{"block_hash": "b1", "block_height": 1, "events": [{"name": "Sequenced"}, {"name": "NewProof", "metadata": null}]}
		]`)
	})

	c := newTestClient(t, router)

	events, err := c.GetTxEvents(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "b2", events[0].BlockHash)
	assert.EqualValues(t, 2, events[0].BlockHeight)
	assert.Equal(t, EventSettled, events[0].Events[0].Name)
	assert.Equal(t, `{"ok":true}`, string(events[0].Events[0].Metadata))

	assert.EqualValues(t, 1, events[1].BlockHeight)
	assert.Equal(t, []Event{{Name: EventSequenced}, {Name: EventNewProof}}, events[1].Events)
}

func TestGetTxEventsMissingBlockHeight(t *testing.T) {
	router := fasthttprouter.New()
	router.GET("/v1/indexer/transaction/hash/:hash/events", func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`[{"block_hash": "b1", "events": [{"name": "Sequenced"}]}]`)
	})

	c := newTestClient(t, router)

	_, err := c.GetTxEvents(context.Background(), "abc")
	require.Error(t, err)

	var malformed *MalformedResponse
	assert.True(t, errors.As(err, &malformed))
	assert.Contains(t, err.Error(), "missing block_height")
}

func TestParseTxEventsInvalid(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`[{"block_height": 1}]`,
		`[{"block_height": -1, "events": []}]`,
		`[{"events": [{"metadata": 1}]}]`,
		`[{"events": []}]`,
		`[{"block_height": null, "events": []}]`,
	} {
		v, err := fastjson.Parse(body)
		require.NoError(t, err)

		_, err = ParseTxEvents(v)
		assert.Error(t, err, body)
	}
}

func TestGetContractState(t *testing.T) {
	var hits int32

	router := fasthttprouter.New()
	router.GET("/v1/indexer/contract/:name/state", func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&hits, 1)

		assert.Equal(t, "hyllar", ctx.UserValue("name"))
		ctx.SetBodyString(`{
			"total_supply": 340282366920938463463374607431768211455,
			"balances": {"alice.mmid": 100, "bob.mmid": "200"},
			"allowances": [[50, ["alice.mmid", "amm"]], [["bob.mmid", "amm"], 7]]
		}`)
	})

	c := newTestClient(t, router, func(config *Config) {
		config.StateCacheTTL = time.Minute
	})

	state, err := c.GetContractState(context.Background(), "hyllar")
	require.NoError(t, err)

	assert.Equal(t, "340282366920938463463374607431768211455", state.TotalSupply.String())
	assert.Equal(t, codec.NewUint128(100), state.Balance("alice.mmid"))
	assert.Equal(t, codec.NewUint128(200), state.Balance("bob.mmid"))
	assert.True(t, state.Balance("carol.mmid").IsZero())
	assert.Equal(t, codec.NewUint128(50), state.Allowance("alice.mmid", "amm"))
	assert.Equal(t, codec.NewUint128(7), state.Allowance("bob.mmid", "amm"))

	// Mutating a returned state does not leak into the cache.
	state.Balances["alice.mmid"] = codec.NewUint128(1)

	again, err := c.GetContractState(context.Background(), "hyllar")
	require.NoError(t, err)
	assert.Equal(t, codec.NewUint128(100), again.Balance("alice.mmid"))
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits))

	c.ForgetState("hyllar")

	_, err = c.GetContractState(context.Background(), "hyllar")
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&hits))
}

func TestGetContractStateWithoutCache(t *testing.T) {
	var hits int32

	router := fasthttprouter.New()
	router.GET("/v1/indexer/contract/:name/state", func(ctx *fasthttp.RequestCtx) {
		atomic.AddInt32(&hits, 1)
		ctx.SetBodyString(`{"total_supply": 10, "balances": {}, "allowances": []}`)
	})

	c := newTestClient(t, router)

	for i := 0; i < 3; i++ {
		_, err := c.GetContractState(context.Background(), "hyllar")
		require.NoError(t, err)
	}

	assert.EqualValues(t, 3, atomic.LoadInt32(&hits))
}

func TestGetContractStateMalformed(t *testing.T) {
	router := fasthttprouter.New()
	router.GET("/v1/indexer/contract/:name/state", func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"total_supply": 1.5}`)
	})

	c := newTestClient(t, router)

	_, err := c.GetContractState(context.Background(), "hyllar")

	var malformed *MalformedResponse
	assert.True(t, errors.As(err, &malformed))
}

func TestGetPairedAmount(t *testing.T) {
	router := fasthttprouter.New()
	router.GET("/paired_amount/:a/:b/:amount", func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "hyllar", ctx.UserValue("a"))
		assert.Equal(t, "hyllar2", ctx.UserValue("b"))
		assert.Equal(t, "20", ctx.UserValue("amount"))

		ctx.SetBodyString(`18`)
	})

	c := newTestClient(t, router)

	amount, err := c.GetPairedAmount(context.Background(), "hyllar", "hyllar2", codec.NewUint128(20))
	require.NoError(t, err)
	assert.Equal(t, codec.NewUint128(18), amount)

	c.config.ServerURL = ""

	_, err = c.GetPairedAmount(context.Background(), "hyllar", "hyllar2", codec.NewUint128(20))
	assert.Equal(t, ErrNoServer, err)
}

func TestFaucet(t *testing.T) {
	router := fasthttprouter.New()
	router.POST(RouteFaucet, func(ctx *fasthttp.RequestCtx) {
		v, err := fastjson.ParseBytes(ctx.PostBody())
		if !assert.NoError(t, err) {
			return
		}

		assert.Equal(t, "alice.mmid", string(v.GetStringBytes("username")))
		assert.Equal(t, "hyllar", string(v.GetStringBytes("token")))

		ctx.SetBodyString(`"faucet-tx"`)
	})

	c := newTestClient(t, router)

	hash, err := c.Faucet(context.Background(), "alice.mmid", "hyllar")
	require.NoError(t, err)
	assert.Equal(t, TxHash("faucet-tx"), hash)
}

func TestRateLimiter(t *testing.T) {
	router := fasthttprouter.New()
	router.GET("/v1/indexer/transaction/hash/:hash/events", func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`[]`)
	})

	c := newTestClient(t, router, func(config *Config) {
		config.RequestsPerSecond = 0.5
	})

	_, err := c.GetTxEvents(context.Background(), "abc")
	require.NoError(t, err)

	// The next token is two seconds away, well past the context deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.GetTxEvents(ctx, "abc")

	var network *NetworkError
	assert.True(t, errors.As(err, &network))
}
