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

package conf

import (
	"fmt"
	"sync"
	"time"
)

type config struct {
	// Ledger node REST API, e.g. http://localhost:4321.
	nodeURL string

	// Optional application server used for AMM quotes.
	serverURL string

	// Delay between two event polls of an unsettled transaction.
	pollInterval time.Duration

	// Timeout for a single outgoing request.
	requestTimeout time.Duration

	// Max outgoing requests per second, 0 means unlimited.
	requestsPerSecond float64

	// How long a fetched contract state may be served from memory.
	stateCacheTTL time.Duration

	identityContract string
	ammContract      string

	// Per contract override of whether actions are wrapped in structured
	// blob data. Contracts absent from the map are structured, except the
	// identity contract.
	conventions map[string]bool
}

var (
	l sync.RWMutex

	c = defaultConfig()
)

func defaultConfig() config {
	return config{
		nodeURL: "http://localhost:4321",

		pollInterval:   500 * time.Millisecond,
		requestTimeout: 5 * time.Second,

		stateCacheTTL: 2 * time.Second,

		identityContract: "mmid",
		ammContract:      "amm",

		conventions: make(map[string]bool),
	}
}

type Option func(*config)

func WithNodeURL(url string) Option {
	return func(c *config) {
		c.nodeURL = url
	}
}

func WithServerURL(url string) Option {
	return func(c *config) {
		c.serverURL = url
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(c *config) {
		c.requestTimeout = d
	}
}

func WithRequestsPerSecond(n float64) Option {
	return func(c *config) {
		c.requestsPerSecond = n
	}
}

func WithStateCacheTTL(d time.Duration) Option {
	return func(c *config) {
		c.stateCacheTTL = d
	}
}

func WithIdentityContract(name string) Option {
	return func(c *config) {
		c.identityContract = name
	}
}

func WithAmmContract(name string) Option {
	return func(c *config) {
		c.ammContract = name
	}
}

// WithContractConvention sets whether actions sent to contract are wrapped in
// structured blob data or encoded bare.
func WithContractConvention(contract string, structured bool) Option {
	return func(c *config) {
		c.conventions[contract] = structured
	}
}

func GetNodeURL() string {
	l.RLock()
	t := c.nodeURL
	l.RUnlock()

	return t
}

func GetServerURL() string {
	l.RLock()
	t := c.serverURL
	l.RUnlock()

	return t
}

func GetPollInterval() time.Duration {
	l.RLock()
	t := c.pollInterval
	l.RUnlock()

	return t
}

func GetRequestTimeout() time.Duration {
	l.RLock()
	t := c.requestTimeout
	l.RUnlock()

	return t
}

func GetRequestsPerSecond() float64 {
	l.RLock()
	t := c.requestsPerSecond
	l.RUnlock()

	return t
}

func GetStateCacheTTL() time.Duration {
	l.RLock()
	t := c.stateCacheTTL
	l.RUnlock()

	return t
}

func GetIdentityContract() string {
	l.RLock()
	t := c.identityContract
	l.RUnlock()

	return t
}

func GetAmmContract() string {
	l.RLock()
	t := c.ammContract
	l.RUnlock()

	return t
}

// IsStructured reports whether actions for contract are wrapped in structured
// blob data.
func IsStructured(contract string) bool {
	l.RLock()
	defer l.RUnlock()

	if structured, ok := c.conventions[contract]; ok {
		return structured
	}

	return contract != c.identityContract
}

func Update(options ...Option) {
	l.Lock()

	for _, option := range options {
		option(&c)
	}

	l.Unlock()
}

func Stringify() string {
	l.RLock()
	s := fmt.Sprintf("%+v", c)
	l.RUnlock()

	return s
}

func Reset() {
	l.Lock()
	c = defaultConfig()
	l.Unlock()
}
