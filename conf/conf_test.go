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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	defer Reset()

	assert.EqualValues(t, "http://localhost:4321", GetNodeURL())
	assert.EqualValues(t, "", GetServerURL())
	assert.EqualValues(t, 500*time.Millisecond, GetPollInterval())
	assert.EqualValues(t, 5*time.Second, GetRequestTimeout())
	assert.EqualValues(t, 0, GetRequestsPerSecond())
	assert.EqualValues(t, 2*time.Second, GetStateCacheTTL())
	assert.EqualValues(t, "mmid", GetIdentityContract())
	assert.EqualValues(t, "amm", GetAmmContract())

	assert.False(t, IsStructured("mmid"))
	assert.True(t, IsStructured("amm"))
	assert.True(t, IsStructured("hyllar"))
}

func TestUpdate(t *testing.T) {
	defer Reset()

	Update(
		WithNodeURL("http://node:1"),
		WithServerURL("http://server:2"),
		WithPollInterval(time.Second),
		WithRequestTimeout(3*time.Second),
		WithRequestsPerSecond(10),
		WithStateCacheTTL(0),
		WithIdentityContract("hydentity"),
		WithAmmContract("amm2"),
		WithContractConvention("legacy", false),
		WithContractConvention("hydentity", true),
	)

	assert.EqualValues(t, "http://node:1", GetNodeURL())
	assert.EqualValues(t, "http://server:2", GetServerURL())
	assert.EqualValues(t, time.Second, GetPollInterval())
	assert.EqualValues(t, 3*time.Second, GetRequestTimeout())
	assert.EqualValues(t, 10, GetRequestsPerSecond())
	assert.EqualValues(t, 0, GetStateCacheTTL())
	assert.EqualValues(t, "hydentity", GetIdentityContract())
	assert.EqualValues(t, "amm2", GetAmmContract())

	assert.False(t, IsStructured("legacy"))
	assert.True(t, IsStructured("hydentity"))
	assert.True(t, IsStructured("mmid"))

	assert.Contains(t, Stringify(), "http://node:1")

	Reset()

	assert.True(t, IsStructured("legacy"))
	assert.EqualValues(t, "mmid", GetIdentityContract())
}

func TestParse(t *testing.T) {
	defer Reset()

	opts, err := Parse([]byte(`
node: http://10.0.0.1:4321
server: http://10.0.0.1:9002
pollInterval: 250ms
requestTimeout: 2s
requestsPerSecond: 4
stateCacheTTL: 0s
identityContract: hydentity
contracts:
  hydentity:
    structured: false
  oldtoken:
    structured: false
`))
	require.NoError(t, err)

	Update(opts...)

	assert.EqualValues(t, "http://10.0.0.1:4321", GetNodeURL())
	assert.EqualValues(t, "http://10.0.0.1:9002", GetServerURL())
	assert.EqualValues(t, 250*time.Millisecond, GetPollInterval())
	assert.EqualValues(t, 2*time.Second, GetRequestTimeout())
	assert.EqualValues(t, 4, GetRequestsPerSecond())
	assert.EqualValues(t, 0, GetStateCacheTTL())
	assert.EqualValues(t, "hydentity", GetIdentityContract())
	assert.EqualValues(t, "amm", GetAmmContract())
	assert.False(t, IsStructured("hydentity"))
	assert.False(t, IsStructured("oldtoken"))
	assert.True(t, IsStructured("hyllar"))
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("pollInterval: [1, 2"))
	assert.Error(t, err)

	_, err = LoadFile("/nonexistent/blobtx.yaml")
	assert.Error(t, err)
}
