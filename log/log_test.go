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

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fastjson"
)

func TestModuleLoggers(t *testing.T) {
	var buf bytes.Buffer

	SetWriter("test", &buf)
	defer ClearWriter("test")

	logger := Tracker("settled")
	logger.Info().Str("tx", "abc").Msg("Transaction settled.")

	var p fastjson.Parser
	v, err := p.ParseBytes(buf.Bytes())
	assert.NoError(t, err)

	assert.Equal(t, ModuleTracker, string(v.GetStringBytes(KeyModule)))
	assert.Equal(t, "settled", string(v.GetStringBytes(KeyEvent)))
	assert.Equal(t, "abc", string(v.GetStringBytes("tx")))
	assert.Equal(t, "Transaction settled.", string(v.GetStringBytes("message")))
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer

	SetWriter("test", &buf)
	defer ClearWriter("test")

	SetLevel("warn")
	defer SetLevel("debug")

	logger := Client("send")
	logger.Info().Msg("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn().Msg("kept")
	assert.Contains(t, buf.String(), "kept")

	SetLevel("nonsense")
	logger = Client("send")
	logger.Info().Msg("still dropped")
	assert.NotContains(t, buf.String(), "still dropped")
}

func TestConsoleWriter(t *testing.T) {
	var buf bytes.Buffer

	SetWriter("console", NewConsoleWriter(&buf, true))
	defer ClearWriter("console")

	logger := CLI()
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "INF")
}
