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

// Package log holds the module loggers shared by the blob transaction
// pipeline. Nothing is written until a writer is registered with SetWriter.
package log

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var (
	output = &multiWriter{
		writers: make(map[string]io.Writer),
	}
	logger = zerolog.New(output).With().Timestamp().Logger()

	mu sync.RWMutex

	cli     zerolog.Logger
	client  zerolog.Logger
	tx      zerolog.Logger
	tracker zerolog.Logger
	signer  zerolog.Logger
	metrics zerolog.Logger
)

const (
	KeyModule = "mod"
	KeyEvent  = "event"

	ModuleCLI     = "cli"
	ModuleClient  = "client"
	ModuleTX      = "tx"
	ModuleTracker = "tracker"
	ModuleSigner  = "signer"
	ModuleMetrics = "metrics"
)

func init() { // nolint:gochecknoinits
	zerolog.MessageFieldName = "message"
	zerolog.LevelFieldName = "level"
	zerolog.ErrorFieldName = "error"

	setupChildLoggers(logger)
}

func setupChildLoggers(root zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()

	cli = root.With().Str(KeyModule, ModuleCLI).Logger()
	client = root.With().Str(KeyModule, ModuleClient).Logger()
	tx = root.With().Str(KeyModule, ModuleTX).Logger()
	tracker = root.With().Str(KeyModule, ModuleTracker).Logger()
	signer = root.With().Str(KeyModule, ModuleSigner).Logger()
	metrics = root.With().Str(KeyModule, ModuleMetrics).Logger()
}

// SetLevel sets the minimum level of every module logger. Unknown levels are
// ignored.
func SetLevel(level string) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return
	}

	setupChildLoggers(logger.Level(l))
}

// SetWriter registers writer under key. Every log line goes to all
// registered writers.
func SetWriter(key string, writer io.Writer) {
	output.Set(key, writer)
}

func ClearWriter(key string) {
	output.Delete(key)
}

func CLI() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return cli
}

func Client(event string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return client.With().Str(KeyEvent, event).Logger()
}

func TX(event string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return tx.With().Str(KeyEvent, event).Logger()
}

func Tracker(event string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return tracker.With().Str(KeyEvent, event).Logger()
}

func Signer() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return signer
}

func Metrics() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return metrics
}
