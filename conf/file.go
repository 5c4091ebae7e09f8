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
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML form of the configuration. Zero values leave the
// corresponding setting untouched.
type File struct {
	Node              string         `yaml:"node"`
	Server            string         `yaml:"server"`
	PollInterval      time.Duration  `yaml:"pollInterval"`
	RequestTimeout    time.Duration  `yaml:"requestTimeout"`
	RequestsPerSecond float64        `yaml:"requestsPerSecond"`
	StateCacheTTL     *time.Duration `yaml:"stateCacheTTL"`
	IdentityContract  string         `yaml:"identityContract"`
	AmmContract       string         `yaml:"ammContract"`

	Contracts map[string]ContractFile `yaml:"contracts"`
}

type ContractFile struct {
	Structured bool `yaml:"structured"`
}

// LoadFile reads a YAML configuration file into a list of options.
func LoadFile(path string) ([]Option, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %q", path)
	}

	return Parse(raw)
}

func Parse(raw []byte) ([]Option, error) {
	var f File

	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrap(err, "failed to parse config")
	}

	return f.Options(), nil
}

func (f File) Options() []Option {
	var opts []Option

	if f.Node != "" {
		opts = append(opts, WithNodeURL(f.Node))
	}

	if f.Server != "" {
		opts = append(opts, WithServerURL(f.Server))
	}

	if f.PollInterval > 0 {
		opts = append(opts, WithPollInterval(f.PollInterval))
	}

	if f.RequestTimeout > 0 {
		opts = append(opts, WithRequestTimeout(f.RequestTimeout))
	}

	if f.RequestsPerSecond > 0 {
		opts = append(opts, WithRequestsPerSecond(f.RequestsPerSecond))
	}

	if f.StateCacheTTL != nil {
		opts = append(opts, WithStateCacheTTL(*f.StateCacheTTL))
	}

	if f.IdentityContract != "" {
		opts = append(opts, WithIdentityContract(f.IdentityContract))
	}

	if f.AmmContract != "" {
		opts = append(opts, WithAmmContract(f.AmmContract))
	}

	for name, contract := range f.Contracts {
		opts = append(opts, WithContractConvention(name, contract.Structured))
	}

	return opts
}
