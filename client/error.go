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
	"fmt"

	"github.com/valyala/fastjson"
)

// NetworkError is returned when a request did not complete: the connection
// failed, timed out or the context ended before a response arrived.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s did not complete: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Cause() error  { return e.Err }
func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteRejection is returned for any non-2xx response. Body holds the raw
// response text. Status and Message are filled in when the body is a JSON
// object of the form {"status": ..., "error": ...}.
type RemoteRejection struct {
	Method     string
	URL        string
	StatusCode int
	Body       string

	Status  string
	Message string
}

func (e *RemoteRejection) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s rejected with status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s %s rejected with status %d. response body: %q", e.Method, e.URL, e.StatusCode, e.Body)
}

func newRemoteRejection(method, url string, code int, body []byte) *RemoteRejection {
	e := &RemoteRejection{
		Method:     method,
		URL:        url,
		StatusCode: code,
		Body:       string(body),
	}

	var parser fastjson.Parser

	v, err := parser.ParseBytes(body)
	if err != nil || v.Type() != fastjson.TypeObject {
		return e
	}

	e.Status = string(v.GetStringBytes("status"))
	e.Message = string(v.GetStringBytes("error"))

	return e
}

// MalformedResponse is returned when a 2xx response body cannot be parsed.
type MalformedResponse struct {
	URL  string
	Body string
	Err  error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed response from %s: %v. response body: %q", e.URL, e.Err, e.Body)
}

func (e *MalformedResponse) Cause() error  { return e.Err }
func (e *MalformedResponse) Unwrap() error { return e.Err }
