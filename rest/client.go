// Copyright 2026 The MeshAdmin Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rest

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/meshadmin/netsup"
)

// Client talks to a running supervisor's status surface.  It is one-shot;
// nothing is cached between calls.
type Client struct {
	rc *resty.Client
}

// NewClient returns a client for the given base address, e.g.
// "http://127.0.0.1:8322".
func NewClient(base string, timeout time.Duration) *Client {
	return &Client{
		rc: resty.New().SetBaseURL(base).SetTimeout(timeout),
	}
}

func (c *Client) get(path string, out interface{}) error {
	resp, err := c.rc.R().SetResult(out).SetError(&Error{}).Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		if re, ok := resp.Error().(*Error); ok && re.Message != "" {
			return re
		}
		return &Error{Code: resp.StatusCode(), Message: resp.Status()}
	}
	return nil
}

// Info fetches the supervisor's top-level state.
func (c *Client) Info() (*netsup.Info, error) {
	info := &netsup.Info{}
	if err := c.get("/", info); err != nil {
		return nil, err
	}
	return info, nil
}

// Applications lists the registered application names.
func (c *Client) Applications() ([]string, error) {
	var names []string
	if err := c.get("/applications", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// Application fetches one application's info.
func (c *Client) Application(name string) (*ApplicationInfo, error) {
	info := &ApplicationInfo{}
	path := "/applications/" + url.PathEscape(name)
	if err := c.get(path, info); err != nil {
		return nil, err
	}
	return info, nil
}

// Log fetches captured output newer than the given id (0 for everything),
// returning the records and the id to pass next time.
func (c *Client) Log(after int64) ([]netsup.LogRecord, int64, error) {
	payload := &logPayload{}
	if err := c.get(fmt.Sprintf("/log?after=%d", after), payload); err != nil {
		return nil, after, err
	}
	return payload.Records, payload.Id, nil
}

// ApplicationLog fetches the captured output of one application.
func (c *Client) ApplicationLog(name string) ([]netsup.LogRecord, error) {
	payload := &logPayload{}
	path := "/applications/" + url.PathEscape(name) + "/log"
	if err := c.get(path, payload); err != nil {
		return nil, err
	}
	return payload.Records, nil
}

// Health runs a one-shot probe sweep on the supervisor side.
func (c *Client) Health() ([]netsup.ProbeResult, error) {
	var results []netsup.ProbeResult
	if err := c.get("/health", &results); err != nil {
		return nil, err
	}
	return results, nil
}
