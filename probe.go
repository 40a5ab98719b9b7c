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

package netsup

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ProbeStatus classifies one application's health check.
type ProbeStatus int

const (
	// ProbeHealthy means the application answered as documented.
	ProbeHealthy ProbeStatus = iota

	// ProbeDegraded means a managed application answered 200 but did
	// not flag success in its health body.
	ProbeDegraded

	// ProbeUnreachable means no HTTP response arrived at all.
	ProbeUnreachable

	// ProbeError means the application answered with a bad status or
	// an undecodable health body.
	ProbeError
)

func (s ProbeStatus) String() string {
	switch s {
	case ProbeHealthy:
		return "healthy"
	case ProbeDegraded:
		return "degraded"
	case ProbeUnreachable:
		return "unreachable"
	case ProbeError:
		return "error"
	}
	return "unknown"
}

// MarshalText makes the status readable in JSON payloads.
func (s ProbeStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText is the inverse, used by the REST client.
func (s *ProbeStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "healthy":
		*s = ProbeHealthy
	case "degraded":
		*s = ProbeDegraded
	case "unreachable":
		*s = ProbeUnreachable
	case "error":
		*s = ProbeError
	default:
		return fmt.Errorf("%q: unknown probe status", b)
	}
	return nil
}

// ProbeResult is the outcome of checking one application.
type ProbeResult struct {
	App    string      `json:"app"`
	Status ProbeStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

type healthBody struct {
	Success bool `json:"success"`
}

// Probe issues bounded-timeout HTTP health checks.  It is stateless and
// needs no access to the supervisor's tracked set, so it can be run
// against processes started by a separate invocation.
type Probe struct {
	client *resty.Client
}

// NewProbe returns a probe whose every request is bounded by the given
// timeout.
func NewProbe(timeout time.Duration) *Probe {
	return &Probe{
		client: resty.New().SetTimeout(timeout),
	}
}

// Check classifies one application.  All transport and parse failures are
// folded into the result; Check never panics or propagates an error, so
// one failing probe cannot abort checks for the others.
func (p *Probe) Check(spec ApplicationSpec) ProbeResult {
	if spec.Mode == ModeStatic {
		return p.checkStatic(spec)
	}
	return p.checkManaged(spec)
}

// CheckAll probes each spec in order.
func (p *Probe) CheckAll(specs []ApplicationSpec) []ProbeResult {
	results := make([]ProbeResult, 0, len(specs))
	for _, spec := range specs {
		results = append(results, p.Check(spec))
	}
	return results
}

func (p *Probe) checkStatic(spec ApplicationSpec) ProbeResult {
	resp, err := p.client.R().Get(spec.URL() + "/")
	if err != nil {
		return ProbeResult{App: spec.Name, Status: ProbeUnreachable,
			Detail: err.Error()}
	}
	if resp.StatusCode() != 200 {
		return ProbeResult{App: spec.Name, Status: ProbeError,
			Detail: fmt.Sprintf("status %d", resp.StatusCode())}
	}
	return ProbeResult{App: spec.Name, Status: ProbeHealthy}
}

func (p *Probe) checkManaged(spec ApplicationSpec) ProbeResult {
	path := spec.HealthPath
	if path == "" {
		path = DefaultHealthPath
	}
	resp, err := p.client.R().Get(spec.URL() + path)
	if err != nil {
		return ProbeResult{App: spec.Name, Status: ProbeUnreachable,
			Detail: err.Error()}
	}
	if resp.StatusCode() != 200 {
		return ProbeResult{App: spec.Name, Status: ProbeError,
			Detail: fmt.Sprintf("status %d", resp.StatusCode())}
	}
	var body healthBody
	if e := json.Unmarshal(resp.Body(), &body); e != nil {
		return ProbeResult{App: spec.Name, Status: ProbeError,
			Detail: e.Error()}
	}
	if !body.Success {
		return ProbeResult{App: spec.Name, Status: ProbeDegraded}
	}
	return ProbeResult{App: spec.Name, Status: ProbeHealthy}
}
