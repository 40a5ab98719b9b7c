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
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the supervisor's tunables.  Every field can be set from
// the environment with a SUPERVISOR_ prefix; the defaults are the values
// the platform has always used.
type Config struct {
	// LogLevel is the zap level for supervisor logging.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Development selects console encoding for logs.
	Development bool `envconfig:"DEVELOPMENT" default:"true"`

	// Registry is an optional path to a YAML registry file.  Empty
	// means the built-in platform registry.
	Registry string `envconfig:"REGISTRY"`

	// MarkerFile is the pathways integration marker.  Its existence is
	// the whole signal; the contents are never read.
	MarkerFile string `envconfig:"MARKER_FILE" default:"pathways-integration.ts"`

	// ListenAddress enables the REST status surface when non-empty.
	ListenAddress string `envconfig:"LISTEN_ADDRESS" default:"127.0.0.1:8322"`

	// StartDelay is the pause between successive launches, avoiding
	// port-bind races and keeping startup logs readable.
	StartDelay time.Duration `envconfig:"START_DELAY" default:"2s"`

	// PollInterval is the liveness sweep interval of the monitor loop.
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`

	// GracePeriod is how long a child gets to exit after SIGTERM before
	// it is killed.
	GracePeriod time.Duration `envconfig:"GRACE_PERIOD" default:"5s"`

	// ProbeTimeout bounds every health probe HTTP request.
	ProbeTimeout time.Duration `envconfig:"PROBE_TIMEOUT" default:"3s"`
}

// LoadConfig builds a Config from the environment.
func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("supervisor", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DefaultConfig returns a Config with all defaults and no environment
// lookup.  Intended for tests and embedding.
func DefaultConfig() Config {
	return Config{
		LogLevel:      "info",
		Development:   true,
		MarkerFile:    "pathways-integration.ts",
		ListenAddress: "127.0.0.1:8322",
		StartDelay:    2 * time.Second,
		PollInterval:  10 * time.Second,
		GracePeriod:   5 * time.Second,
		ProbeTimeout:  3 * time.Second,
	}
}
