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
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// LaunchMode selects how an application is started.
type LaunchMode string

const (
	// ModeManaged runs a long-lived dev server command in the
	// application directory, with PORT and related variables in the
	// environment.
	ModeManaged LaunchMode = "managed"

	// ModeStatic serves the application directory with a generic static
	// file server bound to the application port.
	ModeStatic LaunchMode = "static"
)

// DefaultHealthPath is the health endpoint managed applications are
// expected to document.
const DefaultHealthPath = "/api/pathways/health"

// ApplicationSpec describes one application of the platform.  Specs are
// immutable once the registry is built.
type ApplicationSpec struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Directory   string     `yaml:"directory"`
	Port        int        `yaml:"port"`
	Mode        LaunchMode `yaml:"mode"`

	// HealthPath is the health endpoint for managed applications.
	// Empty means DefaultHealthPath.
	HealthPath string `yaml:"healthPath"`

	// Command overrides the mode's default command line.  Mostly useful
	// for tests and for applications with a nonstandard dev server
	// invocation.
	Command []string `yaml:"command"`
}

// URL returns the base URL the application is expected to answer on.
func (a ApplicationSpec) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", a.Port)
}

func (a ApplicationSpec) validate() error {
	if a.Name == "" {
		return ErrNoName
	}
	if a.Directory == "" {
		return fmt.Errorf("%s: %w", a.Name, ErrNoDirectory)
	}
	if a.Port <= 0 || a.Port > 65535 {
		return fmt.Errorf("%s: %w", a.Name, ErrBadPort)
	}
	switch a.Mode {
	case ModeManaged, ModeStatic:
	default:
		return fmt.Errorf("%s: %q: %w", a.Name, a.Mode, ErrBadMode)
	}
	return nil
}

// Registry is the ordered, validated set of applications for one run.
// It has no behavior beyond iteration and lookup.
type Registry struct {
	specs []ApplicationSpec
}

// NewRegistry validates the given specs and returns a registry preserving
// their order.  Names must be unique.
func NewRegistry(specs []ApplicationSpec) (*Registry, error) {
	seen := make(map[string]bool, len(specs))
	out := make([]ApplicationSpec, 0, len(specs))
	for _, a := range specs {
		if err := a.validate(); err != nil {
			return nil, err
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("%s: %w", a.Name, ErrDuplicateName)
		}
		seen[a.Name] = true
		if a.Mode == ModeManaged && a.HealthPath == "" {
			a.HealthPath = DefaultHealthPath
		}
		out = append(out, a)
	}
	return &Registry{specs: out}, nil
}

// LoadRegistry reads a registry from a YAML document containing a list of
// application specs.
func LoadRegistry(path string) (*Registry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var specs []ApplicationSpec
	if err := yaml.Unmarshal(b, &specs); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewRegistry(specs)
}

// Specs returns a copy of the registry in launch order.
func (r *Registry) Specs() []ApplicationSpec {
	return append([]ApplicationSpec{}, r.specs...)
}

// Len returns the number of registered applications.
func (r *Registry) Len() int {
	return len(r.specs)
}

// Find looks up a spec by name.
func (r *Registry) Find(name string) (ApplicationSpec, bool) {
	for _, a := range r.specs {
		if a.Name == name {
			return a, true
		}
	}
	return ApplicationSpec{}, false
}

// DefaultRegistry returns the built-in registry of platform applications.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]ApplicationSpec{
		{
			Name:        "topology-master",
			Description: "Master topology management and visualization",
			Directory:   "apps/topology-master",
			Port:        5000,
			Mode:        ModeManaged,
		},
		{
			Name:        "network-design-studio",
			Description: "Interactive network design and planning",
			Directory:   "apps/network-design-studio",
			Port:        5001,
			Mode:        ModeManaged,
		},
		{
			Name:        "topology-mapper",
			Description: "Real-time network discovery and mapping",
			Directory:   "apps/topology-mapper",
			Port:        5002,
			Mode:        ModeManaged,
		},
		{
			Name:        "diagram-monster",
			Description: "Advanced network diagramming engine",
			Directory:   "apps/diagram-monster",
			Port:        5003,
			Mode:        ModeStatic,
		},
	})
	if err != nil {
		// The built-in list is validated by tests; this cannot happen
		// at runtime.
		panic(err)
	}
	return r
}
