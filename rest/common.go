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

// Package rest exposes a read-only HTTP surface over a running supervisor
// (tracked applications, captured output, one-shot health sweeps), plus
// the client used by the status subcommand.  Lifecycle mutation is
// deliberately absent; stopping the platform requires signalling the
// original supervising invocation.
package rest

import (
	"time"
)

const (
	mimeJson = "application/json; charset=UTF-8"
)

// ApplicationInfo describes one registered application and, when it is
// currently tracked, its process state.
type ApplicationInfo struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Port        int        `json:"port"`
	Mode        string     `json:"mode"`
	URL         string     `json:"url"`
	Tracked     bool       `json:"tracked"`
	State       string     `json:"state,omitempty"`
	Pid         int        `json:"pid,omitempty"`
	ExitCode    *int       `json:"exitCode,omitempty"`
	ExitTime    *time.Time `json:"exitTime,omitempty"`
}

// Error is the JSON error payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}
