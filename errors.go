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
	"errors"
	"fmt"
)

var (
	ErrBadMode       = errors.New("unknown launch mode")
	ErrBadPort       = errors.New("port out of range")
	ErrNoName        = errors.New("application name is required")
	ErrNoDirectory   = errors.New("working directory is required")
	ErrDuplicateName = errors.New("duplicate application name")
)

// SpawnError reports a failure to create the OS process for one
// application.  The application is excluded from the run; the error is
// never fatal to the supervisor itself.
type SpawnError struct {
	App string
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.App, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
