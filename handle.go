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
	"io"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// State is the lifecycle state of one tracked process.
//
//	StateStarting -> StateRunning -> StateExited
//	StateRunning  -> StateTerminating -> {StateExited, StateKilled}
//
// Handles are never reused; after removal from the tracked set they are
// discarded.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateExited
	StateTerminating
	StateKilled
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateExited:
		return "exited"
	case StateTerminating:
		return "terminating"
	case StateKilled:
		return "killed"
	}
	return "unknown"
}

// ExitInfo records how a process ended.
type ExitInfo struct {
	Code int
	Err  error
	When time.Time
}

// Handle tracks one running application process.  The Supervisor
// exclusively owns the collection of handles; the relay and the probe only
// ever read from one.
type Handle struct {
	spec   ApplicationSpec
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
	done   chan struct{}

	mu    sync.Mutex
	state State
	exit  *ExitInfo
}

func newHandle(spec ApplicationSpec, cmd *exec.Cmd, stdout, stderr io.ReadCloser) *Handle {
	return &Handle{
		spec:   spec,
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		done:   make(chan struct{}),
		state:  StateStarting,
	}
}

// Spec returns the owning application spec.
func (h *Handle) Spec() ApplicationSpec {
	return h.spec
}

// Pid returns the OS process id.
func (h *Handle) Pid() int {
	if h.cmd.Process == nil {
		return -1
	}
	return h.cmd.Process.Pid
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// ExitInfo returns how the process ended, or nil while it is still alive.
func (h *Handle) ExitInfo() *ExitInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.exit == nil {
		return nil
	}
	ei := *h.exit
	return &ei
}

// Alive reports whether the OS has not yet reported process termination.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// Done is closed once the process has been reaped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// WaitExit blocks until the process exits or the duration elapses,
// reporting whether it exited in time.
func (h *Handle) WaitExit(d time.Duration) bool {
	select {
	case <-h.done:
		return true
	case <-time.After(d):
		return false
	}
}

func (h *Handle) markRunning() {
	h.mu.Lock()
	if h.state == StateStarting {
		h.state = StateRunning
	}
	h.mu.Unlock()
}

// reap waits for the process and records its exit.  It runs on its own
// goroutine for the handle's entire lifetime.
func (h *Handle) reap() {
	err := h.cmd.Wait()
	code := -1
	if ps := h.cmd.ProcessState; ps != nil {
		code = ps.ExitCode()
	}
	h.mu.Lock()
	h.exit = &ExitInfo{Code: code, Err: err, When: time.Now()}
	if h.state != StateKilled {
		h.state = StateExited
	}
	h.mu.Unlock()
	close(h.done)
}

// Terminate sends the cooperative shutdown signal.  The child may handle
// it and exit on its own within the supervisor's grace period.
func (h *Handle) Terminate() error {
	h.mu.Lock()
	if h.state == StateRunning || h.state == StateStarting {
		h.state = StateTerminating
	}
	h.mu.Unlock()
	return h.cmd.Process.Signal(syscall.SIGTERM)
}

// Kill unconditionally terminates the process at the OS level.
func (h *Handle) Kill() error {
	h.mu.Lock()
	if h.exit == nil {
		h.state = StateKilled
	}
	h.mu.Unlock()
	return h.cmd.Process.Kill()
}
