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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupervisorState is the lifecycle of the supervisor itself.
//
//	SupervisorIdle -> SupervisorRunning -> SupervisorShuttingDown ->
//	SupervisorStopped
type SupervisorState int

const (
	SupervisorIdle SupervisorState = iota
	SupervisorRunning
	SupervisorShuttingDown
	SupervisorStopped
)

func (s SupervisorState) String() string {
	switch s {
	case SupervisorIdle:
		return "idle"
	case SupervisorRunning:
		return "running"
	case SupervisorShuttingDown:
		return "shutting-down"
	case SupervisorStopped:
		return "stopped"
	}
	return "unknown"
}

// Info is a consistent snapshot of top-level supervisor state.
type Info struct {
	Name         string          `json:"name"`
	RunID        string          `json:"runId"`
	State        SupervisorState `json:"-"`
	StateName    string          `json:"state"`
	CreateTime   time.Time       `json:"createTime"`
	Applications int             `json:"applications"`
	Pathways     bool            `json:"pathways"`
}

// Supervisor owns the tracked set of process handles and orchestrates
// start-all, liveness monitoring, and graceful-then-forced shutdown.  The
// tracked set is mutated only under the supervisor's lock; the relay and
// probe never hold it.
//
// Supervisors have explicit lifecycles and no package-level state, so
// multiple independent instances can run side by side (tests do).
type Supervisor struct {
	name     string
	cfg      Config
	reg      *Registry
	launcher *Launcher
	relay    *Relay
	logger   *zap.Logger
	logbuf   *Log
	runID    string
	created  time.Time

	mx      sync.Mutex
	state   SupervisorState
	handles []*Handle
}

// New builds a supervisor for the given registry.  Nothing is started
// until StartAll.
func New(name string, cfg Config, reg *Registry, logger *zap.Logger) *Supervisor {
	if name == "" {
		name = "netsup"
	}
	logbuf := NewLog()
	return &Supervisor{
		name:     name,
		cfg:      cfg,
		reg:      reg,
		launcher: NewLauncher(cfg, logger),
		relay:    NewRelay(NewTeeSink(NewZapSink(logger), logbuf)),
		logger:   logger,
		logbuf:   logbuf,
		runID:    uuid.NewString(),
		created:  time.Now(),
		state:    SupervisorIdle,
	}
}

func (s *Supervisor) lock() {
	s.mx.Lock()
}

func (s *Supervisor) unlock() {
	s.mx.Unlock()
}

// Name returns the name the supervisor was allocated with.
func (s *Supervisor) Name() string {
	return s.name
}

// State returns the supervisor's own lifecycle state.
func (s *Supervisor) State() SupervisorState {
	s.lock()
	defer s.unlock()
	return s.state
}

// Registry returns the application registry for this run.
func (s *Supervisor) Registry() *Registry {
	return s.reg
}

// Log returns the buffer of captured child output.
func (s *Supervisor) Log() *Log {
	return s.logbuf
}

// Handles returns a snapshot copy of the tracked set in launch order.
func (s *Supervisor) Handles() []*Handle {
	s.lock()
	defer s.unlock()
	return append([]*Handle{}, s.handles...)
}

// Find returns the tracked handle for an application name, if any.
func (s *Supervisor) Find(name string) (*Handle, bool) {
	s.lock()
	defer s.unlock()
	for _, h := range s.handles {
		if h.Spec().Name == name {
			return h, true
		}
	}
	return nil, false
}

// GetInfo returns top-level information about the supervisor.
func (s *Supervisor) GetInfo() *Info {
	s.lock()
	defer s.unlock()
	return &Info{
		Name:         s.name,
		RunID:        s.runID,
		State:        s.state,
		StateName:    s.state.String(),
		CreateTime:   s.created,
		Applications: len(s.handles),
		Pathways:     s.launcher.PathwaysEnabled(),
	}
}

// StartAll launches every registered application in registry order, with a
// short delay between launches.  A spawn failure is logged and that
// application is simply excluded; it never aborts the others.  Cancelling
// the context skips any launches still outstanding.  When the loop ends
// the supervisor is Running, even for a partially-started (or fully
// cancelled) run, so that a following StopAll tears down whatever subset
// did launch.
func (s *Supervisor) StartAll(ctx context.Context) {
	s.logger.Info("starting platform applications",
		zap.String("run_id", s.runID),
		zap.Int("count", s.reg.Len()))

	for _, spec := range s.reg.Specs() {
		if ctx.Err() != nil {
			s.logger.Warn("startup cancelled, skipping remaining launches",
				zap.String("app", spec.Name))
			break
		}
		h, err := s.launcher.Launch(spec)
		if err != nil {
			s.logger.Error("failed to start application",
				zap.String("app", spec.Name),
				zap.Error(err))
			continue
		}
		s.relay.Attach(h)
		s.lock()
		s.handles = append(s.handles, h)
		s.unlock()
		s.logger.Info("application started",
			zap.String("app", spec.Name),
			zap.Int("port", spec.Port),
			zap.Int("pid", h.Pid()),
			zap.String("url", spec.URL()),
			zap.String("description", spec.Description))

		select {
		case <-time.After(s.cfg.StartDelay):
		case <-ctx.Done():
		}
	}

	s.lock()
	s.state = SupervisorRunning
	n := len(s.handles)
	s.unlock()
	s.logger.Info("startup complete", zap.Int("started", n))
}

// Monitor polls the tracked set for liveness until the context is
// cancelled or every application has stopped.  A handle found dead is
// removed exactly once and logged as an unexpected stop; nothing is
// restarted.
func (s *Supervisor) Monitor(ctx context.Context) {
	t := time.NewTicker(s.cfg.PollInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		if s.sweep() == 0 {
			s.logger.Warn("all applications stopped, exiting monitor")
			return
		}
	}
}

// sweep removes handles whose OS process has terminated and returns the
// number still tracked.
func (s *Supervisor) sweep() int {
	var live, dead []*Handle
	s.lock()
	for _, h := range s.handles {
		if h.Alive() {
			live = append(live, h)
		} else {
			dead = append(dead, h)
		}
	}
	s.handles = live
	s.unlock()

	for _, h := range dead {
		f := []zap.Field{zap.String("app", h.Spec().Name)}
		if ei := h.ExitInfo(); ei != nil {
			f = append(f, zap.Int("code", ei.Code))
		}
		s.logger.Warn("application stopped unexpectedly", f...)
	}
	return len(live)
}

// StopAll stops every tracked application: a cooperative termination
// signal first, then a forced kill for anything that has not exited within
// the grace period.  Each handle's escalation runs independently, so one
// slow child never delays signalling the next.  StopAll is idempotent; it
// is a no-op unless the supervisor is Running.  The tracked set is cleared
// and the state is Stopped unconditionally, even if some process could not
// be signalled.
func (s *Supervisor) StopAll() {
	s.lock()
	if s.state != SupervisorRunning {
		s.unlock()
		return
	}
	s.state = SupervisorShuttingDown
	handles := s.handles
	s.handles = nil
	s.unlock()

	s.logger.Info("stopping all applications", zap.Int("count", len(handles)))

	var wg sync.WaitGroup
	for _, h := range handles {
		if !h.Alive() {
			continue
		}
		wg.Add(1)
		go func(h *Handle) {
			defer wg.Done()
			s.stopOne(h)
		}(h)
	}
	wg.Wait()

	s.lock()
	s.state = SupervisorStopped
	s.unlock()
	s.logger.Info("all applications stopped")
}

func (s *Supervisor) stopOne(h *Handle) {
	name := h.Spec().Name
	if err := h.Terminate(); err != nil {
		s.logger.Warn("failed to signal application",
			zap.String("app", name), zap.Error(err))
	}
	if h.WaitExit(s.cfg.GracePeriod) {
		s.logger.Info("application stopped", zap.String("app", name))
		return
	}
	s.logger.Warn("graceful shutdown timed out, killing",
		zap.String("app", name), zap.Duration("grace", s.cfg.GracePeriod))
	if err := h.Kill(); err != nil {
		s.logger.Error("failed to kill application",
			zap.String("app", name), zap.Error(err))
	}
}
