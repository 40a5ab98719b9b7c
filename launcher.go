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
	"os/exec"
	"strconv"

	"go.uber.org/zap"
)

// Launcher spawns one OS process per application spec.
type Launcher struct {
	pathways bool
	logger   *zap.Logger
}

// NewLauncher builds a launcher.  The pathways marker file is checked
// exactly once, here; its presence only toggles an environment flag for
// managed children and its absence is never an error.
func NewLauncher(cfg Config, logger *zap.Logger) *Launcher {
	l := &Launcher{logger: logger}
	if cfg.MarkerFile != "" {
		if _, err := os.Stat(cfg.MarkerFile); err == nil {
			l.pathways = true
		}
	}
	if l.pathways {
		logger.Info("pathways integration found",
			zap.String("marker", cfg.MarkerFile))
	} else {
		logger.Warn("pathways integration not found, running standalone",
			zap.String("marker", cfg.MarkerFile))
	}
	return l
}

// PathwaysEnabled reports whether the integration marker was present at
// startup.
func (l *Launcher) PathwaysEnabled() bool {
	return l.pathways
}

// Launch starts the process for one spec and returns its handle.  A
// missing working directory or an OS refusal to spawn yields a
// *SpawnError; the caller drops the application and carries on.
func (l *Launcher) Launch(spec ApplicationSpec) (*Handle, error) {
	if fi, err := os.Stat(spec.Directory); err != nil {
		return nil, &SpawnError{App: spec.Name, Err: err}
	} else if !fi.IsDir() {
		return nil, &SpawnError{App: spec.Name,
			Err: fmt.Errorf("%s: not a directory", spec.Directory)}
	}

	cmd := l.command(spec)
	cmd.Dir = spec.Directory
	if spec.Mode == ModeManaged {
		cmd.Env = l.environ(spec)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &SpawnError{App: spec.Name, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		stdout.Close()
		return nil, &SpawnError{App: spec.Name, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &SpawnError{App: spec.Name, Err: err}
	}

	h := newHandle(spec, cmd, stdout, stderr)
	h.markRunning()
	go h.reap()
	return h, nil
}

func (l *Launcher) command(spec ApplicationSpec) *exec.Cmd {
	if len(spec.Command) > 0 {
		return exec.Command(spec.Command[0], spec.Command[1:]...)
	}
	if spec.Mode == ModeStatic {
		return exec.Command("python3", "-m", "http.server",
			strconv.Itoa(spec.Port))
	}
	return exec.Command("npm", "run", "dev")
}

func (l *Launcher) environ(spec ApplicationSpec) []string {
	env := append(os.Environ(),
		"PORT="+strconv.Itoa(spec.Port),
		"ENVIRONMENT=development",
	)
	if l.pathways {
		env = append(env, "PATHWAYS_INTEGRATION=enabled")
	}
	return env
}
