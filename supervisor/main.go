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

// Command supervisor starts the MeshAdmin network platform applications
// locally and supervises them until interrupted.
//
// The flags are
//
//	-a <address>	- status listen address (empty disables the listener)
//	-r <file>	- registry YAML file (default: built-in platform set)
//	-n <name>	- supervisor name
//
// Subcommands are
//
//	(none)   - start all applications and monitor them (foreground)
//	start    - start all applications and block until interrupted
//	health   - probe all configured applications once and print results
//	status   - show per-application state from a running supervisor
//	stop     - advisory only; signal the supervising invocation instead
//
// Every setting also has a SUPERVISOR_ environment variable; see the
// netsup package Config.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/meshadmin/netsup"
	"github.com/meshadmin/netsup/rest"
)

var name string = "netsup"

func usage() {
	fmt.Fprintf(os.Stderr,
		"Usage: %s [-a <address>] [-r <registry>] [-n <name>] "+
			"[start|health|status|stop]\n", os.Args[0])
	os.Exit(2)
}

func main() {
	cfg, err := netsup.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad configuration: %v\n", err)
		os.Exit(1)
	}

	flag.StringVar(&cfg.ListenAddress, "a", cfg.ListenAddress,
		"status listen address")
	flag.StringVar(&cfg.Registry, "r", cfg.Registry, "registry file")
	flag.StringVar(&name, "n", name, "supervisor name")
	flag.Parse()

	logger := netsup.NewLogger(cfg)
	defer logger.Sync()

	reg := netsup.DefaultRegistry()
	if cfg.Registry != "" {
		if reg, err = netsup.LoadRegistry(cfg.Registry); err != nil {
			logger.Fatal("failed to load registry",
				zap.String("path", cfg.Registry), zap.Error(err))
		}
	}

	switch flag.Arg(0) {
	case "":
		run(cfg, reg, logger, true)
	case "start":
		run(cfg, reg, logger, false)
	case "health":
		health(cfg, reg)
	case "status":
		if err := status(cfg, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	case "stop":
		// Stopping needs the tracking invocation's own state, which
		// died with that process or belongs to another one.
		fmt.Println("stop: interrupt the supervising invocation " +
			"(Ctrl+C or SIGTERM) to stop the platform")
	default:
		usage()
	}
}

// run is both the interactive foreground mode and the bare start mode.
// Interactive mode additionally polls liveness and exits once every
// application has stopped.
func run(cfg netsup.Config, reg *netsup.Registry, logger *zap.Logger, interactive bool) {
	s := netsup.New(name, cfg, reg, logger)

	bridge := netsup.NewSignalBridge(logger)
	defer bridge.Close()
	ctx := bridge.Bind(context.Background())

	if cfg.ListenAddress != "" {
		probe := netsup.NewProbe(cfg.ProbeTimeout)
		go func() {
			e := http.ListenAndServe(cfg.ListenAddress,
				rest.NewHandler(s, probe))
			logger.Warn("status listener stopped", zap.Error(e))
		}()
	}

	s.StartAll(ctx)
	if interactive {
		s.Monitor(ctx)
	} else {
		<-ctx.Done()
	}
	s.StopAll()
}

// health probes the configured applications directly; it works no matter
// which invocation actually started them.
func health(cfg netsup.Config, reg *netsup.Registry) {
	p := netsup.NewProbe(cfg.ProbeTimeout)
	for _, r := range p.CheckAll(reg.Specs()) {
		if r.Detail != "" {
			fmt.Printf("%-24s %-12s %s\n", r.App, r.Status, r.Detail)
		} else {
			fmt.Printf("%-24s %s\n", r.App, r.Status)
		}
	}
}

// status queries a running supervisor's REST surface.  The listener is
// optional, so a disabled address is reported up front rather than as a
// transport error against a bare "http://" base.
func status(cfg netsup.Config, w io.Writer) error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("status surface disabled (empty listen address)")
	}
	c := rest.NewClient("http://"+cfg.ListenAddress, cfg.ProbeTimeout)
	info, err := c.Info()
	if err != nil {
		return fmt.Errorf("cannot reach supervisor at %s: %v",
			cfg.ListenAddress, err)
	}
	fmt.Fprintf(w, "%s (%s), %d application(s) tracked\n",
		info.Name, info.StateName, info.Applications)

	names, err := c.Applications()
	if err != nil {
		return fmt.Errorf("failed to list applications: %v", err)
	}
	for _, n := range names {
		ai, err := c.Application(n)
		if err != nil {
			fmt.Fprintf(w, "%-24s ?\n", n)
			continue
		}
		state := "not tracked"
		if ai.Tracked {
			state = fmt.Sprintf("%s (pid %d)", ai.State, ai.Pid)
		}
		fmt.Fprintf(w, "%-24s %-20s %s\n", ai.Name, state, ai.URL)
	}
	return nil
}
