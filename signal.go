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
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

// SignalBridge translates external interrupt and terminate signals into a
// context cancellation that the control loop observes.  No shutdown logic
// runs in handler context; the handler only cancels, which is safe at any
// point during startup or monitoring.  A second signal exits immediately.
type SignalBridge struct {
	ch     chan os.Signal
	logger *zap.Logger
}

// NewSignalBridge registers for SIGINT and SIGTERM.
func NewSignalBridge(logger *zap.Logger) *SignalBridge {
	b := &SignalBridge{
		ch:     make(chan os.Signal, 2),
		logger: logger,
	}
	signal.Notify(b.ch, os.Interrupt, syscall.SIGTERM)
	return b
}

// Bind derives a context that is cancelled on the first signal.
func (b *SignalBridge) Bind(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		select {
		case sig := <-b.ch:
			b.logger.Warn("received signal, shutting down",
				zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
			return
		}
		// Let an impatient operator cut the grace period short.
		sig := <-b.ch
		b.logger.Error("received second signal, exiting now",
			zap.String("signal", sig.String()))
		os.Exit(1)
	}()
	return ctx
}

// Close unregisters the signal handlers.
func (b *SignalBridge) Close() {
	signal.Stop(b.ch)
}
