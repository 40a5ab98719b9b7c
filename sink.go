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
	"sync"

	"go.uber.org/zap"
)

// Sink consumes relayed output records.  Implementations must be safe for
// concurrent use and must never block for unbounded time; the relay calls
// Emit from one goroutine per child stream.
type Sink interface {
	Emit(Record)
}

// ZapSink forwards records to a zap logger, tagging the application and
// stream and raising elevated records to error level.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (z *ZapSink) Emit(rec Record) {
	fields := []zap.Field{
		zap.String("app", rec.App),
		zap.String("stream", rec.Stream),
	}
	if rec.Elevated {
		z.logger.Error(rec.Text, fields...)
	} else {
		z.logger.Info(rec.Text, fields...)
	}
}

// TeeSink fans each record out to multiple sinks, so that a single relay
// stream feeds both the structured log and the in-memory record buffer.
// Sinks may be added and removed while the relay runs.
type TeeSink struct {
	lock  sync.Mutex
	sinks []Sink
}

// NewTeeSink returns a TeeSink delivering to the given sinks.
func NewTeeSink(sinks ...Sink) *TeeSink {
	return &TeeSink{sinks: sinks}
}

func (t *TeeSink) Emit(rec Record) {
	t.lock.Lock()
	for _, s := range t.sinks {
		s.Emit(rec)
	}
	t.lock.Unlock()
}

// AddSink registers another destination.  A sink can only be added once.
func (t *TeeSink) AddSink(s Sink) {
	t.lock.Lock()
	defer t.lock.Unlock()
	for _, x := range t.sinks {
		if x == s {
			return
		}
	}
	t.sinks = append(t.sinks, s)
}

// DelSink removes a destination from the fan-out list.
func (t *TeeSink) DelSink(s Sink) {
	t.lock.Lock()
	defer t.lock.Unlock()
	for i, x := range t.sinks {
		if x == s {
			t.sinks = append(t.sinks[:i], t.sinks[i+1:]...)
			break
		}
	}
}
