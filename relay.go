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
	"bufio"
	"io"
	"strings"
	"sync"
	"time"
)

// Record is one line of child output, tagged with its origin.  Elevated
// marks stderr lines that look like errors.
type Record struct {
	Time     time.Time `json:"time"`
	App      string    `json:"app"`
	Stream   string    `json:"stream"`
	Text     string    `json:"text"`
	Elevated bool      `json:"elevated,omitempty"`
}

// Relay forwards child process output to a shared sink, one goroutine per
// stream.  The readers live for the handle's entire lifetime and end
// naturally when the process exits and its pipes close.  The relay never
// touches handle state.
type Relay struct {
	sink Sink
	wg   sync.WaitGroup
}

// NewRelay returns a relay delivering to the given sink.
func NewRelay(sink Sink) *Relay {
	return &Relay{sink: sink}
}

// Attach starts the stdout and stderr readers for a handle.
func (r *Relay) Attach(h *Handle) {
	name := h.Spec().Name
	r.wg.Add(2)
	go r.pump(name, "stdout", h.stdout, false)
	go r.pump(name, "stderr", h.stderr, true)
}

// Drain blocks until every attached stream has closed.
func (r *Relay) Drain() {
	r.wg.Wait()
}

func (r *Relay) pump(app, stream string, rd io.Reader, tagErrors bool) {
	defer r.wg.Done()
	// Gather output in chunks of lines.
	reader := bufio.NewReader(rd)
	for {
		line, err := reader.ReadString('\n')
		if len(line) != 0 {
			text := strings.TrimRight(line, "\r\n")
			r.sink.Emit(Record{
				Time:     time.Now(),
				App:      app,
				Stream:   stream,
				Text:     text,
				Elevated: tagErrors && isErrorLine(text),
			})
		}
		if err != nil {
			return
		}
	}
}

func isErrorLine(text string) bool {
	return strings.Contains(strings.ToLower(text), "error")
}
