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
	"strings"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// captureSink records everything emitted to it.
type captureSink struct {
	mu   sync.Mutex
	recs []Record
}

func (c *captureSink) Emit(r Record) {
	c.mu.Lock()
	c.recs = append(c.recs, r)
	c.mu.Unlock()
}

func (c *captureSink) records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Record{}, c.recs...)
}

func TestRelayPump(t *testing.T) {
	Convey("Stdout lines are tagged but never elevated", t, func() {
		sink := &captureSink{}
		r := NewRelay(sink)
		r.wg.Add(1)
		r.pump("alpha", "stdout", strings.NewReader(
			"hello\nan Error occurred\n"), false)
		r.Drain()

		recs := sink.records()
		So(len(recs), ShouldEqual, 2)
		So(recs[0].App, ShouldEqual, "alpha")
		So(recs[0].Stream, ShouldEqual, "stdout")
		So(recs[0].Text, ShouldEqual, "hello")
		So(recs[0].Elevated, ShouldBeFalse)
		So(recs[1].Elevated, ShouldBeFalse)
	})

	Convey("Stderr lines matching error are elevated", t, func() {
		sink := &captureSink{}
		r := NewRelay(sink)
		r.wg.Add(1)
		r.pump("alpha", "stderr", strings.NewReader(
			"warning: low disk\nERROR: it broke\nerror again\n"), true)
		r.Drain()

		recs := sink.records()
		So(len(recs), ShouldEqual, 3)
		So(recs[0].Elevated, ShouldBeFalse)
		So(recs[1].Elevated, ShouldBeTrue)
		So(recs[2].Elevated, ShouldBeTrue)
	})

	Convey("A final unterminated line is still delivered", t, func() {
		sink := &captureSink{}
		r := NewRelay(sink)
		r.wg.Add(1)
		r.pump("alpha", "stdout", strings.NewReader("no newline"), false)
		r.Drain()

		recs := sink.records()
		So(len(recs), ShouldEqual, 1)
		So(recs[0].Text, ShouldEqual, "no newline")
	})

	Convey("Carriage returns are stripped", t, func() {
		sink := &captureSink{}
		r := NewRelay(sink)
		r.wg.Add(1)
		r.pump("alpha", "stdout", strings.NewReader("dos line\r\n"), false)
		r.Drain()

		So(sink.records()[0].Text, ShouldEqual, "dos line")
	})
}
