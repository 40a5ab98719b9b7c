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
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func rec(app, text string) Record {
	return Record{Time: time.Now(), App: app, Stream: "stdout", Text: text}
}

func TestLogRecords(t *testing.T) {
	Convey("Records are buffered with monotonic ids", t, func() {
		l := NewLog()
		recs, id0 := l.GetRecords(0)
		So(recs, ShouldBeEmpty)

		l.Emit(rec("a", "one"))
		l.Emit(rec("a", "two"))

		recs, id1 := l.GetRecords(0)
		So(len(recs), ShouldEqual, 2)
		So(recs[0].Text, ShouldEqual, "one")
		So(recs[1].Text, ShouldEqual, "two")
		So(recs[1].Id, ShouldBeGreaterThan, recs[0].Id)
		So(id1, ShouldEqual, recs[1].Id)
		So(id1, ShouldBeGreaterThan, id0)

		Convey("An unchanged log returns nothing", func() {
			recs, id2 := l.GetRecords(id1)
			So(recs, ShouldBeNil)
			So(id2, ShouldEqual, id1)
		})
	})

	Convey("A zero-value Log still accepts records", t, func() {
		l := &Log{}
		l.Emit(rec("a", "first"))
		recs, _ := l.GetRecords(0)
		So(len(recs), ShouldEqual, 1)
		So(recs[0].Text, ShouldEqual, "first")
	})

	Convey("The buffer overwrites its oldest records when full", t, func() {
		l := NewLog()
		for i := 0; i < MaxLogRecords+10; i++ {
			l.Emit(rec("a", fmt.Sprintf("line %d", i)))
		}
		recs, _ := l.GetRecords(0)
		So(len(recs), ShouldEqual, MaxLogRecords)
		So(recs[0].Text, ShouldEqual, "line 10")
		So(recs[len(recs)-1].Text,
			ShouldEqual, fmt.Sprintf("line %d", MaxLogRecords+9))
	})
}

func TestLogWatch(t *testing.T) {
	Convey("Watch polls when the expiration is zero", t, func() {
		l := NewLog()
		_, id := l.GetRecords(0)
		So(l.Watch(id, 0), ShouldEqual, id)
	})

	Convey("Watch wakes when a record arrives", t, func() {
		l := NewLog()
		_, id := l.GetRecords(0)
		go func() {
			time.Sleep(10 * time.Millisecond)
			l.Emit(rec("a", "wake up"))
		}()
		newer := l.Watch(id, 5*time.Second)
		So(newer, ShouldBeGreaterThan, id)
	})

	Convey("Watch expires when nothing arrives", t, func() {
		l := NewLog()
		_, id := l.GetRecords(0)
		start := time.Now()
		So(l.Watch(id, 20*time.Millisecond), ShouldEqual, id)
		So(time.Since(start), ShouldBeGreaterThanOrEqualTo,
			20*time.Millisecond)
	})
}
