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

package rest

import (
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/zap"

	"github.com/meshadmin/netsup"
)

func testServer(t *testing.T) (*httptest.Server, *netsup.Supervisor) {
	reg, err := netsup.NewRegistry([]netsup.ApplicationSpec{
		{
			Name:        "alpha",
			Description: "First test app",
			Directory:   t.TempDir(),
			Port:        1,
			Mode:        netsup.ModeManaged,
		},
		{
			Name:      "beta",
			Directory: t.TempDir(),
			Port:      2,
			Mode:      netsup.ModeStatic,
		},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	cfg := netsup.DefaultConfig()
	cfg.MarkerFile = ""
	cfg.ProbeTimeout = 200 * time.Millisecond

	s := netsup.New("rest-test", cfg, reg, zap.NewNop())
	h := NewHandler(s, netsup.NewProbe(cfg.ProbeTimeout))
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, s
}

func TestRestInfo(t *testing.T) {
	Convey("The root document describes the supervisor", t, func() {
		ts, _ := testServer(t)
		c := NewClient(ts.URL, time.Second)

		info, err := c.Info()
		So(err, ShouldBeNil)
		So(info.Name, ShouldEqual, "rest-test")
		So(info.StateName, ShouldEqual, "idle")
		So(info.RunID, ShouldNotBeEmpty)
		So(info.Applications, ShouldEqual, 0)
	})
}

func TestRestApplications(t *testing.T) {
	Convey("Applications are listed in registry order", t, func() {
		ts, _ := testServer(t)
		c := NewClient(ts.URL, time.Second)

		names, err := c.Applications()
		So(err, ShouldBeNil)
		So(names, ShouldResemble, []string{"alpha", "beta"})

		Convey("Each application has an info document", func() {
			ai, err := c.Application("alpha")
			So(err, ShouldBeNil)
			So(ai.Description, ShouldEqual, "First test app")
			So(ai.Port, ShouldEqual, 1)
			So(ai.Mode, ShouldEqual, "managed")
			So(ai.Tracked, ShouldBeFalse)
			So(ai.URL, ShouldEqual, "http://127.0.0.1:1")
		})

		Convey("An unknown application is a 404", func() {
			_, err := c.Application("gamma")
			So(err, ShouldNotBeNil)
			re, ok := err.(*Error)
			So(ok, ShouldBeTrue)
			So(re.Code, ShouldEqual, 404)
		})
	})
}

func TestRestLog(t *testing.T) {
	Convey("Captured output is served with ids", t, func() {
		ts, s := testServer(t)
		c := NewClient(ts.URL, time.Second)

		recs, id, err := c.Log(0)
		So(err, ShouldBeNil)
		So(recs, ShouldBeEmpty)

		s.Log().Emit(netsup.Record{
			Time: time.Now(), App: "alpha",
			Stream: "stdout", Text: "booted",
		})
		s.Log().Emit(netsup.Record{
			Time: time.Now(), App: "beta",
			Stream: "stderr", Text: "ERROR: nope", Elevated: true,
		})

		recs, newer, err := c.Log(0)
		So(err, ShouldBeNil)
		So(len(recs), ShouldEqual, 2)
		So(newer, ShouldBeGreaterThan, id)
		So(recs[0].App, ShouldEqual, "alpha")
		So(recs[0].Text, ShouldEqual, "booted")
		So(recs[1].Elevated, ShouldBeTrue)

		Convey("The per-application log is filtered", func() {
			only, err := c.ApplicationLog("beta")
			So(err, ShouldBeNil)
			So(len(only), ShouldEqual, 1)
			So(only[0].App, ShouldEqual, "beta")
		})

		Convey("An up-to-date id yields nothing new", func() {
			again, _, err := c.Log(newer)
			So(err, ShouldBeNil)
			So(again, ShouldBeEmpty)
		})
	})
}

func TestRestHealth(t *testing.T) {
	Convey("The health sweep classifies every application", t, func() {
		ts, _ := testServer(t)
		c := NewClient(ts.URL, time.Second)

		results, err := c.Health()
		So(err, ShouldBeNil)
		So(len(results), ShouldEqual, 2)
		// Nothing listens on ports 1 and 2.
		So(results[0].App, ShouldEqual, "alpha")
		So(results[0].Status, ShouldEqual, netsup.ProbeUnreachable)
		So(results[1].App, ShouldEqual, "beta")
		So(results[1].Status, ShouldEqual, netsup.ProbeUnreachable)
	})
}
