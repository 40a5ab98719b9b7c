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
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/meshadmin/netsup"
)

// Handler wraps a Supervisor, adding http.Handler functionality.
type Handler struct {
	s *netsup.Supervisor
	p *netsup.Probe
	r *mux.Router
}

func (h *Handler) internalError(w http.ResponseWriter, e error) {
	http.Error(w, e.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJson(w http.ResponseWriter, v interface{}) {
	if b, e := json.Marshal(v); e != nil {
		h.internalError(w, e)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.Write(b)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, e *Error) {
	if b, err := json.Marshal(e); err != nil {
		h.internalError(w, err)
	} else {
		w.Header().Set("Content-Type", mimeJson)
		w.WriteHeader(e.Code)
		w.Write(b)
	}
}

func (h *Handler) getInfo(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.s.GetInfo())
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	specs := h.s.Registry().Specs()
	l := make([]string, 0, len(specs))
	for _, spec := range specs {
		l = append(l, spec.Name)
	}
	h.writeJson(w, l)
}

func (h *Handler) appInfo(spec netsup.ApplicationSpec) *ApplicationInfo {
	info := &ApplicationInfo{
		Name:        spec.Name,
		Description: spec.Description,
		Port:        spec.Port,
		Mode:        string(spec.Mode),
		URL:         spec.URL(),
	}
	if handle, ok := h.s.Find(spec.Name); ok {
		info.Tracked = true
		info.State = handle.State().String()
		info.Pid = handle.Pid()
		if ei := handle.ExitInfo(); ei != nil {
			code := ei.Code
			when := ei.When
			info.ExitCode = &code
			info.ExitTime = &when
		}
	}
	return info
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["app"]
	spec, ok := h.s.Registry().Find(name)
	if !ok {
		h.writeError(w, &Error{http.StatusNotFound,
			"Application not found"})
		return
	}
	h.writeJson(w, h.appInfo(spec))
}

// getLog serves the captured output buffer.  The optional after parameter
// carries the id from a previous fetch; combined with wait (seconds) it
// becomes a long poll that returns early when new output arrives.
func (h *Handler) getLog(w http.ResponseWriter, r *http.Request) {
	after, _ := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
	if secs, _ := strconv.Atoi(r.URL.Query().Get("wait")); secs > 0 {
		h.s.Log().Watch(after, time.Duration(secs)*time.Second)
	}
	recs, id := h.s.Log().GetRecords(after)
	h.writeJson(w, &logPayload{Id: id, Records: recs})
}

func (h *Handler) getApplicationLog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name := vars["app"]
	if _, ok := h.s.Registry().Find(name); !ok {
		h.writeError(w, &Error{http.StatusNotFound,
			"Application not found"})
		return
	}
	recs, id := h.s.Log().GetRecords(0)
	out := make([]netsup.LogRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.App == name {
			out = append(out, rec)
		}
	}
	h.writeJson(w, &logPayload{Id: id, Records: out})
}

func (h *Handler) getHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJson(w, h.p.CheckAll(h.s.Registry().Specs()))
}

type logPayload struct {
	Id      int64              `json:"id,string"`
	Records []netsup.LogRecord `json:"records"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.r.ServeHTTP(w, req)
}

// NewHandler builds the read-only status surface for a supervisor.
func NewHandler(s *netsup.Supervisor, p *netsup.Probe) *Handler {
	r := mux.NewRouter()
	h := &Handler{s: s, p: p, r: r}
	r.HandleFunc("/", h.getInfo).Methods("GET")
	r.HandleFunc("/applications", h.listApplications).Methods("GET")
	r.HandleFunc("/applications/{app}", h.getApplication).Methods("GET")
	r.HandleFunc("/applications/{app}/log", h.getApplicationLog).Methods("GET")
	r.HandleFunc("/log", h.getLog).Methods("GET")
	r.HandleFunc("/health", h.getHealth).Methods("GET")
	return h
}
