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

// Package netsup supervises the local applications that make up the
// MeshAdmin network platform.  It starts a fixed set of child processes
// (long-running dev servers or simple static file servers), relays their
// output to a shared log, periodically verifies that they are still alive,
// probes their health over HTTP on demand, and tears everything down,
// gracefully and then forcefully, on shutdown.
//
// The supervisor is deliberately local and stateless: it does not schedule
// across machines, it does not sandbox children, it does not order them by
// dependency, and it remembers nothing across its own restarts.  Each
// application is described by an ApplicationSpec, launched by a Launcher,
// and tracked by the Supervisor for exactly one run.
//
// An optional read-only REST surface (see the rest subpackage) exposes the
// tracked set, the captured output log, and one-shot health sweeps to other
// local tools.
package netsup
