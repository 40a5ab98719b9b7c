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
	"time"
)

const (
	MaxLogRecords = 1000
)

// LogRecord is one captured output line with its assigned id.  Ids are
// monotonic within a Log instance and suitable for use as an Etag.
type LogRecord struct {
	Id int64 `json:"id,string"`
	Record
}

// Log is a bounded in-memory buffer of relayed output records.  Older
// records are overwritten once the buffer is full, so a slow or absent
// reader can never stall the writers.
type Log struct {
	records    []LogRecord
	numRecords int
	maxRecords int
	id         int64
	cvs        map[*sync.Cond]bool
	mx         sync.Mutex
}

func (log *Log) lock() {
	log.mx.Lock()
}

func (log *Log) unlock() {
	log.mx.Unlock()
}

// Emit implements the Sink interface, appending one record.
func (log *Log) Emit(rec Record) {
	log.lock()
	if log.maxRecords == 0 {
		log.maxRecords = MaxLogRecords
	}
	if log.records == nil {
		log.records = make([]LogRecord, log.maxRecords)
	}
	idx := log.numRecords % log.maxRecords
	log.id++
	log.records[idx] = LogRecord{Id: log.id, Record: rec}
	// NB: numRecords may actually be more than maxRecords.  In that
	// case we've looped, but we use this really to track the next index.
	log.numRecords++
	for cv := range log.cvs {
		cv.Broadcast()
	}
	log.unlock()
}

// GetRecords returns the buffered records along with the id of the newest
// one.  If last matches that id the log has not changed and nil is
// returned immediately, without duplicating records.
func (log *Log) GetRecords(last int64) ([]LogRecord, int64) {
	log.lock()
	if log.id == last {
		log.unlock()
		return nil, last
	}
	cnt := log.numRecords
	if cnt > log.maxRecords {
		cnt = log.maxRecords
	}
	recs := make([]LogRecord, 0, cnt)
	index := log.numRecords - cnt
	for j := 0; j < cnt; j++ {
		recs = append(recs, log.records[index%log.maxRecords])
		index++
	}
	id := log.id
	log.unlock()
	return recs, id
}

// Watch blocks until the log id differs from last, or the expiration
// passes.  An expiration of zero polls.  It returns the current id.
func (log *Log) Watch(last int64, expire time.Duration) int64 {
	expired := false
	var timer *time.Timer
	cv := sync.NewCond(&log.mx)
	if expire > 0 {
		timer = time.AfterFunc(expire, func() {
			log.lock()
			expired = true
			cv.Broadcast()
			log.unlock()
		})
	} else {
		expired = true
	}

	log.lock()
	log.cvs[cv] = true
	for {
		if log.id != last || expired {
			break
		}
		cv.Wait()
	}
	delete(log.cvs, cv)
	if log.id != last {
		last = log.id
	}
	log.unlock()
	if timer != nil {
		timer.Stop()
	}
	return last
}

// NewLog returns a Log instance.
func NewLog() *Log {
	return &Log{
		records:    make([]LogRecord, MaxLogRecords),
		maxRecords: MaxLogRecords,
		// We presume that we cannot add new records more quickly
		// than once every nanosecond.
		id:  time.Now().UnixNano(),
		cvs: make(map[*sync.Cond]bool),
	}
}
