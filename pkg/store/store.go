/*
Copyright 2022 The Vizlog Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

/*
Package store implements an in-memory, time-indexed column store. Each logged
attribute of an entity is kept as its own sorted column; queries reassemble the
columns into per-instant composite records through a range join. This store should be
used for local development and testing purposes; it makes no persistence guarantees.
*/

package store

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/vizlog/vizlog/pkg/channel"
	"github.com/vizlog/vizlog/pkg/join"
	"github.com/vizlog/vizlog/pkg/metrics"
)

// Row is one stored cell of a column, a payload keyed by its timestamp.
type Row = channel.Pair[int64, []byte]

// column is the sorted row list of a single attribute.
type column struct {
	rows []Row
}

// insert places a row keeping the column sorted by timestamp. Within a run of equal
// timestamps the new row goes last, so that the latest append wins downstream.
func (c *column) insert(r Row) {
	idx := sort.Search(len(c.rows), func(i int) bool {
		return c.rows[i].Index > r.Index
	})
	c.rows = append(c.rows, Row{})
	copy(c.rows[idx+1:], c.rows[idx:])
	c.rows[idx] = r
}

// snapshotKey identifies a cached scan snapshot. The store version is part of the
// key so that snapshots taken before an append are never served afterwards.
type snapshotKey struct {
	entity  string
	attr    string
	from    int64
	to      int64
	version uint64
}

// Store is a thread safe in-memory column store. Appends may arrive out of order;
// scans always observe a sorted snapshot of a column.
type Store struct {
	lock      sync.RWMutex
	columns   map[string]map[string]*column
	version   *atomic.Uint64
	snapshots *lru.Cache[snapshotKey, []Row]
	log       *zap.SugaredLogger
}

// NewStore returns an empty column store.
func NewStore(log *zap.SugaredLogger, opts ...Option) (*Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	snapshots, err := lru.New[snapshotKey, []Row](o.snapshotCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create the snapshot cache, %w", err)
	}
	return &Store{
		columns:   make(map[string]map[string]*column),
		version:   atomic.NewUint64(0),
		snapshots: snapshots,
		log:       log.Named("store"),
	}, nil
}

// Append adds one row to the column of the given entity attribute. The payload is
// not copied; the caller must not mutate it afterwards.
func (s *Store) Append(entity, attr string, ts int64, payload []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	attrs, ok := s.columns[entity]
	if !ok {
		attrs = make(map[string]*column)
		s.columns[entity] = attrs
	}
	col, ok := attrs[attr]
	if !ok {
		col = &column{}
		attrs[attr] = col
	}
	col.insert(Row{Index: ts, Value: payload})
	s.version.Inc()
	metrics.StoreAppendCount.WithLabelValues(attr).Inc()
}

// Entities returns the sorted entity paths present in the store.
func (s *Store) Entities() []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var entities []string
	for e := range s.columns {
		entities = append(entities, e)
	}
	sort.Strings(entities)
	return entities
}

// Attributes returns the sorted attribute names logged for the given entity.
func (s *Store) Attributes(entity string) []string {
	s.lock.RLock()
	defer s.lock.RUnlock()
	var attrs []string
	for a := range s.columns[entity] {
		attrs = append(attrs, a)
	}
	sort.Strings(attrs)
	return attrs
}

// Scan opens a single-pass cursor over the rows of one attribute column whose
// timestamps fall within [from, to]. The cursor reads a snapshot; appends made after
// Scan returns are not visible through it. An unknown entity or attribute yields an
// empty cursor.
func (s *Store) Scan(entity, attr string, from, to int64) channel.Indexed[int64, []byte] {
	key := snapshotKey{entity: entity, attr: attr, from: from, to: to, version: s.version.Load()}
	if snap, ok := s.snapshots.Get(key); ok {
		metrics.StoreScanCacheHitCount.WithLabelValues(attr).Inc()
		return channel.FromPairs(snap)
	}

	s.lock.RLock()
	var snap []Row
	if col, ok := s.columns[entity][attr]; ok {
		lo := sort.Search(len(col.rows), func(i int) bool { return col.rows[i].Index >= from })
		hi := sort.Search(len(col.rows), func(i int) bool { return col.rows[i].Index > to })
		snap = make([]Row, hi-lo)
		copy(snap, col.rows[lo:hi])
	}
	s.lock.RUnlock()

	s.snapshots.Add(key, snap)
	metrics.StoreScanCount.WithLabelValues(attr).Inc()
	s.log.Debugw("Opened column scan", "entity", entity, "attribute", attr, "rows", len(snap))
	return channel.FromPairs(snap)
}

// Query builds a range join over the given entity: one required channel per required
// attribute, one optional channel per optional attribute, all scanned over [from, to].
// The output extent is defined by the required attributes only.
func (s *Store) Query(entity string, required, optional []string, from, to int64, opts ...join.Option) (*join.Range[int64, []byte], error) {
	if len(required) == 0 {
		return nil, fmt.Errorf("query needs at least one required attribute")
	}
	r := join.NewRange[int64, []byte](opts...)
	for _, attr := range required {
		r.AddRequired(s.Scan(entity, attr, from, to))
	}
	for _, attr := range optional {
		r.AddOptional(s.Scan(entity, attr, from, to))
	}
	return r, nil
}
