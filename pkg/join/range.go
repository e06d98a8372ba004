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

package join

import (
	"cmp"

	"github.com/vizlog/vizlog/pkg/channel"
	"github.com/vizlog/vizlog/pkg/metrics"
)

const kindRange = "range"

// RangeRecord is one output record of a range join. Index is the record's
// representative index, the maximum of the indices pulled from the required channels
// at this step. Optional slots are explicit Opt markers: None until the channel's
// first value has been observed, Some thereafter.
type RangeRecord[K cmp.Ordered, V any] struct {
	Index    K
	Required []V
	Optional []Opt[V]
}

// rangeSlot pairs an optional indexed channel with its carry-forward cell.
type rangeSlot[K cmp.Ordered, V any] struct {
	ch    channel.Indexed[K, V]
	cache latest[V]
}

// Range merges indexed channels by index causality: each output record carries, for
// every optional channel, its most recent value as of the record's representative
// index. Required channels advance in lock-step, one pair per record, and are
// expected to be pre-aligned; the representative index is the max of their indices
// rather than an asserted equality, which tolerates negligible index skew. Large
// divergence between required channels is caller misuse and is not detected.
type Range[K cmp.Ordered, V any] struct {
	required []channel.Indexed[K, V]
	optional []*rangeSlot[K, V]
	opts     *options
	done     bool
}

// NewRange returns an empty range join builder. At least one required channel must
// be added before pulling; a join with no required channels is exhausted immediately.
func NewRange[K cmp.Ordered, V any](opts ...Option) *Range[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Range[K, V]{opts: o}
}

// AddRequired appends required channels. Exhaustion of any of them ends the merge.
func (r *Range[K, V]) AddRequired(chs ...channel.Indexed[K, V]) *Range[K, V] {
	r.required = append(r.required, chs...)
	return r
}

// AddOptional appends an optional channel. There is no default provider; before the
// channel's first value the record slot is None.
func (r *Range[K, V]) AddOptional(chs ...channel.Indexed[K, V]) *Range[K, V] {
	for _, ch := range chs {
		r.optional = append(r.optional, &rangeSlot[K, V]{ch: ch})
	}
	return r
}

// Next produces the next merged record, or false when any required channel is
// exhausted. Once false, every subsequent call returns false.
func (r *Range[K, V]) Next() (RangeRecord[K, V], bool) {
	if r.done || len(r.required) == 0 {
		r.done = true
		return RangeRecord[K, V]{}, false
	}

	rec := RangeRecord[K, V]{
		Required: make([]V, len(r.required)),
		Optional: make([]Opt[V], len(r.optional)),
	}
	for i, ch := range r.required {
		p, ok := ch.Next()
		if !ok {
			r.done = true
			return RangeRecord[K, V]{}, false
		}
		rec.Required[i] = p.Value
		if i == 0 || p.Index > rec.Index {
			rec.Index = p.Index
		}
	}

	for j, slot := range r.optional {
		// drain everything at or before the representative index; within a run of
		// consumed pairs only the last one survives
		var (
			candidate V
			consumed  bool
		)
		for {
			p, ok := slot.ch.NextIf(func(p channel.Pair[K, V]) bool {
				return p.Index <= rec.Index
			})
			if !ok {
				break
			}
			candidate = p.Value
			consumed = true
		}
		switch {
		case consumed:
			slot.cache.set(candidate)
			rec.Optional[j] = Some(candidate)
		default:
			if v, ok := slot.cache.get(); ok {
				rec.Optional[j] = Some(v)
				metrics.MergeCarryForwardCount.WithLabelValues(r.opts.name, kindRange).Inc()
			} else {
				rec.Optional[j] = None[V]()
			}
		}
	}

	metrics.MergeRecordsCount.WithLabelValues(r.opts.name, kindRange).Inc()
	return rec, true
}
