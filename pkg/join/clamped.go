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
	"github.com/vizlog/vizlog/pkg/channel"
	"github.com/vizlog/vizlog/pkg/metrics"
)

const kindClamped = "clamped"

// ClampedRecord is one output record of a clamped join. Required holds one value per
// required channel and Optional one value per optional channel, both in the order the
// channels were added. Optional slots always hold a concrete value; absence has
// already been resolved via carry-forward or the default provider.
type ClampedRecord[V any] struct {
	Required []V
	Optional []V
}

// clampedSlot pairs an optional channel with its carry-forward cell and its default
// provider.
type clampedSlot[V any] struct {
	ch    channel.Positional[V]
	def   func() V
	cache latest[V]
}

// Clamped merges positional channels by position: the Nth item of every channel
// belongs to the Nth output record. The output length equals the length of the
// shortest required channel. Optional channels that run short are clamped, their
// latest value broadcast to every remaining record; an optional channel that has not
// yet produced anything is resolved through its default provider, invoked once per
// record until the first real value arrives.
type Clamped[V any] struct {
	required []channel.Positional[V]
	optional []*clampedSlot[V]
	opts     *options
	done     bool
}

// NewClamped returns an empty clamped join builder. At least one required channel
// must be added before pulling; a join with no required channels is exhausted
// immediately.
func NewClamped[V any](opts ...Option) *Clamped[V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Clamped[V]{opts: o}
}

// AddRequired appends required channels. Exhaustion of any of them ends the merge.
func (c *Clamped[V]) AddRequired(chs ...channel.Positional[V]) *Clamped[V] {
	c.required = append(c.required, chs...)
	return c
}

// AddOptional appends an optional channel with its default provider. The provider is
// invoked whenever the channel has not yet produced a value; it is not memoized and
// must be total. A nil provider is treated as the zero value of V.
func (c *Clamped[V]) AddOptional(ch channel.Positional[V], def func() V) *Clamped[V] {
	if def == nil {
		def = func() V { var zero V; return zero }
	}
	c.optional = append(c.optional, &clampedSlot[V]{ch: ch, def: def})
	return c
}

// Next produces the next merged record, or false when any required channel is
// exhausted. Once false, every subsequent call returns false.
func (c *Clamped[V]) Next() (ClampedRecord[V], bool) {
	if c.done || len(c.required) == 0 {
		c.done = true
		return ClampedRecord[V]{}, false
	}

	rec := ClampedRecord[V]{
		Required: make([]V, len(c.required)),
		Optional: make([]V, len(c.optional)),
	}
	for i, ch := range c.required {
		v, ok := ch.Next()
		if !ok {
			c.done = true
			return ClampedRecord[V]{}, false
		}
		rec.Required[i] = v
	}

	for j, slot := range c.optional {
		if v, ok := slot.ch.Next(); ok {
			slot.cache.set(v)
			rec.Optional[j] = v
			continue
		}
		if v, ok := slot.cache.get(); ok {
			// re-store is a no-op; the cell keeps holding v
			rec.Optional[j] = v
			metrics.MergeCarryForwardCount.WithLabelValues(c.opts.name, kindClamped).Inc()
			continue
		}
		// never observed; the cache stays empty so the provider runs again next record
		rec.Optional[j] = slot.def()
		metrics.MergeDefaultAppliedCount.WithLabelValues(c.opts.name, kindClamped).Inc()
	}

	metrics.MergeRecordsCount.WithLabelValues(c.opts.name, kindClamped).Inc()
	return rec, true
}
