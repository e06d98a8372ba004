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

package channel

import "cmp"

// slicePositional is a positional cursor over an in-memory slice.
type slicePositional[V any] struct {
	items []V
}

// FromSlice returns a positional channel over the given items. The slice is not
// copied; the caller must not mutate it while the channel is being consumed.
func FromSlice[V any](items []V) Positional[V] {
	return &slicePositional[V]{items: items}
}

func (s *slicePositional[V]) Next() (V, bool) {
	if len(s.items) == 0 {
		var zero V
		return zero, false
	}
	v := s.items[0]
	s.items = s.items[1:]
	return v, true
}

// chanPositional adapts a Go channel to the positional contract. It is used to feed
// a merge from a concurrently populated producer; the producer must close the Go
// channel to signal exhaustion.
type chanPositional[V any] struct {
	ch <-chan V
}

// FromChan returns a positional channel that drains the given Go channel.
func FromChan[V any](ch <-chan V) Positional[V] {
	return &chanPositional[V]{ch: ch}
}

func (c *chanPositional[V]) Next() (V, bool) {
	v, ok := <-c.ch
	return v, ok
}

// slicePairs is an indexed cursor over an in-memory sorted slice.
type slicePairs[K cmp.Ordered, V any] struct {
	pairs []Pair[K, V]
}

// FromPairs returns an indexed channel over the given pairs, which must already be
// sorted non-decreasing by index. The slice is not copied.
func FromPairs[K cmp.Ordered, V any](pairs []Pair[K, V]) Indexed[K, V] {
	return &slicePairs[K, V]{pairs: pairs}
}

func (s *slicePairs[K, V]) Next() (Pair[K, V], bool) {
	if len(s.pairs) == 0 {
		return Pair[K, V]{}, false
	}
	p := s.pairs[0]
	s.pairs = s.pairs[1:]
	return p, true
}

func (s *slicePairs[K, V]) Peek() (Pair[K, V], bool) {
	if len(s.pairs) == 0 {
		return Pair[K, V]{}, false
	}
	return s.pairs[0], true
}

func (s *slicePairs[K, V]) NextIf(pred func(Pair[K, V]) bool) (Pair[K, V], bool) {
	if len(s.pairs) == 0 || !pred(s.pairs[0]) {
		return Pair[K, V]{}, false
	}
	return s.Next()
}
