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

// NextPuller is the minimal pull contract a source has to offer to be wrapped into a
// full Indexed channel. Sources that cannot natively look ahead (e.g. a network
// stream cursor) implement only this.
type NextPuller[K cmp.Ordered, V any] interface {
	Next() (Pair[K, V], bool)
}

// peekable turns a pull-only source into an Indexed channel by holding at most one
// pending pair. The merge engine never needs lookahead deeper than one item.
type peekable[K cmp.Ordered, V any] struct {
	src     NextPuller[K, V]
	pending Pair[K, V]
	hasPend bool
}

// NewPeekable wraps a pull-only source with a one-slot lookahead buffer.
func NewPeekable[K cmp.Ordered, V any](src NextPuller[K, V]) Indexed[K, V] {
	return &peekable[K, V]{src: src}
}

func (p *peekable[K, V]) Next() (Pair[K, V], bool) {
	if p.hasPend {
		p.hasPend = false
		return p.pending, true
	}
	return p.src.Next()
}

func (p *peekable[K, V]) Peek() (Pair[K, V], bool) {
	if !p.hasPend {
		pair, ok := p.src.Next()
		if !ok {
			return Pair[K, V]{}, false
		}
		p.pending = pair
		p.hasPend = true
	}
	return p.pending, true
}

func (p *peekable[K, V]) NextIf(pred func(Pair[K, V]) bool) (Pair[K, V], bool) {
	pair, ok := p.Peek()
	if !ok || !pred(pair) {
		return Pair[K, V]{}, false
	}
	p.hasPend = false
	return pair, true
}
