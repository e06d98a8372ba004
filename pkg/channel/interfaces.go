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
Package channel defines the single-pass sources the merge engine consumes. A channel
is an ordered, forward-only cursor over the items of one logged attribute column. It is
consumed exactly once, left to right, and never rewound. The storage/query layer is
responsible for producing channels whose items are already sorted; channels do not
verify sortedness.
*/

package channel

import "cmp"

// Positional is a lazy, finite sequence of values with no ordering key. The Nth item
// of a positional channel corresponds to the Nth item of its sibling channels.
type Positional[V any] interface {
	// Next returns the next value, or false when the channel is exhausted. Once
	// exhausted, every subsequent call keeps returning false.
	Next() (V, bool)
}

// Pair is one element of an indexed channel, a value keyed by its index (typically a
// timestamp or a sequence number).
type Pair[K cmp.Ordered, V any] struct {
	Index K
	Value V
}

// Indexed is a lazy, finite sequence of pairs, strictly non-decreasing in index.
// Runs of equal consecutive indices are allowed; consumers treat the last element
// of such a run as the winner.
type Indexed[K cmp.Ordered, V any] interface {
	// Next returns the next pair, or false when the channel is exhausted.
	Next() (Pair[K, V], bool)
	// Peek returns the next pair without consuming it. Repeated calls with no
	// intervening Next return the same pair.
	Peek() (Pair[K, V], bool)
	// NextIf consumes and returns the next pair only if it satisfies the predicate.
	// A failed predicate leaves the channel untouched.
	NextIf(pred func(Pair[K, V]) bool) (Pair[K, V], bool)
}
