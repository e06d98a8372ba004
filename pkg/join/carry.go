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

// Opt is an explicit present/absent marker. The range join emits Opt values for
// optional slots because, unlike the clamped join, it has no default provider:
// "never observed" must stay distinguishable from any real value.
type Opt[V any] struct {
	Value V
	Ok    bool
}

// Some wraps a present value.
func Some[V any](v V) Opt[V] {
	return Opt[V]{Value: v, Ok: true}
}

// None returns the absence marker.
func None[V any]() Opt[V] {
	return Opt[V]{}
}

// latest is the per-optional-channel carry-forward cell shared by both joins. Once a
// value has been observed the cell never empties again; carry-forward is indefinite.
type latest[V any] struct {
	v  V
	ok bool
}

func (l *latest[V]) set(v V) {
	l.v = v
	l.ok = true
}

func (l *latest[V]) get() (V, bool) {
	return l.v, l.ok
}
