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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFromSlice(t *testing.T) {
	ch := FromSlice([]int{1, 2, 3})
	for _, want := range []int{1, 2, 3} {
		v, ok := ch.Next()
		assert.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok := ch.Next()
	assert.False(t, ok)
	// exhaustion is sticky
	_, ok = ch.Next()
	assert.False(t, ok)
}

func TestFromSliceEmpty(t *testing.T) {
	ch := FromSlice([]string{})
	_, ok := ch.Next()
	assert.False(t, ok)
}

func TestFromChan(t *testing.T) {
	goCh := make(chan int, 3)
	go func() {
		defer close(goCh)
		for i := 1; i <= 3; i++ {
			goCh <- i
		}
	}()
	ch := FromChan(goCh)
	var got []int
	for {
		v, ok := ch.Next()
		if !ok {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3}, got)
}

func TestFromPairs(t *testing.T) {
	ch := FromPairs([]Pair[int64, string]{{Index: 1, Value: "a"}, {Index: 2, Value: "b"}})

	p, ok := ch.Peek()
	assert.True(t, ok)
	assert.Equal(t, int64(1), p.Index)
	// peeking never advances
	p, ok = ch.Peek()
	assert.True(t, ok)
	assert.Equal(t, int64(1), p.Index)

	p, ok = ch.Next()
	assert.True(t, ok)
	assert.Equal(t, "a", p.Value)

	p, ok = ch.NextIf(func(p Pair[int64, string]) bool { return p.Index <= 1 })
	assert.False(t, ok)
	// a failed predicate leaves the channel untouched
	p, ok = ch.Next()
	assert.True(t, ok)
	assert.Equal(t, "b", p.Value)

	_, ok = ch.Peek()
	assert.False(t, ok)
	_, ok = ch.NextIf(func(Pair[int64, string]) bool { return true })
	assert.False(t, ok)
}

// countingSource implements only NextPuller and records how often it was pulled.
type countingSource struct {
	pairs []Pair[int64, int]
	pulls int
}

func (c *countingSource) Next() (Pair[int64, int], bool) {
	c.pulls++
	if len(c.pairs) == 0 {
		return Pair[int64, int]{}, false
	}
	p := c.pairs[0]
	c.pairs = c.pairs[1:]
	return p, true
}

func TestPeekable(t *testing.T) {
	src := &countingSource{pairs: []Pair[int64, int]{{Index: 10, Value: 100}, {Index: 20, Value: 200}}}
	ch := NewPeekable[int64, int](src)

	p, ok := ch.Peek()
	assert.True(t, ok)
	assert.Equal(t, int64(10), p.Index)
	assert.Equal(t, 1, src.pulls)

	// repeated peeks are served from the pending slot
	_, _ = ch.Peek()
	_, _ = ch.Peek()
	assert.Equal(t, 1, src.pulls)

	p, ok = ch.NextIf(func(p Pair[int64, int]) bool { return p.Index <= 5 })
	assert.False(t, ok)
	assert.Equal(t, 1, src.pulls)

	p, ok = ch.NextIf(func(p Pair[int64, int]) bool { return p.Index <= 10 })
	assert.True(t, ok)
	assert.Equal(t, 100, p.Value)

	p, ok = ch.Next()
	assert.True(t, ok)
	assert.Equal(t, 200, p.Value)

	_, ok = ch.Peek()
	assert.False(t, ok)
	_, ok = ch.Next()
	assert.False(t, ok)
}
