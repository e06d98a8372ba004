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

package redisstream

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vizlog/vizlog/pkg/channel"
)

// fakeXRanger serves prepared XRANGE pages keyed by their start ID.
type fakeXRanger struct {
	pages map[string][]redis.XMessage
	err   error
	calls int
}

func (f *fakeXRanger) XRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd {
	f.calls++
	cmd := redis.NewXMessageSliceCmd(ctx, "xrange", stream, start, stop)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	cmd.SetVal(f.pages[start])
	return cmd
}

func newTestReader(client xRanger, opts ...Option) channel.Indexed[int64, []byte] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return channel.NewPeekable[int64, []byte](&streamReader{
		ctx:     context.Background(),
		client:  client,
		stream:  "test-stream",
		options: o,
		next:    o.StartID,
		log:     zap.NewNop().Sugar(),
	})
}

func entry(id, payload string) redis.XMessage {
	return redis.XMessage{ID: id, Values: map[string]interface{}{"payload": payload}}
}

func drain(ch channel.Indexed[int64, []byte]) []channel.Pair[int64, []byte] {
	var pairs []channel.Pair[int64, []byte]
	for {
		p, ok := ch.Next()
		if !ok {
			return pairs
		}
		pairs = append(pairs, p)
	}
}

func TestReaderSinglePage(t *testing.T) {
	client := &fakeXRanger{pages: map[string][]redis.XMessage{
		"-": {entry("100-0", "a"), entry("200-0", "b")},
	}}
	pairs := drain(newTestReader(client))
	require.Len(t, pairs, 2)
	assert.Equal(t, int64(100), pairs[0].Index)
	assert.Equal(t, []byte("a"), pairs[0].Value)
	assert.Equal(t, int64(200), pairs[1].Index)
	// a short page ends the channel without another round trip
	assert.Equal(t, 1, client.calls)
}

func TestReaderPagination(t *testing.T) {
	client := &fakeXRanger{pages: map[string][]redis.XMessage{
		"-":     {entry("100-0", "a"), entry("100-1", "b")},
		"100-2": {entry("150-0", "c"), entry("200-0", "d")},
		"200-1": {},
	}}
	pairs := drain(newTestReader(client, WithBatchSize(2)))
	require.Len(t, pairs, 4)
	assert.Equal(t, int64(100), pairs[0].Index)
	assert.Equal(t, int64(100), pairs[1].Index)
	assert.Equal(t, int64(150), pairs[2].Index)
	assert.Equal(t, int64(200), pairs[3].Index)
	assert.Equal(t, 3, client.calls)
}

func TestReaderPeekDoesNotAdvance(t *testing.T) {
	client := &fakeXRanger{pages: map[string][]redis.XMessage{
		"-": {entry("100-0", "a"), entry("200-0", "b")},
	}}
	ch := newTestReader(client)

	p1, ok := ch.Peek()
	require.True(t, ok)
	p2, ok := ch.Peek()
	require.True(t, ok)
	assert.Equal(t, p1, p2)

	p, ok := ch.Next()
	require.True(t, ok)
	assert.Equal(t, p1, p)
}

func TestReaderSkipsMalformedEntries(t *testing.T) {
	client := &fakeXRanger{pages: map[string][]redis.XMessage{
		"-": {
			entry("100-0", "a"),
			{ID: "150-0", Values: map[string]interface{}{"other": "x"}}, // wrong field
			entry("200-0", "b"),
		},
	}}
	pairs := drain(newTestReader(client))
	require.Len(t, pairs, 2)
	assert.Equal(t, int64(100), pairs[0].Index)
	assert.Equal(t, int64(200), pairs[1].Index)
}

func TestReaderCustomPayloadField(t *testing.T) {
	client := &fakeXRanger{pages: map[string][]redis.XMessage{
		"-": {{ID: "100-0", Values: map[string]interface{}{"data": "payload-bytes"}}},
	}}
	pairs := drain(newTestReader(client, WithPayloadField("data")))
	require.Len(t, pairs, 1)
	assert.Equal(t, []byte("payload-bytes"), pairs[0].Value)
}

func TestReaderErrorEndsChannel(t *testing.T) {
	client := &fakeXRanger{err: fmt.Errorf("connection refused")}
	pairs := drain(newTestReader(client))
	assert.Len(t, pairs, 0)
}

func TestParseEntryID(t *testing.T) {
	ms, seq, err := parseEntryID("1700000000000-3")
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), ms)
	assert.Equal(t, int64(3), seq)

	_, _, err = parseEntryID("garbage")
	assert.Error(t, err)
	_, _, err = parseEntryID("12-x")
	assert.Error(t, err)
}

func TestAfterID(t *testing.T) {
	next, err := afterID("100-41")
	require.NoError(t, err)
	assert.Equal(t, "100-42", next)
}
