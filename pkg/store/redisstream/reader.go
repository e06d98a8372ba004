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
Package redisstream adapts a Redis stream to the indexed channel contract, so that a
live recording published over Redis can feed a range join directly. The entry ID's
millisecond part is the channel index. The channel contract has no error leg; read
errors are logged and surface to the merge engine as clean exhaustion.
*/

package redisstream

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vizlog/vizlog/pkg/channel"
	"github.com/vizlog/vizlog/pkg/metrics"
	"github.com/vizlog/vizlog/pkg/shared/logging"
)

// xRanger is the slice of the Redis client surface the reader needs. Narrow on
// purpose, so tests can fake it with prepared commands.
type xRanger interface {
	XRangeN(ctx context.Context, stream, start, stop string, count int64) *redis.XMessageSliceCmd
}

// streamReader pages through a Redis stream with XRANGE and yields one pair per
// entry. It implements only channel.NextPuller; NewReader wraps it into a full
// Indexed channel with a one-slot lookahead buffer.
type streamReader struct {
	ctx     context.Context
	client  xRanger
	stream  string
	options *Options
	next    string
	buf     []redis.XMessage
	done    bool
	log     *zap.SugaredLogger
}

// NewReader returns an indexed channel over the entries of a Redis stream. The
// channel is single-pass; entries appended to the stream after the reader has seen a
// short page are not observed.
func NewReader(ctx context.Context, client redis.UniversalClient, stream string, opts ...Option) channel.Indexed[int64, []byte] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return channel.NewPeekable[int64, []byte](&streamReader{
		ctx:     ctx,
		client:  client,
		stream:  stream,
		options: o,
		next:    o.StartID,
		log:     logging.FromContext(ctx).Named("redisstream").With("stream", stream),
	})
}

func (r *streamReader) Next() (channel.Pair[int64, []byte], bool) {
	for {
		if len(r.buf) > 0 {
			msg := r.buf[0]
			r.buf = r.buf[1:]
			pair, err := r.toPair(msg)
			if err != nil {
				r.log.Warnw("Skipping malformed stream entry", zap.Error(err), "id", msg.ID)
				continue
			}
			metrics.RedisStreamReadCount.WithLabelValues(r.stream).Inc()
			return pair, true
		}
		if r.done {
			return channel.Pair[int64, []byte]{}, false
		}

		msgs, err := r.client.XRangeN(r.ctx, r.stream, r.next, r.options.EndID, r.options.BatchSize).Result()
		if err != nil {
			metrics.RedisStreamReadErrorCount.WithLabelValues(r.stream).Inc()
			r.log.Errorw("XRANGE failed, ending the channel", zap.Error(err))
			r.done = true
			return channel.Pair[int64, []byte]{}, false
		}
		if len(msgs) == 0 {
			r.done = true
			return channel.Pair[int64, []byte]{}, false
		}
		// a short page is the last one; the recording snapshot ends here
		if int64(len(msgs)) < r.options.BatchSize {
			r.done = true
		} else {
			next, err := afterID(msgs[len(msgs)-1].ID)
			if err != nil {
				r.log.Errorw("Unparsable stream entry ID, ending the channel", zap.Error(err))
				r.done = true
			}
			r.next = next
		}
		r.buf = msgs
	}
}

// toPair converts one stream entry to an indexed pair, using the entry ID's
// millisecond part as index.
func (r *streamReader) toPair(msg redis.XMessage) (channel.Pair[int64, []byte], error) {
	ms, _, err := parseEntryID(msg.ID)
	if err != nil {
		return channel.Pair[int64, []byte]{}, err
	}
	raw, ok := msg.Values[r.options.PayloadField]
	if !ok {
		return channel.Pair[int64, []byte]{}, fmt.Errorf("entry %s has no field %q", msg.ID, r.options.PayloadField)
	}
	payload, ok := raw.(string)
	if !ok {
		return channel.Pair[int64, []byte]{}, fmt.Errorf("entry %s field %q is not a string", msg.ID, r.options.PayloadField)
	}
	return channel.Pair[int64, []byte]{Index: ms, Value: []byte(payload)}, nil
}

// parseEntryID splits a stream entry ID ("ms-seq") into its parts.
func parseEntryID(id string) (int64, int64, error) {
	msPart, seqPart, found := strings.Cut(id, "-")
	if !found {
		return 0, 0, fmt.Errorf("invalid stream entry ID %q", id)
	}
	ms, err := strconv.ParseInt(msPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid stream entry ID %q, %w", id, err)
	}
	seq, err := strconv.ParseInt(seqPart, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid stream entry ID %q, %w", id, err)
	}
	return ms, seq, nil
}

// afterID returns the exclusive successor of a stream entry ID, used as the start of
// the next XRANGE page.
func afterID(id string) (string, error) {
	ms, seq, err := parseEntryID(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d-%d", ms, seq+1), nil
}
