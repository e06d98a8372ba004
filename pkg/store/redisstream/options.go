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

// Options for reading from a Redis stream
type Options struct {
	// BatchSize is the max number of entries fetched per XRANGE call
	BatchSize int64
	// StartID is the stream entry ID to start reading from (inclusive)
	StartID string
	// EndID is the stream entry ID to stop reading at (inclusive)
	EndID string
	// PayloadField is the entry field holding the logged payload
	PayloadField string
}

func defaultOptions() *Options {
	return &Options{
		BatchSize:    100,
		StartID:      "-",
		EndID:        "+",
		PayloadField: "payload",
	}
}

// Option to apply different options
type Option func(*Options)

// WithBatchSize sets the XRANGE page size.
func WithBatchSize(size int64) Option {
	return func(o *Options) {
		o.BatchSize = size
	}
}

// WithStartID sets the first stream entry ID to read (inclusive).
func WithStartID(id string) Option {
	return func(o *Options) {
		o.StartID = id
	}
}

// WithEndID sets the last stream entry ID to read (inclusive).
func WithEndID(id string) Option {
	return func(o *Options) {
		o.EndID = id
	}
}

// WithPayloadField sets the entry field holding the payload.
func WithPayloadField(field string) Option {
	return func(o *Options) {
		o.PayloadField = field
	}
}
