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

package store

type options struct {
	// snapshotCacheSize is the max number of scan snapshots kept in the LRU cache
	snapshotCacheSize int
}

func defaultOptions() *options {
	return &options{
		snapshotCacheSize: 64,
	}
}

// Option to customize the store
type Option func(*options)

// WithSnapshotCacheSize sets the size of the scan snapshot cache.
func WithSnapshotCacheSize(size int) Option {
	return func(o *options) {
		o.snapshotCacheSize = size
	}
}
