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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelJoin      = "join_name"
	LabelJoinKind  = "join_kind"
	LabelAttribute = "attribute"
	LabelStream    = "stream"
)

// Merge engine metrics
var (
	// MergeRecordsCount is used to indicate the number of merged records emitted
	MergeRecordsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "merge",
		Name:      "records_total",
		Help:      "Total number of merged records emitted",
	}, []string{LabelJoin, LabelJoinKind})

	// MergeCarryForwardCount is used to indicate the number of optional slots resolved from the latest-value cache
	MergeCarryForwardCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "merge",
		Name:      "carry_forward_total",
		Help:      "Total number of optional slots resolved by carrying the latest value forward",
	}, []string{LabelJoin, LabelJoinKind})

	// MergeDefaultAppliedCount is used to indicate the number of optional slots resolved by a default provider
	MergeDefaultAppliedCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "merge",
		Name:      "default_applied_total",
		Help:      "Total number of optional slots resolved by invoking the default provider",
	}, []string{LabelJoin, LabelJoinKind})
)

// Column store metrics
var (
	// StoreAppendCount is used to indicate the number of rows appended to the column store
	StoreAppendCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "store",
		Name:      "append_total",
		Help:      "Total number of rows appended to the column store",
	}, []string{LabelAttribute})

	// StoreScanCount is used to indicate the number of column scans opened
	StoreScanCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "store",
		Name:      "scan_total",
		Help:      "Total number of column scans opened",
	}, []string{LabelAttribute})

	// StoreScanCacheHitCount is used to indicate the number of scans served from the snapshot cache
	StoreScanCacheHitCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "store",
		Name:      "scan_cache_hit_total",
		Help:      "Total number of column scans served from the snapshot cache",
	}, []string{LabelAttribute})
)

// Redis stream reader metrics
var (
	// RedisStreamReadCount is used to indicate the number of entries read from Redis streams
	RedisStreamReadCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "redisstream",
		Name:      "read_total",
		Help:      "Total number of entries read from Redis streams",
	}, []string{LabelStream})

	// RedisStreamReadErrorCount is used to indicate the number of Redis stream read errors
	RedisStreamReadErrorCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Subsystem: "redisstream",
		Name:      "read_error_total",
		Help:      "Total number of Redis stream read errors",
	}, []string{LabelStream})
)
