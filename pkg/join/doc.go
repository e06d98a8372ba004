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
Package join merges several independently-paced, independently-sparse channels into a
single aligned sequence of records. Two disciplines are provided:

  - Clamped join: alignment is purely by position, with no shared key. The Nth item of
    each channel belongs to the Nth output record. Optional channels that run short are
    resolved by carrying their latest value forward, or by a caller-supplied default
    provider before their first value arrives.

  - Range join: alignment is by index causality over an ordered index (typically
    time). An optional channel contributes its most recent value as of the current
    required tick; before its first value it contributes an explicit absence marker.

Both joins pull lazily, consume each channel exactly once, and terminate as soon as
any required channel is exhausted. Memory use is bounded by the number of channels:
one latest-value cell per optional channel, plus at most one peeked item per optional
channel in the range join. A join instance holds exclusive access to its channels'
cursors and must not be shared across goroutines.
*/

package join
