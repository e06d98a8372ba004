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

const defaultJoinName = "default"

type options struct {
	// name labels the join's metrics
	name string
}

func defaultOptions() *options {
	return &options{
		name: defaultJoinName,
	}
}

// Option to customize a join
type Option func(*options)

// WithName sets the name under which the join reports its metrics.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
