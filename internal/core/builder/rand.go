// Copyright 2025 Terry Labs, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package builder

import "hash/fnv"

// rand64 is a small SplitMix64 sequence generator. The builder seeds it from
// the manifest identity so that building the same source with the same mode
// always yields the same timeline.
type rand64 struct {
	state uint64
}

func newRand(seed uint64) *rand64 {
	return &rand64{state: seed}
}

func (r *rand64) next() uint64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// float returns a value in [0, 1).
func (r *rand64) float() float64 {
	return float64(r.next()>>11) / float64(1<<53)
}

// intn returns a value in [0, n).
func (r *rand64) intn(n int) int {
	return int(r.next() % uint64(n))
}

// hash64 folds a string into a seed.
func hash64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
