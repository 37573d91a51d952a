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

package effects

import "hash/fnv"

// splitmix64 is a single step of the SplitMix64 generator, used here as a
// stateless integer mixer. Same input, same output, always.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// hashString folds a string into a 64-bit seed.
func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Noise returns a pseudo-random value in [0, 1) that is a pure function of the
// effect ID and frame index. Shake, jitter, and glitch effects draw from this
// instead of a shared RNG so that every frame renders identically no matter
// when, where, or in what order it is computed.
func Noise(effectID string, frameIndex int) float64 {
	v := splitmix64(hashString(effectID) ^ uint64(frameIndex)*0x2545f4914f6cdd1d)
	return float64(v>>11) / float64(1<<53)
}

// SignedNoise returns a value in [-1, 1) keyed the same way as Noise. The salt
// decorrelates multiple draws at the same frame (e.g. x and y displacement).
func SignedNoise(effectID string, frameIndex int, salt uint64) float64 {
	v := splitmix64(hashString(effectID) ^ uint64(frameIndex)*0x2545f4914f6cdd1d ^ splitmix64(salt))
	return float64(v>>11)/float64(1<<52) - 1
}
