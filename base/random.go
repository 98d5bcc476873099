// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import (
	"math/rand"
	"time"
)

// RandomGenerator is the random generator for gorse.
type RandomGenerator struct {
	*rand.Rand
}

// NewRandomGenerator creates a RandomGenerator.
func NewRandomGenerator(seed int64) RandomGenerator {
	return RandomGenerator{rand.New(rand.NewSource(seed))}
}

// NewRandomGeneratorFromSource creates a RandomGenerator drawing from src.
func NewRandomGeneratorFromSource(src rand.Source) RandomGenerator {
	return RandomGenerator{rand.New(src)}
}

// NewSeed returns a seed derived from the wall clock.
func NewSeed() int64 {
	return time.Now().UTC().UnixNano()
}

// Assign draws a group id in [0, k) for each of n elements, independently and uniformly.
// Group sizes are not balanced.
func (rng RandomGenerator) Assign(n, k int) []int {
	ret := make([]int, n)
	for i := range ret {
		ret[i] = rng.Intn(k)
	}
	return ret
}
