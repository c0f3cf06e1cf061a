// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package prior provides the prior distribution over drift-diffusion drift
rates: uniform over a fixed range, [-2, 2] by default.
*/
package prior

import (
	"github.com/emer/etable/minmax"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Default drift range.
const (
	DriftMin = -2
	DriftMax = 2
)

// Uniform is a uniform prior over a range of drift values, with its own
// seedable random source.
type Uniform struct {
	Range   minmax.F64 `desc:"range of drift values with uniform prior probability"`
	RndSeed uint64     `desc:"random seed the prior was last seeded with"`

	dist distuv.Uniform
}

// New returns a uniform prior over [min, max] with the given random seed.
func New(min, max float64, seed uint64) *Uniform {
	ur := &Uniform{}
	ur.Range.Set(min, max)
	ur.Seed(seed)
	return ur
}

// Default returns the standard [-2, 2] drift prior with the given seed.
func Default(seed uint64) *Uniform {
	return New(DriftMin, DriftMax, seed)
}

// Seed resets the random source to the given seed.
func (ur *Uniform) Seed(seed uint64) {
	ur.RndSeed = seed
	ur.dist = distuv.Uniform{Min: ur.Range.Min, Max: ur.Range.Max, Src: rand.NewSource(seed)}
}

// Sample draws n independent drift values from the prior, in draw order.
// n = 0 yields an empty (non-nil) slice.
func (ur *Uniform) Sample(n int) []float64 {
	mus := make([]float64, n)
	for i := range mus {
		mus[i] = ur.dist.Rand()
	}
	return mus
}
