// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ddm

import (
	"fmt"

	"github.com/emer/etable/histogram"
)

// Summary reduces a batch of decision outcomes to its summary statistic:
// a histogram of signed reaction times (rt * choice) over nbins-1 bins whose
// edges are linearly spaced over [-T, T].  Bins are half-open [low, high)
// with the final bin closed, so every outcome lands in exactly one bin and
// the counts sum to the number of trials.  Counts are integer-valued but
// returned as float64, the working type of the distance metrics and tables
// downstream.
func Summary(out *Outcomes, t float64, nbins int) ([]float64, error) {
	if t <= 0 {
		return nil, fmt.Errorf("ddm: T must be > 0, got %g: %w", t, ErrInvalidConfig)
	}
	if nbins < 2 {
		return nil, fmt.Errorf("ddm: NBins must be >= 2, got %d: %w", nbins, ErrInvalidConfig)
	}
	var hist []float64
	histogram.F64(&hist, out.SignedRT(), nbins-1, -t, t)
	return hist, nil
}
