// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ddm

import (
	"fmt"
	"log"

	"github.com/emer/etable/etensor"
)

// Outcomes holds the per-trial decision outcomes extracted from a batch of
// trajectories: exactly one (reaction time, decision) pair per trial.
type Outcomes struct {
	RT     []float64 `desc:"reaction time per trial, in [0, T]"`
	Choice []float64 `desc:"decision sign per trial: +1 or -1 -- 0 only for the degenerate forced-decision case"`

	NForced int `inactive:"+" desc:"number of trials that never crossed the boundary and were forced to decide at the horizon"`
	NZero   int `inactive:"+" desc:"number of forced trials whose decision variable was exactly 0 at the horizon -- these have a degenerate (rt=0, choice=0) outcome"`
}

// NTrials returns the number of trials.
func (oc *Outcomes) NTrials() int {
	return len(oc.RT)
}

// SignedRT returns reaction time * decision per trial, in [-T, T].
func (oc *Outcomes) SignedRT() []float64 {
	srt := make([]float64, len(oc.RT))
	for i := range srt {
		srt[i] = oc.RT[i] * oc.Choice[i]
	}
	return srt
}

// firstCrossing returns the first index where |x| >= bound, or -1.
func firstCrossing(row []float64, bound float64) int {
	for i, x := range row {
		if x >= bound || x <= -bound {
			return i
		}
	}
	return -1
}

// ExtractDecisions scans each trial of a (Trial, Time) trajectory tensor for
// the first boundary crossing.  Trials that never cross within the horizon
// are forced to a boundary value at the final time point, in the direction
// of their sign there, and re-scanned -- so every trial yields exactly one
// outcome.
//
// If the final value of an undecided trial is exactly 0, the forced value is
// 0 and the re-scan still finds no crossing; the outcome then degenerates to
// (rt = times[0], choice = 0).  This matches the reference behavior and is
// surfaced via Outcomes.NZero and a logged warning rather than corrected.
//
// times must have one entry per trajectory time point.
func ExtractDecisions(traj *etensor.Float64, bound float64, times []float64) (*Outcomes, error) {
	if bound <= 0 {
		return nil, fmt.Errorf("ddm: bound must be > 0, got %g: %w", bound, ErrInvalidConfig)
	}
	if traj.NumDims() != 2 {
		return nil, fmt.Errorf("ddm: trajectories must be a 2D (Trial, Time) tensor, got %d dims: %w", traj.NumDims(), ErrInvalidConfig)
	}
	n := traj.Dim(0)
	ns := traj.Dim(1)
	if ns != len(times) {
		return nil, fmt.Errorf("ddm: trajectory has %d time points but time grid has %d: %w", ns, len(times), ErrInvalidConfig)
	}
	oc := &Outcomes{RT: make([]float64, n), Choice: make([]float64, n)}
	for ti := 0; ti < n; ti++ {
		row := traj.Values[ti*ns : (ti+1)*ns]
		ix := firstCrossing(row, bound)
		if ix < 0 {
			oc.NForced++
			row[ns-1] = bound * Sign(row[ns-1])
			ix = firstCrossing(row, bound)
			if ix < 0 { // forced value was 0 -- degenerate
				oc.NZero++
				ix = 0
			}
		}
		oc.RT[ti] = times[ix]
		oc.Choice[ti] = Sign(row[ix])
	}
	if oc.NZero > 0 {
		log.Printf("ddm.ExtractDecisions: %d undecided trial(s) ended at exactly 0 -- forced decision is degenerate (rt=0, choice=0)", oc.NZero)
	}
	return oc, nil
}
