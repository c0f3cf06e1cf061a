// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package ddm implements the stochastic drift-diffusion model (DDM) of
two-alternative decision making, and the summary-statistic pipeline that
turns simulated behavior into the fixed-length feature vectors consumed by
the inference packages (abc, cde).

A trial accumulates evidence X(t) according to the SDE

	dX = mu*dt + sigma*dW

integrated with the Euler-Maruyama method from X(0) = Y0 until |X| reaches
the decision boundary, yielding a (reaction time, decision sign) outcome.
Outcomes for a batch of trials are reduced to a histogram of signed reaction
times (reaction time * decision), which is the summary statistic.

All randomness comes from an explicit per-Simulator source seeded at
construction, so every run is reproducible.
*/
package ddm

import (
	"errors"
	"fmt"
	"math"
)

// Error taxonomy for the whole repository: configuration errors are detected
// eagerly, before any simulation or training work starts, and numerical
// degeneracies are surfaced rather than silently absorbed.
var (
	// ErrInvalidConfig indicates parameters that cannot produce a valid
	// simulation or inference run (non-positive boundary, bad quantile, etc).
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDegenerate indicates a numerical degeneracy at runtime, such as a
	// non-finite training loss.
	ErrDegenerate = errors.New("numerical degeneracy")
)

// Params are the drift-diffusion simulation parameters.  The drift rate mu
// is not included here -- it is the inferred quantity, passed per batch.
type Params struct {
	NTrials int     `def:"100" min:"1" desc:"number of independent trials simulated per drift value"`
	Sigma   float64 `def:"0.2" min:"0" desc:"standard deviation of the diffusion (Wiener) noise"`
	T       float64 `def:"5" desc:"time horizon of a trial -- trials that have not crossed the boundary by T are forced to decide"`
	Dt      float64 `def:"0.01" desc:"integration time step -- must yield at least 2 time points over the horizon"`
	Bound   float64 `def:"1" desc:"decision boundary -- a trial decides when |X| >= Bound"`
	Y0      float64 `def:"0" desc:"starting value of the decision variable"`
	NBins   int     `def:"20" min:"2" desc:"number of histogram bin edges for the summary statistics -- produces NBins-1 bins over [-T, T]"`
}

func (pr *Params) Defaults() {
	pr.NTrials = 100
	pr.Sigma = 0.2
	pr.T = 5
	pr.Dt = 0.01
	pr.Bound = 1
	pr.Y0 = 0
	pr.NBins = 20
}

// NSteps returns the number of time points per trajectory = floor(T/Dt).
func (pr *Params) NSteps() int {
	if pr.Dt <= 0 {
		return 0
	}
	return int(math.Floor(pr.T / pr.Dt))
}

// NStats returns the length of the summary statistic vector = NBins-1.
func (pr *Params) NStats() int {
	return pr.NBins - 1
}

// TimeGrid returns the NSteps trajectory time points, linearly spaced over
// [0, T] inclusive.
func (pr *Params) TimeGrid() []float64 {
	ns := pr.NSteps()
	ts := make([]float64, ns)
	if ns < 2 {
		return ts
	}
	inc := pr.T / float64(ns-1)
	for i := range ts {
		ts[i] = float64(i) * inc
	}
	ts[ns-1] = pr.T // exact endpoint
	return ts
}

// Validate checks all parameters eagerly, returning an error wrapping
// ErrInvalidConfig for the first problem found.
func (pr *Params) Validate() error {
	if pr.NTrials < 1 {
		return fmt.Errorf("ddm: NTrials must be >= 1, got %d: %w", pr.NTrials, ErrInvalidConfig)
	}
	if pr.Sigma < 0 {
		return fmt.Errorf("ddm: Sigma must be >= 0, got %g: %w", pr.Sigma, ErrInvalidConfig)
	}
	if pr.T <= 0 {
		return fmt.Errorf("ddm: T must be > 0, got %g: %w", pr.T, ErrInvalidConfig)
	}
	if pr.Dt <= 0 {
		return fmt.Errorf("ddm: Dt must be > 0, got %g: %w", pr.Dt, ErrInvalidConfig)
	}
	if pr.Bound <= 0 {
		return fmt.Errorf("ddm: Bound must be > 0, got %g -- no finite crossing is possible: %w", pr.Bound, ErrInvalidConfig)
	}
	if pr.NSteps() < 2 {
		return fmt.Errorf("ddm: T=%g, Dt=%g yields %d time steps, need at least 2: %w", pr.T, pr.Dt, pr.NSteps(), ErrInvalidConfig)
	}
	if pr.NBins < 2 {
		return fmt.Errorf("ddm: NBins must be >= 2, got %d: %w", pr.NBins, ErrInvalidConfig)
	}
	return nil
}

// Sign returns the sign of x as +1, -1, or 0 for x == 0 exactly.
func Sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
