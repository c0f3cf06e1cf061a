// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package abc implements rejection Approximate Bayesian Computation for the
drift-diffusion model: draw candidate drift rates from the prior, simulate
summary statistics for each, and accept the fraction whose statistics are
closest to the observed data.  The accepted drifts are samples from the
approximate posterior.

A single simulate-and-score pass over the full budget -- no iterative
refinement, no retries.
*/
package abc

import (
	"fmt"
	"sort"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/metric"
	"github.com/portugueslab/ddminfer/ddm"
	"github.com/portugueslab/ddminfer/prior"
)

// Rejection holds the rejection-ABC selection parameters.
type Rejection struct {
	Budget   int           `def:"1000" desc:"number of candidate drift values drawn from the prior and simulated"`
	Quantile float64       `def:"0.01" desc:"fraction of candidates with smallest distance to accept, in (0, 1] -- floor(Budget*Quantile) samples are accepted"`
	Metric   metric.Func64 `view:"-" desc:"distance between observed and simulated summary statistics -- nil defaults to Euclidean"`
}

func (rj *Rejection) Defaults() {
	rj.Budget = 1000
	rj.Quantile = 0.01
	rj.Metric = metric.Euclidean64
}

// NAccept returns the number of candidates that will be accepted.
func (rj *Rejection) NAccept() int {
	return int(float64(rj.Budget) * rj.Quantile)
}

// Validate checks the selection parameters eagerly.
func (rj *Rejection) Validate() error {
	if rj.Budget < 1 {
		return fmt.Errorf("abc: Budget must be >= 1, got %d: %w", rj.Budget, ddm.ErrInvalidConfig)
	}
	if rj.Quantile <= 0 || rj.Quantile > 1 {
		return fmt.Errorf("abc: Quantile must be in (0, 1], got %g: %w", rj.Quantile, ddm.ErrInvalidConfig)
	}
	return nil
}

// Results holds the output of one rejection-ABC pass.
type Results struct {
	Accepted []float64     `desc:"accepted drift values -- samples from the approximate posterior, in ascending distance order"`
	Dists    []float64     `desc:"distances of the accepted candidates, ascending"`
	Log      *etable.Table `view:"no-inline" desc:"all candidates sorted by distance: Mu, Dist, Accepted"`
}

// Infer runs one full rejection-ABC pass: draw Budget drifts from the prior,
// simulate summary statistics for all of them, compute distances to the
// observed statistics, and accept the floor(Budget*Quantile) closest.
// Ties in distance keep the original simulation order (stable sort).
// Re-running with the same prior and simulator seeds yields identical
// results.
func (rj *Rejection) Infer(pr *prior.Uniform, sm *ddm.Simulator, observed []float64) (*Results, error) {
	if err := rj.Validate(); err != nil {
		return nil, err
	}
	nb := sm.Params.NStats()
	if len(observed) != nb {
		return nil, fmt.Errorf("abc: observed summary has %d bins but simulator produces %d: %w", len(observed), nb, ddm.ErrInvalidConfig)
	}
	mus := pr.Sample(rj.Budget)
	stats, err := sm.Summarize(mus)
	if err != nil {
		return nil, err
	}
	mfun := rj.Metric
	if mfun == nil {
		mfun = metric.Euclidean64
	}
	dists := make([]float64, rj.Budget)
	for ci := range mus {
		dists[ci] = mfun(observed, stats.Values[ci*nb:(ci+1)*nb])
	}
	ord := make([]int, rj.Budget)
	for i := range ord {
		ord[i] = i
	}
	sort.SliceStable(ord, func(a, b int) bool { return dists[ord[a]] < dists[ord[b]] })

	nacc := rj.NAccept()
	rs := &Results{Accepted: make([]float64, nacc), Dists: make([]float64, nacc)}
	rs.Log = rj.configLog(rj.Budget)
	for ri, ci := range ord {
		acc := 0.0
		if ri < nacc {
			rs.Accepted[ri] = mus[ci]
			rs.Dists[ri] = dists[ci]
			acc = 1
		}
		rs.Log.SetCellFloat("Mu", ri, mus[ci])
		rs.Log.SetCellFloat("Dist", ri, dists[ci])
		rs.Log.SetCellFloat("Accepted", ri, acc)
	}
	return rs, nil
}

func (rj *Rejection) configLog(rows int) *etable.Table {
	dt := &etable.Table{}
	dt.SetMetaData("name", "ABCLog")
	dt.SetMetaData("desc", "all rejection-ABC candidates sorted by distance to observed statistics")
	dt.SetMetaData("read-only", "true")
	sch := etable.Schema{
		{"Mu", etensor.FLOAT64, nil, nil},
		{"Dist", etensor.FLOAT64, nil, nil},
		{"Accepted", etensor.INT64, nil, nil},
	}
	dt.SetFromSchema(sch, rows)
	return dt
}
