// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ddm

import (
	"bytes"
	"fmt"
	"math"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/etensor"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Simulator integrates batches of drift-diffusion trials and reduces them
// to summary statistics.  Drift values are processed one at a time, with the
// per-drift trial batch held in a single (Trial, Time) tensor; trajectories
// are intermediate and discarded after decision extraction.
type Simulator struct {
	Params  Params     `desc:"simulation parameters"`
	RndSeed uint64     `desc:"random seed the simulator was last seeded with"`
	Rnd     *rand.Rand `view:"-" desc:"random source -- all Wiener increments come from here"`

	norm distuv.Normal
}

// NewSimulator returns a simulator with the given parameters and random
// seed.  Parameters are validated eagerly -- an invalid configuration fails
// here, before any simulation starts.
func NewSimulator(pr Params, seed uint64) (*Simulator, error) {
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	sm := &Simulator{Params: pr}
	sm.Seed(seed)
	return sm, nil
}

// Seed resets the random source to the given seed.
func (sm *Simulator) Seed(seed uint64) {
	sm.RndSeed = seed
	sm.Rnd = rand.New(rand.NewSource(seed))
	sm.norm = distuv.Normal{Mu: 0, Sigma: 1, Src: sm.Rnd}
}

// Trajectories simulates NTrials independent sample paths for one drift
// value, returning a (Trial, Time) tensor of the decision variable, with
// X = Y0 at the first time point.  Euler-Maruyama:
//
//	X(t+dt) = X(t) + mu*dt + sigma*sqrt(dt)*Z
//
// with Z standard normal, drawn independently per trial per step.
func (sm *Simulator) Trajectories(mu float64) *etensor.Float64 {
	n := sm.Params.NTrials
	ns := sm.Params.NSteps()
	tsr := etensor.NewFloat64([]int{n, ns}, nil, []string{"Trial", "Time"})
	drift := mu * sm.Params.Dt
	dw := sm.Params.Sigma * math.Sqrt(sm.Params.Dt)
	for ti := 0; ti < n; ti++ {
		row := tsr.Values[ti*ns : (ti+1)*ns]
		x := sm.Params.Y0
		row[0] = x
		for si := 1; si < ns; si++ {
			x += drift + dw*sm.norm.Rand()
			row[si] = x
		}
	}
	return tsr
}

// Summarize simulates each drift value in mus in order and returns the
// summary statistics as a (Param, Bin) tensor with NBins-1 columns, one row
// per drift value.  Each row is a histogram of signed reaction times summing
// to NTrials.
func (sm *Simulator) Summarize(mus []float64) (*etensor.Float64, error) {
	if err := sm.Params.Validate(); err != nil {
		return nil, err
	}
	nb := sm.Params.NStats()
	st := etensor.NewFloat64([]int{len(mus), nb}, nil, []string{"Param", "Bin"})
	times := sm.Params.TimeGrid()
	for pi, mu := range mus {
		traj := sm.Trajectories(mu)
		out, err := ExtractDecisions(traj, sm.Params.Bound, times)
		if err != nil {
			return nil, err
		}
		hist, err := Summary(out, sm.Params.T, sm.Params.NBins)
		if err != nil {
			return nil, err
		}
		copy(st.Values[pi*nb:(pi+1)*nb], hist)
	}
	return st, nil
}

// SizeReport returns a string report of the memory allocated for one drift
// value's batch of trial trajectories.
func (sm *Simulator) SizeReport() string {
	var b bytes.Buffer
	n := sm.Params.NTrials
	ns := sm.Params.NSteps()
	tmem := n * ns * 8 // float64
	fmt.Fprintf(&b, "Simulator:\t Trials: %d\t Steps: %d\t TrajMem: %v\n", n, ns, (datasize.ByteSize)(tmem).HumanReadable())
	return b.String()
}
