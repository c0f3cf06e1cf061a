// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cde

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/emer/emergent/env"
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/portugueslab/ddminfer/ddm"
	"golang.org/x/exp/rand"
)

// TrainParams are the density-estimator training parameters.
type TrainParams struct {
	Hidden    []int         `desc:"sizes of the hidden layers"`
	Epochs    int           `def:"100" desc:"number of passes over the training set"`
	BatchSize int           `def:"10" desc:"minibatch size -- the final minibatch of an epoch may be smaller"`
	LRate     float32       `def:"0.01" desc:"learning rate"`
	Optimizer OptimizerType `def:"Adam" desc:"gradient update rule"`
}

func (tp *TrainParams) Defaults() {
	tp.Hidden = []int{50, 50}
	tp.Epochs = 100
	tp.BatchSize = 10
	tp.LRate = 0.01
	tp.Optimizer = Adam
}

// Validate checks the training parameters eagerly.
func (tp *TrainParams) Validate() error {
	if len(tp.Hidden) == 0 {
		return fmt.Errorf("cde: at least one hidden layer is required: %w", ddm.ErrInvalidConfig)
	}
	for _, hs := range tp.Hidden {
		if hs < 1 {
			return fmt.Errorf("cde: hidden layer sizes must be >= 1, got %v: %w", tp.Hidden, ddm.ErrInvalidConfig)
		}
	}
	if tp.Epochs < 1 {
		return fmt.Errorf("cde: Epochs must be >= 1, got %d: %w", tp.Epochs, ddm.ErrInvalidConfig)
	}
	if tp.BatchSize < 1 {
		return fmt.Errorf("cde: BatchSize must be >= 1, got %d: %w", tp.BatchSize, ddm.ErrInvalidConfig)
	}
	if !(tp.LRate > 0) {
		return fmt.Errorf("cde: LRate must be > 0, got %g: %w", tp.LRate, ddm.ErrInvalidConfig)
	}
	if tp.Optimizer < 0 || tp.Optimizer >= OptimizerTypeN {
		return fmt.Errorf("cde: unknown optimizer %d: %w", tp.Optimizer, ddm.ErrInvalidConfig)
	}
	return nil
}

// Trainer fits a Network to (drift, summary statistic) pairs by minimizing
// the minibatch-mean Gaussian negative log-likelihood, logging the loss of
// every minibatch step.
type Trainer struct {
	Params  TrainParams   `desc:"training parameters"`
	Net     *Network      `view:"no-inline" desc:"the network being trained -- created on first Train call"`
	Opt     Optimizer     `desc:"gradient optimizer"`
	Epoch   env.Ctr       `inactive:"+" desc:"current training epoch"`
	Step    env.Ctr       `inactive:"+" desc:"total minibatch steps taken"`
	LossLog *etable.Table `view:"no-inline" desc:"per-minibatch-step loss"`
	RndSeed uint64        `desc:"random seed for weight init and minibatch shuffling"`
	Rnd     *rand.Rand    `view:"-" desc:"random source"`
}

// NewTrainer returns a trainer with the given parameters and random seed.
func NewTrainer(tp TrainParams, seed uint64) *Trainer {
	tr := &Trainer{Params: tp}
	tr.Opt.Defaults()
	tr.Opt.Type = tp.Optimizer
	tr.RndSeed = seed
	tr.Rnd = rand.New(rand.NewSource(seed))
	tr.ConfigLossLog()
	return tr
}

// ConfigLossLog resets the loss log table.
func (tr *Trainer) ConfigLossLog() {
	dt := &etable.Table{}
	dt.SetMetaData("name", "LossLog")
	dt.SetMetaData("desc", "negative log-likelihood per minibatch training step")
	sch := etable.Schema{
		{"Epoch", etensor.INT64, nil, nil},
		{"Step", etensor.INT64, nil, nil},
		{"Loss", etensor.FLOAT64, nil, nil},
	}
	dt.SetFromSchema(sch, 0)
	tr.LossLog = dt
}

// Train fits the network to the given drifts and their summary statistics,
// a (Param, Bin) tensor with one row per drift.  The network is created and
// initialized on the first call.  Each epoch visits all samples in a freshly
// shuffled order.  A non-finite minibatch loss aborts training with an error
// wrapping ddm.ErrDegenerate.
func (tr *Trainer) Train(mus []float64, stats *etensor.Float64) error {
	if err := tr.Params.Validate(); err != nil {
		return err
	}
	if stats.NumDims() != 2 {
		return fmt.Errorf("cde: stats must be a 2D (Param, Bin) tensor, got %d dims: %w", stats.NumDims(), ddm.ErrInvalidConfig)
	}
	n := stats.Dim(0)
	nin := stats.Dim(1)
	if n != len(mus) {
		return fmt.Errorf("cde: %d drift values but %d stat rows: %w", len(mus), n, ddm.ErrInvalidConfig)
	}
	if n == 0 {
		return fmt.Errorf("cde: empty training set: %w", ddm.ErrInvalidConfig)
	}
	if tr.Net == nil {
		tr.Net = NewNetwork(nin, tr.Params.Hidden)
		tr.Net.InitWts(tr.Rnd)
		tr.Opt.Init(tr.Net)
	} else if tr.Net.NInputs != nin {
		return fmt.Errorf("cde: network expects %d inputs, stats have %d bins: %w", tr.Net.NInputs, nin, ddm.ErrInvalidConfig)
	}

	// float32 copies of the training data
	ins := make([]float32, len(stats.Values))
	for i, v := range stats.Values {
		ins[i] = float32(v)
	}
	ys := make([]float32, n)
	for i, mu := range mus {
		ys[i] = float32(mu)
	}

	tr.Epoch.Init()
	tr.Epoch.Max = tr.Params.Epochs
	for epc := 0; epc < tr.Params.Epochs; epc++ {
		tr.Epoch.Cur = epc
		perm := tr.Rnd.Perm(n)
		for bi := 0; bi < n; bi += tr.Params.BatchSize {
			be := bi + tr.Params.BatchSize
			if be > n {
				be = n
			}
			tr.Net.ZeroGrads()
			loss := float32(0)
			for _, pi := range perm[bi:be] {
				loss += tr.Net.Backward(ins[pi*nin:(pi+1)*nin], ys[pi])
			}
			loss /= float32(be - bi)
			if math32.IsNaN(loss) || math32.IsInf(loss, 0) {
				return fmt.Errorf("cde: non-finite loss %g at epoch %d step %d: %w", loss, epc, tr.Step.Cur, ddm.ErrDegenerate)
			}
			tr.Opt.Step(tr.Net, tr.Params.LRate, be-bi)
			tr.logStep(epc, loss)
			tr.Step.Incr()
		}
	}
	return nil
}

func (tr *Trainer) logStep(epc int, loss float32) {
	dt := tr.LossLog
	row := dt.Rows
	dt.SetNumRows(row + 1)
	dt.SetCellFloat("Epoch", row, float64(epc))
	dt.SetCellFloat("Step", row, float64(tr.Step.Cur))
	dt.SetCellFloat("Loss", row, float64(loss))
}
