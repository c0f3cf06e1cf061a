// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cde

import (
	"github.com/goki/ki/kit"
	"github.com/goki/mat32"
)

// OptimizerType are the supported gradient-descent update rules.
type OptimizerType int

//go:generate stringer -type=OptimizerType

var KiT_OptimizerType = kit.Enums.AddEnum(OptimizerTypeN, false, nil)

func (ev OptimizerType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *OptimizerType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// SGD is plain stochastic gradient descent on the minibatch mean gradient
	SGD OptimizerType = iota

	// Adam is adaptive moment estimation: per-weight first and second moment
	// running averages with bias correction
	Adam

	OptimizerTypeN
)

// AdamParams are the Adam moment parameters.
type AdamParams struct {
	Beta1 float32 `def:"0.9" desc:"decay rate of the first-moment (mean) gradient average"`
	Beta2 float32 `def:"0.999" desc:"decay rate of the second-moment (uncentered variance) gradient average"`
	Eps   float32 `def:"1e-8" desc:"additive constant preventing division by zero"`
}

func (ap *AdamParams) Defaults() {
	ap.Beta1 = 0.9
	ap.Beta2 = 0.999
	ap.Eps = 1e-8
}

// adamState holds the per-layer moment buffers.
type adamState struct {
	MWt, VWt     []float32
	MBias, VBias []float32
}

// Optimizer applies minibatch gradient updates to a Network.
type Optimizer struct {
	Type OptimizerType `def:"Adam" desc:"which update rule to use"`
	Adam AdamParams    `viewif:"Type=Adam" desc:"Adam moment parameters"`

	t  int // update steps taken, for bias correction
	st []adamState
}

func (op *Optimizer) Defaults() {
	op.Type = Adam
	op.Adam.Defaults()
}

// Init allocates optimizer state for the given network and resets the step
// count.
func (op *Optimizer) Init(nt *Network) {
	op.t = 0
	op.st = make([]adamState, len(nt.Layers))
	for li, ly := range nt.Layers {
		op.st[li] = adamState{
			MWt:   make([]float32, len(ly.Wts)),
			VWt:   make([]float32, len(ly.Wts)),
			MBias: make([]float32, len(ly.Bias)),
			VBias: make([]float32, len(ly.Bias)),
		}
	}
}

// Step applies one update from the gradients accumulated over a minibatch of
// batchN samples, scaling them to the minibatch mean.
func (op *Optimizer) Step(nt *Network, lrate float32, batchN int) {
	bn := float32(batchN)
	op.t++
	for li, ly := range nt.Layers {
		st := &op.st[li]
		op.update(ly.Wts, ly.DWt, st.MWt, st.VWt, lrate, bn)
		op.update(ly.Bias, ly.DBias, st.MBias, st.VBias, lrate, bn)
	}
}

func (op *Optimizer) update(wts, dwt, m, v []float32, lrate, bn float32) {
	switch op.Type {
	case SGD:
		for i := range wts {
			wts[i] -= lrate * dwt[i] / bn
		}
	case Adam:
		b1 := op.Adam.Beta1
		b2 := op.Adam.Beta2
		c1 := 1 - mat32.Pow(b1, float32(op.t))
		c2 := 1 - mat32.Pow(b2, float32(op.t))
		for i := range wts {
			g := dwt[i] / bn
			m[i] = b1*m[i] + (1-b1)*g
			v[i] = b2*v[i] + (1-b2)*g*g
			wts[i] -= lrate * (m[i] / c1) / (mat32.Sqrt(v[i]/c2) + op.Adam.Eps)
		}
	}
}
