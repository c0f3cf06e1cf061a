// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cde implements a neural conditional density estimator for the
drift-diffusion model: a small feed-forward network trained on (drift,
summary statistic) pairs to predict the mean and log-scale of a Normal
distribution over the drift, conditioned on the statistic.  Passing the
observed summary statistic through the trained network yields the amortized
approximate posterior p(mu | s_o).

The network is float32 throughout, with float64 at the package boundary.
*/
package cde

import (
	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Layer is one fully-connected layer: NOut units each receiving from NIn
// inputs, weights stored row-major by receiving unit.  Hidden layers apply
// a rectified-linear activation; the output layer is linear.
type Layer struct {
	NIn    int       `inactive:"+" desc:"number of sending units"`
	NOut   int       `inactive:"+" desc:"number of receiving units"`
	Linear bool      `inactive:"+" desc:"no activation function -- output layer"`
	Wts    []float32 `view:"-" desc:"weights, NOut x NIn row-major"`
	Bias   []float32 `view:"-" desc:"bias per receiving unit"`
	Act    []float32 `view:"-" desc:"activations from the last forward pass"`
	DWt    []float32 `view:"-" desc:"accumulated weight gradients for the current minibatch"`
	DBias  []float32 `view:"-" desc:"accumulated bias gradients for the current minibatch"`
}

// NewLayer returns a layer with allocated weights and gradients.
func NewLayer(nin, nout int, linear bool) *Layer {
	ly := &Layer{NIn: nin, NOut: nout, Linear: linear}
	ly.Wts = make([]float32, nout*nin)
	ly.Bias = make([]float32, nout)
	ly.Act = make([]float32, nout)
	ly.DWt = make([]float32, nout*nin)
	ly.DBias = make([]float32, nout)
	return ly
}

// InitWts initializes weights uniformly within +-1/sqrt(NIn) and biases to 0,
// drawing from the given random source.
func (ly *Layer) InitWts(rnd *rand.Rand) {
	rng := 1 / math32.Sqrt(float32(ly.NIn))
	for i := range ly.Wts {
		ly.Wts[i] = rng * float32(2*rnd.Float64()-1)
	}
	for i := range ly.Bias {
		ly.Bias[i] = 0
	}
}

// Forward computes activations from the given input.
func (ly *Layer) Forward(in []float32) {
	for o := 0; o < ly.NOut; o++ {
		wrow := ly.Wts[o*ly.NIn : (o+1)*ly.NIn]
		net := ly.Bias[o]
		for i, iv := range in {
			net += wrow[i] * iv
		}
		if !ly.Linear && net < 0 { // relu
			net = 0
		}
		ly.Act[o] = net
	}
}

// Backward accumulates weight and bias gradients for this layer given its
// input and the loss gradient with respect to its activations, and returns
// the loss gradient with respect to its input.
func (ly *Layer) Backward(in, delta []float32) []float32 {
	din := make([]float32, ly.NIn)
	for o := 0; o < ly.NOut; o++ {
		do := delta[o]
		ly.DBias[o] += do
		wrow := ly.Wts[o*ly.NIn : (o+1)*ly.NIn]
		drow := ly.DWt[o*ly.NIn : (o+1)*ly.NIn]
		for i, iv := range in {
			drow[i] += do * iv
			din[i] += do * wrow[i]
		}
	}
	return din
}

// ZeroGrads resets the accumulated gradients.
func (ly *Layer) ZeroGrads() {
	for i := range ly.DWt {
		ly.DWt[i] = 0
	}
	for i := range ly.DBias {
		ly.DBias[i] = 0
	}
}

// Network is a feed-forward conditional density estimator: input is a
// summary statistic vector, hidden layers are rectified-linear, and the two
// linear outputs are the mean and log-scale of a Normal distribution over
// the drift.
type Network struct {
	NInputs int      `inactive:"+" desc:"summary statistic vector length"`
	Layers  []*Layer `desc:"hidden layers followed by the 2-unit linear output layer"`
}

// NewNetwork returns a network for nin-dimensional summary statistics with
// the given hidden layer sizes.  Weights are zero until InitWts.
func NewNetwork(nin int, hidden []int) *Network {
	nt := &Network{NInputs: nin}
	prv := nin
	for _, hs := range hidden {
		nt.Layers = append(nt.Layers, NewLayer(prv, hs, false))
		prv = hs
	}
	nt.Layers = append(nt.Layers, NewLayer(prv, 2, true))
	return nt
}

// InitWts initializes all layer weights from the given random source.
func (nt *Network) InitWts(rnd *rand.Rand) {
	for _, ly := range nt.Layers {
		ly.InitWts(rnd)
	}
}

// ZeroGrads resets all accumulated gradients.
func (nt *Network) ZeroGrads() {
	for _, ly := range nt.Layers {
		ly.ZeroGrads()
	}
}

// Forward runs the network on one summary statistic vector and returns the
// raw outputs: the mean and the log of the scale.
func (nt *Network) Forward(in []float32) (mean, logStd float32) {
	x := in
	for _, ly := range nt.Layers {
		ly.Forward(x)
		x = ly.Act
	}
	return x[0], x[1]
}

// NLL is the negative log-likelihood of drift y under a Normal distribution
// with the given mean and log of the scale.
func NLL(y, mean, logStd float32) float32 {
	d := y - mean
	return 0.5*math32.Log(2*math32.Pi) + logStd + 0.5*d*d*math32.Exp(-2*logStd)
}

// Backward runs a forward pass on one (statistic, drift) pair, accumulates
// the NLL gradients into all layers, and returns the sample's loss.
// Gradients accumulate across calls until ZeroGrads.
func (nt *Network) Backward(in []float32, y float32) float32 {
	mean, logStd := nt.Forward(in)
	d := y - mean
	e2s := math32.Exp(-2 * logStd)
	loss := 0.5*math32.Log(2*math32.Pi) + logStd + 0.5*d*d*e2s
	delta := []float32{-d * e2s, 1 - d*d*e2s}
	for li := len(nt.Layers) - 1; li >= 0; li-- {
		ly := nt.Layers[li]
		lin := in
		if li > 0 {
			lin = nt.Layers[li-1].Act
		}
		delta = ly.Backward(lin, delta)
		if li > 0 { // relu gradient of the layer below
			blw := nt.Layers[li-1]
			for i := range delta {
				if blw.Act[i] <= 0 {
					delta[i] = 0
				}
			}
		}
	}
	return loss
}

// Predict passes an observed summary statistic through the trained network
// and returns the mean and standard deviation of the Normal approximate
// posterior over the drift.
func (nt *Network) Predict(observed []float64) (mean, std float64) {
	in := make([]float32, len(observed))
	for i, v := range observed {
		in[i] = float32(v)
	}
	m, s := nt.Forward(in)
	return float64(m), float64(math32.Exp(s))
}

// Posterior returns the Normal approximate posterior for an observed summary
// statistic, with its own seeded source for i.i.d. sampling.
func (nt *Network) Posterior(observed []float64, seed uint64) distuv.Normal {
	m, sd := nt.Predict(observed)
	return distuv.Normal{Mu: m, Sigma: sd, Src: rand.NewSource(seed)}
}
