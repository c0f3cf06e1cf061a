// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cde

import (
	"testing"

	"github.com/chewxy/math32"
	"golang.org/x/exp/rand"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-5)

func TestForward(t *testing.T) {
	nt := NewNetwork(2, []int{2})
	hid := nt.Layers[0]
	copy(hid.Wts, []float32{1, -1, 0.5, 0.5})
	copy(hid.Bias, []float32{0, -0.1})
	out := nt.Layers[1]
	copy(out.Wts, []float32{1, 1, -1, 2})
	copy(out.Bias, []float32{0.5, 0})

	// in = (1, 2): hidden nets are (-1, 1.4), relu acts (0, 1.4)
	// outputs: mean = 0*1 + 1.4*1 + 0.5 = 1.9, logStd = 0*-1 + 1.4*2 = 2.8
	mean, logStd := nt.Forward([]float32{1, 2})
	if math32.Abs(mean-1.9) > difTol {
		t.Errorf("mean: got %v, want 1.9", mean)
	}
	if math32.Abs(logStd-2.8) > difTol {
		t.Errorf("logStd: got %v, want 2.8", logStd)
	}
}

func TestNLL(t *testing.T) {
	// standard normal at its mean: 0.5*ln(2*pi)
	if l := NLL(0, 0, 0); math32.Abs(l-0.9189385) > difTol {
		t.Errorf("NLL(0,0,0): got %v, want 0.9189385", l)
	}
	// one sd away adds 0.5
	if l := NLL(1, 0, 0); math32.Abs(l-1.4189385) > difTol {
		t.Errorf("NLL(1,0,0): got %v, want 1.4189385", l)
	}
}

// TestGradients checks backprop against central finite differences.
// Weights are fixed so that every hidden unit's net input is well away from
// the relu kink and the numeric derivative is clean.
func TestGradients(t *testing.T) {
	nt := NewNetwork(2, []int{3})
	hid := nt.Layers[0]
	copy(hid.Wts, []float32{0.5, -0.3, -0.4, 0.2, 0.3, -0.6})
	copy(hid.Bias, []float32{0.1, -0.2, 0.05})
	out := nt.Layers[1]
	copy(out.Wts, []float32{0.4, -0.5, 0.2, 0.3, 0.1, -0.2})
	copy(out.Bias, []float32{0.05, -0.1})
	in := []float32{0.7, -1.2}
	y := float32(0.3)

	nt.ZeroGrads()
	nt.Backward(in, y)

	const eps = float32(1e-3)
	const gradTol = float32(1e-2)
	for li, ly := range nt.Layers {
		for wi := range ly.Wts {
			orig := ly.Wts[wi]
			ly.Wts[wi] = orig + eps
			m, s := nt.Forward(in)
			lp := NLL(y, m, s)
			ly.Wts[wi] = orig - eps
			m, s = nt.Forward(in)
			lm := NLL(y, m, s)
			ly.Wts[wi] = orig
			num := (lp - lm) / (2 * eps)
			if math32.Abs(num-ly.DWt[wi]) > gradTol {
				t.Errorf("layer %d weight %d: backprop grad %v vs numeric %v", li, wi, ly.DWt[wi], num)
			}
		}
		for bi := range ly.Bias {
			orig := ly.Bias[bi]
			ly.Bias[bi] = orig + eps
			m, s := nt.Forward(in)
			lp := NLL(y, m, s)
			ly.Bias[bi] = orig - eps
			m, s = nt.Forward(in)
			lm := NLL(y, m, s)
			ly.Bias[bi] = orig
			num := (lp - lm) / (2 * eps)
			if math32.Abs(num-ly.DBias[bi]) > gradTol {
				t.Errorf("layer %d bias %d: backprop grad %v vs numeric %v", li, bi, ly.DBias[bi], num)
			}
		}
	}
}

func TestInitWtsReproducible(t *testing.T) {
	a := NewNetwork(4, []int{5, 5})
	a.InitWts(rand.New(rand.NewSource(7)))
	b := NewNetwork(4, []int{5, 5})
	b.InitWts(rand.New(rand.NewSource(7)))
	for li := range a.Layers {
		for wi := range a.Layers[li].Wts {
			if a.Layers[li].Wts[wi] != b.Layers[li].Wts[wi] {
				t.Fatalf("layer %d weight %d differs under identical seeds", li, wi)
			}
		}
	}
}
