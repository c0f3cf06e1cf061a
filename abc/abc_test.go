// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package abc

import (
	"errors"
	"testing"

	"github.com/portugueslab/ddminfer/ddm"
	"github.com/portugueslab/ddminfer/prior"
)

// cheapParams are small simulation parameters for fast ABC tests.
func cheapParams() ddm.Params {
	pr := ddm.Params{}
	pr.Defaults()
	pr.NTrials = 20
	pr.T = 1
	pr.Dt = 0.01
	pr.Bound = 0.5
	return pr
}

// observe simulates a one-off observed summary for the given drift.
func observe(t *testing.T, mu float64) []float64 {
	sm, err := ddm.NewSimulator(cheapParams(), 999)
	if err != nil {
		t.Fatal(err)
	}
	st, err := sm.Summarize([]float64{mu})
	if err != nil {
		t.Fatal(err)
	}
	return st.Values
}

func TestInferSelection(t *testing.T) {
	obs := observe(t, 0.4)
	sm, err := ddm.NewSimulator(cheapParams(), 1)
	if err != nil {
		t.Fatal(err)
	}
	rj := Rejection{}
	rj.Defaults()
	rj.Budget = 200
	rj.Quantile = 0.05
	rs, err := rj.Infer(prior.Default(2), sm, obs)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs.Accepted) != 10 {
		t.Fatalf("accepted set size: got %d, want floor(200*0.05) = 10", len(rs.Accepted))
	}
	if rs.Log.Rows != 200 {
		t.Fatalf("candidate log rows: got %d, want 200", rs.Log.Rows)
	}
	// distances are sorted ascending, so every accepted candidate's distance
	// is <= every rejected candidate's distance
	for ri := 1; ri < rs.Log.Rows; ri++ {
		if rs.Log.CellFloat("Dist", ri) < rs.Log.CellFloat("Dist", ri-1) {
			t.Fatalf("log distances not ascending at row %d", ri)
		}
	}
	for ri := 0; ri < rs.Log.Rows; ri++ {
		acc := rs.Log.CellFloat("Accepted", ri)
		want := 0.0
		if ri < 10 {
			want = 1
		}
		if acc != want {
			t.Errorf("row %d: accepted flag %v, want %v", ri, acc, want)
		}
	}
	if rs.Dists[len(rs.Dists)-1] > rs.Log.CellFloat("Dist", 10) {
		t.Errorf("max accepted distance %v exceeds min rejected %v", rs.Dists[len(rs.Dists)-1], rs.Log.CellFloat("Dist", 10))
	}
	for _, mu := range rs.Accepted {
		if mu < prior.DriftMin || mu > prior.DriftMax {
			t.Errorf("accepted drift %v outside the prior range", mu)
		}
	}
}

func TestInferReproducible(t *testing.T) {
	obs := observe(t, 0.4)
	rj := Rejection{}
	rj.Defaults()
	rj.Budget = 100
	rj.Quantile = 0.1
	run := func() *Results {
		sm, err := ddm.NewSimulator(cheapParams(), 17)
		if err != nil {
			t.Fatal(err)
		}
		rs, err := rj.Infer(prior.Default(23), sm, obs)
		if err != nil {
			t.Fatal(err)
		}
		return rs
	}
	a := run()
	b := run()
	for i := range a.Accepted {
		if a.Accepted[i] != b.Accepted[i] || a.Dists[i] != b.Dists[i] {
			t.Fatalf("re-run with identical seeds differs at %d: (%v, %v) vs (%v, %v)", i, a.Accepted[i], a.Dists[i], b.Accepted[i], b.Dists[i])
		}
	}
}

func TestNAcceptFloor(t *testing.T) {
	cases := []struct {
		budget int
		q      float64
		want   int
	}{
		{10, 0.25, 2},
		{10, 1, 10},
		{10000, 0.01, 100},
		{10, 0.01, 0},
	}
	for _, cs := range cases {
		rj := Rejection{Budget: cs.budget, Quantile: cs.q}
		if got := rj.NAccept(); got != cs.want {
			t.Errorf("NAccept(%d, %g): got %d, want %d", cs.budget, cs.q, got, cs.want)
		}
	}
}

func TestInferErrors(t *testing.T) {
	obs := observe(t, 0.4)
	sm, err := ddm.NewSimulator(cheapParams(), 1)
	if err != nil {
		t.Fatal(err)
	}
	pr := prior.Default(2)
	cases := []Rejection{
		{Budget: 0, Quantile: 0.1},
		{Budget: -5, Quantile: 0.1},
		{Budget: 100, Quantile: 0},
		{Budget: 100, Quantile: -0.1},
		{Budget: 100, Quantile: 1.2},
	}
	for i, rj := range cases {
		if _, err := rj.Infer(pr, sm, obs); !errors.Is(err, ddm.ErrInvalidConfig) {
			t.Errorf("case %d: expected ErrInvalidConfig, got %v", i, err)
		}
	}
	rj := Rejection{}
	rj.Defaults()
	if _, err := rj.Infer(pr, sm, obs[:5]); !errors.Is(err, ddm.ErrInvalidConfig) {
		t.Errorf("short observed vector: expected ErrInvalidConfig, got %v", err)
	}
}
