// Copyright (c) 2020, The ddminfer Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ddm

import (
	"errors"
	"testing"
)

func TestSummaryBins(t *testing.T) {
	// 4 bins over [-1, 1]: edges at -1, -0.5, 0, 0.5, 1
	out := &Outcomes{
		RT:     []float64{0.75, 0.2, 0.3, 0.9, 1.0},
		Choice: []float64{-1, -1, 1, 1, 1},
	}
	hist, err := Summary(out, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 4 {
		t.Fatalf("histogram length: got %d, want 4", len(hist))
	}
	// signed rts: -0.75, -0.2, 0.3, 0.9, 1.0 -- final bin is closed at +T
	want := []float64{1, 1, 1, 2}
	for bi := range want {
		if hist[bi] != want[bi] {
			t.Errorf("bin %d: got %v, want %v", bi, hist[bi], want[bi])
		}
	}
}

func TestSummarySum(t *testing.T) {
	pr := Params{}
	pr.Defaults()
	pr.NTrials = 100
	pr.Bound = 1.8 // leave some forced trials at exactly +-T
	sm, err := NewSimulator(pr, 5)
	if err != nil {
		t.Fatal(err)
	}
	traj := sm.Trajectories(0.2)
	out, err := ExtractDecisions(traj, pr.Bound, pr.TimeGrid())
	if err != nil {
		t.Fatal(err)
	}
	hist, err := Summary(out, pr.T, pr.NBins)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != pr.NStats() {
		t.Fatalf("histogram length: got %d, want %d", len(hist), pr.NStats())
	}
	sum := 0.0
	for _, c := range hist {
		sum += c
	}
	if sum != float64(pr.NTrials) {
		t.Errorf("counts sum to %v, want %d (every trial must land in a bin, including forced +-T)", sum, pr.NTrials)
	}
}

func TestSummaryErrors(t *testing.T) {
	out := &Outcomes{RT: []float64{0.5}, Choice: []float64{1}}
	if _, err := Summary(out, 0, 5); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("T=0: expected ErrInvalidConfig, got %v", err)
	}
	if _, err := Summary(out, 1, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NBins=1: expected ErrInvalidConfig, got %v", err)
	}
}
