// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"math"
	"testing"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

func TestCosineSparseSymmetry(t *testing.T) {
	a := map[string]float64{"x": 1, "y": 2, "z": 3}
	b := map[string]float64{"y": 4, "z": 1, "w": 2}

	ab := CosineSparse(a, b)
	ba := CosineSparse(b, a)
	if math.Abs(ab-ba) > 1e-12 {
		t.Errorf("cosine(a,b)=%v != cosine(b,a)=%v", ab, ba)
	}
	if ab <= 0 || ab > 1 {
		t.Errorf("cosine out of range: %v", ab)
	}
}

func TestCosineSparseEdgeCases(t *testing.T) {
	if got := CosineSparse(nil, map[string]float64{"x": 1}); got != 0 {
		t.Errorf("empty vector cosine = %v, want 0", got)
	}
	if got := CosineSparse(map[string]float64{"x": 1}, map[string]float64{"y": 1}); got != 0 {
		t.Errorf("disjoint cosine = %v, want 0", got)
	}

	v := map[string]float64{"x": 3, "y": 4}
	if got := CosineSparse(v, v); math.Abs(got-1) > 1e-12 {
		t.Errorf("self cosine = %v, want 1", got)
	}
}

func TestCosineDenseDimensionMismatch(t *testing.T) {
	_, err := CosineDense([]float64{1, 2, 3}, []float64{1, 2})
	if !recommend.IsDataIntegrity(err) {
		t.Fatalf("err = %v, want DataIntegrityError", err)
	}
}

func TestCosineDense(t *testing.T) {
	got, err := CosineDense([]float64{1, 0}, []float64{0, 1})
	if err != nil {
		t.Fatalf("CosineDense: %v", err)
	}
	if got != 0 {
		t.Errorf("orthogonal cosine = %v, want 0", got)
	}

	got, err = CosineDense([]float64{2, 2}, []float64{1, 1})
	if err != nil {
		t.Fatalf("CosineDense: %v", err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("parallel cosine = %v, want 1", got)
	}
}

func TestWeightedJaccard(t *testing.T) {
	a := map[string]float64{"x": 2, "y": 1}
	b := map[string]float64{"x": 1, "y": 1}

	// min sum 2, max sum 3
	want := 2.0 / 3.0
	if got := WeightedJaccard(a, b); math.Abs(got-want) > 1e-12 {
		t.Errorf("weighted jaccard = %v, want %v", got, want)
	}
	if got := WeightedJaccard(a, b); got != WeightedJaccard(b, a) {
		t.Error("weighted jaccard not symmetric")
	}
	if got := WeightedJaccard(nil, nil); got != 0 {
		t.Errorf("empty jaccard = %v, want 0", got)
	}
}

func TestTopKSimilarEmptyPool(t *testing.T) {
	got := TopKSimilar("u1", map[string]float64{"x": 1}, nil, 5)
	if len(got) != 0 {
		t.Errorf("got %d neighbors from empty pool, want 0", len(got))
	}
}

func TestTopKSimilarExcludesSelfAndZero(t *testing.T) {
	pool := map[string]map[string]float64{
		"u1": {"x": 1},
		"u2": {"x": 1, "y": 1},
		"u3": {"z": 1},
	}

	got := TopKSimilar("u1", pool["u1"], pool, 10)
	if len(got) != 1 {
		t.Fatalf("got %d neighbors, want 1", len(got))
	}
	if got[0].ID != "u2" {
		t.Errorf("neighbor = %s, want u2", got[0].ID)
	}
}

func TestTopKSimilarDeterministicOrder(t *testing.T) {
	// u2 and u3 tie exactly; ascending ID breaks the tie.
	pool := map[string]map[string]float64{
		"q":  {"x": 1},
		"u3": {"x": 1},
		"u2": {"x": 1},
		"u4": {"x": 1, "y": 1},
	}

	for run := 0; run < 10; run++ {
		got := TopKSimilar("q", pool["q"], pool, 3)
		if len(got) != 3 {
			t.Fatalf("got %d neighbors, want 3", len(got))
		}
		if got[0].ID != "u2" || got[1].ID != "u3" || got[2].ID != "u4" {
			t.Fatalf("run %d order = %v, want [u2 u3 u4]", run, got)
		}
	}
}

func TestTopKSimilarClampsK(t *testing.T) {
	pool := map[string]map[string]float64{
		"u2": {"x": 1},
		"u3": {"x": 1},
	}
	got := TopKSimilar("q", map[string]float64{"x": 1}, pool, 0)
	if len(got) != 1 {
		t.Errorf("k=0 returned %d neighbors, want 1", len(got))
	}
}

func TestNormalizeScores(t *testing.T) {
	scores := map[string]float64{"a": 2, "b": 6, "c": 10}
	normalizeScores(scores)
	if scores["a"] != 0 || scores["c"] != 1 {
		t.Errorf("min/max not normalized: %v", scores)
	}
	if math.Abs(scores["b"]-0.5) > 1e-12 {
		t.Errorf("midpoint = %v, want 0.5", scores["b"])
	}

	flat := map[string]float64{"a": 3, "b": 3}
	normalizeScores(flat)
	if flat["a"] != 0.5 || flat["b"] != 0.5 {
		t.Errorf("constant scores = %v, want all 0.5", flat)
	}
}
