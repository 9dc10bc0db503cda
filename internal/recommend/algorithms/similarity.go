// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package algorithms

import (
	"math"
	"sort"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// Neighbor is an entity and its similarity to some query entity.
type Neighbor struct {
	ID         string
	Similarity float64
}

// CosineSparse computes cosine similarity between two sparse vectors.
// Returns 0 when either vector is empty or has zero magnitude. The result
// is symmetric in its arguments.
func CosineSparse(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	// Iterate the smaller map.
	if len(b) < len(a) {
		a, b = b, a
	}

	var dot float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	if dot == 0 {
		return 0
	}

	var normA, normB float64
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDense computes cosine similarity between two dense vectors of the
// same dimension. Mismatched dimensions indicate corrupted feature data
// and return a DataIntegrityError rather than a silent 0.
func CosineDense(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &recommend.DataIntegrityError{
			Op:   "cosine",
			Want: len(a),
			Got:  len(b),
		}
	}
	if len(a) == 0 {
		return 0, nil
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// WeightedJaccard computes the weighted Jaccard similarity between two
// sparse non-negative vectors: sum of mins over sum of maxes.
func WeightedJaccard(a, b map[string]float64) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	var minSum, maxSum float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			minSum += math.Min(av, bv)
			maxSum += math.Max(av, bv)
		} else {
			maxSum += av
		}
	}
	for k, bv := range b {
		if _, ok := a[k]; !ok {
			maxSum += bv
		}
	}
	if maxSum == 0 {
		return 0
	}

	return minSum / maxSum
}

// JaccardStrings computes the Jaccard similarity of two string sets.
func JaccardStrings(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}

	var inter int
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := set[s]; ok {
			inter++
		} else {
			union++
		}
	}

	return float64(inter) / float64(union)
}

// TopKSimilar returns the K most similar entities to the query vector from
// the pool, ordered by descending similarity with ascending-ID tie breaks,
// so results are stable across runs. The query ID itself and zero-similarity
// entries are excluded. An empty pool yields an empty slice. K below 1 is
// treated as 1.
func TopKSimilar(queryID string, query map[string]float64, pool map[string]map[string]float64, k int) []Neighbor {
	if k < 1 {
		k = 1
	}

	neighbors := make([]Neighbor, 0, len(pool))
	for id, vec := range pool {
		if id == queryID {
			continue
		}
		sim := CosineSparse(query, vec)
		if sim <= 0 {
			continue
		}
		neighbors = append(neighbors, Neighbor{ID: id, Similarity: sim})
	}

	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})

	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}
