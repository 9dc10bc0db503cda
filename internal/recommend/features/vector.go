// IndieDeck - Indie Game Discovery and Recommendation Service
// Copyright 2026 IndieDeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/indiedeck/indiedeck

package features

import (
	"hash/fnv"
	"strings"
	"unicode"

	"github.com/indiedeck/indiedeck/internal/recommend"
)

// GameVector is a game's content representation: a sparse categorical
// vector over genres and tags, keys prefixed by feature family so a genre
// and a tag with the same name stay distinct, plus a fixed-dimension
// hashed term vector for the description text.
type GameVector struct {
	GameID   string
	Features map[string]float64
	Terms    []float64
}

// Feature key prefixes.
const (
	prefixGenre = "g:"
	prefixTag   = "t:"
)

// Relative feature family weights inside a game vector.
const (
	genreFeatureWeight = 1.0
	tagFeatureWeight   = 0.6
	termFeatureWeight  = 1.0
)

// TermVectorDim is the dimension of the hashed description-term vector.
// Every game vector built by this package shares it; a stored vector with
// a different length is corrupt.
const TermVectorDim = 64

// maxDescriptionTerms bounds the description contribution per game.
const maxDescriptionTerms = 20

// BuildGameVectors builds content vectors for a catalog.
func BuildGameVectors(games []recommend.Game) map[string]*GameVector {
	vectors := make(map[string]*GameVector, len(games))
	for i := range games {
		vectors[games[i].ID] = BuildGameVector(&games[i])
	}
	return vectors
}

// BuildGameVector builds a single game's content vector.
func BuildGameVector(g *recommend.Game) *GameVector {
	v := &GameVector{
		GameID:   g.ID,
		Features: make(map[string]float64, len(g.Genres)+len(g.Tags)),
	}

	for _, genre := range g.Genres {
		v.Features[prefixGenre+normalize(genre)] = genreFeatureWeight
	}
	for _, tag := range g.Tags {
		v.Features[prefixTag+normalize(tag)] = tagFeatureWeight
	}

	v.Terms = make([]float64, TermVectorDim)
	for _, term := range descriptionTerms(g.Description) {
		h := fnv.New32a()
		h.Write([]byte(term))
		v.Terms[h.Sum32()%TermVectorDim] += termFeatureWeight
	}

	return v
}

// ProfileVector converts a user profile into the same sparse feature space
// as game vectors so they can be compared directly.
func ProfileVector(p *UserProfile) map[string]float64 {
	out := make(map[string]float64, len(p.Genres)+len(p.Tags))
	for genre, w := range p.Genres {
		out[prefixGenre+genre] = w
	}
	for tag, w := range p.Tags {
		out[prefixTag+tag] = w
	}
	return out
}

// HasGenre reports whether the vector carries the given genre feature.
func (v *GameVector) HasGenre(genre string) bool {
	_, ok := v.Features[prefixGenre+normalize(genre)]
	return ok
}

// descriptionTerms tokenizes a description into lowercase terms, dropping
// stopwords and short fragments.
func descriptionTerms(desc string) []string {
	if desc == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(desc), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, maxDescriptionTerms)
	for _, f := range fields {
		if len(f) < 4 {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
		if len(terms) >= maxDescriptionTerms {
			break
		}
	}
	return terms
}

var stopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "your": {},
	"have": {}, "will": {}, "game": {}, "play": {}, "player": {},
	"players": {}, "their": {}, "there": {}, "about": {}, "into": {},
	"more": {}, "where": {}, "when": {}, "they": {}, "them": {},
	"than": {}, "each": {}, "every": {}, "through": {}, "while": {},
}
