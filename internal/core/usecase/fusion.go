package usecase

import (
	"math"
	"sort"

	"github.com/docuquery/docuquery/internal/core/domain"
)

const (
	// DefaultRetrievalK is the per-sub-index candidate count.
	DefaultRetrievalK = 4
	// Default ensemble weights for the lexical/semantic blend.
	DefaultLexicalWeight  = 0.5
	DefaultSemanticWeight = 0.5
)

// fuseWeighted merges the lexical and semantic sub-rankings into one
// ordered candidate list. Scores are min-max normalized within each
// sub-ranking to make them comparable, then blended with a fixed
// weighted sum. Candidates are deduplicated by chunk fingerprint; ties
// break on lexical rank, then semantic rank, then fingerprint, so the
// output is deterministic for a fixed corpus and query.
func fuseWeighted(
	lexical, semantic []domain.ScoredChunk,
	lexicalWeight, semanticWeight float64,
) []domain.RetrievalCandidate {
	acc := make(map[string]*domain.RetrievalCandidate, len(lexical)+len(semantic))
	order := make([]string, 0, len(lexical)+len(semantic))

	add := func(hits []domain.ScoredChunk, assign func(c *domain.RetrievalCandidate, s domain.SubScore)) {
		normalized := normalizeScores(hits)
		for rank, hit := range hits {
			key := hit.Chunk.Fingerprint
			candidate, ok := acc[key]
			if !ok {
				candidate = &domain.RetrievalCandidate{Chunk: hit.Chunk}
				acc[key] = candidate
				order = append(order, key)
			}
			assign(candidate, domain.SubScore{Rank: rank, Score: normalized[rank]})
		}
	}

	add(lexical, func(c *domain.RetrievalCandidate, s domain.SubScore) { c.Lexical = &s })
	add(semantic, func(c *domain.RetrievalCandidate, s domain.SubScore) { c.Semantic = &s })

	out := make([]domain.RetrievalCandidate, 0, len(order))
	for _, key := range order {
		candidate := acc[key]
		if candidate.Lexical != nil {
			candidate.Combined += lexicalWeight * candidate.Lexical.Score
		}
		if candidate.Semantic != nil {
			candidate.Combined += semanticWeight * candidate.Semantic.Score
		}
		out = append(out, *candidate)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Combined != out[j].Combined {
			return out[i].Combined > out[j].Combined
		}
		if li, lj := subRank(out[i].Lexical), subRank(out[j].Lexical); li != lj {
			return li < lj
		}
		if si, sj := subRank(out[i].Semantic), subRank(out[j].Semantic); si != sj {
			return si < sj
		}
		return out[i].Chunk.Fingerprint < out[j].Chunk.Fingerprint
	})
	return out
}

// normalizeScores maps a sub-ranking's scores onto [0,1]. A degenerate
// range maps positive scores to 1 so a single strong hit still counts.
func normalizeScores(hits []domain.ScoredChunk) []float64 {
	out := make([]float64, len(hits))
	if len(hits) == 0 {
		return out
	}

	minScore, maxScore := hits[0].Score, hits[0].Score
	for _, hit := range hits[1:] {
		minScore = math.Min(minScore, hit.Score)
		maxScore = math.Max(maxScore, hit.Score)
	}

	scoreRange := maxScore - minScore
	for i, hit := range hits {
		if scoreRange <= 0 {
			if hit.Score > 0 {
				out[i] = 1
			}
			continue
		}
		out[i] = (hit.Score - minScore) / scoreRange
	}
	return out
}

func subRank(s *domain.SubScore) int {
	if s == nil {
		return math.MaxInt
	}
	return s.Rank
}
