package lexical

import (
	"reflect"
	"testing"

	"github.com/docuquery/docuquery/internal/core/domain"
)

func corpus() []domain.Chunk {
	return []domain.Chunk{
		domain.NewChunk("the cat sat on the mat", 1, 0),
		domain.NewChunk("a dog chased the cat across the yard", 1, 1),
		domain.NewChunk("quantum mechanics lecture notes", 2, 2),
		domain.NewChunk("the mat was red and the cat was black", 2, 3),
	}
}

func TestQueryOmitsZeroScoreChunks(t *testing.T) {
	idx := Build(corpus())

	hits := idx.Query("cat mat", 10)
	for _, hit := range hits {
		if hit.Score <= 0 {
			t.Errorf("chunk %d has non-positive score %f", hit.Chunk.Metadata.Index, hit.Score)
		}
		if hit.Chunk.Metadata.Index == 2 {
			t.Error("unrelated chunk ranked despite zero term overlap")
		}
	}
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
}

func TestQueryRanksDenserMatchesHigher(t *testing.T) {
	idx := Build(corpus())

	hits := idx.Query("cat mat", 10)
	if len(hits) == 0 {
		t.Fatal("no hits")
	}
	// Both "cat mat" chunks beat the cat-only chunk.
	if hits[len(hits)-1].Chunk.Metadata.Index != 1 {
		t.Errorf("cat-only chunk ranked %d of %d, want last", indexOf(hits, 1)+1, len(hits))
	}
}

func TestQueryHonorsK(t *testing.T) {
	idx := Build(corpus())

	if hits := idx.Query("the cat", 2); len(hits) != 2 {
		t.Errorf("k=2 returned %d hits", len(hits))
	}
	if hits := idx.Query("the cat", 0); hits != nil {
		t.Errorf("k=0 returned %d hits, want none", len(hits))
	}
}

func TestQueryIsDeterministic(t *testing.T) {
	idx := Build(corpus())

	first := idx.Query("the cat on the mat", 4)
	for i := 0; i < 10; i++ {
		if again := idx.Query("the cat on the mat", 4); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestQueryEmptyInputs(t *testing.T) {
	idx := Build(corpus())
	if hits := idx.Query("", 4); hits != nil {
		t.Errorf("empty query returned %d hits", len(hits))
	}
	if hits := idx.Query("!!! ...", 4); hits != nil {
		t.Errorf("punctuation-only query returned %d hits", len(hits))
	}

	empty := Build(nil)
	if hits := empty.Query("cat", 4); hits != nil {
		t.Errorf("empty index returned %d hits", len(hits))
	}
}

func TestTokenizeNormalizes(t *testing.T) {
	got := tokenize("The CAT, sat-on 2 mats!")
	want := []string{"the", "cat", "sat", "on", "2", "mats"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokenize = %v, want %v", got, want)
	}
}

func indexOf(hits []domain.ScoredChunk, chunkIndex int) int {
	for i, hit := range hits {
		if hit.Chunk.Metadata.Index == chunkIndex {
			return i
		}
	}
	return -1
}
