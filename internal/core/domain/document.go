package domain

import (
	"fmt"
	"hash/fnv"
)

// DocumentUnit is one loader-produced span of text with its page metadata.
// Loaders emit one unit per page (PDF), per sheet (XLSX) or per file (plain text).
type DocumentUnit struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

type ChunkMetadata struct {
	Page  int `json:"page"`
	Index int `json:"chunk"`
}

// Chunk is the unit of retrieval. Fingerprint identifies a chunk across
// the lexical and semantic sub-rankings so hybrid fusion can deduplicate.
type Chunk struct {
	Text        string        `json:"text"`
	Metadata    ChunkMetadata `json:"metadata"`
	Fingerprint string        `json:"fingerprint"`
}

func NewChunk(text string, page, index int) Chunk {
	return Chunk{
		Text:        text,
		Metadata:    ChunkMetadata{Page: page, Index: index},
		Fingerprint: chunkFingerprint(text, page, index),
	}
}

func chunkFingerprint(text string, page, index int) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d|%d|", page, index)
	_, _ = h.Write([]byte(text))
	return fmt.Sprintf("%016x", h.Sum64())
}

type ChunkingMode string

const (
	ChunkingAutomatic ChunkingMode = "automatic"
	ChunkingManual    ChunkingMode = "manual"
)

type ChunkingParams struct {
	Size    int `json:"chunk_size"`
	Overlap int `json:"chunk_overlap"`
}

// Validate rejects parameter pairs that would make splitting diverge:
// overlap >= size means the window never advances.
func (p ChunkingParams) Validate() error {
	if p.Size <= 0 {
		return WrapError(ErrConfiguration, "validate chunking params",
			fmt.Errorf("chunk_size must be positive, got %d", p.Size))
	}
	if p.Overlap < 0 || p.Overlap >= p.Size {
		return WrapError(ErrConfiguration, "validate chunking params",
			fmt.Errorf("chunk_overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d", p.Overlap, p.Size))
	}
	return nil
}

// AutoChunkingParams derives chunking parameters from total document
// character length. Smaller documents get smaller chunks for precision,
// larger ones get bigger chunks to keep the chunk count bounded.
func AutoChunkingParams(totalLength int) ChunkingParams {
	switch {
	case totalLength < 5000:
		return ChunkingParams{Size: 500, Overlap: 100}
	case totalLength < 50000:
		return ChunkingParams{Size: 1000, Overlap: 200}
	default:
		return ChunkingParams{Size: 1500, Overlap: 300}
	}
}

// ChunkingOptions is the caller-facing chunking configuration surface.
type ChunkingOptions struct {
	Mode    ChunkingMode
	Size    int
	Overlap int
}

// Resolve turns the options into concrete parameters. Automatic mode is
// a pure function of the total character length of all units.
func (o ChunkingOptions) Resolve(units []DocumentUnit) (ChunkingParams, error) {
	switch o.Mode {
	case ChunkingManual:
		params := ChunkingParams{Size: o.Size, Overlap: o.Overlap}
		if err := params.Validate(); err != nil {
			return ChunkingParams{}, err
		}
		return params, nil
	case ChunkingAutomatic, "":
		total := 0
		for _, unit := range units {
			total += len([]rune(unit.Text))
		}
		return AutoChunkingParams(total), nil
	default:
		return ChunkingParams{}, WrapError(ErrConfiguration, "resolve chunking options",
			fmt.Errorf("unknown chunking mode %q", o.Mode))
	}
}
