package chunking

import (
	"strings"

	"github.com/docuquery/docuquery/internal/core/domain"
)

// separators, coarse to fine. Splitting prefers the first separator
// that occurs in the text; pieces still over budget recurse into the
// finer ones, with a raw rune cut as the last resort.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter produces bounded overlapping chunks from document units.
// Chunks never span units, so per-page metadata stays exact.
type Splitter struct{}

func NewSplitter() *Splitter {
	return &Splitter{}
}

func (s *Splitter) Split(units []domain.DocumentUnit, params domain.ChunkingParams) ([]domain.Chunk, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	chunks := make([]domain.Chunk, 0, len(units))
	index := 0
	for _, unit := range units {
		pieces := splitBySeparators(unit.Text, params.Size, separators)
		for _, text := range mergePieces(pieces, params.Size, params.Overlap) {
			chunks = append(chunks, domain.NewChunk(text, unit.Page, index))
			index++
		}
	}
	return chunks, nil
}

// splitBySeparators cuts text into pieces no longer than size runes,
// using the coarsest separator present and recursing into finer ones
// for oversized pieces.
func splitBySeparators(text string, size int, seps []string) []string {
	if text == "" {
		return nil
	}
	if runeLen(text) <= size {
		return []string{text}
	}

	sep, rest := firstSeparator(text, seps)
	if sep == "" {
		return hardCut(text, size)
	}

	pieces := strings.SplitAfter(text, sep)
	out := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if piece == "" {
			continue
		}
		if runeLen(piece) > size {
			out = append(out, splitBySeparators(piece, size, rest)...)
			continue
		}
		out = append(out, piece)
	}
	return out
}

// mergePieces packs consecutive pieces into chunks of at most size
// runes. When a chunk is emitted, the tail of the window up to overlap
// runes is retained and becomes the head of the next chunk. overlap <
// size is validated upstream, so the window always makes forward
// progress.
func mergePieces(pieces []string, size, overlap int) []string {
	chunks := make([]string, 0, len(pieces))
	window := make([]string, 0, 8)
	total := 0

	for _, piece := range pieces {
		pieceLen := runeLen(piece)
		if total > 0 && total+pieceLen > size {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > overlap || (total > 0 && total+pieceLen > size) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += pieceLen
	}

	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func firstSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

func hardCut(text string, size int) []string {
	runes := []rune(text)
	out := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
