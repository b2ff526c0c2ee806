package chunking

import (
	"strings"
	"unicode"
)

// Splitter cuts text into rune windows with overlap so a fact straddling
// a chunk boundary still lands whole in one chunk. Windows end on a word
// boundary when one exists nearby; only unbroken runs longer than half a
// window (URLs, table rows) are cut mid-token.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	out := make([]string, 0, len(runes)/s.ChunkSize+1)
	start := 0
	for start < len(runes) {
		end := start + s.ChunkSize
		if end >= len(runes) {
			end = len(runes)
		} else {
			end = wordBoundary(runes, start, end)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			out = append(out, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - s.Overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return out
}

// wordBoundary walks the window end back to the nearest whitespace,
// searching at most half the window.
func wordBoundary(runes []rune, start, end int) int {
	limit := start + (end-start)/2
	for i := end; i > limit; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}
