// Package chunker splits document text into overlapping chunks that end on
// natural break points (paragraph, sentence or line) where possible.
package chunker

import (
	"fmt"
	"strings"

	"github.com/futig/qagen/internal/entity"
)

var breakMarkers = [][]rune{
	[]rune("\n\n"), // paragraph
	[]rune(". "),   // sentence
	[]rune("\n"),   // line
}

// Validate checks a size/overlap pair before any text is walked.
func Validate(chunkSize, overlap int) error {
	if chunkSize < 1 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", entity.ErrInvalidChunkConfig, chunkSize)
	}
	if overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", entity.ErrInvalidChunkConfig, overlap)
	}
	if overlap >= chunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", entity.ErrInvalidChunkConfig, overlap, chunkSize)
	}
	return nil
}

// CreateChunks walks text in windows of chunkSize characters. Every window
// that does not reach the end of the text is cut right after the latest
// break marker found inside it. The next window starts overlap characters
// before the previous end.
func CreateChunks(text string, chunkSize, overlap int) ([]string, error) {
	if err := Validate(chunkSize, overlap); err != nil {
		return nil, err
	}

	runes := []rune(text)
	windows := walk(runes, chunkSize, overlap)

	chunks := make([]string, 0, len(windows))
	for _, w := range windows {
		chunk := strings.TrimSpace(string(runes[w.start:w.end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks, nil
}

// span is a window of the text in rune offsets, end exclusive.
type span struct {
	start, end int
}

func walk(runes []rune, chunkSize, overlap int) []span {
	n := len(runes)
	windows := make([]span, 0, n/(chunkSize-overlap)+1)

	start := 0
	for start < n {
		end := start + chunkSize

		if end < n {
			if bp := breakPoint(runes[start:end]); bp != -1 {
				end = start + bp + 1
			}
		}

		windows = append(windows, span{start: start, end: min(end, n)})

		next := end - overlap
		if next <= start {
			// A break point close to the window start would stall the walk.
			next = end
		}
		start = next
	}

	return windows
}

// breakPoint returns the largest offset among the rightmost occurrences of
// each marker, or -1 when the window has none of them.
func breakPoint(window []rune) int {
	best := -1
	for _, marker := range breakMarkers {
		best = max(best, lastIndex(window, marker))
	}
	return best
}

func lastIndex(s, sep []rune) int {
	for i := len(s) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if s[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
