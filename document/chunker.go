package document

import (
	"fmt"
	"strings"
)

// Chunker packs sentences greedily into bounded chunks.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker producing chunks of at most size characters.
// Up to overlap characters of whole trailing sentences are repeated at the
// start of the following chunk.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunking, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, %d), got %d", ErrInvalidChunking, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the maximum chunk size in characters.
func (c *Chunker) Size() int {
	return c.size
}

// Overlap returns the overlap width in characters.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split breaks text into chunks. Sentences are never split; a single
// sentence longer than the chunk size becomes a chunk of its own.
func (c *Chunker) Split(text string) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(sentences); {
		n, length := 0, 0
		for j := i; j < len(sentences); j++ {
			add := len(sentences[j])
			if n > 0 {
				add++
			}
			if n > 0 && length+add > c.size {
				break
			}
			length += add
			n++
		}
		chunks = append(chunks, strings.Join(sentences[i:i+n], " "))

		if i+n >= len(sentences) {
			break
		}
		i += n - c.carry(sentences[i:i+n])
	}
	return chunks
}

// carry returns how many trailing sentences of a closed chunk fit in the
// overlap window. The first sentence is never carried so every chunk
// advances by at least one sentence.
func (c *Chunker) carry(closed []string) int {
	carried, width := 0, 0
	for k := len(closed) - 1; k > 0; k-- {
		add := len(closed[k])
		if carried > 0 {
			add++
		}
		if width+add > c.overlap {
			break
		}
		width += add
		carried++
	}
	return carried
}
