package rag

import (
	"os"
	"strings"
)

// Chunker splits documents into word-aligned chunks. Size and overlap are
// measured in characters of the joined chunk text.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a new chunker with specified size and overlap
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 2
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ChunkText splits text into chunks of at most chunkSize characters. Each
// chunk after the first starts with the trailing words of the previous one,
// up to chunkOverlap characters. A single word longer than chunkSize becomes
// its own chunk.
func (c *Chunker) ChunkText(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	size := 0

	for _, word := range words {
		if len(current) > 0 && size+1+len(word) > c.chunkSize {
			chunks = append(chunks, strings.Join(current, " "))

			current = c.overlapTail(current)
			size = joinedLen(current)
			if len(current) > 0 && size+1+len(word) > c.chunkSize {
				current, size = nil, 0
			}
		}

		if len(current) > 0 {
			size++
		}
		current = append(current, word)
		size += len(word)
	}

	return append(chunks, strings.Join(current, " "))
}

// overlapTail returns a copy of the longest run of trailing words whose
// joined length fits in chunkOverlap.
func (c *Chunker) overlapTail(words []string) []string {
	if c.chunkOverlap <= 0 {
		return nil
	}

	start := len(words)
	size := 0
	for i := len(words) - 1; i >= 0; i-- {
		next := size + len(words[i])
		if start < len(words) {
			next++
		}
		if next > c.chunkOverlap {
			break
		}
		size = next
		start = i
	}
	if start == len(words) {
		return nil
	}
	return append([]string(nil), words[start:]...)
}

// joinedLen is the length of the words joined by single spaces.
func joinedLen(words []string) int {
	if len(words) == 0 {
		return 0
	}
	size := len(words) - 1
	for _, word := range words {
		size += len(word)
	}
	return size
}

// LoadFile loads a file and returns its content
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
