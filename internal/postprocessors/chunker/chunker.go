// Package chunker provides a boundary-preserving text chunking processor.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultMaxChunkSize is the default maximum chunk length in characters.
const DefaultMaxChunkSize = 1000

// Chunker splits plain text into bounded-size chunks, preferring paragraph
// boundaries and falling back to sentence boundaries for oversized
// paragraphs. Splitting is idempotent for a given input and size.
type Chunker struct {
	maxChunkSize int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkSize sets the maximum chunk length in characters.
func WithMaxChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.maxChunkSize = size
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{maxChunkSize: DefaultMaxChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxChunkSize returns the configured maximum chunk length.
func (c *Chunker) MaxChunkSize() int {
	return c.maxChunkSize
}

var (
	paragraphRe = regexp.MustCompile(`\n\s*\n`)
	sentenceRe  = regexp.MustCompile(`[^.!?]+[.!?]+\s*`)
)

// Split breaks text into ordered, trimmed, non-empty chunks. Paragraphs
// accumulate into a chunk until appending the next one would exceed the
// maximum; a paragraph that alone exceeds the maximum is split on sentence
// boundaries and its sentences accumulate the same way. A single sentence
// longer than the maximum becomes its own chunk. Concatenating the output
// reproduces the input modulo whitespace. Empty input yields no chunks.
func (c *Chunker) Split(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	appendPiece := func(piece, sep string) {
		if current.Len() == 0 {
			current.WriteString(piece)
			return
		}
		if current.Len()+len(sep)+len(piece) > c.maxChunkSize {
			flush()
			current.WriteString(piece)
			return
		}
		current.WriteString(sep)
		current.WriteString(piece)
	}

	for _, paragraph := range paragraphRe.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if len(paragraph) <= c.maxChunkSize {
			appendPiece(paragraph, "\n\n")
			continue
		}

		// Oversized paragraph: flush what we have and fall back to
		// sentence boundaries.
		flush()
		for _, sentence := range splitSentences(paragraph) {
			if len(sentence) > c.maxChunkSize {
				// A single oversized sentence becomes its own chunk.
				flush()
				chunks = append(chunks, sentence)
				continue
			}
			appendPiece(sentence, " ")
		}
		flush()
	}
	flush()

	return chunks
}

// splitSentences splits a paragraph into trimmed sentence runs ending in
// '.', '!' or '?'. Trailing text without a terminator forms a final run.
func splitSentences(paragraph string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceRe.FindAllStringIndex(paragraph, -1) {
		if s := strings.TrimSpace(paragraph[loc[0]:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		last = loc[1]
	}
	if last < len(paragraph) {
		if s := strings.TrimSpace(paragraph[last:]); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
