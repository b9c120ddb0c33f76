// Package chunker provides a fixed-size text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultOverlap

// chunkIDPrefix prefixes the sequence index in chunk ids.
const chunkIDPrefix = "chunk_"

// Processor splits document content into overlapping fixed-size windows.
// Sizes are measured in characters (runes), so multi-byte text is never cut
// in the middle of a character.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		p.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		p.overlap = overlap
	}
}

// New creates a new chunker processor with the given options.
// It returns domain.ErrInvalidParameter unless 0 <= overlap < size.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if err := validate(p.chunkSize, p.overlap); err != nil {
		return nil, err
	}

	return p, nil
}

func validate(size, overlap int) error {
	if size <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidParameter, size)
	}
	if overlap < 0 || overlap >= size {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidParameter, size, overlap)
	}
	return nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// ChunkSize returns the configured window length.
func (p *Processor) ChunkSize() int {
	return p.chunkSize
}

// Overlap returns the configured overlap.
func (p *Processor) Overlap() int {
	return p.overlap
}

// Split cuts text into windows [start, start+size) advancing by size-overlap,
// stopping after the window that reaches the end of the text.
func (p *Processor) Split(text string) ([]string, error) {
	if err := validate(p.chunkSize, p.overlap); err != nil {
		return nil, err
	}

	runes := []rune(text)
	total := len(runes)
	if total == 0 {
		return nil, nil
	}

	step := p.chunkSize - p.overlap
	windows := make([]string, 0, total/step+1)

	for start := 0; ; start += step {
		end := start + p.chunkSize
		if end > total {
			end = total
		}
		windows = append(windows, string(runes[start:end]))
		if end == total {
			break
		}
	}

	return windows, nil
}

// Process splits the document content into chunks with ids "chunk_<i>".
// Empty content produces no chunks.
func (p *Processor) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", domain.ErrInvalidParameter)
	}
	windows, err := p.Split(doc.Content)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, 0, len(windows))
	step := p.chunkSize - p.overlap

	for i, content := range windows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		start := i * step
		chunks = append(chunks, domain.Chunk{
			ID:         ChunkID(i),
			DocumentID: doc.ID,
			Content:    content,
			Position:   i,
			Metadata: map[string]any{
				"start": start,
				"end":   start + len([]rune(content)),
			},
		})
	}

	return chunks, nil
}

// ChunkID returns the id of the chunk at the given sequence index.
func ChunkID(position int) string {
	return chunkIDPrefix + strconv.Itoa(position)
}
