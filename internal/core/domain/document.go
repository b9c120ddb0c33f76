package domain

import "time"

// Document is the single document currently held by the index.
// Content is transient: it is populated during ingestion and is not persisted.
type Document struct {
	// ID identifies one ingestion run.
	ID string `json:"id"`

	// Name is the display name, usually the uploaded file name.
	Name string `json:"name"`

	// Content is the full extracted text before chunking.
	Content string `json:"-"`

	// CharCount is the number of characters (runes) in Content.
	CharCount int `json:"char_count"`

	// ChunkCount is the number of chunks produced from Content.
	ChunkCount int `json:"chunk_count"`

	// IngestedAt is when the document was indexed.
	IngestedAt time.Time `json:"ingested_at"`
}

// Chunk is a contiguous substring of a document used as the retrieval unit.
type Chunk struct {
	// ID is derived from Position ("chunk_<i>") and unique within an ingestion.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the chunk text. Never empty.
	Content string

	// Position is the sequence index within the document, starting at 0.
	Position int

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any
}

// IndexEntry is what the vector index stores for each chunk.
type IndexEntry struct {
	ID        string
	Content   string
	Embedding []float32
}

// IngestStats summarises an ingestion for display.
type IngestStats struct {
	// DocumentID is the ingestion id.
	DocumentID string `json:"document_id"`

	// FileName is set when ingesting from a file.
	FileName string `json:"file_name,omitempty"`

	// CharCount is the number of characters in the ingested text.
	CharCount int `json:"char_count"`

	// ChunkCount is the number of chunks stored in the index.
	ChunkCount int `json:"chunk_count"`
}

// PipelineStatus reports the pipeline's current state for display.
type PipelineStatus struct {
	// Document is the indexed document, or nil when nothing is indexed.
	Document *Document `json:"document,omitempty"`

	// IndexedChunks is the number of entries in the vector index.
	IndexedChunks int `json:"indexed_chunks"`

	// EmbeddingModel and LLMModel name the configured models.
	EmbeddingModel string `json:"embedding_model"`
	LLMModel       string `json:"llm_model"`

	// ChunkSize, Overlap and TopK echo the active retrieval parameters.
	ChunkSize int `json:"chunk_size"`
	Overlap   int `json:"overlap"`
	TopK      int `json:"top_k"`
}
