package driven

import "context"

// TextExtractor pulls plain text out of a file's bytes.
// Extraction is best-effort: image-only documents may yield empty text.
type TextExtractor interface {
	// Name identifies the extractor for logging.
	Name() string

	// SupportedExtensions returns lower-case file extensions including the dot.
	SupportedExtensions() []string

	// Extract returns the document's text.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry selects a TextExtractor for a file name.
type ExtractorRegistry interface {
	// Register adds an extractor for its supported extensions.
	Register(extractor TextExtractor)

	// ForFile returns the extractor for the file's extension, or
	// domain.ErrUnsupportedType.
	ForFile(name string) (TextExtractor, error)

	// Extensions returns all registered extensions, sorted.
	Extensions() []string
}
