package pdf

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minimalPDF builds a one-page PDF whose content stream draws text,
// or draws nothing when text is empty.
func minimalPDF(text string) []byte {
	stream := ""
	if text != "" {
		stream = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return []byte(b.String())
}

func TestExtractor_Metadata(t *testing.T) {
	e := New()

	assert.Equal(t, "pdf", e.Name())
	assert.Equal(t, []string{".pdf"}, e.SupportedExtensions())
}

func TestExtract_TextLayer(t *testing.T) {
	got, err := New().Extract(context.Background(), minimalPDF("Hello PDF"))

	require.NoError(t, err)
	assert.Contains(t, got, "Hello PDF")
}

func TestExtract_NoTextLayer(t *testing.T) {
	got, err := New().Extract(context.Background(), minimalPDF(""))

	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(got))
}

func TestExtract_Garbage(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("definitely not a pdf"))

	assert.Error(t, err)
}
