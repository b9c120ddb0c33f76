// Package markdown extracts readable text from Markdown files.
package markdown

import (
	"context"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docqa/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor handles Markdown documents.
type Extractor struct {
	md goldmark.Markdown
}

// New creates a new Markdown extractor with GitHub-flavoured tables.
func New() *Extractor {
	return &Extractor{
		md: goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough)),
	}
}

// Name returns "markdown".
func (e *Extractor) Name() string {
	return "markdown"
}

// SupportedExtensions returns the extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Extract strips Markdown syntax and returns one paragraph per block,
// separated by blank lines. Code blocks are kept verbatim; raw HTML is dropped.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	doc := e.md.Parser().Parse(text.NewReader(data))

	var (
		blocks []string
		buf    strings.Builder
	)
	flush := func() {
		if t := strings.TrimSpace(buf.String()); t != "" {
			blocks = append(blocks, t)
		}
		buf.Reset()
	}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				buf.Write(node.Segment.Value(data))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte('\n')
				}
			}
		case *ast.String:
			if entering {
				buf.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				buf.Write(node.Label(data))
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(data))
				}
				return ast.WalkSkipChildren, nil
			}
			flush()
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.Heading, *ast.TextBlock:
			if !entering {
				flush()
			}
		case *extast.TableCell:
			if !entering {
				buf.WriteString(" | ")
			}
		case *extast.TableHeader, *extast.TableRow:
			if !entering {
				line := strings.TrimSuffix(strings.TrimSpace(buf.String()), " |")
				buf.Reset()
				buf.WriteString(strings.TrimSuffix(line, "|"))
				flush()
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	flush()

	return strings.Join(blocks, "\n\n"), nil
}
