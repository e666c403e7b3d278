// Package output renders scan snapshots as Markdown, plain text or JSON documents.
package output

import (
	"fmt"
	"strings"

	"github.com/temirov/projscan/internal/types"
)

const (
	indentSpacer = "  "

	errorNilTreeMessage    = "render: tree is nil"
	errorUnsupportedFormat = "render: unsupported format %q"
)

// Renderer turns a snapshot into a complete document.
type Renderer interface {
	Render(tree *types.DirectoryNode) (string, error)
}

// NewRenderer returns the renderer for format.
func NewRenderer(format types.Format) (Renderer, error) {
	switch format {
	case types.FormatMarkdown:
		return MarkdownRenderer{}, nil
	case types.FormatText:
		return TextRenderer{}, nil
	case types.FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, format)
	}
}

// Render renders tree with the renderer registered for format.
func Render(tree *types.DirectoryNode, format types.Format) (string, error) {
	renderer, rendererError := NewRenderer(format)
	if rendererError != nil {
		return "", rendererError
	}
	return renderer.Render(tree)
}

func indentation(level int) string {
	return strings.Repeat(indentSpacer, level)
}
