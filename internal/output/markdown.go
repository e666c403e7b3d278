package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/projscan/internal/types"
	"github.com/temirov/projscan/internal/utils"
)

const (
	markdownTitleFormat      = "# Project Structure: %s\n\n"
	markdownScanDateFormat   = "Scan Date: %s\n\n"
	markdownSectionHeader    = "## Directory Structure\n\n"
	markdownPreamble         = "This document contains the complete codebase structure and contents for AI analysis.\n\n"
	markdownFileLineFormat   = "%s- 📄 **%s** (%s, %s)\n"
	markdownFenceOpenFormat  = "%s  ```%s\n"
	markdownFenceCloseFormat = "%s  ```\n\n"
	markdownDirectoryFormat  = "%s- 📁 **%s/**\n"
)

// MarkdownRenderer renders a bulleted listing with fenced file contents.
type MarkdownRenderer struct{}

// Render implements Renderer.
func (MarkdownRenderer) Render(tree *types.DirectoryNode) (string, error) {
	if tree == nil {
		return "", errors.New(errorNilTreeMessage)
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, markdownTitleFormat, tree.Name)
	fmt.Fprintf(&builder, markdownScanDateFormat, utils.FormatTimestamp(tree.ScanDate))
	builder.WriteString(markdownSectionHeader)
	builder.WriteString(markdownPreamble)
	writeMarkdownDirectory(&builder, tree, 0)
	return builder.String(), nil
}

func writeMarkdownDirectory(builder *strings.Builder, node *types.DirectoryNode, level int) {
	indent := indentation(level)
	for _, entry := range node.Files {
		fmt.Fprintf(builder, markdownFileLineFormat, indent, entry.Name, entry.Type, utils.FormatFileSize(entry.SizeBytes))
		if entry.Content == "" {
			continue
		}
		fmt.Fprintf(builder, markdownFenceOpenFormat, indent, strings.ToLower(entry.Type))
		builder.WriteString(entry.Content)
		builder.WriteString("\n")
		fmt.Fprintf(builder, markdownFenceCloseFormat, indent)
	}
	for _, child := range node.Directories {
		fmt.Fprintf(builder, markdownDirectoryFormat, indent, child.Name)
		writeMarkdownDirectory(builder, child, level+1)
	}
}
