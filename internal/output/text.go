package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/projscan/internal/types"
	"github.com/temirov/projscan/internal/utils"
)

const (
	textTitleFormat     = "Project Structure: %s\n"
	textScanDateFormat  = "Scan Date: %s\n\n"
	textSectionHeader   = "Directory Structure:\n\n"
	textFileLineFormat  = "%s[FILE] %s (%s, %s)\n"
	textContentLabel    = "%sContent:\n"
	textSeparatorFormat = "%s---\n"
	textDirectoryFormat = "%s[DIR] %s/\n"
)

// TextRenderer renders the snapshot without Markdown syntax.
type TextRenderer struct{}

// Render implements Renderer.
func (TextRenderer) Render(tree *types.DirectoryNode) (string, error) {
	if tree == nil {
		return "", errors.New(errorNilTreeMessage)
	}
	var builder strings.Builder
	fmt.Fprintf(&builder, textTitleFormat, tree.Name)
	fmt.Fprintf(&builder, textScanDateFormat, utils.FormatTimestamp(tree.ScanDate))
	builder.WriteString(textSectionHeader)
	writeTextDirectory(&builder, tree, 0)
	return builder.String(), nil
}

func writeTextDirectory(builder *strings.Builder, node *types.DirectoryNode, level int) {
	indent := indentation(level)
	for _, entry := range node.Files {
		fmt.Fprintf(builder, textFileLineFormat, indent, entry.Name, entry.Type, utils.FormatFileSize(entry.SizeBytes))
		if entry.Content == "" {
			continue
		}
		fmt.Fprintf(builder, textContentLabel, indent)
		fmt.Fprintf(builder, textSeparatorFormat, indent)
		builder.WriteString(entry.Content)
		builder.WriteString("\n")
		fmt.Fprintf(builder, textSeparatorFormat, indent)
		builder.WriteString("\n")
	}
	for _, child := range node.Directories {
		fmt.Fprintf(builder, textDirectoryFormat, indent, child.Name)
		writeTextDirectory(builder, child, level+1)
	}
}
