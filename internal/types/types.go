// Package types defines every cross‑package data structure used by the projscan CLI.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Format identifies one of the supported document renderings.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"

	CommandScan   = "scan"
	CommandConfig = "config"
)

// formatAliases maps accepted user spellings onto canonical formats.
var formatAliases = map[string]Format{
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"txt":      FormatText,
	"text":     FormatText,
	"json":     FormatJSON,
}

// ParseFormat resolves a user supplied format name.
func ParseFormat(value string) (Format, error) {
	format, known := formatAliases[strings.ToLower(strings.TrimSpace(value))]
	if !known {
		return "", fmt.Errorf("unsupported format %q (expected md, txt or json)", value)
	}
	return format, nil
}

// Extension returns the artifact file extension for the format.
func (format Format) Extension() string {
	return string(format)
}

// DirectoryNode is one directory of a scan snapshot. Path and ScanDate are
// only populated on the root node.
type DirectoryNode struct {
	Name        string
	Path        string
	ScanDate    time.Time
	Directories []*DirectoryNode
	Files       []FileEntry
}

// FileEntry is a captured file owned by its DirectoryNode.
type FileEntry struct {
	Name      string
	Type      string
	Content   string
	SizeBytes int64
}

// Directory returns the direct child with the given name, or nil.
func (node *DirectoryNode) Directory(name string) *DirectoryNode {
	if node == nil {
		return nil
	}
	for _, child := range node.Directories {
		if child.Name == name {
			return child
		}
	}
	return nil
}

// File returns the file entry with the given name.
func (node *DirectoryNode) File(name string) (FileEntry, bool) {
	if node == nil {
		return FileEntry{}, false
	}
	for _, entry := range node.Files {
		if entry.Name == name {
			return entry, true
		}
	}
	return FileEntry{}, false
}

// Summary aggregates file count and byte totals over the subtree.
func (node *DirectoryNode) Summary() OutputSummary {
	var summary OutputSummary
	if node == nil {
		return summary
	}
	for _, entry := range node.Files {
		summary.TotalFiles++
		summary.TotalBytes += entry.SizeBytes
	}
	for _, child := range node.Directories {
		childSummary := child.Summary()
		summary.TotalFiles += childSummary.TotalFiles
		summary.TotalBytes += childSummary.TotalBytes
		summary.TotalDirectories += childSummary.TotalDirectories + 1
	}
	return summary
}

// OutputSummary captures aggregate information about a scanned tree.
type OutputSummary struct {
	TotalFiles       int
	TotalDirectories int
	TotalBytes       int64
}
