package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/projscan/internal/types"
	"github.com/temirov/projscan/internal/utils"
)

// AISummary is attached to the JSON root to describe the document to a reader model.
const AISummary = "This is a project structure document created for AI analysis. " +
	"The content is organized hierarchically with full file contents included."

const (
	indentPrefix = ""

	errorDecodeJSONFormat     = "parse json document: %w"
	errorDecodeScanDateFormat = "parse scan_date %q: %w"
)

type jsonRootDirectory struct {
	Name        string           `json:"name"`
	Path        string           `json:"path"`
	ScanDate    string           `json:"scan_date"`
	Directories []*jsonDirectory `json:"directories"`
	Files       []jsonFile       `json:"files"`
	AISummary   string           `json:"ai_summary"`
}

type jsonDirectory struct {
	Name        string           `json:"name"`
	Directories []*jsonDirectory `json:"directories"`
	Files       []jsonFile       `json:"files"`
}

type jsonFile struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

// JSONRenderer renders the snapshot as an indented JSON document.
type JSONRenderer struct{}

// Render implements Renderer.
func (JSONRenderer) Render(tree *types.DirectoryNode) (string, error) {
	if tree == nil {
		return "", errors.New(errorNilTreeMessage)
	}
	document := jsonRootDirectory{
		Name:        tree.Name,
		Path:        tree.Path,
		ScanDate:    utils.FormatTimestamp(tree.ScanDate),
		Directories: toJSONDirectories(tree.Directories),
		Files:       toJSONFiles(tree.Files),
		AISummary:   AISummary,
	}
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent(indentPrefix, indentSpacer)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return "", encodeError
	}
	return strings.TrimSuffix(buffer.String(), "\n"), nil
}

func toJSONDirectories(nodes []*types.DirectoryNode) []*jsonDirectory {
	directories := make([]*jsonDirectory, 0, len(nodes))
	for _, node := range nodes {
		directories = append(directories, &jsonDirectory{
			Name:        node.Name,
			Directories: toJSONDirectories(node.Directories),
			Files:       toJSONFiles(node.Files),
		})
	}
	return directories
}

func toJSONFiles(entries []types.FileEntry) []jsonFile {
	files := make([]jsonFile, 0, len(entries))
	for _, entry := range entries {
		files = append(files, jsonFile{
			Name:    entry.Name,
			Type:    entry.Type,
			Content: entry.Content,
			Size:    entry.SizeBytes,
		})
	}
	return files
}

// ParseJSON restores a snapshot from a document produced by JSONRenderer.
func ParseJSON(document string) (*types.DirectoryNode, error) {
	var root jsonRootDirectory
	if decodeError := json.Unmarshal([]byte(document), &root); decodeError != nil {
		return nil, fmt.Errorf(errorDecodeJSONFormat, decodeError)
	}
	scanDate, parseError := utils.ParseTimestamp(root.ScanDate)
	if parseError != nil {
		return nil, fmt.Errorf(errorDecodeScanDateFormat, root.ScanDate, parseError)
	}
	return &types.DirectoryNode{
		Name:        root.Name,
		Path:        root.Path,
		ScanDate:    scanDate,
		Directories: fromJSONDirectories(root.Directories),
		Files:       fromJSONFiles(root.Files),
	}, nil
}

func fromJSONDirectories(directories []*jsonDirectory) []*types.DirectoryNode {
	var nodes []*types.DirectoryNode
	for _, directory := range directories {
		if directory == nil {
			continue
		}
		nodes = append(nodes, &types.DirectoryNode{
			Name:        directory.Name,
			Directories: fromJSONDirectories(directory.Directories),
			Files:       fromJSONFiles(directory.Files),
		})
	}
	return nodes
}

func fromJSONFiles(files []jsonFile) []types.FileEntry {
	var entries []types.FileEntry
	for _, file := range files {
		entries = append(entries, types.FileEntry{
			Name:      file.Name,
			Type:      file.Type,
			Content:   file.Content,
			SizeBytes: file.Size,
		})
	}
	return entries
}
