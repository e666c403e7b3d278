package commands

import (
	"path"

	"github.com/temirov/projscan/internal/types"
)

// directoryIndex resolves slash separated root-relative paths to nodes,
// creating missing intermediate directories in discovery order.
type directoryIndex struct {
	root  *types.DirectoryNode
	nodes map[string]*types.DirectoryNode
}

func newDirectoryIndex(root *types.DirectoryNode) *directoryIndex {
	return &directoryIndex{
		root:  root,
		nodes: map[string]*types.DirectoryNode{},
	}
}

func (index *directoryIndex) ensure(relativePath string) *types.DirectoryNode {
	if relativePath == "" || relativePath == "." {
		return index.root
	}
	if node, exists := index.nodes[relativePath]; exists {
		return node
	}
	parentNode := index.ensure(path.Dir(relativePath))
	node := &types.DirectoryNode{Name: path.Base(relativePath)}
	parentNode.Directories = append(parentNode.Directories, node)
	index.nodes[relativePath] = node
	return node
}
