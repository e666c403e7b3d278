// Package commands contains the core logic for collecting a project snapshot.
package commands

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/projscan/internal/classify"
	"github.com/temirov/projscan/internal/types"
	"github.com/temirov/projscan/internal/utils"
)

// DefaultWorkers bounds concurrent file reads when no worker count is configured.
const DefaultWorkers = 8

const (
	logMessageSkipDirectory     = "skipping unreadable directory"
	logMessageExcludeDirectory  = "excluding directory"
	logMessageSkipSpecialFile   = "skipping special file"
	logMessageSkipDirectoryLink = "skipping symlinked directory"
)

// non-regular entries that would block or make no sense to read
const specialFileModes = fs.ModeNamedPipe | fs.ModeSocket | fs.ModeDevice | fs.ModeCharDevice | fs.ModeIrregular

// TreeBuilderOptions configures a TreeBuilder.
type TreeBuilderOptions struct {
	// ExclusionPatterns are added to utils.DefaultExcludedDirectories.
	ExclusionPatterns []string
	// ExcludedPaths are slash-separated paths relative to the root. Unlike
	// ExclusionPatterns they match one location only.
	ExcludedPaths []string
	// Workers bounds concurrent file reads; values below one read sequentially.
	Workers int
	Logger  *zap.Logger
	Clock   func() time.Time
}

// TreeBuilder walks a root directory and produces a DirectoryNode snapshot.
type TreeBuilder struct {
	exclusionPatterns []string
	excludedPaths     []string
	workers           int
	logger            *zap.Logger
	clock             func() time.Time
}

// pendingRead points at a FileEntry slot whose content is fetched after the walk.
type pendingRead struct {
	directory *types.DirectoryNode
	index     int
	path      string
}

// NewTreeBuilder constructs a TreeBuilder, applying defaults for unset options.
func NewTreeBuilder(options TreeBuilderOptions) *TreeBuilder {
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}
	workers := options.Workers
	if workers == 0 {
		workers = DefaultWorkers
	}
	return &TreeBuilder{
		exclusionPatterns: utils.MergeExclusionPatterns(options.ExclusionPatterns),
		excludedPaths:     utils.DeduplicatePatterns(options.ExcludedPaths),
		workers:           workers,
		logger:            logger,
		clock:             clock,
	}
}

// ExclusionPatterns returns the effective directory exclusion patterns.
func (treeBuilder *TreeBuilder) ExclusionPatterns() []string {
	return append([]string{}, treeBuilder.exclusionPatterns...)
}

// Build scans rootDirectoryPath and returns the snapshot. It fails only when the
// root itself cannot be listed; unreadable files and subdirectories degrade gracefully.
func (treeBuilder *TreeBuilder) Build(rootDirectoryPath string) (*types.DirectoryNode, error) {
	return treeBuilder.BuildContext(context.Background(), rootDirectoryPath)
}

// BuildContext is Build with cancellation checked between walk steps and file reads.
func (treeBuilder *TreeBuilder) BuildContext(ctx context.Context, rootDirectoryPath string) (*types.DirectoryNode, error) {
	absoluteRootPath, walkRootPath, accessError := resolveRoot(rootDirectoryPath)
	if accessError != nil {
		return nil, accessError
	}

	rootNode := &types.DirectoryNode{
		Name:     filepath.Base(absoluteRootPath),
		Path:     absoluteRootPath,
		ScanDate: treeBuilder.clock(),
	}
	index := newDirectoryIndex(rootNode)
	var pendingReads []pendingRead

	walkError := filepath.WalkDir(walkRootPath, func(walkedPath string, directoryEntry fs.DirEntry, walkEntryError error) error {
		if contextError := ctx.Err(); contextError != nil {
			return contextError
		}
		if walkEntryError != nil {
			if walkedPath == walkRootPath {
				return &AccessError{Path: absoluteRootPath, Err: walkEntryError}
			}
			treeBuilder.logger.Warn(logMessageSkipDirectory, zap.String("path", walkedPath), zap.Error(walkEntryError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, walkRootPath)
		if directoryEntry.IsDir() {
			if relativePath == "." {
				return nil
			}
			if utils.ShouldExcludeDirectory(directoryEntry.Name(), treeBuilder.exclusionPatterns) || utils.ContainsString(treeBuilder.excludedPaths, relativePath) {
				treeBuilder.logger.Debug(logMessageExcludeDirectory, zap.String("path", walkedPath))
				return filepath.SkipDir
			}
			index.ensure(relativePath)
			return nil
		}

		fileName := directoryEntry.Name()
		if !classify.IsRecognized(fileName) {
			return nil
		}
		if directoryEntry.Type()&specialFileModes != 0 {
			treeBuilder.logger.Debug(logMessageSkipSpecialFile, zap.String("path", walkedPath))
			return nil
		}
		// WalkDir does not follow links; a link to a directory is neither walked nor read.
		if directoryEntry.Type()&fs.ModeSymlink != 0 {
			if targetInfo, statError := os.Stat(walkedPath); statError == nil && targetInfo.IsDir() {
				treeBuilder.logger.Debug(logMessageSkipDirectoryLink, zap.String("path", walkedPath))
				return nil
			}
		}
		parentNode := index.ensure(path.Dir(relativePath))
		parentNode.Files = append(parentNode.Files, types.FileEntry{
			Name: fileName,
			Type: classify.Classify(fileName),
		})
		pendingReads = append(pendingReads, pendingRead{
			directory: parentNode,
			index:     len(parentNode.Files) - 1,
			path:      walkedPath,
		})
		return nil
	})
	if walkError != nil {
		var rootAccessError *AccessError
		if errors.As(walkError, &rootAccessError) {
			return nil, rootAccessError
		}
		return nil, walkError
	}

	if readError := treeBuilder.readPending(ctx, pendingReads); readError != nil {
		return nil, readError
	}
	return rootNode, nil
}

// resolveRoot converts the root to an absolute path and confirms it can be listed.
// The second result is the path to walk, with symlinks resolved so that a linked
// root is descended into.
func resolveRoot(rootDirectoryPath string) (string, string, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return "", "", &AccessError{Path: rootDirectoryPath, Err: absolutePathError}
	}
	absoluteRootPath = filepath.Clean(absoluteRootPath)
	rootInfo, statError := os.Stat(absoluteRootPath)
	if statError != nil {
		return "", "", &AccessError{Path: absoluteRootPath, Err: statError}
	}
	if !rootInfo.IsDir() {
		return "", "", &AccessError{Path: absoluteRootPath, Err: ErrNotDirectory}
	}
	walkRootPath, evalError := filepath.EvalSymlinks(absoluteRootPath)
	if evalError != nil {
		return "", "", &AccessError{Path: absoluteRootPath, Err: evalError}
	}
	if _, readDirectoryError := os.ReadDir(walkRootPath); readDirectoryError != nil {
		return "", "", &AccessError{Path: absoluteRootPath, Err: readDirectoryError}
	}
	return absoluteRootPath, walkRootPath, nil
}
