package commands

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	// BinaryContentPlaceholder replaces content that is not valid UTF-8 text.
	BinaryContentPlaceholder = "[Binary file or encoding not supported]"
	// readErrorPlaceholderFormat replaces content that could not be read.
	readErrorPlaceholderFormat = "[Error reading file: %v]"

	logMessageStatFailed = "unable to stat file"
	logMessageReadFailed = "unable to read file"
	logMessageNotText    = "file is not valid UTF-8 text"
)

// fileInspectionResult is the captured state of one file.
type fileInspectionResult struct {
	Content   string
	SizeBytes int64
}

// readPending fills every pending FileEntry slot. Reads may run concurrently but
// each result lands in the slot reserved during the walk, preserving discovery order.
func (treeBuilder *TreeBuilder) readPending(ctx context.Context, pendingReads []pendingRead) error {
	if treeBuilder.workers <= 1 {
		for _, pending := range pendingReads {
			if contextError := ctx.Err(); contextError != nil {
				return contextError
			}
			treeBuilder.apply(pending, treeBuilder.inspectFile(pending.path))
		}
		return nil
	}

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(treeBuilder.workers)
	for _, pending := range pendingReads {
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			treeBuilder.apply(pending, treeBuilder.inspectFile(pending.path))
			return nil
		})
	}
	return group.Wait()
}

func (treeBuilder *TreeBuilder) apply(pending pendingRead, result fileInspectionResult) {
	entry := &pending.directory.Files[pending.index]
	entry.Content = result.Content
	entry.SizeBytes = result.SizeBytes
}

// inspectFile never fails: read and decode problems become placeholder content.
func (treeBuilder *TreeBuilder) inspectFile(filePath string) fileInspectionResult {
	var result fileInspectionResult

	fileInfo, statError := os.Stat(filePath)
	if statError != nil {
		treeBuilder.logger.Warn(logMessageStatFailed, zap.String("path", filePath), zap.Error(statError))
	} else {
		result.SizeBytes = fileInfo.Size()
	}

	fileBytes, readError := os.ReadFile(filePath)
	if readError != nil {
		treeBuilder.logger.Debug(logMessageReadFailed, zap.String("path", filePath), zap.Error(readError))
		result.Content = ReadErrorPlaceholder(readError)
		return result
	}

	text, decodeError := decodeText(fileBytes)
	if decodeError != nil {
		treeBuilder.logger.Debug(logMessageNotText, zap.String("path", filePath), zap.Error(decodeError))
		result.Content = BinaryContentPlaceholder
		return result
	}
	result.Content = text
	return result
}

// decodeText validates UTF-8 and returns the bytes unchanged as a string.
func decodeText(data []byte) (string, error) {
	validated, _, validationError := transform.Bytes(encoding.UTF8Validator, data)
	if validationError != nil {
		return "", validationError
	}
	return string(validated), nil
}

// ReadErrorPlaceholder formats the placeholder recorded for an unreadable file.
func ReadErrorPlaceholder(readError error) string {
	return fmt.Sprintf(readErrorPlaceholderFormat, readError)
}
