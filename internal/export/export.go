// Package export writes rendered parts into the project's structure directory.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	"github.com/temirov/projscan/internal/types"
)

const (
	structureDirectorySuffix = "_structure"
	singleFileNameFormat     = "%s.%s"
	partFileNameFormat       = "%s_part%d.%s"

	directoryPermissions = 0o755
	filePermissions      = 0o644

	errorCreateDirectoryFormat = "create output directory %s: %w"
	errorWriteFileFormat       = "write %s: %w"
	errorNoPartsMessage        = "no parts to write"
)

// ExportError reports a failure to persist scan output.
type ExportError struct {
	Path string
	Err  error
}

func (exportError *ExportError) Error() string {
	if exportError.Path == "" {
		return fmt.Sprintf("export failed: %v", exportError.Err)
	}
	return fmt.Sprintf("export to %s failed: %v", exportError.Path, exportError.Err)
}

func (exportError *ExportError) Unwrap() error {
	return exportError.Err
}

// Request describes one export.
type Request struct {
	// ProjectName is the scanned directory's base name used in artifact names.
	ProjectName string
	// OutputDirectory receives the files; see DefaultOutputDirectory.
	OutputDirectory string
	Format          types.Format
	// RequestedParts is the part count asked for; above one, files carry a _partK suffix.
	RequestedParts int
	Parts          []string
}

// StructureDirectoryName returns "<projectName>_structure".
func StructureDirectoryName(projectName string) string {
	return projectName + structureDirectorySuffix
}

// DefaultOutputDirectory returns the structure directory created under the scanned root.
func DefaultOutputDirectory(rootPath string, projectName string) string {
	return filepath.Join(rootPath, StructureDirectoryName(projectName))
}

// FileNames returns artifact names for partCount produced parts.
func FileNames(projectName string, format types.Format, requestedParts int, partCount int) []string {
	names := make([]string, 0, partCount)
	for index := 0; index < partCount; index++ {
		if requestedParts > 1 {
			names = append(names, fmt.Sprintf(partFileNameFormat, projectName, index+1, format.Extension()))
			continue
		}
		names = append(names, fmt.Sprintf(singleFileNameFormat, projectName, format.Extension()))
	}
	return names
}

// Write creates the output directory and writes every part, returning the
// written paths in part order. Failures for individual parts are combined.
func Write(request Request) ([]string, error) {
	if len(request.Parts) == 0 {
		return nil, &ExportError{Path: request.OutputDirectory, Err: errors.New(errorNoPartsMessage)}
	}
	if makeDirectoryError := os.MkdirAll(request.OutputDirectory, directoryPermissions); makeDirectoryError != nil {
		return nil, &ExportError{
			Path: request.OutputDirectory,
			Err:  fmt.Errorf(errorCreateDirectoryFormat, request.OutputDirectory, makeDirectoryError),
		}
	}

	fileNames := FileNames(request.ProjectName, request.Format, request.RequestedParts, len(request.Parts))
	writtenPaths := make([]string, 0, len(request.Parts))
	var combinedError error
	for index, part := range request.Parts {
		targetPath := filepath.Join(request.OutputDirectory, fileNames[index])
		if writeError := writeFile(targetPath, part); writeError != nil {
			combinedError = multierr.Append(combinedError, fmt.Errorf(errorWriteFileFormat, targetPath, writeError))
			continue
		}
		writtenPaths = append(writtenPaths, targetPath)
	}
	if combinedError != nil {
		return writtenPaths, &ExportError{Path: request.OutputDirectory, Err: combinedError}
	}
	return writtenPaths, nil
}

func writeFile(targetPath string, content string) (err error) {
	fileHandle, openError := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermissions)
	if openError != nil {
		return openError
	}
	defer multierr.AppendInvoke(&err, multierr.Close(fileHandle))
	_, err = fileHandle.WriteString(content)
	return err
}
