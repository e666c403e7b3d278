// Package config loads scan defaults from configuration files and ignore files.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/projscan/internal/utils"
)

const (
	commentPrefix = "#"

	errorLoadIgnoreFileFormat = "loading %s from %s: %w"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its directory patterns.
// Blank lines and lines starting with # are skipped. A missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) (patterns []string, err error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil && err == nil {
			err = closeError
		}
	}()

	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(trimmedLine, "/"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return utils.DeduplicatePatterns(patterns), nil
}

// LoadCombinedExclusionPatterns returns the patterns listed in the root's
// ignore file (when useIgnoreFile is set) followed by exclusionPatterns,
// trimmed and without duplicates. Default exclusions are not included.
func LoadCombinedExclusionPatterns(absoluteRootPath string, exclusionPatterns []string, useIgnoreFile bool) ([]string, error) {
	var combinedPatterns []string

	if useIgnoreFile {
		ignoreFilePath := filepath.Join(absoluteRootPath, utils.IgnoreFileName)
		ignoreFilePatterns, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf(errorLoadIgnoreFileFormat, utils.IgnoreFileName, absoluteRootPath, loadError)
		}
		combinedPatterns = append(combinedPatterns, ignoreFilePatterns...)
	}

	for _, pattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSuffix(strings.TrimSpace(pattern), "/")
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(combinedPatterns, trimmedPattern) {
			combinedPatterns = append(combinedPatterns, trimmedPattern)
		}
	}

	return combinedPatterns, nil
}
