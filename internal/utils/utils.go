// Package utils contains general helper functions used across the scanner.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// NodeModulesDirectoryName is the npm dependency directory.
	NodeModulesDirectoryName = "node_modules"
	// IgnoreFileName lists extra directory exclusion patterns at the scanned root.
	IgnoreFileName = ".projscanignore"
)

// DefaultExcludedDirectories lists directory names that are never traversed.
var DefaultExcludedDirectories = []string{
	NodeModulesDirectoryName,
	GitDirectoryName,
	".next",
	"dist",
	"build",
}

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// MergeExclusionPatterns returns the default exclusions followed by the trimmed,
// non-empty extra patterns, without duplicates.
func MergeExclusionPatterns(extraPatterns []string) []string {
	combined := append([]string{}, DefaultExcludedDirectories...)
	for _, pattern := range extraPatterns {
		trimmedPattern := strings.TrimSuffix(strings.TrimSpace(pattern), "/")
		if trimmedPattern == "" {
			continue
		}
		combined = append(combined, trimmedPattern)
	}
	return DeduplicatePatterns(combined)
}

// ShouldExcludeDirectory reports whether a directory with the given base name
// matches any exclusion pattern. Patterns are compared with filepath.Match
// semantics; malformed patterns fall back to exact comparison.
func ShouldExcludeDirectory(directoryName string, exclusionPatterns []string) bool {
	for _, patternValue := range exclusionPatterns {
		if patternValue == directoryName {
			return true
		}
		isMatched, matchError := filepath.Match(patternValue, directoryName)
		if matchError == nil && isMatched {
			return true
		}
	}
	return false
}
