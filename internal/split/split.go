// Package split partitions rendered documents into line-aligned parts.
package split

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	lineSeparator    = "\n"
	partHeaderFormat = "Part %d of %d"
	headerSeparator  = "\n\n"
)

// Split partitions document into at most numParts chunks of ceil(lines/numParts)
// lines each. Every chunk starts with a "Part k of numParts" header followed by a
// blank line. A numParts of one or less returns the document unchanged.
func Split(document string, numParts int) []string {
	if numParts <= 1 {
		return []string{document}
	}

	lines := splitLines(document)
	totalLines := len(lines)
	if totalLines == 0 {
		return []string{header(1, numParts)}
	}
	linesPerPart := (totalLines + numParts - 1) / numParts

	parts := make([]string, 0, (totalLines+linesPerPart-1)/linesPerPart)
	for startIndex := 0; startIndex < totalLines; startIndex += linesPerPart {
		endIndex := startIndex + linesPerPart
		if endIndex > totalLines {
			endIndex = totalLines
		}
		partNumber := startIndex/linesPerPart + 1
		parts = append(parts, header(partNumber, numParts)+strings.Join(lines[startIndex:endIndex], lineSeparator))
	}
	return parts
}

// StripHeader removes the header injected by Split, returning the chunk body.
func StripHeader(chunk string) string {
	separatorIndex := strings.Index(chunk, headerSeparator)
	if separatorIndex < 0 {
		return chunk
	}
	var partNumber, totalParts int
	if _, scanError := fmt.Sscanf(chunk[:separatorIndex], partHeaderFormat, &partNumber, &totalParts); scanError != nil {
		return chunk
	}
	return chunk[separatorIndex+len(headerSeparator):]
}

func header(partNumber int, totalParts int) string {
	return fmt.Sprintf(partHeaderFormat, partNumber, totalParts) + headerSeparator
}

// splitLines breaks on every Unicode line boundary: "\n", "\r", "\r\n" as a
// single break, vertical tab, form feed, the file, group and record separators,
// NEL, and the line and paragraph separators. A terminator at the very end does
// not produce a trailing empty line.
func splitLines(document string) []string {
	var lines []string
	lineStart := 0
	for position := 0; position < len(document); {
		character, width := utf8.DecodeRuneInString(document[position:])
		if !isLineBoundary(character) {
			position += width
			continue
		}
		lines = append(lines, document[lineStart:position])
		position += width
		if character == '\r' && position < len(document) && document[position] == '\n' {
			position++
		}
		lineStart = position
	}
	if lineStart < len(document) {
		lines = append(lines, document[lineStart:])
	}
	return lines
}

func isLineBoundary(character rune) bool {
	switch character {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
