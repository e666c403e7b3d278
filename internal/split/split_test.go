package split_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/projscan/internal/split"
)

func numberedLines(count int) string {
	lines := make([]string, 0, count)
	for index := 1; index <= count; index++ {
		lines = append(lines, fmt.Sprintf("line %d", index))
	}
	return strings.Join(lines, "\n")
}

func TestSplitSinglePartReturnsDocumentUnchanged(t *testing.T) {
	for _, document := range []string{"", "a", "a\nb\n", "\r\n\r\n"} {
		require.Equal(t, []string{document}, split.Split(document, 1))
		require.Equal(t, []string{document}, split.Split(document, 0))
	}
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name     string
		document string
		numParts int
		expected []string
	}{
		{
			name:     "uneven division",
			document: "a\nb\nc\nd\ne",
			numParts: 2,
			expected: []string{"Part 1 of 2\n\na\nb\nc", "Part 2 of 2\n\nd\ne"},
		},
		{
			name:     "fewer lines than parts",
			document: "a\nb",
			numParts: 5,
			expected: []string{"Part 1 of 5\n\na", "Part 2 of 5\n\nb"},
		},
		{
			name:     "ceiling leaves fewer chunks than requested",
			document: "a\nb\nc\nd\ne",
			numParts: 4,
			expected: []string{"Part 1 of 4\n\na\nb", "Part 2 of 4\n\nc\nd", "Part 3 of 4\n\ne"},
		},
		{
			name:     "empty document",
			document: "",
			numParts: 3,
			expected: []string{"Part 1 of 3\n\n"},
		},
		{
			name:     "trailing newline and carriage returns",
			document: "a\r\nb\r\n",
			numParts: 2,
			expected: []string{"Part 1 of 2\n\na", "Part 2 of 2\n\nb"},
		},
		{
			name:     "bare carriage returns",
			document: "a\rb\rc\rd",
			numParts: 2,
			expected: []string{"Part 1 of 2\n\na\nb", "Part 2 of 2\n\nc\nd"},
		},
		{
			name:     "crlf counts as one break next to bare terminators",
			document: "a\r\n\rb\nc\r\n",
			numParts: 2,
			expected: []string{"Part 1 of 2\n\na\n", "Part 2 of 2\n\nb\nc"},
		},
		{
			name:     "form feed vertical tab and separators",
			document: "a\fb\vc\x1cd\x1de\x1ef",
			numParts: 3,
			expected: []string{"Part 1 of 3\n\na\nb", "Part 2 of 3\n\nc\nd", "Part 3 of 3\n\ne\nf"},
		},
		{
			name:     "unicode line boundaries",
			document: "a\u0085b\u2028c\u2029d",
			numParts: 4,
			expected: []string{"Part 1 of 4\n\na", "Part 2 of 4\n\nb", "Part 3 of 4\n\nc", "Part 4 of 4\n\nd"},
		},
		{
			name:     "non-boundary characters stay inside lines",
			document: "tab\there\u00a0nbsp\nnext",
			numParts: 2,
			expected: []string{"Part 1 of 2\n\ntab\there\u00a0nbsp", "Part 2 of 2\n\nnext"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, split.Split(testCase.document, testCase.numParts))
		})
	}
}

func TestSplitReassemblesDocument(t *testing.T) {
	documents := []string{
		"single",
		numberedLines(7),
		numberedLines(10),
		numberedLines(101),
		"first\n\n\nafter blank lines\n  indented",
	}
	for _, document := range documents {
		for numParts := 2; numParts <= 10; numParts++ {
			parts := split.Split(document, numParts)
			totalLines := strings.Count(document, "\n") + 1
			linesPerPart := (totalLines + numParts - 1) / numParts
			require.Len(t, parts, (totalLines+linesPerPart-1)/linesPerPart)
			require.LessOrEqual(t, len(parts), numParts)

			bodies := make([]string, 0, len(parts))
			for index, part := range parts {
				require.True(t, strings.HasPrefix(part, fmt.Sprintf("Part %d of %d\n\n", index+1, numParts)), part)
				bodies = append(bodies, split.StripHeader(part))
			}
			require.Equal(t, document, strings.Join(bodies, "\n"), "numParts=%d", numParts)
		}
	}
}

func TestStripHeaderLeavesUnlabelledChunks(t *testing.T) {
	require.Equal(t, "plain\n\ntext", split.StripHeader("plain\n\ntext"))
	require.Equal(t, "no separator", split.StripHeader("no separator"))
	require.Equal(t, "", split.StripHeader("Part 1 of 3\n\n"))
}
