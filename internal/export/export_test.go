package export_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/projscan/internal/export"
	"github.com/temirov/projscan/internal/types"
)

func TestFileNames(testingInstance *testing.T) {
	testCases := []struct {
		name           string
		format         types.Format
		requestedParts int
		partCount      int
		expected       []string
	}{
		{name: "single markdown", format: types.FormatMarkdown, requestedParts: 1, partCount: 1, expected: []string{"demo.md"}},
		{name: "single json", format: types.FormatJSON, requestedParts: 1, partCount: 1, expected: []string{"demo.json"}},
		{
			name:           "parts use suffix",
			format:         types.FormatText,
			requestedParts: 3,
			partCount:      3,
			expected:       []string{"demo_part1.txt", "demo_part2.txt", "demo_part3.txt"},
		},
		{
			name:           "fewer produced parts than requested",
			format:         types.FormatMarkdown,
			requestedParts: 5,
			partCount:      2,
			expected:       []string{"demo_part1.md", "demo_part2.md"},
		},
		{
			name:           "single produced part still suffixed",
			format:         types.FormatMarkdown,
			requestedParts: 4,
			partCount:      1,
			expected:       []string{"demo_part1.md"},
		},
	}

	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingHandle *testing.T) {
			actual := export.FileNames("demo", testCase.format, testCase.requestedParts, testCase.partCount)
			require.Equal(testingHandle, testCase.expected, actual)
		})
	}
}

func TestDefaultOutputDirectory(testingInstance *testing.T) {
	require.Equal(testingInstance, "demo_structure", export.StructureDirectoryName("demo"))
	require.Equal(
		testingInstance,
		filepath.Join("/work", "demo", "demo_structure"),
		export.DefaultOutputDirectory(filepath.Join("/work", "demo"), "demo"),
	)
}

func TestWriteCreatesArtifacts(testingInstance *testing.T) {
	outputDirectory := filepath.Join(testingInstance.TempDir(), "demo_structure")

	writtenPaths, writeError := export.Write(export.Request{
		ProjectName:     "demo",
		OutputDirectory: outputDirectory,
		Format:          types.FormatText,
		RequestedParts:  2,
		Parts:           []string{"Part 1 of 2\n\nfirst", "Part 2 of 2\n\nsecond"},
	})
	require.NoError(testingInstance, writeError)
	require.Equal(testingInstance, []string{
		filepath.Join(outputDirectory, "demo_part1.txt"),
		filepath.Join(outputDirectory, "demo_part2.txt"),
	}, writtenPaths)

	firstContent, readError := os.ReadFile(writtenPaths[0])
	require.NoError(testingInstance, readError)
	require.Equal(testingInstance, "Part 1 of 2\n\nfirst", string(firstContent))

	secondContent, readError := os.ReadFile(writtenPaths[1])
	require.NoError(testingInstance, readError)
	require.Equal(testingInstance, "Part 2 of 2\n\nsecond", string(secondContent))
}

func TestWriteOverwritesPreviousArtifact(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	request := export.Request{
		ProjectName:     "demo",
		OutputDirectory: outputDirectory,
		Format:          types.FormatMarkdown,
		RequestedParts:  1,
		Parts:           []string{"a much longer first document"},
	}
	_, firstError := export.Write(request)
	require.NoError(testingInstance, firstError)

	request.Parts = []string{"short"}
	writtenPaths, secondError := export.Write(request)
	require.NoError(testingInstance, secondError)

	content, readError := os.ReadFile(writtenPaths[0])
	require.NoError(testingInstance, readError)
	require.Equal(testingInstance, "short", string(content))
}

func TestWriteReportsExportError(testingInstance *testing.T) {
	temporaryDirectory := testingInstance.TempDir()
	blockingFile := filepath.Join(temporaryDirectory, "occupied")
	require.NoError(testingInstance, os.WriteFile(blockingFile, []byte("x"), 0o644))

	_, writeError := export.Write(export.Request{
		ProjectName:     "demo",
		OutputDirectory: filepath.Join(blockingFile, "nested"),
		Format:          types.FormatJSON,
		RequestedParts:  1,
		Parts:           []string{"{}"},
	})
	require.Error(testingInstance, writeError)

	var exportError *export.ExportError
	require.True(testingInstance, errors.As(writeError, &exportError))
	require.Equal(testingInstance, filepath.Join(blockingFile, "nested"), exportError.Path)
}

func TestWriteCombinesPartFailures(testingInstance *testing.T) {
	outputDirectory := testingInstance.TempDir()
	for _, occupiedName := range []string{"demo_part1.md", "demo_part3.md"} {
		require.NoError(testingInstance, os.Mkdir(filepath.Join(outputDirectory, occupiedName), 0o755))
	}

	writtenPaths, writeError := export.Write(export.Request{
		ProjectName:     "demo",
		OutputDirectory: outputDirectory,
		Format:          types.FormatMarkdown,
		RequestedParts:  3,
		Parts:           []string{"one", "two", "three"},
	})
	require.Error(testingInstance, writeError)
	require.Equal(testingInstance, []string{filepath.Join(outputDirectory, "demo_part2.md")}, writtenPaths)
	require.Contains(testingInstance, writeError.Error(), "demo_part1.md")
	require.Contains(testingInstance, writeError.Error(), "demo_part3.md")
}

func TestWriteRejectsEmptyParts(testingInstance *testing.T) {
	_, writeError := export.Write(export.Request{ProjectName: "demo", OutputDirectory: testingInstance.TempDir()})
	var exportError *export.ExportError
	require.ErrorAs(testingInstance, writeError, &exportError)
}
