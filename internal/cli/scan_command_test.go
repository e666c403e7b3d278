package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/projscan/internal/commands"
	"github.com/temirov/projscan/internal/output"
	"github.com/temirov/projscan/internal/split"
	"github.com/temirov/projscan/internal/tokenizer"
)

type recordingClipboard struct {
	copied []string
}

func (clipboardStub *recordingClipboard) Copy(text string) error {
	clipboardStub.copied = append(clipboardStub.copied, text)
	return nil
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type commandHarness struct {
	dependencies Dependencies
	clipboard    *recordingClipboard
	projectRoot  string
}

func newCommandHarness(t *testing.T) commandHarness {
	t.Helper()
	clipboardStub := &recordingClipboard{}
	projectRoot := filepath.Join(t.TempDir(), "demo")
	writeProjectFile(t, projectRoot, "a.py", "x")
	writeProjectFile(t, projectRoot, filepath.Join("sub", "b.md"), "y")
	writeProjectFile(t, projectRoot, filepath.Join("node_modules", "ignored.js"), "ignored")
	writeProjectFile(t, projectRoot, "notes.xyz", "unrecognized")
	return commandHarness{
		dependencies: Dependencies{
			LoggerFactory: func(bool) (*zap.Logger, error) { return zap.NewNop(), nil },
			Clipboard:     clipboardStub,
			CounterFactory: func(cfg tokenizer.Config) (tokenizer.Counter, string, error) {
				return runeCounter{}, tokenizer.ResolveModel(cfg.Model), nil
			},
			Clock:            func() time.Time { return time.Date(2024, time.March, 9, 14, 30, 0, 0, time.Local) },
			WorkingDirectory: t.TempDir(),
			HomeDirectory:    t.TempDir(),
		},
		clipboard:   clipboardStub,
		projectRoot: projectRoot,
	}
}

func writeProjectFile(t *testing.T, root string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(root, relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(fullPath), err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", fullPath, err)
	}
}

func (harness commandHarness) run(t *testing.T, arguments ...string) (string, error) {
	t.Helper()
	rootCommand := NewRootCommand(harness.dependencies)
	var outputBuffer bytes.Buffer
	rootCommand.SetOut(&outputBuffer)
	rootCommand.SetErr(&outputBuffer)
	executionError := executeRootCommand(context.Background(), rootCommand, arguments)
	return outputBuffer.String(), executionError
}

func readArtifact(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact %s: %v", path, err)
	}
	return string(content)
}

func TestScanWritesMarkdownDocument(t *testing.T) {
	harness := newCommandHarness(t)

	commandOutput, err := harness.run(t, "scan", harness.projectRoot)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	structureDirectory := filepath.Join(harness.projectRoot, "demo_structure")
	if !strings.Contains(commandOutput, "Export complete! 1 file(s) written to "+structureDirectory) {
		t.Fatalf("unexpected command output: %q", commandOutput)
	}
	document := readArtifact(t, filepath.Join(structureDirectory, "demo.md"))
	expectedFragments := []string{
		"# Project Structure: demo\n\nScan Date: 2024-03-09 14:30:00\n\n## Directory Structure\n\n",
		"- 📄 **a.py** (Python, 1.0B)\n  ```python\nx\n  ```\n\n",
		"- 📁 **sub/**\n  - 📄 **b.md** (Markdown, 1.0B)\n    ```markdown\ny\n    ```\n\n",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(document, fragment) {
			t.Fatalf("expected fragment %q in document:\n%s", fragment, document)
		}
	}
	for _, excluded := range []string{"ignored.js", "node_modules", "notes.xyz"} {
		if strings.Contains(document, excluded) {
			t.Fatalf("document unexpectedly mentions %s", excluded)
		}
	}
	if len(harness.clipboard.copied) != 0 {
		t.Fatalf("clipboard should not be used without --clipboard")
	}
}

func TestScanSplitsJSONIntoReassemblableParts(t *testing.T) {
	harness := newCommandHarness(t)

	if _, err := harness.run(t, "scan", harness.projectRoot, "--format", "json", "--parts", "2"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	structureDirectory := filepath.Join(harness.projectRoot, "demo_structure")
	var bodies []string
	for _, name := range []string{"demo_part1.json", "demo_part2.json"} {
		chunk := readArtifact(t, filepath.Join(structureDirectory, name))
		if !strings.HasPrefix(chunk, "Part ") {
			t.Fatalf("expected part header in %s, got %q", name, chunk)
		}
		bodies = append(bodies, split.StripHeader(chunk))
	}
	if _, err := os.Stat(filepath.Join(structureDirectory, "demo.json")); !os.IsNotExist(err) {
		t.Fatalf("unsuffixed artifact should not exist for multi-part export")
	}

	tree, parseError := output.ParseJSON(strings.Join(bodies, "\n"))
	if parseError != nil {
		t.Fatalf("reassembled JSON does not parse: %v", parseError)
	}
	entry, found := tree.File("a.py")
	if !found || entry.Content != "x" || entry.Type != "Python" || entry.SizeBytes != 1 {
		t.Fatalf("unexpected a.py entry: %+v (found %t)", entry, found)
	}
	if tree.Directory("sub") == nil || tree.Directory("node_modules") != nil {
		t.Fatalf("unexpected directories in reassembled tree")
	}
}

func TestScanDoesNotIngestPreviousExports(t *testing.T) {
	harness := newCommandHarness(t)

	for attempt := 0; attempt < 2; attempt++ {
		if _, err := harness.run(t, "scan", harness.projectRoot); err != nil {
			t.Fatalf("scan attempt %d failed: %v", attempt+1, err)
		}
	}
	document := readArtifact(t, filepath.Join(harness.projectRoot, "demo_structure", "demo.md"))
	if strings.Contains(document, "demo_structure") || strings.Count(document, "📁") != 1 {
		t.Fatalf("second scan ingested the previous export:\n%s", document)
	}
}

func TestScanExcludesExportLocationsOnly(t *testing.T) {
	harness := newCommandHarness(t)
	writeProjectFile(t, harness.projectRoot, filepath.Join("sub", "demo_structure", "kept.md"), "nested")
	writeProjectFile(t, harness.projectRoot, filepath.Join("docs", "out", "stale.md"), "stale")
	writeProjectFile(t, harness.projectRoot, filepath.Join("sub", "out", "kept.py"), "nested")

	for attempt := 0; attempt < 2; attempt++ {
		if _, err := harness.run(t, "scan", harness.projectRoot, "--output-dir", filepath.Join("docs", "out")); err != nil {
			t.Fatalf("scan attempt %d failed: %v", attempt+1, err)
		}
	}
	document := readArtifact(t, filepath.Join(harness.projectRoot, "docs", "out", "demo.md"))
	if !strings.Contains(document, "kept.md") || !strings.Contains(document, "kept.py") {
		t.Fatalf("nested directories sharing export names were dropped:\n%s", document)
	}
	if strings.Contains(document, "stale.md") || strings.Contains(document, "demo.md") {
		t.Fatalf("output directory was scanned:\n%s", document)
	}
}

func TestScanLogsEffectiveExclusions(t *testing.T) {
	harness := newCommandHarness(t)
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	harness.dependencies.LoggerFactory = func(bool) (*zap.Logger, error) { return zap.New(observedCore), nil }
	writeProjectFile(t, harness.projectRoot, ".projscanignore", "generated\n")

	if _, err := harness.run(t, "scan", harness.projectRoot, "-e", "fixtures"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	entries := observedLogs.FilterMessage(logMessageExclusions).All()
	if len(entries) != 1 {
		t.Fatalf("expected one exclusion log entry, got %d", len(entries))
	}
	loggedPatterns := fmt.Sprint(entries[0].ContextMap()["patterns"])
	for _, pattern := range []string{"node_modules", "generated", "fixtures"} {
		if !strings.Contains(loggedPatterns, pattern) {
			t.Fatalf("pattern %q missing from logged exclusions %s", pattern, loggedPatterns)
		}
	}
}

func TestScanRejectsInvalidUsage(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		flag      string
	}{
		{name: "parts_above_range", arguments: []string{"--parts", "11"}, flag: "parts"},
		{name: "parts_zero", arguments: []string{"--parts", "0"}, flag: "parts"},
		{name: "parts_not_numeric", arguments: []string{"--parts", "three"}, flag: "parts"},
		{name: "unknown_format", arguments: []string{"--format", "pdf"}, flag: "format"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			harness := newCommandHarness(t)
			arguments := append([]string{"scan", harness.projectRoot}, testCase.arguments...)
			_, err := harness.run(t, arguments...)

			var usageError *UsageError
			if !errors.As(err, &usageError) {
				t.Fatalf("expected UsageError, got %v", err)
			}
			if usageError.Flag != testCase.flag {
				t.Fatalf("expected flag %s, got %s", testCase.flag, usageError.Flag)
			}
			if _, statErr := os.Stat(filepath.Join(harness.projectRoot, "demo_structure")); !os.IsNotExist(statErr) {
				t.Fatalf("no artifacts should be written on usage errors")
			}
		})
	}
}

func TestScanReportsAccessErrorForMissingRoot(t *testing.T) {
	harness := newCommandHarness(t)
	_, err := harness.run(t, "scan", filepath.Join(harness.projectRoot, "missing"))

	var accessError *commands.AccessError
	if !errors.As(err, &accessError) {
		t.Fatalf("expected AccessError, got %v", err)
	}
}

func TestScanReportsTokensAndCopiesDocument(t *testing.T) {
	harness := newCommandHarness(t)

	commandOutput, err := harness.run(t, "scan", harness.projectRoot, "--format", "txt", "--tokens", "--model", "custom-model", "--clipboard", "yes")
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	document := readArtifact(t, filepath.Join(harness.projectRoot, "demo_structure", "demo.txt"))
	expectedTokens := len([]rune(document))
	if !strings.Contains(commandOutput, "demo.txt: ") || !strings.Contains(commandOutput, "Total tokens (custom-model): ") {
		t.Fatalf("missing token report in output: %q", commandOutput)
	}
	if !strings.Contains(commandOutput, "Total tokens (custom-model): "+strconv.Itoa(expectedTokens)+"\n") {
		t.Fatalf("expected total of %d tokens in output: %q", expectedTokens, commandOutput)
	}
	if len(harness.clipboard.copied) != 1 || harness.clipboard.copied[0] != document {
		t.Fatalf("expected the full document on the clipboard, got %d copies", len(harness.clipboard.copied))
	}
}

func TestScanHonorsConfigurationAndFlagPrecedence(t *testing.T) {
	harness := newCommandHarness(t)
	configurationPath := filepath.Join(harness.dependencies.WorkingDirectory, ".projscan.yaml")
	configuration := "scan:\n  format: txt\n  paths:\n    exclude: [sub]\n"
	if err := os.WriteFile(configurationPath, []byte(configuration), 0o600); err != nil {
		t.Fatalf("write configuration: %v", err)
	}

	if _, err := harness.run(t, "scan", harness.projectRoot); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	textDocument := readArtifact(t, filepath.Join(harness.projectRoot, "demo_structure", "demo.txt"))
	if strings.Contains(textDocument, "b.md") {
		t.Fatalf("configured exclusion was not applied:\n%s", textDocument)
	}

	if _, err := harness.run(t, "scan", harness.projectRoot, "--format", "json"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(harness.projectRoot, "demo_structure", "demo.json")); err != nil {
		t.Fatalf("expected flag format to override configuration: %v", err)
	}
}

func TestScanHonorsIgnoreFileAndOutputDirectory(t *testing.T) {
	harness := newCommandHarness(t)
	writeProjectFile(t, harness.projectRoot, ".projscanignore", "# local exclusions\nsub/\n")
	outputDirectory := filepath.Join(t.TempDir(), "exports")

	if _, err := harness.run(t, "scan", harness.projectRoot, "--output-dir", outputDirectory); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	document := readArtifact(t, filepath.Join(outputDirectory, "demo.md"))
	if strings.Contains(document, "b.md") {
		t.Fatalf("ignore file exclusion was not applied:\n%s", document)
	}

	if _, err := harness.run(t, "scan", harness.projectRoot, "--output-dir", outputDirectory, "--no-ignore"); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	document = readArtifact(t, filepath.Join(outputDirectory, "demo.md"))
	if !strings.Contains(document, "b.md") {
		t.Fatalf("expected --no-ignore to include sub/b.md:\n%s", document)
	}
}

func TestVersionFlagPrintsVersion(t *testing.T) {
	harness := newCommandHarness(t)
	commandOutput, err := harness.run(t, "--version")
	if err != nil {
		t.Fatalf("--version failed: %v", err)
	}
	if !strings.HasPrefix(commandOutput, "projscan version: ") {
		t.Fatalf("unexpected version output: %q", commandOutput)
	}
}

func TestConfigInitWritesLocalConfiguration(t *testing.T) {
	harness := newCommandHarness(t)
	commandOutput, err := harness.run(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	expectedPath := filepath.Join(harness.dependencies.WorkingDirectory, ".projscan.yaml")
	if !strings.Contains(commandOutput, "Configuration written to "+expectedPath) {
		t.Fatalf("unexpected output: %q", commandOutput)
	}
	if _, err := harness.run(t, "config", "init"); err == nil {
		t.Fatalf("expected second init without --force to fail")
	}
	if _, err := harness.run(t, "config", "init", "--force"); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
}
