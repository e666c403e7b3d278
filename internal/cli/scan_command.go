package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/projscan/internal/commands"
	"github.com/temirov/projscan/internal/config"
	"github.com/temirov/projscan/internal/export"
	"github.com/temirov/projscan/internal/output"
	"github.com/temirov/projscan/internal/split"
	"github.com/temirov/projscan/internal/tokenizer"
	"github.com/temirov/projscan/internal/types"
	"github.com/temirov/projscan/internal/utils"
)

const (
	scanUse              = types.CommandScan + " [path]"
	scanAlias            = "s"
	scanShortDescription = "export a project structure document (" + scanAlias + ")"

	// scanLongDescription provides detailed help for the scan command.
	scanLongDescription = `Walk a project directory and export its structure and file contents.
Only recognized file types are included; node_modules, .git, .next, dist and build are always skipped.
Use --format to select md, txt or json output and --parts to split the document into up to 10 files.`
	// scanUsageExample demonstrates scan command usage.
	scanUsageExample = `  # Export the current directory as Markdown
  projscan scan

  # Split a JSON export of ./web into three parts and report token counts
  projscan scan ./web --format json --parts 3 --tokens

  # Skip generated directories and copy the document to the clipboard
  projscan scan -e coverage -e "tmp*" --clipboard`

	defaultPath  = "."
	minimumParts = 1
	maximumParts = 10

	formatFlagName          = "format"
	partsFlagName           = "parts"
	exclusionFlagName       = "e"
	workersFlagName         = "workers"
	tokensFlagName          = "tokens"
	modelFlagName           = "model"
	clipboardFlagName       = "clipboard"
	outputDirectoryFlagName = "output-dir"
	noIgnoreFlagName        = "no-ignore"

	formatFlagDescription          = "output format: md, txt or json"
	partsFlagDescription           = "number of parts to split the document into (1-10)"
	exclusionFlagDescription       = "exclude directories matching pattern"
	workersFlagDescription         = "maximum concurrent file reads"
	tokensFlagDescription          = "report token counts for each exported part"
	modelFlagDescription           = "tokenizer model to use for token counting"
	clipboardFlagDescription       = "copy the full document to the clipboard"
	outputDirectoryFlagDescription = "directory receiving the exported files (default <path>/<name>_structure)"
	noIgnoreFlagDescription        = "do not read " + utils.IgnoreFileName

	formatUnsupportedReason = "expected md, txt or json"
	partsNotNumericReason   = "must be a whole number"
	partsOutOfRangeReason   = "must be between 1 and 10"

	errorAbsolutePathFormat  = "abs failed for '%s': %w"
	exportCompleteFormat     = "Export complete! %d file(s) written to %s\n"
	exportedFileFormat       = "  %s\n"
	tokenCountFormat         = "  %s: %d tokens\n"
	tokenTotalFormat         = "Total tokens (%s): %d\n"
	logMessageScanStarted    = "scanning project"
	logMessageScanFinished   = "scan finished"
	logMessageExclusions     = "effective exclusion patterns"
	logMessageClipboardError = "unable to copy document to clipboard"
	logMessageClipboardDone  = "document copied to clipboard"
)

// scanFlags stores raw flag values before they are merged with configuration.
type scanFlags struct {
	format            string
	parts             string
	exclusionPatterns []string
	workers           int
	tokensEnabled     bool
	model             string
	clipboardEnabled  bool
	outputDirectory   string
	disableIgnoreFile bool
}

// scanSettings is the validated result of flags layered over configuration.
type scanSettings struct {
	rootPath          string
	format            types.Format
	parts             int
	exclusionPatterns []string
	useIgnoreFile     bool
	workers           int
	tokensEnabled     bool
	model             string
	clipboardEnabled  bool
	outputDirectory   string
}

// createScanCommand returns the scan subcommand.
func createScanCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	var flags scanFlags

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			rootPath := defaultPath
			if len(arguments) > 0 {
				rootPath = arguments[0]
			}
			workingDirectory := dependencies.WorkingDirectory
			if workingDirectory != "" && !filepath.IsAbs(rootPath) {
				rootPath = filepath.Join(workingDirectory, rootPath)
			}
			configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: workingDirectory,
				ExplicitFilePath: options.configurationPath,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if configurationError != nil {
				return configurationError
			}
			settings, settingsError := resolveScanSettings(command, rootPath, flags, configuration.Scan)
			if settingsError != nil {
				return settingsError
			}
			return runScan(command.Context(), command, settings, dependencies, options.logger)
		},
	}

	scanCommand.Flags().StringVar(&flags.format, formatFlagName, string(types.FormatMarkdown), formatFlagDescription)
	scanCommand.Flags().StringVar(&flags.parts, partsFlagName, strconv.Itoa(minimumParts), partsFlagDescription)
	scanCommand.Flags().StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	scanCommand.Flags().IntVar(&flags.workers, workersFlagName, commands.DefaultWorkers, workersFlagDescription)
	registerBooleanFlag(scanCommand.Flags(), &flags.tokensEnabled, tokensFlagName, false, tokensFlagDescription)
	scanCommand.Flags().StringVar(&flags.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(scanCommand.Flags(), &flags.clipboardEnabled, clipboardFlagName, false, clipboardFlagDescription)
	scanCommand.Flags().StringVar(&flags.outputDirectory, outputDirectoryFlagName, "", outputDirectoryFlagDescription)
	registerBooleanFlag(scanCommand.Flags(), &flags.disableIgnoreFile, noIgnoreFlagName, false, noIgnoreFlagDescription)
	return scanCommand
}

// resolveScanSettings layers explicitly set flags over configuration values
// over flag defaults, then validates format and part count.
func resolveScanSettings(command *cobra.Command, rootPath string, flags scanFlags, configuration config.ScanConfiguration) (scanSettings, error) {
	flagSet := command.Flags()

	formatValue := flags.format
	if !flagSet.Changed(formatFlagName) && configuration.Format != "" {
		formatValue = configuration.Format
	}
	format, formatError := types.ParseFormat(formatValue)
	if formatError != nil {
		return scanSettings{}, &UsageError{Flag: formatFlagName, Value: formatValue, Reason: formatUnsupportedReason}
	}

	partsValue := flags.parts
	if !flagSet.Changed(partsFlagName) && configuration.Parts != nil {
		partsValue = strconv.Itoa(*configuration.Parts)
	}
	parts, partsError := parsePartCount(partsValue)
	if partsError != nil {
		return scanSettings{}, partsError
	}

	workers := flags.workers
	if !flagSet.Changed(workersFlagName) && configuration.Workers != nil {
		workers = *configuration.Workers
	}

	tokensEnabled := flags.tokensEnabled
	if !flagSet.Changed(tokensFlagName) && configuration.Tokens.Enabled != nil {
		tokensEnabled = *configuration.Tokens.Enabled
	}
	model := flags.model
	if !flagSet.Changed(modelFlagName) && configuration.Tokens.Model != "" {
		model = configuration.Tokens.Model
	}

	clipboardEnabled := flags.clipboardEnabled
	if !flagSet.Changed(clipboardFlagName) && configuration.Clipboard != nil {
		clipboardEnabled = *configuration.Clipboard
	}

	outputDirectory := flags.outputDirectory
	if !flagSet.Changed(outputDirectoryFlagName) && configuration.OutputDirectory != "" {
		outputDirectory = configuration.OutputDirectory
	}

	useIgnoreFile := !flags.disableIgnoreFile
	if !flagSet.Changed(noIgnoreFlagName) && configuration.Paths.UseIgnoreFile != nil {
		useIgnoreFile = *configuration.Paths.UseIgnoreFile
	}

	exclusionPatterns := append(append([]string{}, configuration.Paths.Exclude...), flags.exclusionPatterns...)

	return scanSettings{
		rootPath:          rootPath,
		format:            format,
		parts:             parts,
		exclusionPatterns: exclusionPatterns,
		useIgnoreFile:     useIgnoreFile,
		workers:           workers,
		tokensEnabled:     tokensEnabled,
		model:             model,
		clipboardEnabled:  clipboardEnabled,
		outputDirectory:   outputDirectory,
	}, nil
}

// parsePartCount accepts whole numbers from 1 to 10.
func parsePartCount(value string) (int, error) {
	parts, conversionError := strconv.Atoi(strings.TrimSpace(value))
	if conversionError != nil {
		return 0, &UsageError{Flag: partsFlagName, Value: value, Reason: partsNotNumericReason}
	}
	if parts < minimumParts || parts > maximumParts {
		return 0, &UsageError{Flag: partsFlagName, Value: value, Reason: partsOutOfRangeReason}
	}
	return parts, nil
}

// runScan builds the snapshot, renders and splits it, writes the parts and
// runs the optional token and clipboard steps.
func runScan(ctx context.Context, command *cobra.Command, settings scanSettings, dependencies Dependencies, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	absoluteRootPath, absoluteError := filepath.Abs(settings.rootPath)
	if absoluteError != nil {
		return fmt.Errorf(errorAbsolutePathFormat, settings.rootPath, absoluteError)
	}
	projectName := filepath.Base(absoluteRootPath)

	outputDirectory := settings.outputDirectory
	if outputDirectory == "" {
		outputDirectory = export.DefaultOutputDirectory(absoluteRootPath, projectName)
	} else if !filepath.IsAbs(outputDirectory) {
		outputDirectory = filepath.Join(absoluteRootPath, outputDirectory)
	}

	exclusionPatterns, exclusionError := config.LoadCombinedExclusionPatterns(absoluteRootPath, settings.exclusionPatterns, settings.useIgnoreFile)
	if exclusionError != nil {
		return exclusionError
	}

	logger.Info(logMessageScanStarted,
		zap.String("root", absoluteRootPath),
		zap.String("format", string(settings.format)),
		zap.Int("parts", settings.parts),
	)
	treeBuilder := commands.NewTreeBuilder(commands.TreeBuilderOptions{
		ExclusionPatterns: exclusionPatterns,
		ExcludedPaths:     artifactPaths(absoluteRootPath, projectName, outputDirectory),
		Workers:           settings.workers,
		Logger:            logger,
		Clock:             dependencies.Clock,
	})
	logger.Debug(logMessageExclusions, zap.Strings("patterns", treeBuilder.ExclusionPatterns()))
	tree, buildError := treeBuilder.BuildContext(ctx, absoluteRootPath)
	if buildError != nil {
		return buildError
	}
	summary := tree.Summary()
	logger.Info(logMessageScanFinished,
		zap.Int("files", summary.TotalFiles),
		zap.Int("directories", summary.TotalDirectories),
		zap.String("size", utils.FormatFileSize(summary.TotalBytes)),
	)

	document, renderError := output.Render(tree, settings.format)
	if renderError != nil {
		return &export.ExportError{Err: renderError}
	}
	parts := split.Split(document, settings.parts)

	writtenPaths, writeError := export.Write(export.Request{
		ProjectName:     projectName,
		OutputDirectory: outputDirectory,
		Format:          settings.format,
		RequestedParts:  settings.parts,
		Parts:           parts,
	})
	if writeError != nil {
		return writeError
	}

	commandOutput := command.OutOrStdout()
	fmt.Fprintf(commandOutput, exportCompleteFormat, len(writtenPaths), outputDirectory)
	for _, writtenPath := range writtenPaths {
		fmt.Fprintf(commandOutput, exportedFileFormat, filepath.Base(writtenPath))
	}

	if settings.tokensEnabled {
		counter, resolvedModel, counterError := dependencies.CounterFactory(tokenizer.Config{Model: settings.model})
		if counterError != nil {
			return counterError
		}
		tokenSummary, countError := tokenizer.CountParts(counter, parts)
		if countError != nil {
			return countError
		}
		for index, partCount := range tokenSummary.Parts {
			fmt.Fprintf(commandOutput, tokenCountFormat, filepath.Base(writtenPaths[index]), partCount.Tokens)
		}
		fmt.Fprintf(commandOutput, tokenTotalFormat, resolvedModel, tokenSummary.Total)
	}

	if settings.clipboardEnabled {
		if copyError := dependencies.Clipboard.Copy(document); copyError != nil {
			logger.Warn(logMessageClipboardError, zap.Error(copyError))
		} else {
			logger.Info(logMessageClipboardDone, zap.Int("bytes", len(document)))
		}
	}
	return nil
}

// artifactPaths keeps previous exports out of the scan. It returns root-relative
// paths for the default structure directory and for a custom output directory
// located inside the root, so same-named directories elsewhere are still scanned.
func artifactPaths(absoluteRootPath string, projectName string, outputDirectory string) []string {
	paths := []string{export.StructureDirectoryName(projectName)}
	relativeOutput, relativeError := filepath.Rel(absoluteRootPath, filepath.Clean(outputDirectory))
	if relativeError == nil && relativeOutput != "." && relativeOutput != ".." && !strings.HasPrefix(relativeOutput, ".."+string(filepath.Separator)) {
		paths = append(paths, filepath.ToSlash(relativeOutput))
	}
	return utils.DeduplicatePatterns(paths)
}
