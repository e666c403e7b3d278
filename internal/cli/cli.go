// Package cli provides the command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/projscan/internal/services/clipboard"
	"github.com/temirov/projscan/internal/tokenizer"
	"github.com/temirov/projscan/internal/utils"
)

const (
	versionFlagName      = "version"
	verboseFlagName      = "verbose"
	configFlagName       = "config"
	versionTemplate      = "projscan version: %s\n"
	rootUse              = "projscan"
	rootShortDescription = "projscan command line interface"
	rootLongDescription  = `projscan walks a project directory and exports its structure and file contents
as a single Markdown, plain text or JSON document for AI analysis.
Use scan to export a project, config init to write a default configuration, and --version to print the application version.`
	versionFlagDescription = "display application version"
	verboseFlagDescription = "enable debug logging"
	configFlagDescription  = "configuration file to use instead of ./" + utils.LocalConfigFileName
)

// errVersionDisplayed stops command execution after --version output.
var errVersionDisplayed = errors.New("version displayed")

// CounterFactory constructs a token counter for the resolved tokenizer configuration.
type CounterFactory func(cfg tokenizer.Config) (tokenizer.Counter, string, error)

// LoggerFactory constructs the application logger once --verbose is known.
type LoggerFactory func(verbose bool) (*zap.Logger, error)

// Dependencies are the collaborators the commands use. Zero values select the
// production implementations.
type Dependencies struct {
	LoggerFactory    LoggerFactory
	Clipboard        clipboard.Copier
	CounterFactory   CounterFactory
	Clock            func() time.Time
	WorkingDirectory string
	HomeDirectory    string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.LoggerFactory == nil {
		dependencies.LoggerFactory = utils.NewApplicationLogger
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.CounterFactory == nil {
		dependencies.CounterFactory = tokenizer.NewCounter
	}
	if dependencies.Clock == nil {
		dependencies.Clock = time.Now
	}
	return dependencies
}

// globalOptions holds persistent flag values shared by every subcommand.
type globalOptions struct {
	showVersion       bool
	verbose           bool
	configurationPath string
	logger            *zap.Logger
}

// Execute runs the projscan application.
func Execute(ctx context.Context) error {
	return ExecuteWithArguments(ctx, Dependencies{}, nil)
}

// ExecuteWithArguments runs the root command with explicit dependencies.
// Nil arguments use os.Args.
func ExecuteWithArguments(ctx context.Context, dependencies Dependencies, arguments []string) error {
	return executeRootCommand(ctx, NewRootCommand(dependencies), arguments)
}

func executeRootCommand(ctx context.Context, rootCommand *cobra.Command, arguments []string) error {
	if arguments == nil {
		arguments = os.Args[1:]
	}
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	executionError := rootCommand.ExecuteContext(ctx)
	if errors.Is(executionError, errVersionDisplayed) {
		return nil
	}
	return executionError
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	resolvedDependencies := dependencies.withDefaults()
	options := &globalOptions{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return errVersionDisplayed
			}
			logger, loggerError := resolvedDependencies.LoggerFactory(options.verbose)
			if loggerError != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
			}
			options.logger = logger
			return nil
		},
		PersistentPostRun: func(command *cobra.Command, arguments []string) {
			if options.logger != nil {
				_ = options.logger.Sync()
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &options.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createScanCommand(resolvedDependencies, options),
		createConfigCommand(resolvedDependencies),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}
