package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/projscan/internal/config"
	"github.com/temirov/projscan/internal/types"
)

const (
	configUse                  = types.CommandConfig
	configShortDescription     = "manage projscan configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"
	// configInitLongDescription provides detailed help for the config init command.
	configInitLongDescription = `Write the default scan configuration as YAML.
By default the file is created in the working directory; use --global to write it under the home directory.`
	configInitUsageExample = `  # Create ./.projscan.yaml
  projscan config init

  # Replace the global configuration
  projscan config init --global --force`

	globalFlagName        = "global"
	forceFlagName         = "force"
	globalFlagDescription = "write the configuration under the home directory"
	forceFlagDescription  = "overwrite an existing configuration file"

	configurationWrittenFormat = "Configuration written to %s\n"
)

// createConfigCommand returns the config command with its init subcommand.
func createConfigCommand(dependencies Dependencies) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	configCommand.AddCommand(createConfigInitCommand(dependencies))
	return configCommand
}

func createConfigInitCommand(dependencies Dependencies) *cobra.Command {
	var globalTarget bool
	var force bool

	initCommand := &cobra.Command{
		Use:     configInitUse,
		Short:   configInitShortDescription,
		Long:    configInitLongDescription,
		Example: configInitUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), configurationWrittenFormat, writtenPath)
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &globalTarget, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
