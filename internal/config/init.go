package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/projscan/internal/commands"
	"github.com/temirov/projscan/internal/tokenizer"
	"github.com/temirov/projscan/internal/types"
	"github.com/temirov/projscan/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	yamlIndentWidth            = 2
	configDirectoryPermissions = 0o755
	configFilePermissions      = 0o600

	errorHomeDirectoryFormat     = "resolve home directory for configuration: %w"
	errorUnsupportedTargetFormat = "unsupported init target %q"
	errorConfigExistsFormat      = "configuration file already exists at %s"
	errorInspectConfigFormat     = "inspect configuration path %s: %w"
	errorCreateConfigDirFormat   = "create configuration directory %s: %w"
	errorWriteConfigFormat       = "write configuration to %s: %w"
	errorEncodeDefaultsFormat    = "encode default configuration: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// DefaultConfiguration returns the values written by InitializeConfiguration.
func DefaultConfiguration() ApplicationConfiguration {
	parts := 1
	workers := commands.DefaultWorkers
	clipboardEnabled := false
	tokensEnabled := false
	useIgnoreFile := true
	return ApplicationConfiguration{
		Scan: ScanConfiguration{
			Format:    string(types.FormatMarkdown),
			Parts:     &parts,
			Workers:   &workers,
			Clipboard: &clipboardEnabled,
			Tokens: TokenConfiguration{
				Enabled: &tokensEnabled,
				Model:   tokenizer.DefaultModel,
			},
			Paths: PathConfiguration{
				Exclude:       []string{},
				UseIgnoreFile: &useIgnoreFile,
			},
		},
	}
}

// RenderDefaultConfiguration encodes DefaultConfiguration as YAML.
func RenderDefaultConfiguration() ([]byte, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndentWidth)
	if encodeErr := encoder.Encode(DefaultConfiguration()); encodeErr != nil {
		return nil, fmt.Errorf(errorEncodeDefaultsFormat, encodeErr)
	}
	if closeErr := encoder.Close(); closeErr != nil {
		return nil, fmt.Errorf(errorEncodeDefaultsFormat, closeErr)
	}
	return buffer.Bytes(), nil
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the written path. Existing files are kept unless Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, destinationError := resolveInitDestination(options)
	if destinationError != nil {
		return "", destinationError
	}

	_, existingError := os.Stat(destinationPath)
	switch {
	case existingError == nil && !options.Force:
		return "", fmt.Errorf(errorConfigExistsFormat, destinationPath)
	case existingError != nil && !os.IsNotExist(existingError):
		return "", fmt.Errorf(errorInspectConfigFormat, destinationPath, existingError)
	}

	content, renderError := RenderDefaultConfiguration()
	if renderError != nil {
		return "", renderError
	}
	if makeDirectoryError := os.MkdirAll(filepath.Dir(destinationPath), configDirectoryPermissions); makeDirectoryError != nil {
		return "", fmt.Errorf(errorCreateConfigDirFormat, filepath.Dir(destinationPath), makeDirectoryError)
	}
	if writeError := os.WriteFile(destinationPath, content, configFilePermissions); writeError != nil {
		return "", fmt.Errorf(errorWriteConfigFormat, destinationPath, writeError)
	}
	return destinationPath, nil
}

func resolveInitDestination(options InitOptions) (string, error) {
	switch options.Target {
	case InitTargetLocal, "":
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return "", fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, homeError := os.UserHomeDir()
			if homeError != nil {
				return "", fmt.Errorf(errorHomeDirectoryFormat, homeError)
			}
			homeDirectory = resolvedHome
		}
		return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName), nil
	default:
		return "", fmt.Errorf(errorUnsupportedTargetFormat, options.Target)
	}
}
