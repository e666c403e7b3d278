package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/projscan/internal/utils"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user's home directory when set.
	HomeDirectory string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Scan ScanConfiguration `mapstructure:"scan" yaml:"scan"`
}

// ScanConfiguration defines defaults for the scan command. Nil pointers and
// empty strings mean "not configured".
type ScanConfiguration struct {
	Format          string             `mapstructure:"format" yaml:"format"`
	Parts           *int               `mapstructure:"parts" yaml:"parts"`
	Workers         *int               `mapstructure:"workers" yaml:"workers"`
	OutputDirectory string             `mapstructure:"output_dir" yaml:"output_dir"`
	Clipboard       *bool              `mapstructure:"clipboard" yaml:"clipboard"`
	Tokens          TokenConfiguration `mapstructure:"tokens" yaml:"tokens"`
	Paths           PathConfiguration  `mapstructure:"paths" yaml:"paths"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled" yaml:"enabled"`
	Model   string `mapstructure:"model" yaml:"model"`
}

// PathConfiguration configures directory exclusion rules.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude" yaml:"exclude"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore" yaml:"use_ignore"`
}

const (
	errorWorkingDirectoryFormat  = "determine working directory: %w"
	errorStatConfigFormat        = "stat configuration %s: %w"
	errorConfigIsDirectoryFormat = "configuration path %s is a directory"
	errorReadConfigFormat        = "read configuration from %s: %w"
	errorDecodeConfigFormat      = "decode configuration from %s: %w"
	configurationType            = "yaml"
)

// configurationSource is one file in the load order; required sources must exist.
type configurationSource struct {
	path     string
	required bool
}

// LoadApplicationConfiguration loads the global configuration and overlays
// the local (or explicitly named) configuration on top of it.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	sources, sourcesError := configurationSources(options)
	if sourcesError != nil {
		return ApplicationConfiguration{}, sourcesError
	}

	var merged ApplicationConfiguration
	for _, source := range sources {
		sourceConfiguration, loadError := loadConfigurationFromPath(source)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(sourceConfiguration)
	}
	merged.Scan.Paths.Exclude = utils.DeduplicatePatterns(merged.Scan.Paths.Exclude)
	return merged, nil
}

// configurationSources lists the global file (when a home directory is known)
// followed by the explicit file or ./.projscan.yaml.
func configurationSources(options LoadOptions) ([]configurationSource, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return nil, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var sources []configurationSource
	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, homeError := os.UserHomeDir(); homeError == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		sources = append(sources, configurationSource{
			path: filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName),
		})
	}

	switch explicitPath := options.ExplicitFilePath; {
	case explicitPath == "":
		sources = append(sources, configurationSource{path: filepath.Join(workingDirectory, utils.LocalConfigFileName)})
	case filepath.IsAbs(explicitPath):
		sources = append(sources, configurationSource{path: explicitPath, required: true})
	default:
		sources = append(sources, configurationSource{path: filepath.Join(workingDirectory, explicitPath), required: true})
	}
	return sources, nil
}

// loadConfigurationFromPath treats a missing optional file as empty configuration.
func loadConfigurationFromPath(source configurationSource) (ApplicationConfiguration, error) {
	fileInfo, statError := os.Stat(source.path)
	if statError != nil {
		if os.IsNotExist(statError) && !source.required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(errorStatConfigFormat, source.path, statError)
	}
	if fileInfo.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(errorConfigIsDirectoryFormat, source.path)
	}

	reader := viper.New()
	reader.SetConfigFile(source.path)
	reader.SetConfigType(configurationType)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorReadConfigFormat, source.path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf(errorDecodeConfigFormat, source.path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	configuration.Scan = configuration.Scan.merge(override.Scan)
	return configuration
}

func (base ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := base
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Parts != nil {
		result.Parts = clonePointer(override.Parts)
	}
	if override.Workers != nil {
		result.Workers = clonePointer(override.Workers)
	}
	if override.OutputDirectory != "" {
		result.OutputDirectory = override.OutputDirectory
	}
	if override.Clipboard != nil {
		result.Clipboard = clonePointer(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	result.Paths = result.Paths.merge(override.Paths)
	return result
}

func (base TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := base
	if override.Enabled != nil {
		result.Enabled = clonePointer(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func (base PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	result := base
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if override.UseIgnoreFile != nil {
		result.UseIgnoreFile = clonePointer(override.UseIgnoreFile)
	}
	return result
}

// clonePointer copies the pointed-to value so merged configurations never share storage.
func clonePointer[T any](value *T) *T {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
