package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigHomeEnv overrides the directory searched for the global config
const ConfigHomeEnv = "SPVC_CONFIG_HOME"

// flagKeys maps command flags to configuration keys
var flagKeys = map[string]string{
	"include":           "include_dirs",
	"define":            "defines",
	"spirv":             "spirv_version",
	"kind":              "kind",
	"manifest":          "manifest",
	"out":               "out",
	"cache-dir":         "cache_dir",
	"debug":             "debug",
	"validate":          "validate",
	"werror":            "warnings_as_errors",
	"suppress-warnings": "suppress_warnings",
	"no-cache":          "no_cache",
	"verbose":           "verbose",
}

// Loader handles configuration loading from various sources
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForBuild loads configuration specifically for build operations.
// Flags override the nearest local config, which overrides the global one.
func (l *Loader) LoadForBuild(cmd *cobra.Command, args []string) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig(args)
	l.bindCommandFlags(cmd)

	return Load()
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("spirv_version", DefaultSpirvVersion)
	viper.SetDefault("debug", DefaultDebug)
	viper.SetDefault("validate", DefaultValidate)
	viper.SetDefault("warnings_as_errors", DefaultWarningsAsErrors)
	viper.SetDefault("suppress_warnings", DefaultSuppressWarnings)
	viper.SetDefault("no_cache", DefaultNoCache)
	viper.SetDefault("verbose", DefaultVerbose)
}

// GlobalConfigDir returns the directory holding the user's global config
func GlobalConfigDir() string {
	if dir := os.Getenv(ConfigHomeEnv); dir != "" {
		return dir
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(base, "spvc")
}

// loadGlobalConfig loads global configuration from the user config directory
func (l *Loader) loadGlobalConfig() {
	dir := GlobalConfigDir()
	if dir == "" {
		return
	}

	if globalPath := FindGlobalConfig(dir); globalPath != "" {
		viper.SetConfigFile(globalPath)
		_ = viper.ReadInConfig()
	}
}

// loadLocalConfig merges the project configuration nearest to the first input
func (l *Loader) loadLocalConfig(args []string) {
	dir, err := os.Getwd()
	if len(args) > 0 {
		absFirstFile, absErr := filepath.Abs(args[0])
		if absErr != nil {
			return // silently ignore, config.Load() will handle validation
		}

		dir, err = filepath.Dir(absFirstFile), nil
	}

	if err != nil {
		return
	}

	localPath := FindLocalConfig(dir)
	if localPath != "" {
		viper.SetConfigFile(localPath)
		_ = viper.MergeInConfig()
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			_ = viper.BindPFlag(key, f)
		}
	}
}
