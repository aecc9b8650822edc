package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/compiler"
	"github.com/Norgate-AV/spvc/internal/utils"
)

// Default configuration values
const (
	DefaultSpirvVersion     = "1.3"
	DefaultDebug            = false
	DefaultValidate         = false
	DefaultWarningsAsErrors = false
	DefaultSuppressWarnings = false
	DefaultNoCache          = false
	DefaultVerbose          = false
)

// Holds the configuration options for spvc
type Config struct {
	// Include search directories, in lookup order
	IncludeDirs []string

	// Macro definitions as NAME or NAME=VALUE
	Defines []string
	// Parsed macro definitions
	Macros []compiler.Macro

	// Target SPIR-V version (e.g., 1.3)
	SpirvVersion string
	// Parsed SPIR-V version
	Spirv compiler.SpirvVersion

	// Shader kind applied to every input, inferred from the extension when empty
	Kind string

	// HCL manifest describing a batch build
	Manifest string

	// Write the words of a single build to this file
	OutputFile string

	// Directory holding the artifact database
	CacheDir string

	// Emit debug information
	Debug bool

	// Validate the intermediate representation before code generation
	ValidateIR bool

	WarningsAsErrors bool
	SuppressWarnings bool

	// Bypass the artifact cache
	NoCache bool

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		IncludeDirs:      viper.GetStringSlice("include_dirs"),
		Defines:          viper.GetStringSlice("defines"),
		SpirvVersion:     viper.GetString("spirv_version"),
		Kind:             viper.GetString("kind"),
		Manifest:         viper.GetString("manifest"),
		OutputFile:       viper.GetString("out"),
		CacheDir:         viper.GetString("cache_dir"),
		Debug:            viper.GetBool("debug"),
		ValidateIR:       viper.GetBool("validate"),
		WarningsAsErrors: viper.GetBool("warnings_as_errors"),
		SuppressWarnings: viper.GetBool("suppress_warnings"),
		NoCache:          viper.GetBool("no_cache"),
		Verbose:          viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.SpirvVersion == "" {
		cfg.SpirvVersion = DefaultSpirvVersion
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = cache.DefaultCacheDir
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	major, minor, err := utils.ParseSpirvVersion(c.SpirvVersion)
	if err != nil {
		return err
	}

	c.Spirv = compiler.SpirvVersion{Major: major, Minor: minor}

	if c.Kind != "" {
		if _, err := compiler.ParseKind(c.Kind); err != nil {
			return err
		}
	}

	c.Macros = nil
	for _, d := range c.Defines {
		name, value, err := utils.ParseDefine(d)
		if err != nil {
			return err
		}

		c.Macros = append(c.Macros, compiler.Macro{Name: name, Value: value})
	}

	if c.WarningsAsErrors && c.SuppressWarnings {
		return fmt.Errorf("warnings cannot be both suppressed and treated as errors")
	}

	// Resolve file paths
	for _, p := range []*string{&c.OutputFile, &c.Manifest, &c.CacheDir} {
		if *p == "" {
			continue
		}

		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("invalid path %s: %v", *p, err)
		}

		*p = abs
	}

	// Resolve include directories
	dirs := make([]string, 0, len(c.IncludeDirs))
	for _, dir := range c.IncludeDirs {
		if dir == "" {
			continue
		}

		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("invalid include directory: %v", err)
		}

		dirs = append(dirs, abs)
	}
	c.IncludeDirs = dirs

	return nil
}

// ShaderKind returns the configured kind, if one was set
func (c *Config) ShaderKind() (compiler.ShaderKind, bool) {
	if c.Kind == "" {
		return 0, false
	}

	kind, err := compiler.ParseKind(c.Kind)
	if err != nil {
		return 0, false
	}

	return kind, true
}

// CompilerBuilder applies the configuration to a compiler builder
func (c *Config) CompilerBuilder() *compiler.Builder {
	b := compiler.NewBuilder().
		WithTargetSpirv(c.Spirv).
		WithValidation(c.ValidateIR)

	for _, m := range c.Macros {
		b = b.WithMacro(m.Name, m.Value)
	}

	for _, dir := range c.IncludeDirs {
		b = b.WithIncludeDir(dir)
	}

	if c.Debug {
		b = b.GenerateDebugInfo()
	}

	if c.SuppressWarnings {
		b = b.SuppressWarnings()
	}

	if c.WarningsAsErrors {
		b = b.WithWarningsAsErrors()
	}

	return b
}
