package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/compiler"
)

func abs(t *testing.T, path string) string {
	t.Helper()

	p, err := filepath.Abs(path)
	require.NoError(t, err)

	return p
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupViper  func()
		check       func(*testing.T, *Config)
		wantErr     bool
		errContains string
	}{
		{
			name: "load with all defaults",
			setupViper: func() {
				viper.Reset()
				viper.SetDefault("spirv_version", DefaultSpirvVersion)
				viper.SetDefault("verbose", DefaultVerbose)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultSpirvVersion, cfg.SpirvVersion)
				assert.Equal(t, compiler.SpirvVersion{Major: 1, Minor: 3}, cfg.Spirv)
				assert.Equal(t, abs(t, cache.DefaultCacheDir), cfg.CacheDir)
				assert.False(t, cfg.Verbose)
				assert.False(t, cfg.NoCache)
				assert.Empty(t, cfg.IncludeDirs)
				assert.Empty(t, cfg.Macros)
				assert.Empty(t, cfg.OutputFile)
			},
		},
		{
			name: "load with custom values",
			setupViper: func() {
				viper.Reset()
				viper.Set("spirv_version", "1.5")
				viper.Set("include_dirs", []string{"lib", "vendor/shaders"})
				viper.Set("defines", []string{"FOO", "BAR=2"})
				viper.Set("kind", "frag")
				viper.Set("out", "out.spv")
				viper.Set("cache_dir", "build/cache")
				viper.Set("debug", true)
				viper.Set("validate", true)
				viper.Set("no_cache", true)
				viper.Set("verbose", true)
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, compiler.SpirvVersion{Major: 1, Minor: 5}, cfg.Spirv)
				assert.Equal(t, []string{abs(t, "lib"), abs(t, "vendor/shaders")}, cfg.IncludeDirs)
				assert.Equal(t, []compiler.Macro{{Name: "FOO"}, {Name: "BAR", Value: "2"}}, cfg.Macros)
				assert.Equal(t, abs(t, "out.spv"), cfg.OutputFile)
				assert.Equal(t, abs(t, "build/cache"), cfg.CacheDir)
				assert.True(t, cfg.Debug)
				assert.True(t, cfg.ValidateIR)
				assert.True(t, cfg.NoCache)
				assert.True(t, cfg.Verbose)

				kind, ok := cfg.ShaderKind()
				assert.True(t, ok)
				assert.Equal(t, compiler.Fragment, kind)
			},
		},
		{
			name: "empty spirv version gets default",
			setupViper: func() {
				viper.Reset()
				viper.Set("spirv_version", "")
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultSpirvVersion, cfg.SpirvVersion)
			},
		},
		{
			name: "invalid spirv version",
			setupViper: func() {
				viper.Reset()
				viper.Set("spirv_version", "2.1")
			},
			wantErr:     true,
			errContains: "invalid SPIR-V version",
		},
		{
			name: "invalid define",
			setupViper: func() {
				viper.Reset()
				viper.Set("defines", []string{"=1"})
			},
			wantErr:     true,
			errContains: "invalid macro definition",
		},
		{
			name: "invalid kind",
			setupViper: func() {
				viper.Reset()
				viper.Set("kind", "pixel")
			},
			wantErr:     true,
			errContains: "unknown shader kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupViper()

			cfg, err := Load()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		wantErr     bool
		errContains string
		checkFields func(*testing.T, *Config)
	}{
		{
			name: "relative paths are resolved",
			config: &Config{
				SpirvVersion: "1.3",
				IncludeDirs:  []string{"includes"},
				OutputFile:   "output.spv",
				Manifest:     "shaders.hcl",
				CacheDir:     ".cache",
			},
			checkFields: func(t *testing.T, cfg *Config) {
				assert.True(t, filepath.IsAbs(cfg.IncludeDirs[0]))
				assert.True(t, filepath.IsAbs(cfg.OutputFile))
				assert.True(t, filepath.IsAbs(cfg.Manifest))
				assert.True(t, filepath.IsAbs(cfg.CacheDir))
			},
		},
		{
			name: "empty include directory is dropped",
			config: &Config{
				SpirvVersion: "1.3",
				IncludeDirs:  []string{"", "includes"},
			},
			checkFields: func(t *testing.T, cfg *Config) {
				assert.Len(t, cfg.IncludeDirs, 1)
				assert.True(t, filepath.IsAbs(cfg.IncludeDirs[0]))
			},
		},
		{
			name: "revalidating does not duplicate macros",
			config: &Config{
				SpirvVersion: "1.3",
				Defines:      []string{"A=1"},
				Macros:       []compiler.Macro{{Name: "STALE"}},
			},
			checkFields: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []compiler.Macro{{Name: "A", Value: "1"}}, cfg.Macros)
			},
		},
		{
			name:        "empty spirv version",
			config:      &Config{},
			wantErr:     true,
			errContains: "invalid SPIR-V version",
		},
		{
			name: "conflicting warning settings",
			config: &Config{
				SpirvVersion:     "1.3",
				WarningsAsErrors: true,
				SuppressWarnings: true,
			},
			wantErr:     true,
			errContains: "warnings cannot be both suppressed and treated as errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()

			if tt.wantErr {
				require.Error(t, err)
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}

			require.NoError(t, err)
			if tt.checkFields != nil {
				tt.checkFields(t, tt.config)
			}
		})
	}
}

func TestConfig_ShaderKindUnset(t *testing.T) {
	cfg := &Config{}

	_, ok := cfg.ShaderKind()
	assert.False(t, ok)
}

type nopTranslator struct{}

func (nopTranslator) Translate(*compiler.TranslateRequest) (*compiler.TranslateResult, error) {
	return &compiler.TranslateResult{}, nil
}

func TestConfig_CompilerBuilder(t *testing.T) {
	cfg := &Config{
		SpirvVersion:     "1.4",
		Defines:          []string{"FOO=1"},
		IncludeDirs:      []string{"lib"},
		Debug:            true,
		ValidateIR:       true,
		WarningsAsErrors: true,
	}
	require.NoError(t, cfg.Validate())

	c, err := cfg.CompilerBuilder().WithTranslator(nopTranslator{}).Build()
	require.NoError(t, err)

	opts := c.Options()
	assert.Equal(t, compiler.SpirvVersion{Major: 1, Minor: 4}, opts.SpirvVersion)
	assert.Equal(t, []compiler.Macro{{Name: "FOO", Value: "1"}}, opts.Macros)
	assert.True(t, opts.GenerateDebugInfo)
	assert.True(t, opts.Validate)
	assert.True(t, opts.WarningsAsErrors)
	assert.False(t, opts.SuppressWarnings)
	assert.True(t, c.HasMacros())
	assert.Equal(t, []string{abs(t, "lib")}, c.IncludeDirs())
}
