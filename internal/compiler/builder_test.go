package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build_RequiresTranslator(t *testing.T) {
	c, err := NewBuilder().Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoTranslator))
	assert.Nil(t, c)
}

func TestBuilder_Defaults(t *testing.T) {
	c, err := NewBuilder().WithTranslator(&mockTranslator{}).Build()
	require.NoError(t, err)

	assert.False(t, c.HasMacros())
	assert.Empty(t, c.IncludeDirs())
	assert.Equal(t, DefaultOptions().SpirvVersion, c.Options().SpirvVersion)
	assert.NotEmpty(t, c.Fingerprint())
}

func TestBuilder_Options(t *testing.T) {
	tests := []struct {
		name    string
		build   func(b *Builder) *Builder
		check   func(t *testing.T, c *Compiler)
		macroed bool
	}{
		{
			name:  "target spirv",
			build: func(b *Builder) *Builder { return b.WithTargetSpirv(SpirvVersion{1, 5}) },
			check: func(t *testing.T, c *Compiler) {
				assert.Equal(t, "1.5", c.Options().SpirvVersion.String())
			},
		},
		{
			name:    "macros keep definition order",
			build:   func(b *Builder) *Builder { return b.WithMacro("A", "1").WithMacro("B", "") },
			macroed: true,
			check: func(t *testing.T, c *Compiler) {
				assert.Equal(t, []Macro{{"A", "1"}, {"B", ""}}, c.Options().Macros)
			},
		},
		{
			name: "binding bases",
			build: func(b *Builder) *Builder {
				return b.WithBindingBase(ResourceTexture, 4).WithBindingBaseForStage(Fragment, ResourceSampler, 8)
			},
			check: func(t *testing.T, c *Compiler) {
				opts := c.Options()
				assert.Equal(t, uint32(4), opts.BindingBases[ResourceTexture])
				assert.Equal(t, uint32(8), opts.StageBindingBases[Fragment][ResourceSampler])
			},
		},
		{
			name: "warnings and debug",
			build: func(b *Builder) *Builder {
				return b.GenerateDebugInfo().SuppressWarnings().WithWarningsAsErrors().WithValidation(true)
			},
			check: func(t *testing.T, c *Compiler) {
				opts := c.Options()
				assert.True(t, opts.GenerateDebugInfo)
				assert.True(t, opts.SuppressWarnings)
				assert.True(t, opts.WarningsAsErrors)
				assert.True(t, opts.Validate)
			},
		},
		{
			name: "environment and language",
			build: func(b *Builder) *Builder {
				return b.WithTargetEnv(TargetOpenGL, 450).
					WithOptLevel(OptPerformance).
					WithSourceLanguage(LanguageHLSL).
					ForceVersionProfile(450, ProfileCore).
					WithAutoBindUniforms(true)
			},
			check: func(t *testing.T, c *Compiler) {
				opts := c.Options()
				assert.Equal(t, TargetOpenGL, opts.TargetEnv)
				assert.Equal(t, uint32(450), opts.TargetEnvVersion)
				assert.Equal(t, OptPerformance, opts.OptLevel)
				assert.Equal(t, LanguageHLSL, opts.SourceLanguage)
				assert.Equal(t, ProfileCore, opts.ForcedProfile)
				assert.True(t, opts.AutoBindUniforms)
			},
		},
		{
			name: "hlsl settings",
			build: func(b *Builder) *Builder {
				return b.WithHLSLIOMapping(true).WithHLSLOffsets(true).WithHLSLRegisterSetAndBinding("t0", "0", "1")
			},
			check: func(t *testing.T, c *Compiler) {
				opts := c.Options()
				assert.True(t, opts.HLSLIOMapping)
				assert.True(t, opts.HLSLOffsets)
				assert.Equal(t, []HLSLRegisterBinding{{"t0", "0", "1"}}, opts.HLSLRegisterBindings)
			},
		},
		{
			name:  "limits and include dirs",
			build: func(b *Builder) *Builder { return b.WithLimit("max_lights", 8).WithIncludeDir("/lib/a").WithIncludeDir("/lib/b") },
			check: func(t *testing.T, c *Compiler) {
				assert.Equal(t, int32(8), c.Options().Limits["max_lights"])
				assert.Equal(t, []string{"/lib/a", "/lib/b"}, c.IncludeDirs())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.build(NewBuilder().WithTranslator(&mockTranslator{})).Build()
			require.NoError(t, err)

			assert.Equal(t, tt.macroed, c.HasMacros())
			tt.check(t, c)
		})
	}
}

func TestCompiler_OptionsReturnsCopy(t *testing.T) {
	c, err := NewBuilder().
		WithTranslator(&mockTranslator{}).
		WithMacro("A", "1").
		WithBindingBase(ResourceBuffer, 2).
		Build()
	require.NoError(t, err)

	opts := c.Options()
	opts.Macros[0].Value = "changed"
	opts.BindingBases[ResourceBuffer] = 99

	again := c.Options()
	assert.Equal(t, "1", again.Macros[0].Value)
	assert.Equal(t, uint32(2), again.BindingBases[ResourceBuffer])
}

func TestCompiler_FingerprintTracksConfiguration(t *testing.T) {
	c, err := NewBuilder().WithTranslator(&mockTranslator{}).Build()
	require.NoError(t, err)

	base := c.Fingerprint()

	c.AddIncludeDir("/lib")
	withDir := c.Fingerprint()
	assert.NotEqual(t, base, withDir)

	c.AddMacroDefinition("FOO", "1")
	assert.NotEqual(t, withDir, c.Fingerprint())
	assert.True(t, c.HasMacros())

	// Identical configuration built separately yields the same fingerprint
	other, err := NewBuilder().
		WithTranslator(&mockTranslator{}).
		WithIncludeDir("/lib").
		WithMacro("FOO", "1").
		Build()
	require.NoError(t, err)
	assert.Equal(t, c.Fingerprint(), other.Fingerprint())
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ShaderKind
		wantErr bool
	}{
		{"vertex", Vertex, false},
		{"VERT", Vertex, false},
		{" frag ", Fragment, false},
		{"compute", Compute, false},
		{"geom", Geometry, false},
		{"tesc", TessControl, false},
		{"tess_evaluation", TessEvaluation, false},
		{"pixel", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "ParseKind(%q)", tt.input)
			continue
		}

		require.NoError(t, err, "ParseKind(%q)", tt.input)
		assert.Equal(t, tt.want, got, "ParseKind(%q)", tt.input)
	}
}

func TestKindFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    ShaderKind
		wantErr bool
	}{
		{"shaders/a.vert", Vertex, false},
		{"shaders/a.frag", Fragment, false},
		{"a.comp", Compute, false},
		{"sky.vert.wgsl", Vertex, false},
		{"sky.FRAG.glsl", Fragment, false},
		{"sky.wgsl", 0, true},
		{"noext", 0, true},
	}

	for _, tt := range tests {
		got, err := KindFromPath(tt.path)
		if tt.wantErr {
			assert.Error(t, err, "KindFromPath(%q)", tt.path)
			continue
		}

		require.NoError(t, err, "KindFromPath(%q)", tt.path)
		assert.Equal(t, tt.want, got, "KindFromPath(%q)", tt.path)
	}
}

func TestShaderKind_String(t *testing.T) {
	assert.Equal(t, "vertex", Vertex.String())
	assert.Equal(t, "tess_control", TessControl.String())
	assert.Equal(t, "ShaderKind(42)", ShaderKind(42).String())
}
