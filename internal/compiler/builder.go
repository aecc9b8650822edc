package compiler

import (
	"log/slog"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/include"
)

// Builder assembles a Compiler from options
type Builder struct {
	options     Options
	includeDirs []string
	hasMacros   bool
	translator  Translator
	recorder    Recorder
	logger      *slog.Logger
}

// NewBuilder creates a builder with default options
func NewBuilder() *Builder {
	return &Builder{
		options: DefaultOptions(),
	}
}

// WithTranslator sets the translator that performs compilation
func (b *Builder) WithTranslator(t Translator) *Builder {
	b.translator = t
	return b
}

// WithRecorder sets a recorder notified of each persisted artifact
func (b *Builder) WithRecorder(r Recorder) *Builder {
	b.recorder = r
	return b
}

// WithLogger sets the logger used for warnings and cache diagnostics
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithTargetSpirv sets the SPIR-V version written to the module header
func (b *Builder) WithTargetSpirv(version SpirvVersion) *Builder {
	b.options.SpirvVersion = version
	return b
}

// WithMacro defines a macro. Any macro disables persisted artifact reuse.
func (b *Builder) WithMacro(name, value string) *Builder {
	b.options.Macros = append(b.options.Macros, Macro{Name: name, Value: value})
	b.hasMacros = true
	return b
}

// WithAutoBindUniforms assigns bindings to uniforms that declare none
func (b *Builder) WithAutoBindUniforms(autoBind bool) *Builder {
	b.options.AutoBindUniforms = autoBind
	return b
}

// WithBindingBase sets the first binding number for a resource kind
func (b *Builder) WithBindingBase(kind ResourceKind, base uint32) *Builder {
	if b.options.BindingBases == nil {
		b.options.BindingBases = make(map[ResourceKind]uint32)
	}

	b.options.BindingBases[kind] = base
	return b
}

// WithBindingBaseForStage overrides the binding base of a resource kind for one stage
func (b *Builder) WithBindingBaseForStage(stage ShaderKind, kind ResourceKind, base uint32) *Builder {
	if b.options.StageBindingBases == nil {
		b.options.StageBindingBases = make(map[ShaderKind]map[ResourceKind]uint32)
	}

	if b.options.StageBindingBases[stage] == nil {
		b.options.StageBindingBases[stage] = make(map[ResourceKind]uint32)
	}

	b.options.StageBindingBases[stage][kind] = base
	return b
}

// GenerateDebugInfo emits debug instructions into the module
func (b *Builder) GenerateDebugInfo() *Builder {
	b.options.GenerateDebugInfo = true
	return b
}

// ForceVersionProfile overrides the version and profile declared by the source
func (b *Builder) ForceVersionProfile(version uint32, profile GlslProfile) *Builder {
	b.options.ForcedVersion = version
	b.options.ForcedProfile = profile
	return b
}

// WithTargetEnv sets the client environment the module targets
func (b *Builder) WithTargetEnv(env TargetEnv, version uint32) *Builder {
	b.options.TargetEnv = env
	b.options.TargetEnvVersion = version
	return b
}

// WithHLSLIOMapping enables HLSL register based IO mapping
func (b *Builder) WithHLSLIOMapping(iomap bool) *Builder {
	b.options.HLSLIOMapping = iomap
	return b
}

// WithHLSLRegisterSetAndBinding maps an HLSL register to a descriptor set and binding
func (b *Builder) WithHLSLRegisterSetAndBinding(register, set, binding string) *Builder {
	b.options.HLSLRegisterBindings = append(b.options.HLSLRegisterBindings, HLSLRegisterBinding{
		Register: register,
		Set:      set,
		Binding:  binding,
	})
	return b
}

// WithHLSLOffsets applies HLSL packing rules to buffer member offsets
func (b *Builder) WithHLSLOffsets(offsets bool) *Builder {
	b.options.HLSLOffsets = offsets
	return b
}

// WithSourceLanguage sets the language the source is written in
func (b *Builder) WithSourceLanguage(lang SourceLanguage) *Builder {
	b.options.SourceLanguage = lang
	return b
}

// WithOptLevel sets the optimization level
func (b *Builder) WithOptLevel(level OptimizationLevel) *Builder {
	b.options.OptLevel = level
	return b
}

// SuppressWarnings drops all warnings from the result
func (b *Builder) SuppressWarnings() *Builder {
	b.options.SuppressWarnings = true
	return b
}

// WithWarningsAsErrors fails compilation when any warning is reported
func (b *Builder) WithWarningsAsErrors() *Builder {
	b.options.WarningsAsErrors = true
	return b
}

// WithValidation asks the translator to validate its intermediate form
func (b *Builder) WithValidation(validate bool) *Builder {
	b.options.Validate = validate
	return b
}

// WithLimit overrides a named resource limit
func (b *Builder) WithLimit(name string, value int32) *Builder {
	if b.options.Limits == nil {
		b.options.Limits = make(map[string]int32)
	}

	b.options.Limits[name] = value
	return b
}

// WithIncludeDir appends a library directory to the include search order
func (b *Builder) WithIncludeDir(dir string) *Builder {
	b.includeDirs = append(b.includeDirs, dir)
	return b
}

// Build creates the compiler
func (b *Builder) Build() (*Compiler, error) {
	if b.translator == nil {
		return nil, ErrNoTranslator
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	paths := include.NewSearchPaths(b.includeDirs...)

	c := &Compiler{
		translator:  b.translator,
		options:     b.options.clone(),
		searchPaths: paths,
		resolver:    include.NewResolver(paths),
		memory:      cache.NewMemory(),
		hasMacros:   b.hasMacros,
		recorder:    b.recorder,
		logger:      logger,
	}
	c.refreshFingerprint()

	return c, nil
}
