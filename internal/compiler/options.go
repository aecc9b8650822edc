package compiler

import (
	"fmt"
	"sort"
)

// SpirvVersion is the SPIR-V version emitted by the translator
type SpirvVersion struct {
	Major uint8
	Minor uint8
}

func (v SpirvVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// DefaultSpirvVersion is used when no target version is configured
var DefaultSpirvVersion = SpirvVersion{Major: 1, Minor: 3}

// TargetEnv is the client API the output is intended for
type TargetEnv int

const (
	TargetVulkan TargetEnv = iota
	TargetOpenGL
	TargetOpenGLCompat
)

// OptimizationLevel requested from the translator
type OptimizationLevel int

const (
	OptZero OptimizationLevel = iota
	OptSize
	OptPerformance
)

// ResourceKind is a class of bindable shader resource
type ResourceKind int

const (
	ResourceImage ResourceKind = iota
	ResourceSampler
	ResourceTexture
	ResourceBuffer
	ResourceStorageBuffer
	ResourceUnorderedAccessView
)

// SourceLanguage of the input text
type SourceLanguage int

const (
	LanguageWGSL SourceLanguage = iota
	LanguageGLSL
	LanguageHLSL
)

// GlslProfile used with a forced version
type GlslProfile int

const (
	ProfileNone GlslProfile = iota
	ProfileCore
	ProfileCompatibility
	ProfileEs
)

// Macro is a preprocessor definition. An empty Value defines the name only.
type Macro struct {
	Name  string
	Value string
}

// HLSLRegisterBinding maps an HLSL register to a descriptor set and binding
type HLSLRegisterBinding struct {
	Register string
	Set      string
	Binding  string
}

// Options is the pass-through configuration forwarded to the translator.
// Translators honor the settings they support and ignore the rest.
type Options struct {
	TargetEnv        TargetEnv
	TargetEnvVersion uint32
	SpirvVersion     SpirvVersion
	OptLevel         OptimizationLevel
	SourceLanguage   SourceLanguage

	// Macros in definition order
	Macros []Macro

	AutoBindUniforms  bool
	BindingBases      map[ResourceKind]uint32
	StageBindingBases map[ShaderKind]map[ResourceKind]uint32

	GenerateDebugInfo bool
	ForcedVersion     uint32
	ForcedProfile     GlslProfile

	HLSLIOMapping        bool
	HLSLOffsets          bool
	HLSLRegisterBindings []HLSLRegisterBinding

	SuppressWarnings bool
	WarningsAsErrors bool

	// Validate asks the translator to validate its intermediate form
	Validate bool

	Limits map[string]int32
}

// DefaultOptions returns the options a new builder starts with
func DefaultOptions() Options {
	return Options{
		TargetEnv:    TargetVulkan,
		SpirvVersion: DefaultSpirvVersion,
		OptLevel:     OptZero,
	}
}

// MacroTable returns the macro definitions keyed by name. Later definitions
// of the same name win.
func (o *Options) MacroTable() map[string]string {
	table := make(map[string]string, len(o.Macros))
	for _, m := range o.Macros {
		table[m.Name] = m.Value
	}

	return table
}

// clone deep-copies o so callers cannot mutate compiler state
func (o Options) clone() Options {
	out := o
	out.Macros = append([]Macro(nil), o.Macros...)
	out.HLSLRegisterBindings = append([]HLSLRegisterBinding(nil), o.HLSLRegisterBindings...)

	if o.BindingBases != nil {
		out.BindingBases = make(map[ResourceKind]uint32, len(o.BindingBases))
		for k, v := range o.BindingBases {
			out.BindingBases[k] = v
		}
	}

	if o.StageBindingBases != nil {
		out.StageBindingBases = make(map[ShaderKind]map[ResourceKind]uint32, len(o.StageBindingBases))
		for stage, bases := range o.StageBindingBases {
			inner := make(map[ResourceKind]uint32, len(bases))
			for k, v := range bases {
				inner[k] = v
			}
			out.StageBindingBases[stage] = inner
		}
	}

	if o.Limits != nil {
		out.Limits = make(map[string]int32, len(o.Limits))
		for k, v := range o.Limits {
			out.Limits[k] = v
		}
	}

	return out
}

// settings renders o as a canonical list for fingerprinting
func (o *Options) settings() []string {
	s := []string{
		fmt.Sprintf("env=%d/%d", o.TargetEnv, o.TargetEnvVersion),
		"spirv=" + o.SpirvVersion.String(),
		fmt.Sprintf("opt=%d", o.OptLevel),
		fmt.Sprintf("lang=%d", o.SourceLanguage),
		fmt.Sprintf("autobind=%t", o.AutoBindUniforms),
		fmt.Sprintf("debug=%t", o.GenerateDebugInfo),
		fmt.Sprintf("forced=%d/%d", o.ForcedVersion, o.ForcedProfile),
		fmt.Sprintf("hlsl=%t/%t", o.HLSLIOMapping, o.HLSLOffsets),
		fmt.Sprintf("warnings=%t/%t", o.SuppressWarnings, o.WarningsAsErrors),
		fmt.Sprintf("validate=%t", o.Validate),
	}

	table := o.MacroTable()
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s = append(s, "macro="+name+"="+table[name])
	}

	for _, kv := range sortedBases(o.BindingBases) {
		s = append(s, "base="+kv)
	}

	stages := make([]int, 0, len(o.StageBindingBases))
	for stage := range o.StageBindingBases {
		stages = append(stages, int(stage))
	}
	sort.Ints(stages)
	for _, stage := range stages {
		for _, kv := range sortedBases(o.StageBindingBases[ShaderKind(stage)]) {
			s = append(s, fmt.Sprintf("stagebase=%d:%s", stage, kv))
		}
	}

	for _, r := range o.HLSLRegisterBindings {
		s = append(s, "register="+r.Register+"/"+r.Set+"/"+r.Binding)
	}

	limits := make([]string, 0, len(o.Limits))
	for name, v := range o.Limits {
		limits = append(limits, fmt.Sprintf("limit=%s=%d", name, v))
	}
	sort.Strings(limits)

	return append(s, limits...)
}

func sortedBases(bases map[ResourceKind]uint32) []string {
	out := make([]string, 0, len(bases))
	for kind, base := range bases {
		out = append(out, fmt.Sprintf("%d=%d", kind, base))
	}
	sort.Strings(out)

	return out
}
