// Package translator provides shader translators for the compiler.
//
// Naga compiles WGSL to SPIR-V with the pure Go gogpu/naga pipeline. Source
// text first passes through a small preprocessor that understands #include,
// #define/#undef, #ifdef/#ifndef/#else/#endif and #pragma once, so shader
// libraries can be shared through include directories.
package translator

import (
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/Norgate-AV/spvc/internal/cache"
	"github.com/Norgate-AV/spvc/internal/compiler"
	"github.com/Norgate-AV/spvc/internal/include"
)

// Naga translates WGSL through gogpu/naga
type Naga struct{}

// NewNaga creates a WGSL translator
func NewNaga() *Naga {
	return &Naga{}
}

// Translate implements compiler.Translator
func (n *Naga) Translate(req *compiler.TranslateRequest) (*compiler.TranslateResult, error) {
	opts := req.Options
	if opts == nil {
		defaults := compiler.DefaultOptions()
		opts = &defaults
	}

	if opts.SourceLanguage != compiler.LanguageWGSL {
		return nil, fmt.Errorf("%s: naga translator only accepts WGSL source", req.SourceName)
	}

	stage, err := stageFor(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.SourceName, err)
	}

	includeFn := req.Include
	if includeFn == nil {
		includeFn = noIncludes
	}

	pp := newPreprocessor(includeFn, opts.MacroTable())
	source, err := pp.Process(req.Source, req.SourceName)
	if err != nil {
		return nil, err
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.SourceName, err)
	}

	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.SourceName, err)
	}

	if opts.Validate {
		if err := validate(module); err != nil {
			return nil, fmt.Errorf("%s: %w", req.SourceName, err)
		}
	}

	if err := checkEntryPoint(module, req.EntryPoint, stage); err != nil {
		return nil, fmt.Errorf("%s: %w", req.SourceName, err)
	}

	binary, err := naga.GenerateSPIRV(module, spirv.Options{
		Version:    spirv.Version{Major: opts.SpirvVersion.Major, Minor: opts.SpirvVersion.Minor},
		Debug:      opts.GenerateDebugInfo,
		Validation: opts.Validate,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req.SourceName, err)
	}

	words, err := cache.DecodeWords(binary)
	if err != nil {
		return nil, fmt.Errorf("%s: malformed SPIR-V output: %w", req.SourceName, err)
	}

	warnings := pp.warnings
	if opts.SuppressWarnings {
		warnings = nil
	}

	if opts.WarningsAsErrors && len(warnings) > 0 {
		return nil, fmt.Errorf("warnings treated as errors:\n%s", strings.Join(warnings, "\n"))
	}

	return &compiler.TranslateResult{
		Words:    words,
		Warnings: warnings,
	}, nil
}

func stageFor(kind compiler.ShaderKind) (ir.ShaderStage, error) {
	switch kind {
	case compiler.Vertex:
		return ir.StageVertex, nil
	case compiler.Fragment:
		return ir.StageFragment, nil
	case compiler.Compute:
		return ir.StageCompute, nil
	default:
		return 0, fmt.Errorf("%s shaders are not supported by WGSL", kind)
	}
}

func validate(module *ir.Module) error {
	validationErrors, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if len(validationErrors) == 0 {
		return nil
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, ve := range validationErrors {
		msgs = append(msgs, ve.Message)
	}

	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}

func checkEntryPoint(module *ir.Module, name string, stage ir.ShaderStage) error {
	for _, ep := range module.EntryPoints {
		if ep.Name == name && ep.Stage == stage {
			return nil
		}
	}

	return fmt.Errorf("entry point %q not found for %s stage", name, stageName(stage))
}

func stageName(stage ir.ShaderStage) string {
	switch stage {
	case ir.StageVertex:
		return "vertex"
	case ir.StageFragment:
		return "fragment"
	case ir.StageCompute:
		return "compute"
	default:
		return fmt.Sprintf("stage %d", stage)
	}
}

func noIncludes(requested string, _ include.Style, _ string, _ int) (*include.Resolved, error) {
	return nil, &include.NotFoundError{Name: requested}
}
