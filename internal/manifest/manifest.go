// Package manifest loads HCL build manifests that list a batch of shaders
// and the include directories they share.
//
//	include_dirs = ["${manifest_dir}/lib"]
//
//	shader "sky" {
//	  path  = "sky.vert"
//	  kind  = "vertex"
//	  cache = true
//	}
//
// Relative paths are resolved against the directory holding the manifest.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/Norgate-AV/spvc/internal/compiler"
)

// DirVariable is the variable exposing the manifest's directory
const DirVariable = "manifest_dir"

// Manifest is a decoded build manifest
type Manifest struct {
	// Path is the absolute path of the manifest file
	Path        string
	IncludeDirs []string
	Shaders     []Shader
}

// Shader is a single build target
type Shader struct {
	Name     string
	Path     string
	Kind     compiler.ShaderKind
	UseCache bool
}

type hclManifest struct {
	IncludeDirs []string     `hcl:"include_dirs,optional"`
	Shaders     []*hclShader `hcl:"shader,block"`
}

type hclShader struct {
	Name  string  `hcl:"name,label"`
	Path  string  `hcl:"path"`
	Kind  *string `hcl:"kind,optional"`
	Cache *bool   `hcl:"cache,optional"`
}

// Load parses and validates the manifest at path
func Load(path string) (*Manifest, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return parse(src, absPath)
}

// parse decodes manifest source attributed to absPath, which is also the
// base for relative paths
func parse(src []byte, absPath string) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, absPath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", absPath, diags)
	}

	return decode(file, absPath)
}

func decode(file *hcl.File, absPath string) (*Manifest, error) {
	dir := filepath.Dir(absPath)
	ctx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			DirVariable: cty.StringVal(dir),
		},
	}

	var raw hclManifest
	if diags := gohcl.DecodeBody(file.Body, ctx, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", absPath, diags)
	}

	m := &Manifest{
		Path:        absPath,
		IncludeDirs: make([]string, 0, len(raw.IncludeDirs)),
		Shaders:     make([]Shader, 0, len(raw.Shaders)),
	}

	for _, d := range raw.IncludeDirs {
		m.IncludeDirs = append(m.IncludeDirs, resolve(dir, d))
	}

	seen := make(map[string]bool, len(raw.Shaders))
	for _, s := range raw.Shaders {
		if seen[s.Name] {
			return nil, fmt.Errorf("%s: duplicate shader %q", absPath, s.Name)
		}
		seen[s.Name] = true

		shader, err := newShader(s, dir)
		if err != nil {
			return nil, fmt.Errorf("%s: shader %q: %w", absPath, s.Name, err)
		}
		m.Shaders = append(m.Shaders, shader)
	}

	return m, nil
}

func newShader(s *hclShader, dir string) (Shader, error) {
	if s.Path == "" {
		return Shader{}, fmt.Errorf("path must not be empty")
	}

	shader := Shader{
		Name:     s.Name,
		Path:     resolve(dir, s.Path),
		UseCache: true,
	}

	if s.Cache != nil {
		shader.UseCache = *s.Cache
	}

	var err error
	if s.Kind != nil {
		shader.Kind, err = compiler.ParseKind(*s.Kind)
	} else {
		shader.Kind, err = compiler.KindFromPath(shader.Path)
	}
	if err != nil {
		return Shader{}, err
	}

	return shader, nil
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(dir, path)
}
