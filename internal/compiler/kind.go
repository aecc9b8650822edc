package compiler

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ShaderKind is the pipeline stage a source file is compiled for
type ShaderKind int

const (
	Vertex ShaderKind = iota
	Fragment
	Compute
	Geometry
	TessControl
	TessEvaluation
)

var kindNames = map[ShaderKind]string{
	Vertex:         "vertex",
	Fragment:       "fragment",
	Compute:        "compute",
	Geometry:       "geometry",
	TessControl:    "tess_control",
	TessEvaluation: "tess_evaluation",
}

// kindAliases maps accepted spellings, including file extensions, to kinds
var kindAliases = map[string]ShaderKind{
	"vertex":          Vertex,
	"vert":            Vertex,
	"vs":              Vertex,
	"fragment":        Fragment,
	"frag":            Fragment,
	"fs":              Fragment,
	"compute":         Compute,
	"comp":            Compute,
	"cs":              Compute,
	"geometry":        Geometry,
	"geom":            Geometry,
	"tess_control":    TessControl,
	"tesc":            TessControl,
	"tess_evaluation": TessEvaluation,
	"tese":            TessEvaluation,
}

func (k ShaderKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("ShaderKind(%d)", int(k))
}

// ParseKind parses a shader kind name or short alias
func ParseKind(s string) (ShaderKind, error) {
	if kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return kind, nil
	}

	return 0, fmt.Errorf("unknown shader kind: %q", s)
}

// KindFromPath infers the shader kind from a file name such as sky.vert or
// sky.vert.wgsl
func KindFromPath(path string) (ShaderKind, error) {
	name := filepath.Base(path)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		if kind, ok := kindAliases[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
			return kind, nil
		}

		name = strings.TrimSuffix(name, ext)
	}

	return 0, fmt.Errorf("cannot infer shader kind from %s", filepath.Base(path))
}
