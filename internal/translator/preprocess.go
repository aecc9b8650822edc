package translator

import (
	"fmt"
	"strings"

	"github.com/Norgate-AV/spvc/internal/compiler"
	"github.com/Norgate-AV/spvc/internal/include"
)

// conditional tracks one #ifdef/#ifndef block
type conditional struct {
	parentActive bool
	taken        bool
	sawElse      bool
}

// preprocessor expands include directives and object-like macros ahead of
// WGSL parsing. It keeps an explicit include stack so a cycle is reported
// as soon as it closes rather than when the depth cap is reached.
type preprocessor struct {
	include  compiler.IncludeFunc
	macros   map[string]string
	once     map[string]bool
	stack    []string
	warnings []string
	out      strings.Builder
}

func newPreprocessor(includeFn compiler.IncludeFunc, macros map[string]string) *preprocessor {
	defined := make(map[string]string, len(macros))
	for name, value := range macros {
		defined[name] = value
	}

	return &preprocessor{
		include: includeFn,
		macros:  defined,
		once:    make(map[string]bool),
	}
}

// Process expands source, attributed to file, and returns the result
func (p *preprocessor) Process(source, file string) (string, error) {
	if err := p.expand(source, file, 0); err != nil {
		return "", err
	}

	return p.out.String(), nil
}

func (p *preprocessor) expand(source, file string, level int) error {
	p.stack = append(p.stack, file)
	defer func() { p.stack = p.stack[:len(p.stack)-1] }()

	var conds []conditional
	active := func() bool {
		if len(conds) == 0 {
			return true
		}

		top := conds[len(conds)-1]
		return top.parentActive && top.taken
	}

	lines := strings.Split(source, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				p.out.WriteString(p.substitute(line))
			}
			p.out.WriteByte('\n')
			continue
		}

		directive, arg := splitDirective(trimmed)
		switch directive {
		case "ifdef", "ifndef":
			_, defined := p.macros[firstWord(arg)]
			conds = append(conds, conditional{
				parentActive: active(),
				taken:        defined == (directive == "ifdef"),
			})

		case "else":
			if len(conds) == 0 || conds[len(conds)-1].sawElse {
				return diagnostic(file, lineNo, "#else without matching #ifdef")
			}
			top := &conds[len(conds)-1]
			top.taken = !top.taken
			top.sawElse = true

		case "endif":
			if len(conds) == 0 {
				return diagnostic(file, lineNo, "#endif without matching #ifdef")
			}
			conds = conds[:len(conds)-1]

		default:
			if !active() {
				break
			}

			if err := p.directive(directive, arg, file, lineNo, level); err != nil {
				return err
			}
		}

		p.out.WriteByte('\n')
	}

	if len(conds) > 0 {
		return diagnostic(file, len(lines), "unterminated conditional block")
	}

	return nil
}

func (p *preprocessor) directive(directive, arg, file string, lineNo, level int) error {
	switch directive {
	case "include":
		return p.includeFile(arg, file, lineNo, level)

	case "define":
		name := firstWord(arg)
		if name == "" {
			return diagnostic(file, lineNo, "#define requires a name")
		}
		p.macros[name] = strings.TrimSpace(strings.TrimPrefix(arg, name))

	case "undef":
		delete(p.macros, firstWord(arg))

	case "pragma":
		if firstWord(arg) == "once" {
			p.once[file] = true
			return nil
		}
		p.warn(file, lineNo, "unknown pragma %q ignored", arg)

	default:
		p.warn(file, lineNo, "#%s directive ignored", directive)
	}

	return nil
}

func (p *preprocessor) includeFile(arg, file string, lineNo, level int) error {
	if arg == "" {
		return diagnostic(file, lineNo, "#include expects \"FILENAME\" or <FILENAME>")
	}

	style, ok := include.ParseStyle(arg[0])
	closing := byte('"')
	if style == include.Standard {
		closing = '>'
	}

	end := strings.IndexByte(arg[1:], closing)
	if !ok || end <= 0 {
		return diagnostic(file, lineNo, "#include expects \"FILENAME\" or <FILENAME>")
	}

	name := arg[1 : end+1]

	resolved, err := p.include(name, style, file, level+1)
	if err != nil {
		return fmt.Errorf("%s:%d: error: #include failed: %w", file, lineNo, err)
	}

	if p.once[resolved.Path] {
		return nil
	}

	for _, ancestor := range p.stack {
		if ancestor == resolved.Path {
			chain := append(append([]string(nil), p.stack...), resolved.Path)
			return diagnostic(file, lineNo, "include cycle: "+strings.Join(chain, " -> "))
		}
	}

	return p.expand(resolved.Content, resolved.Path, level+1)
}

// substitute replaces whole identifiers that name a macro with a value
func (p *preprocessor) substitute(line string) string {
	if len(p.macros) == 0 {
		return line
	}

	var b strings.Builder
	for i := 0; i < len(line); {
		if !isIdentStart(line[i]) {
			b.WriteByte(line[i])
			i++
			continue
		}

		j := i + 1
		for j < len(line) && isIdentPart(line[j]) {
			j++
		}

		word := line[i:j]
		if value, ok := p.macros[word]; ok && value != "" {
			b.WriteString(value)
		} else {
			b.WriteString(word)
		}
		i = j
	}

	return b.String()
}

func (p *preprocessor) warn(file string, lineNo int, format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf("%s:%d: warning: %s", file, lineNo, fmt.Sprintf(format, args...)))
}

func diagnostic(file string, lineNo int, msg string) error {
	return fmt.Errorf("%s:%d: error: %s", file, lineNo, msg)
}

// splitDirective splits "#  include <x>" into ("include", "<x>")
func splitDirective(line string) (string, string) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	name := firstWord(rest)

	return name, strings.TrimSpace(strings.TrimPrefix(rest, name))
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
