package kconfig

import (
	"regexp"
	"strings"
)

// Start patterns are tested in a fixed priority order. Ties are impossible:
// every pattern is anchored on its keyword and the keywords are mutually
// exclusive at the first token.
var startPatterns = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindChoice, regexp.MustCompile(`^choice(?:\s+(.+))?$`)},
	{KindMenu, regexp.MustCompile(`^menu(?:\s+(.+))?$`)},
	{KindMenuconfig, regexp.MustCompile(`^menuconfig(?:\s+(\S+))?$`)},
	{KindConfig, regexp.MustCompile(`^config(?:\s+(\S+))?$`)},
	{KindIf, regexp.MustCompile(`^if(?:\s+(.+))?$`)},
}

var (
	typeLineRe = regexp.MustCompile(`^(bool|tristate|string|int)(?:\s+"([^"]*)")?\s*$`)
	defLineRe  = regexp.MustCompile(`^def_(bool|tristate|string|int)\s+(.+)$`)
	defaultRe  = regexp.MustCompile(`^default\s+(.+)$`)
	promptRe   = regexp.MustCompile(`^prompt\s+(.+)$`)
	selectRe   = regexp.MustCompile(`^select\s+(\S+)(?:\s+if\s+(.+))?$`)
	closerRe   = regexp.MustCompile(`^(endmenu|endchoice|endif)\s*$`)
	sourceRe   = regexp.MustCompile(`^source\s+"(.+)"\s*$`)
)

// New constructs a parameter of an explicitly requested kind. Used when a
// continuation has already determined context and no pattern test is needed.
func New(kind Kind, name string) *Parameter {
	return &Parameter{Kind: kind, Name: name}
}

// Match tests a trimmed candidate line against each start pattern in
// priority order and returns the parameter it opens, or false when the line
// starts no block. A captured trailing name or quoted title seeds the
// parameter's Name; a bare opener leaves it empty.
func Match(line string) (*Parameter, bool) {
	for _, sp := range startPatterns {
		m := sp.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		return New(sp.kind, unquote(strings.TrimSpace(m[1]))), true
	}
	return nil, false
}

// Continue offers a non-structural line to the parameter as a continuation.
// It reports whether the line was consumed. A variable type line offered to
// a parameter that cannot carry one (menu, if) is a protocol violation and
// returns a structural error with the line unconsumed.
func (p *Parameter) Continue(line string) (bool, error) {
	if m := defLineRe.FindStringSubmatch(line); m != nil {
		if !p.Kind.HasVariable() {
			return false, NewStructuralError(
				"default type line outside config block: "+line, nil)
		}
		p.Type = VarType(m[1])
		p.Default = strings.TrimSpace(m[2])
		return true, nil
	}

	if m := typeLineRe.FindStringSubmatch(line); m != nil {
		switch {
		case p.Kind.HasVariable():
			p.Type = VarType(m[1])
			if m[2] != "" {
				p.Prompt = m[2]
			}
		case p.Kind == KindChoice:
			// A type line inside a choice names the choice's prompt.
			p.Type = VarType(m[1])
			if m[2] != "" {
				p.Prompt = m[2]
				if p.Name == "" {
					p.Name = m[2]
				}
			}
		default:
			return false, NewStructuralError(
				"variable type line outside config block: "+line, nil)
		}
		return true, nil
	}

	if m := defaultRe.FindStringSubmatch(line); m != nil {
		p.Default = strings.TrimSpace(m[1])
		return true, nil
	}

	if m := promptRe.FindStringSubmatch(line); m != nil {
		p.Prompt = unquote(strings.TrimSpace(m[1]))
		return true, nil
	}

	return false, nil
}

// parseSelect recognizes `select NAME [if COND]` lines. The condition is
// returned verbatim; evaluating it is deliberately unimplemented.
func parseSelect(line string) (name, condition string, ok bool) {
	m := selectRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// matchCloser recognizes scope closer sentinels and returns the kind of
// frame each one closes.
func matchCloser(line string) (Kind, bool) {
	m := closerRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	switch m[1] {
	case "endmenu":
		return KindMenu, true
	case "endchoice":
		return KindChoice, true
	default:
		return KindIf, true
	}
}

// matchSource recognizes `source "path"` directives.
func matchSource(line string) (path string, ok bool) {
	m := sourceRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// isVarTypeLine reports whether the line declares a variable type, with or
// without the def_ prefix.
func isVarTypeLine(line string) bool {
	return typeLineRe.MatchString(line) || defLineRe.MatchString(line)
}

// isStructuralSentinel reports whether a line terminates free-text help
// accumulation: a source directive, another block opener, a scope closer,
// or a recognized variable, default, prompt or select keyword.
func isStructuralSentinel(line string) bool {
	if _, ok := matchSource(line); ok {
		return true
	}
	if _, ok := Match(line); ok {
		return true
	}
	if _, ok := matchCloser(line); ok {
		return true
	}
	if isVarTypeLine(line) || defaultRe.MatchString(line) ||
		promptRe.MatchString(line) || selectRe.MatchString(line) {
		return true
	}
	return false
}

// unquote strips one pair of surrounding double quotes, if present.
func unquote(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
