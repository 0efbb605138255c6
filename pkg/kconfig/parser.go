package kconfig

import (
	"bufio"
	"fmt"
	"path"
	"strings"

	"github.com/desultory/custom-kernel/pkg/telemetry"
)

// DefaultBasePath is the conventional kernel source tree location.
const DefaultBasePath = "/usr/src/linux"

// DefaultArch is substituted for $(SRCARCH) when no architecture is given.
const DefaultArch = "x86"

// Options configures a Parser.
type Options struct {
	// BasePath is the root of the kernel source tree. Used to key files
	// for cycle detection and recorded on every tree node.
	BasePath string

	// Arch is the architecture substituted for $(SRCARCH).
	Arch string

	// Logger receives parse progress and diagnostics. Defaults to a
	// no-op logger.
	Logger *telemetry.Logger
}

// Parser parses a Kconfig file and, transitively, every file it sources.
// Parsing is fully synchronous: a source directive parses the child file
// depth-first before the parent stream continues, so recursion depth equals
// include depth and include cycles are rejected on the active call path.
type Parser struct {
	source   Source
	basePath string
	arch     string
	logger   *telemetry.Logger
}

// NewParser creates a parser reading from the given source.
func NewParser(source Source, opts Options) *Parser {
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	if opts.Arch == "" {
		opts.Arch = DefaultArch
	}
	if opts.Logger == nil {
		opts.Logger = telemetry.Nop()
	}
	return &Parser{
		source:   source,
		basePath: opts.BasePath,
		arch:     opts.Arch,
		logger:   opts.Logger.NewComponentLogger("kconfig"),
	}
}

// Parse parses the named file into a Tree. Non-fatal issues are collected
// as diagnostics on the affected node; only a failure on the root file
// itself returns an error.
func (p *Parser) Parse(filePath string) (*Tree, error) {
	run := &parseRun{parser: p, active: make(map[string]bool)}
	return run.parseFile(filePath)
}

// parseRun carries the state shared across one recursive parse: the set of
// in-progress files on the current call stack, used for cycle detection.
type parseRun struct {
	parser *Parser
	active map[string]bool
}

// frame is one currently-open menu, choice or if block.
type frame struct {
	kind Kind
	name string
}

// fileState is the per-file parser state: the tree under construction, the
// parameter currently accepting continuation lines, the open-scope stack
// and the help accumulation flag.
type fileState struct {
	run      *parseRun
	tree     *Tree
	logger   *telemetry.Logger
	current  *Parameter
	frames   []frame
	helpMode bool
	line     int
}

func (r *parseRun) parseFile(filePath string) (*Tree, error) {
	key := path.Join(r.parser.basePath, filePath)
	if r.active[key] {
		return nil, NewStructuralError("include cycle detected at "+key, nil)
	}
	r.active[key] = true
	defer delete(r.active, key)

	rc, err := r.parser.source.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	st := &fileState{
		run:    r,
		tree:   newTree(r.parser.basePath, filePath, r.parser.arch),
		logger: r.parser.logger.WithFile(filePath),
	}
	st.logger.Debug("parsing config file")

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		st.line++
		st.parseLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, NewResourceError("reading "+filePath, err)
	}

	for i := len(st.frames) - 1; i >= 0; i-- {
		f := st.frames[i]
		st.reportf(SeverityError, ErrorClassStructural,
			"unclosed %s block %q at end of file", f.kind, f.name)
	}
	return st.tree, nil
}

// parseLine advances the state machine by one line.
func (s *fileState) parseLine(raw string) {
	line := strings.TrimRight(raw, " \t")
	line = s.substituteVars(line)
	trimmed := strings.TrimSpace(line)

	// Comment and blank lines never change state, help mode included.
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}

	if s.helpMode {
		if !isStructuralSentinel(trimmed) {
			s.current.appendHelp(trimmed)
			return
		}
		// The terminating line is not consumed: it falls through and is
		// reprocessed as a normal line.
		s.helpMode = false
	}

	if srcPath, ok := matchSource(trimmed); ok {
		s.handleSource(srcPath)
		return
	}

	if s.current != nil {
		if trimmed == "help" {
			s.helpMode = true
			return
		}
		if name, condition, ok := parseSelect(trimmed); ok {
			s.current.addSelect(name, condition)
			if condition != "" {
				s.reportf(SeverityWarning, ErrorClassSyntax,
					"select condition not implemented: %s", trimmed)
			}
			return
		}
		consumed, err := s.current.Continue(trimmed)
		if err != nil {
			s.reportf(SeverityError, ErrorClassStructural, "%s", err.Error())
			return
		}
		if consumed {
			return
		}
	}

	if param, ok := Match(trimmed); ok {
		s.startParameter(param)
		return
	}

	if kind, ok := matchCloser(trimmed); ok {
		s.closeScope(kind, trimmed)
		return
	}

	if trimmed == "help" {
		s.reportf(SeverityError, ErrorClassStructural, "help outside of any block")
		return
	}
	if isVarTypeLine(trimmed) {
		s.reportf(SeverityError, ErrorClassStructural,
			"variable type line outside config block: %s", trimmed)
		return
	}

	// Unknown constructs must not abort the parse: the Kconfig corpus
	// legitimately contains forward and vendor syntax.
	s.reportf(SeverityWarning, ErrorClassSyntax, "unknown line type: %s", trimmed)
}

// startParameter makes the matched parameter current, records the scope it
// was declared in, and pushes a frame if it opens one.
func (s *fileState) startParameter(p *Parameter) {
	if len(s.frames) > 0 {
		p.Scope = make([]string, len(s.frames))
		for i, f := range s.frames {
			p.Scope[i] = f.label()
		}
	}
	s.tree.Params = append(s.tree.Params, p)
	s.current = p
	if p.Kind.Scoped() {
		s.frames = append(s.frames, frame{kind: p.Kind, name: p.Name})
	}
	s.logger.Debugf("entering %s %q", p.Kind, p.Name)
}

// closeScope pops the top scope frame for a matching closer. A mismatched
// or unbalanced closer is a structural error and pops nothing.
func (s *fileState) closeScope(kind Kind, line string) {
	// A closer finalizes whatever parameter was still continuing.
	s.current = nil
	s.helpMode = false

	if len(s.frames) == 0 {
		s.reportf(SeverityError, ErrorClassStructural, "%s with no open block", line)
		return
	}
	top := s.frames[len(s.frames)-1]
	if top.kind != kind {
		s.reportf(SeverityError, ErrorClassStructural,
			"%s does not match open %s block %q", line, top.kind, top.name)
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
	s.logger.Debugf("exiting %s %q", top.kind, top.name)
}

// handleSource expands a source directive into a child tree, parsed
// synchronously before the parent stream continues.
func (s *fileState) handleSource(srcPath string) {
	if strings.HasSuffix(srcPath, ".include") {
		// Vendor-specific opaque blobs are intentionally not parsed.
		s.reportf(SeverityWarning, ErrorClassSyntax, "skipping include file: %s", srcPath)
		return
	}

	child, err := s.run.parseFile(srcPath)
	if err != nil {
		class := ErrorClassResource
		if IsStructural(err) {
			class = ErrorClassStructural
		}
		s.reportf(SeverityError, class, "sourcing %q: %s", srcPath, err.Error())
		return
	}

	if replaced := s.tree.addSub(srcPath, child); replaced {
		s.reportf(SeverityWarning, ErrorClassStructural,
			"duplicate source overwrites earlier sub config: %s", srcPath)
	}
}

// substituteVars applies build variable substitution. $(SRCARCH) is the
// only substitution rule; any other $(...) token passes through unchanged.
func (s *fileState) substituteVars(line string) string {
	if !strings.Contains(line, "$(") {
		return line
	}
	return strings.ReplaceAll(line, "$(SRCARCH)", s.tree.Arch)
}

// reportf records a diagnostic on the tree and mirrors it to the logger.
func (s *fileState) reportf(sev Severity, class ErrorClass, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	s.tree.report(sev, class, s.line, msg)
	if sev == SeverityError {
		s.logger.Errorf("line %d: %s", s.line, msg)
	} else {
		s.logger.Warnf("line %d: %s", s.line, msg)
	}
}

// label names a frame for scope paths: the captured name when present,
// otherwise the block keyword.
func (f frame) label() string {
	if f.name != "" {
		return f.name
	}
	return string(f.kind)
}
