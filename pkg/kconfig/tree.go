package kconfig

import (
	"encoding/json"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one non-fatal report produced while parsing: an unknown
// line form, an unmatched scope closer, a skipped .include file, a
// duplicate source path, or an unimplemented construct. A parse that only
// produced diagnostics still yields a usable tree.
type Diagnostic struct {
	// Severity grades the report.
	Severity Severity `json:"severity"`

	// Class places the report in the error taxonomy.
	Class ErrorClass `json:"class"`

	// File is the Kconfig file the report originated in.
	File string `json:"file"`

	// Line is the 1-indexed line number.
	Line int `json:"line"`

	// Message is the human-readable report.
	Message string `json:"message"`
}

// Tree is one parsed Kconfig file plus every file it sourced, directly or
// transitively. A tree owns its children exclusively.
type Tree struct {
	// BasePath is the root of the source tree all file paths are relative to.
	BasePath string `json:"base_path"`

	// FilePath is this file's path below BasePath.
	FilePath string `json:"file_path"`

	// Arch is the architecture substituted for $(SRCARCH).
	Arch string `json:"arch"`

	// Params are the parameters declared in this file, in declaration order.
	Params []*Parameter `json:"params"`

	// Diagnostics are the non-fatal reports collected for this file.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	subOrder []string
	subs     map[string]*Tree
}

// newTree creates an empty tree node for one file.
func newTree(basePath, filePath, arch string) *Tree {
	return &Tree{
		BasePath: basePath,
		FilePath: filePath,
		Arch:     arch,
		subs:     make(map[string]*Tree),
	}
}

// SubConfigs returns the sourced child paths in insertion order.
func (t *Tree) SubConfigs() []string {
	out := make([]string, len(t.subOrder))
	copy(out, t.subOrder)
	return out
}

// SubConfig returns the child tree sourced under the given path.
func (t *Tree) SubConfig(path string) (*Tree, bool) {
	sub, ok := t.subs[path]
	return sub, ok
}

// addSub inserts a child tree keyed by its source path and reports whether
// an earlier child under the same path was replaced.
func (t *Tree) addSub(path string, child *Tree) bool {
	_, replaced := t.subs[path]
	if !replaced {
		t.subOrder = append(t.subOrder, path)
	}
	t.subs[path] = child
	return replaced
}

// report records a diagnostic against this file.
func (t *Tree) report(severity Severity, class ErrorClass, line int, message string) {
	t.Diagnostics = append(t.Diagnostics, Diagnostic{
		Severity: severity,
		Class:    class,
		File:     t.FilePath,
		Line:     line,
		Message:  message,
	})
}

// Walk visits this tree and every sub-config depth-first in insertion
// order. Walking stops at the first error returned by the visitor.
func (t *Tree) Walk(visit func(*Tree) error) error {
	if err := visit(t); err != nil {
		return err
	}
	for _, path := range t.subOrder {
		if err := t.subs[path].Walk(visit); err != nil {
			return err
		}
	}
	return nil
}

// Summary aggregates a parsed tree for reporting.
type Summary struct {
	// Files is the number of parsed files, this one included.
	Files int `json:"files"`

	// Params is the total parameter count across all files.
	Params int `json:"params"`

	// ByKind breaks the parameter count down per construct kind.
	ByKind map[Kind]int `json:"by_kind"`

	// Warnings and Errors count the collected diagnostics by severity.
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// Summarize walks the whole tree and aggregates counts.
func (t *Tree) Summarize() Summary {
	s := Summary{ByKind: make(map[Kind]int)}
	_ = t.Walk(func(node *Tree) error {
		s.Files++
		s.Params += len(node.Params)
		for _, p := range node.Params {
			s.ByKind[p.Kind]++
		}
		for _, d := range node.Diagnostics {
			if d.Severity == SeverityError {
				s.Errors++
			} else {
				s.Warnings++
			}
		}
		return nil
	})
	return s
}

// subEntry pairs a source path with its child tree for JSON output, keeping
// insertion order.
type subEntry struct {
	Path string `json:"path"`
	Tree *Tree  `json:"tree"`
}

// MarshalJSON renders the tree with its sub-configs as an ordered list.
func (t *Tree) MarshalJSON() ([]byte, error) {
	subs := make([]subEntry, 0, len(t.subOrder))
	for _, path := range t.subOrder {
		subs = append(subs, subEntry{Path: path, Tree: t.subs[path]})
	}
	type alias Tree
	return json.Marshal(struct {
		*alias
		SubConfigs []subEntry `json:"sub_configs,omitempty"`
	}{
		alias:      (*alias)(t),
		SubConfigs: subs,
	})
}
