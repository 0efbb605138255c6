package kconfig

import (
	"errors"
	"strings"
	"testing"
)

// parse is a test helper running a full parse over an in-memory source.
func parse(t *testing.T, files map[string]string, root string) *Tree {
	t.Helper()
	parser := NewParser(MapSource(files), Options{
		BasePath: "/usr/src/linux",
		Arch:     "x86",
	})
	tree, err := parser.Parse(root)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", root, err)
	}
	return tree
}

// diagnostics filters a tree's diagnostics by severity.
func diagnostics(tree *Tree, sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, d := range tree.Diagnostics {
		if d.Severity == sev {
			out = append(out, d)
		}
	}
	return out
}

func TestParseConfigWithTypeAndPrompt(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
config FOO
	bool "Prompt"
	default y
`,
	}, "Kconfig")

	if len(tree.Params) != 1 {
		t.Fatalf("params = %d, want 1", len(tree.Params))
	}
	p := tree.Params[0]
	if p.Kind != KindConfig || p.Name != "FOO" {
		t.Fatalf("parsed %s %q, want config FOO", p.Kind, p.Name)
	}
	if p.Type != VarTypeBool {
		t.Errorf("type = %q, want bool", p.Type)
	}
	if p.Prompt != "Prompt" {
		t.Errorf("prompt = %q, want Prompt", p.Prompt)
	}
	if p.Default != "y" {
		t.Errorf("default = %q, want y", p.Default)
	}
}

func TestParseHelpBlock(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
config FOO
	bool "Foo"
	help
	  line one
	  line two

config NEXT
	bool "Next"
`,
	}, "Kconfig")

	if len(tree.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(tree.Params))
	}
	if got, want := tree.Params[0].Help, "line one\nline two"; got != want {
		t.Errorf("help body = %q, want %q", got, want)
	}
	// The terminating config line starts a new parameter, not a third
	// help line.
	if tree.Params[1].Name != "NEXT" {
		t.Errorf("second parameter = %q, want NEXT", tree.Params[1].Name)
	}
	if tree.Params[1].Help != "" {
		t.Errorf("NEXT help = %q, want empty", tree.Params[1].Help)
	}
}

func TestParseScopeFrames(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
menu "Networking"
if NET
config INET
	bool "TCP/IP"
endif
endmenu

config TOPLEVEL
	bool
`,
	}, "Kconfig")

	if n := len(diagnostics(tree, SeverityError)); n != 0 {
		t.Fatalf("errors = %d, want 0: %v", n, tree.Diagnostics)
	}

	var inet, toplevel *Parameter
	for _, p := range tree.Params {
		switch p.Name {
		case "INET":
			inet = p
		case "TOPLEVEL":
			toplevel = p
		}
	}
	if inet == nil || toplevel == nil {
		t.Fatal("expected INET and TOPLEVEL parameters")
	}
	if got, want := strings.Join(inet.Scope, "/"), "Networking/NET"; got != want {
		t.Errorf("INET scope = %q, want %q", got, want)
	}
	if len(toplevel.Scope) != 0 {
		t.Errorf("TOPLEVEL scope = %v, want empty", toplevel.Scope)
	}
}

func TestParseMismatchedCloser(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
menu "M"
endchoice
endmenu
`,
	}, "Kconfig")

	errs := diagnostics(tree, SeverityError)
	if len(errs) != 1 {
		t.Fatalf("errors = %d, want 1: %v", len(errs), tree.Diagnostics)
	}
	if errs[0].Class != ErrorClassStructural {
		t.Errorf("class = %q, want structural", errs[0].Class)
	}
	// The mismatched endchoice must not pop the menu frame: the later
	// endmenu still closes it, so no unclosed-block error follows.
	if !strings.Contains(errs[0].Message, "endchoice") {
		t.Errorf("message = %q, want endchoice mismatch", errs[0].Message)
	}
}

func TestParseUnbalancedCloserAndUnclosedFrame(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": "endif\nmenu \"M\"\n",
	}, "Kconfig")

	errs := diagnostics(tree, SeverityError)
	if len(errs) != 2 {
		t.Fatalf("errors = %d, want 2: %v", len(errs), tree.Diagnostics)
	}
	if !strings.Contains(errs[0].Message, "no open block") {
		t.Errorf("first error = %q, want unbalanced closer", errs[0].Message)
	}
	if !strings.Contains(errs[1].Message, "unclosed") {
		t.Errorf("second error = %q, want unclosed block", errs[1].Message)
	}
}

func TestParseSourceExpansion(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
source "net/Kconfig"
config ROOT
	bool
`,
		"net/Kconfig": `
config NET
	bool "Networking support"
`,
	}, "Kconfig")

	subs := tree.SubConfigs()
	if len(subs) != 1 || subs[0] != "net/Kconfig" {
		t.Fatalf("sub configs = %v, want [net/Kconfig]", subs)
	}
	child, ok := tree.SubConfig("net/Kconfig")
	if !ok {
		t.Fatal("missing child tree")
	}
	if len(child.Params) != 1 || child.Params[0].Name != "NET" {
		t.Fatalf("child params = %v, want NET", child.Params)
	}
}

func TestParseSrcArchSubstitution(t *testing.T) {
	files := map[string]string{
		"Kconfig":            "source \"arch/$(SRCARCH)/Kconfig\"\n",
		"arch/arm64/Kconfig": "config ARM64\n\tbool\n",
	}
	parser := NewParser(MapSource(files), Options{Arch: "arm64"})
	tree, err := parser.Parse("Kconfig")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	subs := tree.SubConfigs()
	if len(subs) != 1 || subs[0] != "arch/arm64/Kconfig" {
		t.Fatalf("sub configs = %v, want [arch/arm64/Kconfig]", subs)
	}
}

func TestParseSkipsIncludeFiles(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": "source \"vendor/opaque.include\"\n",
	}, "Kconfig")

	if len(tree.SubConfigs()) != 0 {
		t.Fatalf("sub configs = %v, want none", tree.SubConfigs())
	}
	warns := diagnostics(tree, SeverityWarning)
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "include") {
		t.Fatalf("warnings = %v, want one skipped-include warning", warns)
	}
}

func TestParseDuplicateSource(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig":     "source \"sub/Kconfig\"\nsource \"sub/Kconfig\"\n",
		"sub/Kconfig": "config SUB\n\tbool\n",
	}, "Kconfig")

	if len(tree.SubConfigs()) != 1 {
		t.Fatalf("sub configs = %v, want one entry", tree.SubConfigs())
	}
	warns := diagnostics(tree, SeverityWarning)
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "duplicate") {
		t.Fatalf("warnings = %v, want one duplicate-source warning", warns)
	}
}

func TestParseSourceCycle(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{
			name: "self include",
			files: map[string]string{
				"a.kconfig": "source \"a.kconfig\"\n",
			},
		},
		{
			name: "two file cycle",
			files: map[string]string{
				"a.kconfig": "source \"b.kconfig\"\n",
				"b.kconfig": "source \"a.kconfig\"\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.files, "a.kconfig")

			found := false
			_ = tree.Walk(func(node *Tree) error {
				for _, d := range node.Diagnostics {
					if d.Class == ErrorClassStructural && strings.Contains(d.Message, "cycle") {
						found = true
					}
				}
				return nil
			})
			if !found {
				t.Fatal("expected an include-cycle structural diagnostic")
			}
		})
	}
}

func TestParseMissingSourceFile(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": "source \"gone/Kconfig\"\nconfig AFTER\n\tbool\n",
	}, "Kconfig")

	errs := diagnostics(tree, SeverityError)
	if len(errs) != 1 || errs[0].Class != ErrorClassResource {
		t.Fatalf("errors = %v, want one resource error", errs)
	}
	// The failed subtree must not abort the rest of the file.
	if len(tree.Params) != 1 || tree.Params[0].Name != "AFTER" {
		t.Fatalf("params = %v, want AFTER", tree.Params)
	}
}

func TestParseMissingRootFile(t *testing.T) {
	parser := NewParser(MapSource{}, Options{})
	_, err := parser.Parse("Kconfig")
	if err == nil {
		t.Fatal("expected an error for a missing root file")
	}
	if !IsResource(err) {
		t.Fatalf("err = %v, want resource class", err)
	}
	var classified *Error
	if !errors.As(err, &classified) {
		t.Fatalf("err = %T, want *Error", err)
	}
}

func TestParseSelectLines(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
config FOO
	bool
	select BAR
	select BAZ if X86
`,
	}, "Kconfig")

	p := tree.Params[0]
	if len(p.Selects) != 2 {
		t.Fatalf("selects = %v, want 2", p.Selects)
	}
	if p.Selects[0].Name != "BAR" || p.Selects[0].Condition != "" {
		t.Errorf("first select = %+v, want unconditional BAR", p.Selects[0])
	}
	if p.Selects[1].Name != "BAZ" || p.Selects[1].Condition != "X86" {
		t.Errorf("second select = %+v, want BAZ if X86", p.Selects[1])
	}

	// The conditional form is recorded but deliberately not evaluated.
	warns := diagnostics(tree, SeverityWarning)
	if len(warns) != 1 || !strings.Contains(warns[0].Message, "not implemented") {
		t.Fatalf("warnings = %v, want one not-implemented notice", warns)
	}
}

func TestParseTypeLineOutsideBlock(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": "bool \"orphan\"\n",
	}, "Kconfig")

	errs := diagnostics(tree, SeverityError)
	if len(errs) != 1 || errs[0].Class != ErrorClassStructural {
		t.Fatalf("errors = %v, want one structural error", errs)
	}
}

func TestParseUnknownLines(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
config FOO
	bool
	frobnicate 42

config BAR
	bool
`,
	}, "Kconfig")

	// Unknown constructs never abort the parse of the remainder.
	if len(tree.Params) != 2 {
		t.Fatalf("params = %d, want 2", len(tree.Params))
	}
	warns := diagnostics(tree, SeverityWarning)
	if len(warns) != 1 || warns[0].Class != ErrorClassSyntax {
		t.Fatalf("warnings = %v, want one syntax warning", warns)
	}
}

func TestParseCommentsAndBlanksAreSkipped(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
# A comment header.

config FOO
	bool
# trailing comment
`,
	}, "Kconfig")

	if len(tree.Params) != 1 || len(tree.Diagnostics) != 0 {
		t.Fatalf("params = %d diags = %v, want 1 and none", len(tree.Params), tree.Diagnostics)
	}
}

func TestTreeSummarize(t *testing.T) {
	tree := parse(t, map[string]string{
		"Kconfig": `
menu "Top"
config A
	bool
config B
	bool
endmenu
source "sub/Kconfig"
`,
		"sub/Kconfig": "menuconfig C\n\ttristate\n",
	}, "Kconfig")

	summary := tree.Summarize()
	if summary.Files != 2 {
		t.Errorf("files = %d, want 2", summary.Files)
	}
	if summary.Params != 4 {
		t.Errorf("params = %d, want 4", summary.Params)
	}
	if summary.ByKind[KindConfig] != 2 || summary.ByKind[KindMenu] != 1 || summary.ByKind[KindMenuconfig] != 1 {
		t.Errorf("by kind = %v", summary.ByKind)
	}
}
