package dotconfig

import (
	"testing"
	"testing/fstest"

	"github.com/desultory/custom-kernel/pkg/kconfig"
)

func TestParseOverridesPreservesOrder(t *testing.T) {
	doc, err := ParseOverrides([]byte("ZEBRA: y\nAARDVARK: n\nMIDDLE: m\n"))
	if err != nil {
		t.Fatalf("ParseOverrides failed: %v", err)
	}

	want := []string{"ZEBRA", "AARDVARK", "MIDDLE"}
	if len(doc.Entries) != len(want) {
		t.Fatalf("entries = %d, want %d", len(doc.Entries), len(want))
	}
	for i, name := range want {
		if doc.Entries[i].Name != name {
			t.Errorf("entry %d = %q, want %q", i, doc.Entries[i].Name, name)
		}
	}
}

func TestParseOverridesEntryKinds(t *testing.T) {
	doc, err := ParseOverrides([]byte(`
SCALAR: y
NULLED:
STRUCT:
  value: y
INVALID:
  - a
  - b
`))
	if err != nil {
		t.Fatalf("ParseOverrides failed: %v", err)
	}

	kinds := map[string]EntryKind{}
	for _, e := range doc.Entries {
		kinds[e.Name] = e.Kind
	}
	if kinds["SCALAR"] != EntryScalar {
		t.Errorf("SCALAR kind = %v", kinds["SCALAR"])
	}
	if kinds["NULLED"] != EntryNull {
		t.Errorf("NULLED kind = %v", kinds["NULLED"])
	}
	if kinds["STRUCT"] != EntryStruct {
		t.Errorf("STRUCT kind = %v", kinds["STRUCT"])
	}
	if kinds["INVALID"] != EntryInvalid {
		t.Errorf("INVALID kind = %v", kinds["INVALID"])
	}
}

func TestParseOverridesTemplatesKey(t *testing.T) {
	doc, err := ParseOverrides([]byte("templates:\n  - base\n  - desktop\nFOO: y\n"))
	if err != nil {
		t.Fatalf("ParseOverrides failed: %v", err)
	}
	if len(doc.Templates) != 2 || doc.Templates[0] != "base" || doc.Templates[1] != "desktop" {
		t.Errorf("templates = %v, want [base desktop]", doc.Templates)
	}
	if len(doc.Entries) != 1 || doc.Entries[0].Name != "FOO" {
		t.Errorf("entries = %v, want FOO only", doc.Entries)
	}
}

func TestParseOverridesRejectsNonMapping(t *testing.T) {
	_, err := ParseOverrides([]byte("- a\n- b\n"))
	if !kconfig.IsValidation(err) {
		t.Fatalf("err = %v, want validation class", err)
	}
}

func TestFSTemplates(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/base.yaml": {Data: []byte("BASE: y\n")},
	}
	src := NewFSTemplates(fsys, "")

	for _, name := range []string{"base", "base.yaml"} {
		doc, err := src.Load(name)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", name, err)
		}
		if len(doc.Entries) != 1 || doc.Entries[0].Name != "BASE" {
			t.Errorf("Load(%q) entries = %v", name, doc.Entries)
		}
	}

	if _, err := src.Load("missing"); !kconfig.IsResource(err) {
		t.Errorf("missing template err = %v, want resource class", err)
	}
}

func TestLoadFacts(t *testing.T) {
	fsys := fstest.MapFS{
		"facts.yaml": {Data: []byte("arch: x86\narches:\n  - x86\n  - arm64\n")},
	}
	facts, err := LoadFacts(fsys, "facts.yaml")
	if err != nil {
		t.Fatalf("LoadFacts failed: %v", err)
	}
	if facts["arch"] != "x86" {
		t.Errorf("arch = %v", facts["arch"])
	}
	if seq, ok := facts["arches"].([]any); !ok || len(seq) != 2 {
		t.Errorf("arches = %v, want a two-element sequence", facts["arches"])
	}

	if _, err := LoadFacts(fsys, "missing.yaml"); !kconfig.IsResource(err) {
		t.Errorf("missing facts err = %v, want resource class", err)
	}
}
