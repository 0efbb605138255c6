package dotconfig

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/desultory/custom-kernel/pkg/kconfig"
)

// templatesKey is the reserved top-level key naming template groups.
const templatesKey = "templates"

// EntryKind classifies the raw form of one override entry.
type EntryKind int

const (
	// EntryScalar is a plain scalar spec: the scalar is the value.
	EntryScalar EntryKind = iota

	// EntryNull is an explicit null spec: the parameter is undefined.
	EntryNull

	// EntryStruct is a structured spec with value/description/if fields.
	EntryStruct

	// EntryInvalid is a spec the loader could not classify. The resolver
	// reports it and skips the entry.
	EntryInvalid
)

// Condition is one expression of a structured spec's `if` list: an equality
// test (is) or a membership test (in) of Value against a fact table key.
type Condition struct {
	Value any    `yaml:"value"`
	Is    string `yaml:"is,omitempty"`
	In    string `yaml:"in,omitempty"`
}

// Spec is the structured form of an override entry.
type Spec struct {
	// HasValue records whether a value field was present at all; its
	// absence is a per-entry error.
	HasValue bool

	// ValueNull records an explicit `value: null`, meaning undefined.
	ValueNull bool

	// Value is the raw scalar value text.
	Value string

	// Description is an optional comment emitted above the entry.
	Description string

	// If lists the conditions; if present and none evaluates true the
	// entry is dropped entirely.
	If []Condition
}

// Entry is one override entry in document order.
type Entry struct {
	// Name is the raw, un-normalized entry name.
	Name string

	// Kind classifies the spec shape.
	Kind EntryKind

	// Scalar is the value text for EntryScalar specs.
	Scalar string

	// Struct is the decoded spec for EntryStruct entries.
	Struct *Spec

	// Err describes why an EntryInvalid entry could not be decoded.
	Err string
}

// Document is a parsed override document: template group names to expand
// first, then the entries in input order.
type Document struct {
	Templates []string
	Entries   []Entry
}

// ParseOverrides decodes an override document, preserving the mapping's
// iteration order.
func ParseOverrides(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, kconfig.NewValidationError("parsing override document", err)
	}
	if len(root.Content) == 0 {
		return &Document{}, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, kconfig.NewValidationError("override document must be a mapping", nil)
	}

	doc := &Document{}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valNode := mapping.Content[i+1]

		if keyNode.Value == templatesKey {
			names, err := decodeStringList(valNode)
			if err != nil {
				return nil, err
			}
			doc.Templates = append(doc.Templates, names...)
			continue
		}
		doc.Entries = append(doc.Entries, decodeEntry(keyNode.Value, valNode))
	}
	return doc, nil
}

// decodeEntry classifies one name/spec pair. Decode problems never fail the
// document: they produce an EntryInvalid the resolver reports item-wise.
func decodeEntry(name string, node *yaml.Node) Entry {
	entry := Entry{Name: name}

	switch {
	case node.Tag == "!!null":
		entry.Kind = EntryNull
	case node.Kind == yaml.ScalarNode:
		entry.Kind = EntryScalar
		entry.Scalar = node.Value
	case node.Kind == yaml.MappingNode:
		spec, err := decodeSpec(node)
		if err != nil {
			entry.Kind = EntryInvalid
			entry.Err = err.Error()
			break
		}
		entry.Kind = EntryStruct
		entry.Struct = spec
	default:
		entry.Kind = EntryInvalid
		entry.Err = fmt.Sprintf("unsupported spec shape (yaml kind %d)", node.Kind)
	}
	return entry
}

// decodeSpec decodes the structured spec form.
func decodeSpec(node *yaml.Node) (*Spec, error) {
	var raw struct {
		Value       yaml.Node   `yaml:"value"`
		Description string      `yaml:"description"`
		If          []Condition `yaml:"if"`
	}
	if err := node.Decode(&raw); err != nil {
		return nil, err
	}

	spec := &Spec{
		Description: raw.Description,
		If:          raw.If,
	}
	if !raw.Value.IsZero() {
		spec.HasValue = true
		switch {
		case raw.Value.Tag == "!!null":
			spec.ValueNull = true
		case raw.Value.Kind == yaml.ScalarNode:
			spec.Value = raw.Value.Value
		default:
			return nil, fmt.Errorf("value must be a scalar or null")
		}
	}
	return spec, nil
}

// decodeStringList accepts a single scalar or a sequence of scalars; a
// singular name is treated as a one-element list.
func decodeStringList(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return []string{node.Value}, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, kconfig.NewValidationError("template list items must be scalars", nil)
			}
			out = append(out, item.Value)
		}
		return out, nil
	default:
		return nil, kconfig.NewValidationError("templates must be a name or list of names", nil)
	}
}

// TemplateSource loads named template documents for expansion.
type TemplateSource interface {
	// Load returns the template document stored under name. A missing
	// template must surface as a resource-class error.
	Load(name string) (*Document, error)
}

// FSTemplates serves template documents from a directory inside an fs.FS.
type FSTemplates struct {
	fsys fs.FS
	dir  string
}

// NewFSTemplates creates a template source reading `<dir>/<name>.yaml`
// files from the given filesystem. An empty dir defaults to "templates".
func NewFSTemplates(fsys fs.FS, dir string) *FSTemplates {
	if dir == "" {
		dir = "templates"
	}
	return &FSTemplates{fsys: fsys, dir: dir}
}

// Load implements TemplateSource. The .yaml suffix is appended when the
// name does not already carry it.
func (t *FSTemplates) Load(name string) (*Document, error) {
	if !strings.HasSuffix(name, ".yaml") {
		name += ".yaml"
	}
	data, err := fs.ReadFile(t.fsys, path.Join(t.dir, name))
	if err != nil {
		return nil, kconfig.NewResourceError("loading template "+name, err)
	}
	return ParseOverrides(data)
}

// MapTemplates serves template documents from an in-memory map keyed by
// template name (without the .yaml suffix). Used by tests.
type MapTemplates map[string]string

// Load implements TemplateSource.
func (t MapTemplates) Load(name string) (*Document, error) {
	name = strings.TrimSuffix(name, ".yaml")
	content, ok := t[name]
	if !ok {
		return nil, kconfig.NewResourceError("loading template "+name, fs.ErrNotExist)
	}
	return ParseOverrides([]byte(content))
}

// Facts is the external fact table conditions are evaluated against.
// Values are scalars or sequences as loaded from YAML.
type Facts map[string]any

// LoadOverrides reads and parses an override document from a filesystem.
func LoadOverrides(fsys fs.FS, path string) (*Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, kconfig.NewResourceError("loading overrides "+path, err)
	}
	return ParseOverrides(data)
}

// LoadFacts reads a fact table from a YAML file.
func LoadFacts(fsys fs.FS, path string) (Facts, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, kconfig.NewResourceError("loading facts "+path, err)
	}
	facts := make(Facts)
	if err := yaml.Unmarshal(data, &facts); err != nil {
		return nil, kconfig.NewValidationError("parsing facts "+path, err)
	}
	return facts, nil
}
