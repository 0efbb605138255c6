package kconfig

// Kind identifies which Kconfig construct a Parameter represents.
// A parameter's kind is immutable once created; only its fields mutate as
// continuation lines are processed.
type Kind string

const (
	// KindConfig is a `config NAME` entry.
	KindConfig Kind = "config"

	// KindMenuconfig is a `menuconfig NAME` entry: a config that also
	// opens a menu in interactive frontends.
	KindMenuconfig Kind = "menuconfig"

	// KindMenu is a `menu "title"` block, closed by endmenu.
	KindMenu Kind = "menu"

	// KindChoice is a `choice` block, closed by endchoice.
	KindChoice Kind = "choice"

	// KindIf is an `if COND` block, closed by endif. The condition is
	// captured verbatim and never evaluated.
	KindIf Kind = "if"
)

// HasVariable reports whether the kind carries a variable type
// (config and menuconfig entries do, structural blocks do not).
func (k Kind) HasVariable() bool {
	return k == KindConfig || k == KindMenuconfig
}

// Scoped reports whether the kind opens a scope frame that must be closed
// by a matching end keyword.
func (k Kind) Scoped() bool {
	return k == KindMenu || k == KindChoice || k == KindIf
}

// closer returns the sentinel keyword that closes a scoped kind.
func (k Kind) closer() string {
	switch k {
	case KindMenu:
		return "endmenu"
	case KindChoice:
		return "endchoice"
	case KindIf:
		return "endif"
	default:
		return ""
	}
}

// VarType is the declared type of a config or menuconfig variable.
type VarType string

const (
	VarTypeBool     VarType = "bool"
	VarTypeTristate VarType = "tristate"
	VarTypeString   VarType = "string"
	VarTypeInt      VarType = "int"
)

// Select records a `select NAME [if COND]` line attached to a parameter.
// The condition, when present, is recorded verbatim but not evaluated.
type Select struct {
	// Name is the selected symbol.
	Name string `json:"name"`

	// Condition is the raw text after `if`, empty for unconditional selects.
	Condition string `json:"condition,omitempty"`
}

// Parameter is one parsed Kconfig entity.
type Parameter struct {
	// Kind is the construct this parameter represents.
	Kind Kind `json:"kind"`

	// Name is the identifier or quoted title captured from the start line.
	// Bare openers (`menu`, `choice`, `if`) leave it empty; that is valid,
	// not an error.
	Name string `json:"name,omitempty"`

	// Type is the declared variable type, set by a type continuation line.
	Type VarType `json:"type,omitempty"`

	// Prompt is the quoted text following a type or prompt line.
	Prompt string `json:"prompt,omitempty"`

	// Default is the raw default token from a `default` or `def_<type>` line.
	Default string `json:"default,omitempty"`

	// Value is the raw value token, when a continuation supplied one.
	Value string `json:"value,omitempty"`

	// Help is the accumulated free-text help body, newline-joined.
	Help string `json:"help,omitempty"`

	// Selects are the recorded `select` lines.
	Selects []Select `json:"selects,omitempty"`

	// Scope holds the names of the menu/choice/if frames that were open
	// when this parameter was created, outermost first. Parameters inside
	// nested blocks stay independent entries of their file's tree; Scope
	// preserves where they were declared.
	Scope []string `json:"scope,omitempty"`
}

// addSelect records a select line against the parameter.
func (p *Parameter) addSelect(name, condition string) {
	p.Selects = append(p.Selects, Select{Name: name, Condition: condition})
}

// appendHelp appends one stripped help line to the help body.
func (p *Parameter) appendHelp(line string) {
	if p.Help == "" {
		p.Help = line
		return
	}
	p.Help += "\n" + line
}
