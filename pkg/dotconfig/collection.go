package dotconfig

import (
	"github.com/desultory/custom-kernel/pkg/kconfig"
)

// Diagnostic is one non-fatal report produced while resolving overrides.
type Diagnostic struct {
	// Severity grades the report.
	Severity kconfig.Severity `json:"severity"`

	// Class places the report in the shared error taxonomy.
	Class kconfig.ErrorClass `json:"class"`

	// Entry is the override entry the report concerns.
	Entry string `json:"entry,omitempty"`

	// Message is the human-readable report.
	Message string `json:"message"`
}

// Collection is a mapping from normalized parameter name to Parameter,
// preserving insertion order for deterministic emission. Entries are
// written exactly once per name, last write wins.
type Collection struct {
	// Diagnostics are the non-fatal reports collected while resolving.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	order  []string
	params map[string]*Parameter
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{params: make(map[string]*Parameter)}
}

// Put inserts a parameter under its name and reports whether an existing
// record was overwritten.
func (c *Collection) Put(p *Parameter) bool {
	_, replaced := c.params[p.Name]
	if !replaced {
		c.order = append(c.order, p.Name)
	}
	c.params[p.Name] = p
	return replaced
}

// Get returns the parameter stored under a normalized name.
func (c *Collection) Get(name string) (*Parameter, bool) {
	p, ok := c.params[name]
	return p, ok
}

// Names returns the parameter names in insertion order.
func (c *Collection) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Parameters returns the parameters in insertion order.
func (c *Collection) Parameters() []*Parameter {
	out := make([]*Parameter, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.params[name])
	}
	return out
}

// Len returns the number of stored parameters.
func (c *Collection) Len() int {
	return len(c.order)
}

// report records a diagnostic against the collection.
func (c *Collection) report(sev kconfig.Severity, class kconfig.ErrorClass, entry, message string) {
	c.Diagnostics = append(c.Diagnostics, Diagnostic{
		Severity: sev,
		Class:    class,
		Entry:    entry,
		Message:  message,
	})
}
