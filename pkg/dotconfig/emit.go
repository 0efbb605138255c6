package dotconfig

import (
	"strings"
)

// Render renders the parameter in canonical .config form. A description
// becomes a comment line above the entry; numeric and tristate values are
// emitted bare, everything else double-quoted; an undefined parameter
// renders as the `is not set` comment form.
func (p *Parameter) Render() string {
	var b strings.Builder
	if p.Description != "" {
		b.WriteString("# ")
		b.WriteString(p.Description)
		b.WriteByte('\n')
	}
	if !p.Defined {
		b.WriteString("# ")
		b.WriteString(p.Name)
		b.WriteString(" is not set")
		return b.String()
	}
	value := p.Value
	if !basicValueRe.MatchString(value) {
		value = `"` + value + `"`
	}
	b.WriteString(p.Name)
	b.WriteByte('=')
	b.WriteString(value)
	return b.String()
}

// Render renders every parameter in insertion order, one record per line.
func (c *Collection) Render() string {
	var b strings.Builder
	for _, p := range c.Parameters() {
		b.WriteString(p.Render())
		b.WriteByte('\n')
	}
	return b.String()
}
