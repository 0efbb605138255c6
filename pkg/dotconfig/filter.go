package dotconfig

import (
	"github.com/gobwas/glob"

	"github.com/desultory/custom-kernel/pkg/kconfig"
)

// Filter returns a new collection holding only the parameters whose
// normalized name matches the glob pattern, in the original order.
// Diagnostics are not carried over.
func (c *Collection) Filter(pattern string) (*Collection, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, kconfig.NewValidationError("invalid filter pattern "+pattern, err)
	}
	out := NewCollection()
	for _, p := range c.Parameters() {
		if g.Match(p.Name) {
			out.Put(p)
		}
	}
	return out, nil
}
