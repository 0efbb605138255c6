package dotconfig

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/desultory/custom-kernel/pkg/kconfig"
)

// namePrefix is prepended to every parameter name that lacks it.
const namePrefix = "CONFIG_"

var (
	nameRe = regexp.MustCompile(`^CONFIG_[A-Za-z0-9_]+$`)

	// basicValueRe matches numeric and tristate tokens, which are emitted
	// bare. Everything else is emitted double-quoted.
	basicValueRe = regexp.MustCompile(`^(-?[0-9]+|[ynm])$`)

	// stringValueRe is the restricted charset permitted in string values.
	stringValueRe = regexp.MustCompile(`^[a-zA-Z0-9/_.,\-= ()]*$`)
)

// validate carries the custom kconfigname and kconfigvalue rules used at
// parameter construction.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag name.
	_ = v.RegisterValidation("kconfigname", func(fl validator.FieldLevel) bool {
		return nameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("kconfigvalue", func(fl validator.FieldLevel) bool {
		return ValidValue(fl.Field().String())
	})
	return v
}

// Parameter is one resolved .config entry. Construct it with NewParameter;
// a zero Parameter is not valid.
type Parameter struct {
	// Name is normalized: uppercase and always prefixed CONFIG_.
	Name string `json:"name" validate:"required,kconfigname"`

	// Value is the raw value text, meaningful only when Defined.
	Value string `json:"value,omitempty" validate:"omitempty,kconfigvalue"`

	// Defined is false iff the value is absent; an undefined parameter
	// renders as `# NAME is not set`.
	Defined bool `json:"defined"`

	// Description, when present, renders as a comment line above the entry.
	Description string `json:"description,omitempty"`
}

// NewParameter builds a validated parameter. A nil value means explicitly
// undefined. A name or value violating the construction invariants returns
// a validation-class error and no parameter.
func NewParameter(name string, value *string, description string) (*Parameter, error) {
	p := &Parameter{
		Name:        NormalizeName(name),
		Description: description,
	}
	if value != nil {
		p.Value = *value
		p.Defined = true
	}
	if err := validate.Struct(p); err != nil {
		return nil, kconfig.NewValidationError("invalid parameter "+p.Name, err)
	}
	return p, nil
}

// NormalizeName uppercases a parameter name and prepends the CONFIG_ prefix
// when missing. Normalization is idempotent.
func NormalizeName(name string) string {
	name = strings.ToUpper(name)
	if !strings.HasPrefix(name, namePrefix) {
		name = namePrefix + name
	}
	return name
}

// ValidValue reports whether a value is a numeric/tristate token or stays
// within the restricted string charset.
func ValidValue(value string) bool {
	return basicValueRe.MatchString(value) || stringValueRe.MatchString(value)
}
