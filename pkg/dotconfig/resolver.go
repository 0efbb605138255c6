package dotconfig

import (
	"fmt"

	"github.com/desultory/custom-kernel/pkg/kconfig"
	"github.com/desultory/custom-kernel/pkg/telemetry"
)

// Resolver merges override documents into a validated collection. A single
// resolver is a pure pass over its inputs: it mutates nothing but the
// collection it builds.
type Resolver struct {
	facts     Facts
	templates TemplateSource
	logger    *telemetry.Logger
}

// NewResolver creates a resolver evaluating conditions against the given
// fact table and expanding template groups through the given source. Both
// may be nil when the document uses neither.
func NewResolver(facts Facts, templates TemplateSource, logger *telemetry.Logger) *Resolver {
	if logger == nil {
		logger = telemetry.Nop()
	}
	return &Resolver{
		facts:     facts,
		templates: templates,
		logger:    logger.NewComponentLogger("resolver"),
	}
}

// Resolve builds a collection from the document. Failures are isolated
// item-wise: one bad entry is reported on the collection and skipped, the
// batch continues.
func (r *Resolver) Resolve(doc *Document) (*Collection, error) {
	if doc == nil {
		return nil, kconfig.NewValidationError("nil override document", nil)
	}
	col := NewCollection()
	r.resolveDocument(doc, col, make(map[string]bool))
	return col, nil
}

// resolveDocument expands the document's template groups, then resolves its
// own entries, so later entries overwrite what templates provided.
func (r *Resolver) resolveDocument(doc *Document, col *Collection, expanding map[string]bool) {
	for _, name := range doc.Templates {
		if r.templates == nil {
			col.report(kconfig.SeverityError, kconfig.ErrorClassResource, name,
				"no template source configured")
			continue
		}
		if expanding[name] {
			col.report(kconfig.SeverityWarning, kconfig.ErrorClassStructural, name,
				"template already being expanded, skipping")
			continue
		}
		tpl, err := r.templates.Load(name)
		if err != nil {
			// Missing or malformed templates abandon that group only.
			class := kconfig.ErrorClassResource
			if kconfig.IsValidation(err) {
				class = kconfig.ErrorClassValidation
			}
			col.report(kconfig.SeverityError, class, name, err.Error())
			continue
		}
		r.logger.Debugf("expanding template %q", name)
		expanding[name] = true
		r.resolveDocument(tpl, col, expanding)
		delete(expanding, name)
	}

	for _, entry := range doc.Entries {
		r.resolveEntry(entry, col)
	}
}

// resolveEntry classifies one entry, evaluates its conditions and inserts
// the constructed parameter.
func (r *Resolver) resolveEntry(entry Entry, col *Collection) {
	var (
		value       *string
		description string
	)

	switch entry.Kind {
	case EntryNull:
		// Explicitly undefined: emitted as `# NAME is not set`.
	case EntryScalar:
		v := entry.Scalar
		value = &v
	case EntryStruct:
		spec := entry.Struct
		if !spec.HasValue {
			col.report(kconfig.SeverityError, kconfig.ErrorClassValidation, entry.Name,
				"structured spec is missing required value")
			return
		}
		if len(spec.If) > 0 && !r.anyConditionTrue(entry.Name, spec.If, col) {
			r.logger.Warnf("dropping %s: no condition matched", entry.Name)
			return
		}
		description = spec.Description
		if !spec.ValueNull {
			v := spec.Value
			value = &v
		}
	default:
		col.report(kconfig.SeverityError, kconfig.ErrorClassValidation, entry.Name, entry.Err)
		return
	}

	param, err := NewParameter(entry.Name, value, description)
	if err != nil {
		col.report(kconfig.SeverityError, kconfig.ErrorClassValidation, entry.Name, err.Error())
		return
	}

	if existing, ok := col.Get(param.Name); ok {
		col.report(kconfig.SeverityWarning, kconfig.ErrorClassStructural, param.Name,
			fmt.Sprintf("redefined, overwriting %s", existing.Render()))
	}
	col.Put(param)
}

// anyConditionTrue evaluates the entry's condition list. An expression that
// fails to evaluate is reported and treated as false.
func (r *Resolver) anyConditionTrue(entry string, conditions []Condition, col *Collection) bool {
	matched := false
	for _, c := range conditions {
		ok, err := r.evalCondition(c)
		if err != nil {
			col.report(kconfig.SeverityError, kconfig.ErrorClassStructural, entry, err.Error())
			continue
		}
		if ok {
			matched = true
		}
	}
	return matched
}

// evalCondition evaluates one expression against the fact table. `is`
// compares the value for equality with the fact; `in` tests membership of
// the value inside the sequence stored at the fact.
func (r *Resolver) evalCondition(c Condition) (bool, error) {
	switch {
	case c.Is != "":
		fact, ok := r.facts[c.Is]
		if !ok {
			return false, kconfig.NewStructuralError("unknown fact key: "+c.Is, nil)
		}
		return stringify(c.Value) == stringify(fact), nil
	case c.In != "":
		fact, ok := r.facts[c.In]
		if !ok {
			return false, kconfig.NewStructuralError("unknown fact key: "+c.In, nil)
		}
		seq, ok := fact.([]any)
		if !ok {
			return false, kconfig.NewStructuralError(
				fmt.Sprintf("fact %q is not a sequence", c.In), nil)
		}
		want := stringify(c.Value)
		for _, item := range seq {
			if stringify(item) == want {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, kconfig.NewStructuralError("condition has neither 'is' nor 'in'", nil)
	}
}

// stringify renders fact and condition scalars in one comparable form.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
