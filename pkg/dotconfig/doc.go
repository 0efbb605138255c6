// Package dotconfig resolves declarative kernel parameter overrides into
// validated records and renders them as canonical .config text.
//
// An override document is a YAML mapping from parameter name to either a
// plain scalar (the value), null (explicitly undefined), or a structured
// record carrying a value, an optional description, and optional conditions
// evaluated against an external fact table. The reserved top-level
// `templates` key expands named template documents into the same collection
// first, so a site override file can layer on shared baselines.
//
// Resolution is item-wise isolated: one malformed entry is reported and
// skipped without aborting the batch. Redefinitions warn and then the last
// write wins, preserving the input's iteration order.
package dotconfig
