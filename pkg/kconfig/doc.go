// Package kconfig parses the Linux kernel's Kconfig configuration language.
//
// Kconfig is a line-oriented description language with no consistent block
// delimiters: blocks open on keywords (config, menuconfig, menu, choice, if)
// and close on keyword sentinels (endmenu, endchoice, endif) or simply when
// the next block starts. Definitions are split across many files stitched
// together with source directives rooted at an architecture-specific tree.
//
// The parser is a recursive, stateful line interpreter. Each file becomes a
// Tree node; source directives expand depth-first into child Tree nodes,
// with include cycles detected on the active call path. Unknown constructs
// are recorded as diagnostics and never abort the parse: real Kconfig
// corpora contain forward and vendor syntax this engine does not need to
// fully understand.
//
// Kconfig dependency expressions (if conditions, select ... if) are
// recognized syntactically but never evaluated.
package kconfig
