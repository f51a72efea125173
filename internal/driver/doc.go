// Package driver runs a salt compilation: it loads the symbol model,
// applies manifest overrides, resolves script semantics and emits one
// script per module.
//
// Modules are emitted in parallel. Each module gets its own diagnostics
// bag; bags are merged in module order so output is deterministic.
package driver
