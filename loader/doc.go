// Package loader initializes runtime modules in dependency order.
//
// Modules are not fetched or evaluated at run time. Compiled code
// registers a Unit per module with a Loader up front, under a package
// name; Load then resolves a module name against the package search order,
// loads its dependencies first and runs its Init exactly once.
//
// # Naming
//
// Module names are dotted ("GHC.Types"). Registry keys are the
// Z-encoded form ("GHCziTypes"), see ZEncode. Two names that Z-encode to
// the same key are the same module.
//
// # Failure handling
//
// Before running any Init, Load walks the whole dependency graph. Unknown
// dependencies are reported together as an
// *errors.MissingDependenciesError and dependency cycles as a cycle
// error. An Init failure is reported to the configured logsink at Error
// severity, the module stays unloaded, and Load returns an init error.
// Modules initialized before the failure stay loaded.
//
// # Concurrency
//
// A Loader is safe for concurrent use. Loads are serialized; an Init
// function must not call Load on the same Loader.
package loader
