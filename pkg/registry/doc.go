// Package registry provides a generic, type-safe name to item store.
// Module descriptors are registered into one at startup so the runner
// can resolve a configured module name without any runtime discovery.
package registry
