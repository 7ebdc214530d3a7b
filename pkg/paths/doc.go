// Package paths provides centralized path handling for syncsmith.
//
// It locates the syncsmith root (the directory holding config.yaml,
// environment.yaml and the files tree), derives the well-known paths
// beneath it, and offers the layered Resolver used to find a source file
// in an overlay directory before falling back to the base files directory.
package paths
