// Package filesystem provides the filesystem abstraction every
// reconciliation step goes through.
//
// The default implementation is backed by afero: the OS filesystem in
// production and MemMapFs in tests that do not need symbolic links. A
// second implementation routes mutations through sudo for entries that
// target privileged locations, while reads stay direct.
package filesystem
