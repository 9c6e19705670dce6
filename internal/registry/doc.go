// Package registry provides the owning context for compiled definitions:
// the field kind registry plus the struct, class domain and label tables.
//
// A Registry is created once, filled by the compiler and then read by the
// runtime. Writes take an exclusive lock and reads a shared one; after
// Freeze every write fails with errdefs.ErrFrozen.
package registry
