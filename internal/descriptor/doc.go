// Package descriptor holds the compiled, immutable representation of schema
// declarations: struct descriptors, class domains and field specs.
//
// Descriptors are built by the compiler and read by the runtime. Once a
// descriptor is registered it is never mutated; the only writable part is
// the memo used to cache derived data such as the flattened path index.
package descriptor
