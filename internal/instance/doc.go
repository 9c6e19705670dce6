// Package instance validates raw sample mappings against compiled struct
// descriptors.
//
// An Instance wraps one sample. Its Mode decides when members are checked:
//
//   - ModeLazy validates a member on first access and caches the result.
//   - ModeEager validates every member up front; a missing required member
//     is recorded as a warning.
//   - ModeStrict is eager, but missing required members and undeclared keys
//     are collected into one *errdefs.StrictInterruptError.
//
// Nested struct members become nested instances in the same mode; lists of
// structs become []any of *Instance.
package instance
