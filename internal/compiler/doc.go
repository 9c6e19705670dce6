// Package compiler turns schema documents into compiled struct and class
// domain descriptors and registers them.
//
// # Pipeline
//
//  1. Load and merge the root document and everything it imports.
//     Imported definitions merge first; root definitions override them.
//  2. Validate definition, field and parameter names.
//  3. Parse every field type expression into a FieldSpec.
//  4. Parse class domains: trim and check categories and skeletons.
//  5. Order structs so referencing structs come before referenced ones;
//     reference cycles are fatal.
//  6. Propagate generic parameter bindings from the data section down the
//     reference graph.
//  7. Register class domains, then structs. Nothing is registered if any
//     error was found.
//
// In normal mode the first error aborts compilation. In report mode every
// problem is collected into Result.Diagnostics and Compile returns a nil
// error.
package compiler
