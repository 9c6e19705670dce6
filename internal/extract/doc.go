// Package extract answers path queries over validated struct instances.
//
// Every struct descriptor is flattened once into an Index of canonical leaf
// paths such as "./objects/*/box", where "*" marks a list position. Exact
// lookups walk an instance segment by segment, kind extraction unions the
// per-kind bitmaps of the index, and pattern queries are compiled against
// the index once per (struct, pattern, kinds) and cached by an Engine.
package extract
