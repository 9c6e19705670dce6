// Package match provides identifier normalisation and fuzzy name matching.
//
// Field kind names are looked up by their normalised form so that "BBox",
// "bbox" and "b_box" name the same kind. When a lookup misses, Suggest
// ranks the known names by normalised Levenshtein similarity to produce
// "did you mean" hints for diagnostics.
package match
