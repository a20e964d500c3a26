// Package panel normalizes arbitrary widget input into an addressable,
// uniquely identified panel set.
//
// A panel is one map widget placed in a grid view. Callers hand the
// normalizer a mixed bag of inputs - widgets passed individually, whole
// slices of widgets, or higher-level values convertible to widgets via an
// [Adapter] - and receive an ordered []Panel where every widget carries a
// unique identifier usable as a DOM id and runtime lookup key.
//
// Identifiers supplied by the caller are preserved; widgets without one are
// assigned a fresh token. Uniqueness is guaranteed within a single
// normalization call, which is the only scope the downstream wiring needs.
package panel
