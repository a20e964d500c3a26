// Package view turns a panel set, grid plan, and link commands into the
// composed, embeddable artifacts of a lattice view.
//
// # Plan
//
// [Plan] is the serializable projection of one composition: the panels in
// input order, their grid geometry, and the full link command list. It is
// the unit of caching and the JSON artifact format; the HTML renderer and
// the topology diagram both consume it.
//
// # Bootstrap
//
// The HTML artifact carries a single deferred bootstrap script. It runs
// exactly once, on the page's load event: first it builds a registry of
// panel id to live map instance by scanning the mounted panel containers,
// then it applies every link command against that registry. A command whose
// source or target never mounted is skipped individually; the remaining
// commands still apply. Commands cross into the script as one structured
// JSON array - the grouping logic never concatenates script text.
package view
