// Package topology renders the sync wiring of a composed view as a
// node-link diagram: one node per panel, one directed edge per link
// command. Diagrams are generated as Graphviz DOT and rasterized with the
// embedded Graphviz engine, so no external binary is required.
//
// The diagram is a diagnostic artifact. Overlapping sync groups emit their
// commands independently, and the diagram shows exactly what was generated,
// duplicate edges included.
package topology
