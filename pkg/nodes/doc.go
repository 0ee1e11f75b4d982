// Package nodes implements the node kinds of a block export graph.
//
// Exporter nodes called with a nil export context only resolve the reference
// they would return; no files are written and no tools run.
package nodes
