// Package scene describes the objects a content-creation host exported for a block.
//
// A Scene is read from a YAML manifest and is never modified by the graph
// engine: nodes only select subsets of its objects.
package scene
