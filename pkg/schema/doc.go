// Package schema reads, writes and validates graph documents and turns them
// into graphs.
//
// A document lists nodes by name and kind, and links by socket reference:
//
//	name: armor
//	nodes:
//	  - name: Main Layer
//	    kind: LayerObjects
//	    settings:
//	      layers: [1]
//	  - name: Model
//	    kind: MwmBuilder
//	    sockets:
//	      Name: {text: "Armor"}
//	      LOD[1]: {distance: 25}
//	links:
//	  - from: Main Layer.Objects
//	    to: Model.Objects
//
// A socket reference is the node name, a dot and the socket name. Repeated
// socket names take a 0-based index suffix, so "Model.LOD[2]" is the third
// LOD input. Node and socket names may contain dots; the longest node name
// that prefixes the reference wins.
//
// Documents are YAML. JSON is accepted on input since it is valid YAML.
package schema
