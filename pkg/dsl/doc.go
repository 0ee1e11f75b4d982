/*
Package dsl provides a Go DSL for programmatically constructing block export graphs.

It builds the same graph documents the file and loam loaders read, without
writing YAML. It is useful for generated layouts, tests and the default graph
of new scenes.

Example usage:

	b := dsl.New("armor")

	b.Add("Main Layer", nodes.KindLayerObjects).
		Layers(1).
		Link("Objects", "Model.Objects")

	b.Add("Model", nodes.KindMwmBuilder).
		Text("Name", "Armor")

	loader, err := b.Build()
	// ... pass loader to blocksmith.New(...)
*/
package dsl
