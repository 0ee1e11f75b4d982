/*
Package blocksmith evaluates block-export node graphs for a voxel-construction game and drives the external tools that turn them into game-ready files.

A graph document names typed nodes (object selections, template strings, a physics-mesh converter, a model builder, a block definition) and the links between their sockets. The engine builds the document against a scene manifest, resolves socket values by pulling them through the links, and exports every root exporter in dependency order.

# Concept

Sockets are typed pins. An input socket has at most one incoming link, an output may feed any number of inputs. Values are never cached: text, object selections and readiness are recomputed on every query from the live graph. Only exports are deduplicated, once per run.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/blocksmith"
		"github.com/aretw0/blocksmith/pkg/adapters/process"
		"github.com/aretw0/blocksmith/pkg/scene"
	)

	func main() {
		sc, err := scene.Load("scene.yaml")
		if err != nil {
			log.Fatal(err)
		}
		runner, err := process.NewRunner(process.WithTools([]process.ToolConfig{
			{Name: "mwmbuilder", Command: "/opt/me/Tools/MwmBuilder/MwmBuilder.exe"},
		}))
		if err != nil {
			log.Fatal(err)
		}

		engine, err := blocksmith.New("./graphs",
			blocksmith.WithScene(sc),
			blocksmith.WithToolRunner(runner),
		)
		if err != nil {
			log.Fatal(err)
		}

		rec, err := engine.Export(context.Background(), sc.Settings.ExportNodes)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("run %s wrote %d files", rec.RunID, len(rec.Artifacts))
	}

# Architecture

  - pkg/graph: sockets, links, resolution and readiness.
  - pkg/nodes: the node kinds and their registry.
  - pkg/schema: graph documents, validation and building.
  - pkg/export: the export context and the tool-facing file formats.
  - pkg/adapters: loaders (file, loam, memory), ledgers (memory, redis), the process runner, HTTP and MCP servers.
  - pkg/runs: per-graph serialization and recording of export runs.
*/
package blocksmith
