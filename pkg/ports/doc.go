/*
Package ports defines the driven ports (interfaces) of Blocksmith.

These interfaces decouple the graph engine and the exporters from the places
graph documents come from, the way external tools are run and where export
runs are recorded.

# Key Interfaces

  - GraphLoader: Loads graph documents (e.g., from files, Loam or memory).
  - ToolRunner: Runs one registered external tool.
  - ExportLedger: Records export runs (memory or Redis).
  - BlockEngine: The surface served by the HTTP and MCP adapters.
*/
package ports
