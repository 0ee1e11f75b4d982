/*
Package domain contains the core entities shared by every Blocksmith package.

It is kept free of I/O so that the graph engine, the exporters and the
adapters can agree on a handful of plain types without importing each other.

# Key Entities

  - ToolCall / ToolResult: a request to run an external command-line tool and its outcome.
  - Artifact: a file produced while exporting a block.
  - ExportRecord: the ledger entry written for every export run.
  - LifecycleHooks: callbacks for observing exports and tool invocations.
*/
package domain
