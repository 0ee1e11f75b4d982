/*
Package export turns resolved graph values into game files.

A Context is created per export run. It carries the scene, the output and
work directories, the tool runner and the lifecycle hooks, collects the
produced artifacts and remembers which nodes already exported so that a node
reached through several links runs its tools once.

The steps themselves (ExportHavok, ExportModel, ExportDefinitions) write the
configuration documents the external tools expect and invoke the tools
through ports.ToolRunner.
*/
package export
