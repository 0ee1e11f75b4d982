/*
Package runs coordinates export runs.

Exports of the same graph write the same files, so the Manager serializes them
per graph name, optionally across processes through a ports.DistributedLocker,
and records every finished run in a ports.ExportLedger.
*/
package runs
