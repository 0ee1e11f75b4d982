package domain

import "errors"

// ErrNotExporter is returned when an output export socket sits on a node that cannot export.
var ErrNotExporter = errors.New("socket is not on an exporter node")

// ErrNotLinked is returned when an input export socket has no exporting source.
var ErrNotLinked = errors.New("socket is not linked to an exporting source")

// ErrNotReady is returned when an export is requested for a node whose inputs are incomplete.
var ErrNotReady = errors.New("node is not ready for export")

// ErrSelfLink is returned when both ends of a link belong to the same node.
var ErrSelfLink = errors.New("link endpoints belong to the same node")

// ErrDirection is returned when a link does not run from an output to an input.
var ErrDirection = errors.New("link must run from an output socket to an input socket")

// ErrUnknownSocket is returned when a socket handle or name cannot be resolved.
var ErrUnknownSocket = errors.New("unknown socket")

// ErrUnknownNode is returned when a node handle or name cannot be resolved.
var ErrUnknownNode = errors.New("unknown node")

// ErrUnknownKind is returned when a graph document references an unregistered node kind.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrDuplicateNode is returned when two nodes of a graph share a name.
var ErrDuplicateNode = errors.New("duplicate node name")

// ErrGraphNotFound is returned when a loader has no graph with the requested name.
var ErrGraphNotFound = errors.New("graph not found")

// ErrToolNotRegistered is returned when an export needs a tool that is not configured.
var ErrToolNotRegistered = errors.New("tool not registered")

// ErrToolFailed is returned when an external tool exits unsuccessfully.
var ErrToolFailed = errors.New("tool failed")

// ErrRunNotFound is returned when the export ledger has no record for a run id.
var ErrRunNotFound = errors.New("export run not found")

// ErrCycle is returned when an export re-enters a node that is still exporting.
var ErrCycle = errors.New("export cycle")

// ErrUnknownLink is returned when a link handle cannot be resolved.
var ErrUnknownLink = errors.New("unknown link")

// ErrInvalidFileName is returned when a resolved name cannot be used as a file name.
var ErrInvalidFileName = errors.New("invalid file name")
