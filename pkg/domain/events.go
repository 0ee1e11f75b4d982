package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventExportStart EventType = "export_start"
	EventExportDone  EventType = "export_done"
	EventNodeExport  EventType = "node_export"
	EventToolCall    EventType = "tool_call"
	EventToolReturn  EventType = "tool_return"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// ExportEvent marks the start or the end of an export run.
type ExportEvent struct {
	EventBase
	Graph    string        `json:"graph"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// NodeEvent is emitted when a node produced its export output.
type NodeEvent struct {
	EventBase
	NodeName string `json:"node_name"`
	NodeKind string `json:"node_kind"`
	Cached   bool   `json:"cached,omitempty"`
}

// ToolEvent represents a tool execution.
type ToolEvent struct {
	EventBase
	NodeName string        `json:"node_name"`
	ToolName string        `json:"tool_name"`
	Duration time.Duration `json:"duration,omitempty"`
	IsError  bool          `json:"is_error,omitempty"`
}

// LifecycleHooks defines callbacks for export observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnExportStart func(context.Context, *ExportEvent)
	OnExportDone  func(context.Context, *ExportEvent)
	OnNodeExport  func(context.Context, *NodeEvent)
	OnToolCall    func(context.Context, *ToolEvent)
	OnToolReturn  func(context.Context, *ToolEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnExportStart: chain(h.OnExportStart, other.OnExportStart),
		OnExportDone:  chain(h.OnExportDone, other.OnExportDone),
		OnNodeExport:  chain(h.OnNodeExport, other.OnNodeExport),
		OnToolCall:    chain(h.OnToolCall, other.OnToolCall),
		OnToolReturn:  chain(h.OnToolReturn, other.OnToolReturn),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
