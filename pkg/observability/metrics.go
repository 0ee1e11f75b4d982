package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors of export runs.
type Metrics struct {
	Exports      *prometheus.CounterVec
	ExportTime   *prometheus.HistogramVec
	NodeExports  *prometheus.CounterVec
	ToolDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blocksmith_exports_total",
				Help: "Total number of export runs",
			},
			[]string{"graph", "result"},
		),
		ExportTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blocksmith_export_duration_seconds",
				Help:    "Duration of export runs",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
			[]string{"graph"},
		),
		NodeExports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blocksmith_node_exports_total",
				Help: "Total number of node exports, including replays within a run",
			},
			[]string{"kind", "cached"},
		),
		ToolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blocksmith_tool_duration_seconds",
				Help:    "Duration of external tool executions",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"tool", "result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Exports, m.ExportTime, m.NodeExports, m.ToolDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExportDone: func(ctx context.Context, e *domain.ExportEvent) {
			m.Exports.WithLabelValues(e.Graph, result(e.Err != nil)).Inc()
			m.ExportTime.WithLabelValues(e.Graph).Observe(e.Duration.Seconds())
		},
		OnNodeExport: func(ctx context.Context, e *domain.NodeEvent) {
			cached := "false"
			if e.Cached {
				cached = "true"
			}
			m.NodeExports.WithLabelValues(e.NodeKind, cached).Inc()
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			m.ToolDuration.WithLabelValues(e.ToolName, result(e.IsError)).Observe(e.Duration.Seconds())
		},
	}
}

func result(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}

// LogHooks returns lifecycle hooks that log every event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExportStart: func(ctx context.Context, e *domain.ExportEvent) {
			logger.Info("export_start", "graph", e.Graph, "run_id", e.RunID)
		},
		OnExportDone: func(ctx context.Context, e *domain.ExportEvent) {
			if e.Err != nil {
				logger.Error("export_done", "graph", e.Graph, "run_id", e.RunID, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.Info("export_done", "graph", e.Graph, "run_id", e.RunID, "duration", e.Duration)
		},
		OnNodeExport: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("node_export", "node", e.NodeName, "kind", e.NodeKind, "cached", e.Cached)
		},
		OnToolCall: func(ctx context.Context, e *domain.ToolEvent) {
			logger.Debug("tool_call", "node", e.NodeName, "tool_name", e.ToolName)
		},
		OnToolReturn: func(ctx context.Context, e *domain.ToolEvent) {
			logger.Info("tool_return",
				"node", e.NodeName,
				"tool_name", e.ToolName,
				"duration", e.Duration,
				"is_error", e.IsError,
			)
		},
	}
}
