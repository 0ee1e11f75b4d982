package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/blocksmith/pkg/domain"
	"github.com/aretw0/blocksmith/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphArgs names the graph a tool works on.
type GraphArgs struct {
	Name string `json:"name"`
}

// GraphList is the result of list_graphs.
type GraphList struct {
	Graphs []string `json:"graphs" jsonschema_description:"Names of the available export graphs"`
}

// Server wraps a ports.BlockEngine and exposes it as an MCP Server.
type Server struct {
	engine    ports.BlockEngine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.BlockEngine, version string) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("blocksmith-mcp", strings.TrimSpace(version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_graphs",
		mcp.WithDescription("List the export graphs of the block project."),
		mcp.WithOutputSchema[GraphList](),
	), mcp.NewStructuredToolHandler(s.handleListGraphs))

	nameArg := mcp.WithString("name", mcp.Required(), mcp.Description("Name of the export graph"))

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the document of an export graph: its nodes, settings and links."),
		nameArg,
		mcp.WithOutputSchema[domain.GraphDocument](),
	), mcp.NewStructuredToolHandler(s.handleGetGraph))

	s.mcpServer.AddTool(mcp.NewTool("graph_status",
		mcp.WithDescription("Evaluate an export graph against the scene: readiness of every node and socket."),
		nameArg,
		mcp.WithOutputSchema[domain.GraphStatus](),
	), mcp.NewStructuredToolHandler(s.handleGraphStatus))

	s.mcpServer.AddTool(mcp.NewTool("export_block",
		mcp.WithDescription("Run every exporter of a graph, invoking the external model and physics tools."),
		nameArg,
	), s.handleExport)
}

func (s *Server) handleListGraphs(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (GraphList, error) {
	names, err := s.engine.ListGraphs(ctx)
	if err != nil {
		return GraphList{}, fmt.Errorf("list failed: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return GraphList{Graphs: names}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest, args GraphArgs) (domain.GraphDocument, error) {
	doc, err := s.engine.Graph(ctx, args.Name)
	if err != nil {
		return domain.GraphDocument{}, err
	}
	return *doc, nil
}

func (s *Server) handleGraphStatus(ctx context.Context, request mcp.CallToolRequest, args GraphArgs) (domain.GraphStatus, error) {
	status, err := s.engine.Status(ctx, args.Name)
	if err != nil {
		return domain.GraphStatus{}, err
	}
	return *status, nil
}

// handleExport reports export failures as tool errors carrying the run record,
// so the client sees which artifacts were produced before the failure.
func (s *Server) handleExport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.engine.Export(ctx, name)
	if err != nil {
		msg := fmt.Sprintf("export failed: %v", err)
		if errors.Is(err, domain.ErrNotReady) {
			msg += " (check graph_status)"
		}
		if rec != nil {
			if data, mErr := json.Marshal(rec); mErr == nil {
				msg += "\n" + string(data)
			}
		}
		return mcp.NewToolResultError(msg), nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("blocksmith://graphs", "Export Graphs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		names, err := s.engine.ListGraphs(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list graphs: %w", err)
		}
		docs := make([]*domain.GraphDocument, 0, len(names))
		for _, name := range names {
			doc, err := s.engine.Graph(ctx, name)
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
		jsonBytes, err := json.Marshal(docs)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "blocksmith://graphs",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
