package testutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/blocksmith/pkg/domain"
)

// FakeTools mimics the external export tools by touching the files they would write.
type FakeTools struct {
	// Fail makes the named tools exit unsuccessfully.
	Fail map[string]bool
	// Misplace makes the model builder write next to its sources.
	Misplace bool

	mu    sync.Mutex
	calls []domain.ToolCall
}

func (f *FakeTools) Run(ctx context.Context, call domain.ToolCall) (domain.ToolResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()

	if f.Fail[call.Name] {
		return domain.ToolResult{ID: call.ID, ExitCode: 2, IsError: true, Stderr: "warming up\nlicense expired"}, nil
	}

	var out string
	switch call.Name {
	case domain.ToolGeometry:
		out = argAfter(call.Args, "--output")
	case domain.ToolHavokImporter:
		out = call.Args[1]
	case domain.ToolHavokFilter:
		out = argAfter(call.Args, "-p")
	case domain.ToolMwmBuilder:
		var src, model, dir string
		for _, a := range call.Args {
			switch {
			case strings.HasPrefix(a, "/s:"):
				src = a[3:]
			case strings.HasPrefix(a, "/m:"):
				model = strings.TrimSuffix(a[3:], ".fbx")
			case strings.HasPrefix(a, "/o:"):
				dir = a[3:]
			}
		}
		if f.Misplace {
			dir = src
		}
		out = filepath.Join(dir, model+".mwm")
	}
	if out != "" {
		if err := os.WriteFile(out, []byte(call.Name), 0o644); err != nil {
			return domain.ToolResult{}, err
		}
	}
	return domain.ToolResult{ID: call.ID}, nil
}

// Calls returns the recorded tool calls.
func (f *FakeTools) Calls() []domain.ToolCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ToolCall(nil), f.calls...)
}

// Names returns the names of the recorded tool calls in order.
func (f *FakeTools) Names() []string {
	var out []string
	for _, c := range f.Calls() {
		out = append(out, c.Name)
	}
	return out
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
