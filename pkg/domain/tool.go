package domain

import "time"

// ToolCall is a request to run one registered external tool.
type ToolCall struct {
	ID   string            `json:"id" yaml:"id"`                         // Unique ID for this invocation
	Name string            `json:"name" yaml:"name"`                     // Registry name, e.g. "mwmbuilder"
	Args []string          `json:"args,omitempty" yaml:"args,omitempty"` // Appended to the registered command line
	Env  map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Dir  string            `json:"dir,omitempty" yaml:"dir,omitempty"` // Working directory, defaults to the runner's base dir
}

// ToolResult is the outcome of a ToolCall.
type ToolResult struct {
	ID       string        `json:"id"` // Must match the ToolCall.ID
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	ExitCode int           `json:"exit_code"`
	IsError  bool          `json:"is_error,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}
