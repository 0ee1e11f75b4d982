package process

import (
	"fmt"

	"github.com/mattn/go-shellwords"
)

// ToolConfig registers one external tool.
// Command is a full command line; quoting follows POSIX shell rules.
type ToolConfig struct {
	Name        string            `yaml:"name" json:"name" validate:"required"`
	Command     string            `yaml:"command" json:"command" validate:"required"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
}

// commandLine splits the configured command line into the program and its leading arguments.
func (c ToolConfig) commandLine() (string, []string, error) {
	words, err := shellwords.Parse(c.Command)
	if err != nil {
		return "", nil, fmt.Errorf("tool %s: invalid command line: %w", c.Name, err)
	}
	if len(words) == 0 {
		return "", nil, fmt.Errorf("tool %s: empty command line", c.Name)
	}
	return words[0], words[1:], nil
}

// Executable returns the program a tool runs.
func (c ToolConfig) Executable() (string, error) {
	prog, _, err := c.commandLine()
	return prog, err
}
