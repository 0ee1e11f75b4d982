package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/blocksmith/internal/validator"
	"github.com/aretw0/blocksmith/pkg/domain"
)

// SocketState is how a socket is drawn.
type SocketState string

const (
	StateOK           SocketState = "ok"
	StateUnlinked     SocketState = "unlinked"
	StateEmpty        SocketState = "empty"
	StateIncompatible SocketState = "incompatible"
	StateNotReady     SocketState = "not ready"
	StateDisabled     SocketState = "disabled"
)

// StateOf classifies a socket. Incompatible wins over every other state.
func StateOf(s domain.SocketStatus) SocketState {
	switch {
	case !s.Enabled:
		return StateDisabled
	case s.Linked && !s.Compatible:
		return StateIncompatible
	case !s.Ready:
		return StateNotReady
	case s.Linked && s.Empty:
		return StateEmpty
	case !s.Output && !s.Linked:
		return StateUnlinked
	}
	return StateOK
}

// Paint colours text by state for w.
func Paint(w io.Writer, state SocketState, text string) string {
	out := termenv.NewOutput(w)
	st := out.String(text)
	switch state {
	case StateIncompatible, StateNotReady:
		st = st.Foreground(out.Color("#ef4444"))
	case StateEmpty:
		st = st.Foreground(out.Color("#9ca3af"))
	case StateUnlinked, StateDisabled:
		st = st.Faint()
	case StateOK:
		st = st.Foreground(out.Color("#22c55e"))
	}
	return st.String()
}

// PrintSockets writes one coloured line per enabled socket of every node.
func PrintSockets(w io.Writer, st *domain.GraphStatus) {
	for _, n := range st.Nodes {
		fmt.Fprintf(w, "%s (%s)\n", n.Name, n.Kind)
		for _, s := range n.Sockets {
			state := StateOf(s)
			if state == StateDisabled {
				continue
			}
			arrow := "<-"
			if s.Output {
				arrow = "->"
			}
			line := fmt.Sprintf("  %s %s [%s]", arrow, s.Label, state)
			if s.Text != "" {
				line += " " + s.Text
			}
			fmt.Fprintln(w, Paint(w, state, line))
		}
	}
}

// StatusMarkdown renders a readiness report.
func StatusMarkdown(st *domain.GraphStatus) string {
	var sb strings.Builder
	verdict := "ready"
	if !st.Ready {
		verdict = "not ready"
	}
	fmt.Fprintf(&sb, "# %s\n\nGraph is **%s** for export.\n\n", st.Graph, verdict)
	sb.WriteString("| Node | Kind | Status | Output |\n|---|---|---|---|\n")
	for _, n := range st.Nodes {
		status := "-"
		if n.Exporter {
			status = "ready"
			if !n.Ready {
				status = "**not ready**"
			}
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", cell(n.Name), n.Kind, status, cell(n.Output))
	}

	var notes []string
	for _, n := range st.Nodes {
		for _, s := range n.Sockets {
			switch StateOf(s) {
			case StateIncompatible:
				notes = append(notes, fmt.Sprintf("- `%s.%s` is linked to an incompatible socket", n.Name, s.Name))
			case StateEmpty:
				notes = append(notes, fmt.Sprintf("- `%s.%s` is linked but selects no objects", n.Name, s.Name))
			}
		}
	}
	if len(notes) > 0 {
		sb.WriteString("\n## Sockets\n\n")
		sb.WriteString(strings.Join(notes, "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// ReportMarkdown renders validation issues.
func ReportMarkdown(r *validator.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Graph)
	if len(r.Issues) == 0 {
		sb.WriteString("No problems found.\n")
		return sb.String()
	}
	section := func(title string, issues []validator.Issue) {
		if len(issues) == 0 {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, i := range issues {
			where := i.Node
			if i.Socket != "" {
				where += "." + i.Socket
			}
			if where != "" {
				fmt.Fprintf(&sb, "- `%s`: %s\n", where, i.Message)
				continue
			}
			fmt.Fprintf(&sb, "- %s\n", i.Message)
		}
		sb.WriteString("\n")
	}
	section("Errors", r.Errors())
	section("Warnings", r.Warnings())
	return sb.String()
}

func cell(s string) string {
	if s == "" {
		return " "
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
