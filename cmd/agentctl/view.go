package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"article-agent/backend/internal/client"
)

var (
	purple  = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}
	cyan    = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(cyan)
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(purple)
	badgeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(cyan).Padding(0, 1)
	typingStyle    = lipgloss.NewStyle().Italic(true).Foreground(muted)
	errorStyle     = lipgloss.NewStyle().Foreground(rose)

	toneStyles = map[client.Tone]lipgloss.Style{
		client.ToneReady: lipgloss.NewStyle().Foreground(emerald),
		client.ToneBusy:  lipgloss.NewStyle().Foreground(amber),
		client.ToneTool:  lipgloss.NewStyle().Foreground(cyan),
		client.ToneError: lipgloss.NewStyle().Foreground(rose),
	}
)

// terminalView prints the conversation as a running transcript.
type terminalView struct {
	out io.Writer
	// quiet hides status lines; used by ask.
	quiet bool

	typing    bool
	midLine   bool
	lastState string
}

func newTerminalView(out io.Writer, quiet bool) *terminalView {
	return &terminalView{out: out, quiet: quiet}
}

func (v *terminalView) endLine() {
	if v.midLine {
		fmt.Fprintln(v.out)
		v.midLine = false
	}
}

func (v *terminalView) AddMessage(role, text string) {
	if role == "user" {
		if !v.quiet {
			fmt.Fprintf(v.out, "%s %s\n", userLabel.Render("You:"), text)
		}
		return
	}
	v.endLine()
	fmt.Fprintf(v.out, "%s %s\n", assistantLabel.Render("Assistant:"), errorStyle.Render(text))
}

func (v *terminalView) ShowTyping() {
	fmt.Fprint(v.out, typingStyle.Render("Assistant is typing..."))
	v.typing = true
}

func (v *terminalView) RemoveTyping() {
	if v.typing {
		// Return to column 0 and clear the placeholder.
		fmt.Fprint(v.out, "\r\x1b[K")
		v.typing = false
	}
}

func (v *terminalView) StartAssistantMessage() {
	fmt.Fprint(v.out, assistantLabel.Render("Assistant:")+" ")
	v.midLine = true
}

func (v *terminalView) AppendText(text string) {
	fmt.Fprint(v.out, text)
	v.midLine = true
}

func (v *terminalView) ShowToolBadge(tool string) {
	v.endLine()
	fmt.Fprintln(v.out, badgeStyle.Render("Using tool: "+tool))
}

func (v *terminalView) SetStatus(text string, tone client.Tone) {
	if v.quiet || text == v.lastState {
		return
	}
	v.lastState = text
	if tone == client.ToneBusy {
		return
	}
	v.RemoveTyping()
	v.endLine()
	fmt.Fprintln(v.out, toneStyles[tone].Render("• "+text))
}

func (v *terminalView) SetInputEnabled(enabled bool) {
	if enabled {
		v.endLine()
	}
}
