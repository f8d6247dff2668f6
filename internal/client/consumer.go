package client

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"article-agent/backend/internal/model"
)

// ErrBusy is returned when a message is submitted while another one is
// still being answered.
var ErrBusy = errors.New("a request is already in progress")

var errStreamEnded = errors.New("stream ended before the answer was complete")

const maxFrameSize = 1 << 20

// State is the consumer's position in one chat turn.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateStreaming
	StateError
)

func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateStreaming:
		return "streaming"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Tone tells the view how to color the status line.
type Tone int

const (
	ToneReady Tone = iota
	ToneBusy
	ToneTool
	ToneError
)

// View renders what the consumer decides. Calls come from the goroutine
// running Consume.
type View interface {
	AddMessage(role, text string)
	ShowTyping()
	RemoveTyping()
	StartAssistantMessage()
	AppendText(text string)
	ShowToolBadge(tool string)
	SetStatus(text string, tone Tone)
	SetInputEnabled(enabled bool)
}

// Consumer turns an agent SSE stream into view updates and keeps the
// conversation history that is sent along with the next message.
type Consumer struct {
	view View

	mu      sync.Mutex
	state   State
	history []model.Turn

	text    strings.Builder
	started bool
}

func NewConsumer(view View) *Consumer {
	return &Consumer{view: view}
}

// Begin records message as the user's turn and returns the history that
// precedes it. It fails with ErrBusy unless the consumer is idle or errored.
func (c *Consumer) Begin(message string) ([]model.Turn, error) {
	c.mu.Lock()
	if c.state == StateSubmitting || c.state == StateStreaming {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	prior := append([]model.Turn(nil), c.history...)
	c.history = append(c.history, model.Turn{Role: "user", Content: message})
	c.state = StateSubmitting
	c.mu.Unlock()

	c.text.Reset()
	c.started = false

	c.view.AddMessage("user", message)
	c.view.SetInputEnabled(false)
	c.view.ShowTyping()
	c.view.SetStatus("Processing...", ToneBusy)
	return prior, nil
}

// Consume reads frames from body until a done or error frame. Read and
// decode failures are returned unrendered; the caller passes them to Fail
// or Abort.
func (c *Consumer) Consume(body io.Reader) error {
	c.setState(StateStreaming)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame model.Frame
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			return fmt.Errorf("malformed frame: %w", err)
		}
		if c.handle(frame) {
			return nil
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return errStreamEnded
}

// handle applies one frame and reports whether the turn is over.
func (c *Consumer) handle(frame model.Frame) bool {
	switch frame.Type {
	case model.FrameDelta:
		c.ensureMessage()
		c.view.AppendText(frame.Text)
		c.text.WriteString(frame.Text)
	case model.FrameToolCall:
		c.ensureMessage()
		c.view.ShowToolBadge(frame.Tool)
		c.view.SetStatus("Using tool: "+frame.Tool, ToneTool)
	case model.FrameToolResult:
		c.view.SetStatus("Tool completed: "+frame.Tool, ToneReady)
	case model.FrameDone:
		c.mu.Lock()
		c.history = append(c.history, model.Turn{Role: "assistant", Content: c.text.String()})
		c.state = StateIdle
		c.mu.Unlock()
		c.view.SetInputEnabled(true)
		c.view.SetStatus("Ready", ToneReady)
		return true
	case model.FrameError:
		c.showError(frame.Error)
		return true
	}
	return false
}

func (c *Consumer) ensureMessage() {
	if c.started {
		return
	}
	c.started = true
	c.view.RemoveTyping()
	c.view.StartAssistantMessage()
}

// Fail ends the turn with err shown as an assistant message.
func (c *Consumer) Fail(err error) {
	c.showError(err.Error())
}

func (c *Consumer) showError(message string) {
	c.setState(StateError)
	c.view.RemoveTyping()
	c.view.AddMessage("assistant", "Error: "+message)
	c.view.SetInputEnabled(true)
	c.view.SetStatus("Error", ToneError)
}

// Abort ends the turn after the user stopped it. Nothing is added to the
// history for the unfinished answer.
func (c *Consumer) Abort() {
	c.setState(StateIdle)
	c.view.RemoveTyping()
	c.view.SetInputEnabled(true)
	c.view.SetStatus("Stopped", ToneReady)
}

func (c *Consumer) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Consumer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// History returns a copy of the conversation so far.
func (c *Consumer) History() []model.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Turn(nil), c.history...)
}
