package model

import (
	"encoding/json"
	"time"
)

// Article statuses.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Upstream providers a session may select.
const (
	ProviderOpenAI     = "OpenAI"
	ProviderOpenRouter = "OpenRouter"
)

// Providers lists every accepted provider name in display order.
var Providers = []string{ProviderOpenAI, ProviderOpenRouter}

// User is an account that owns articles.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Article is a piece of content owned by a single user.
type Article struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticleWithAuthor is the read projection used by listings and the search tool.
// AuthorName is nil when the owning user row is missing.
type ArticleWithAuthor struct {
	Article
	AuthorName *string `json:"author_name,omitempty"`
}

// ArticlePage is one page of a listing.
type ArticlePage struct {
	Articles []ArticleWithAuthor `json:"articles"`
	Page     int                 `json:"page"`
	PerPage  int                 `json:"per_page"`
	Total    int                 `json:"total"`
}

// Turn is one entry of a client-held conversation.
type Turn struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// Selection is the provider/model pair a session talks to.
type Selection struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// Frame types written to SSE streams.
const (
	FrameTest       = "test"
	FrameDelta      = "delta"
	FrameToolCall   = "tool_call"
	FrameToolResult = "tool_result"
	FrameDone       = "done"
	FrameError      = "error"
)

// Frame is a single SSE payload. Only the fields relevant to Type are set.
type Frame struct {
	Type         string          `json:"type"`
	Message      string          `json:"message,omitempty"`
	Text         string          `json:"text,omitempty"`
	Tool         string          `json:"tool,omitempty"`
	Arguments    json.RawMessage `json:"arguments,omitempty"`
	Result       string          `json:"result,omitempty"`
	FullResponse *string         `json:"full_response,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// IsTerminal reports whether no frame may follow f.
func (f Frame) IsTerminal() bool {
	return f.Type == FrameDone || f.Type == FrameError
}
