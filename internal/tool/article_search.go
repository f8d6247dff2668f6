// Package tool holds the capabilities the agent model may call mid-conversation.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"article-agent/backend/internal/llm"
	"article-agent/backend/internal/model"
	"article-agent/backend/internal/repository"
)

const (
	// SearchArticlesName is the name the model uses to call ArticleSearch.
	SearchArticlesName = "search_articles"

	searchLimit          = 4
	descriptionMaxLength = 150
)

// ArticleSearch looks up articles by a free-text query and an optional status.
// It searches every owner's articles; the agent is not scoped to the caller.
type ArticleSearch struct {
	repo repository.Repository
}

func NewArticleSearch(repo repository.Repository) *ArticleSearch {
	return &ArticleSearch{repo: repo}
}

type searchArgs struct {
	Query  string `json:"query"`
	Status string `json:"status"`
}

func (a *ArticleSearch) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        SearchArticlesName,
		Description: "Search for articles in the database by title, description, or status. Returns a list of matching articles with their details.",
		Parameters: &llm.JSONSchema{
			Type: "object",
			Properties: map[string]*llm.JSONSchema{
				"query": {
					Type:        "string",
					Description: "The search term to look for in article titles and descriptions (optional, leave empty to get all articles)",
				},
				"status": {
					Type:        "string",
					Description: `Filter by article status: "published", "draft", or "all" (default: "all")`,
				},
			},
		},
	}
}

// Execute runs the search. Failures come back as an error result so the model
// can tell the user about them.
func (a *ArticleSearch) Execute(ctx context.Context, raw json.RawMessage) llm.ToolResult {
	var args searchArgs
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &args); err != nil {
			return failure(fmt.Errorf("invalid arguments: %w", err))
		}
	}

	articles, err := a.repo.SearchArticles(ctx, repository.SearchCriteria{
		Query:  strings.TrimSpace(args.Query),
		Status: normalizeStatus(args.Status),
		Limit:  searchLimit,
	})
	if err != nil {
		return failure(err)
	}

	text, err := formatResults(articles)
	if err != nil {
		return failure(err)
	}
	return llm.ToolResult{Content: text}
}

// normalizeStatus maps anything but a concrete status to the empty filter.
func normalizeStatus(status string) string {
	switch status {
	case model.StatusPublished, model.StatusDraft:
		return status
	default:
		return ""
	}
}

func formatResults(articles []model.ArticleWithAuthor) (string, error) {
	if len(articles) == 0 {
		return "No articles found matching your criteria.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d article(s):\n\n", len(articles))
	for _, art := range articles {
		if art.AuthorName == nil {
			return "", fmt.Errorf("article %q has no author", art.Title)
		}
		fmt.Fprintf(&b, "**%s**\n", art.Title)
		fmt.Fprintf(&b, "Status: %s\n", art.Status)
		fmt.Fprintf(&b, "Date: %s\n", art.Date.Format("2006-01-02"))
		fmt.Fprintf(&b, "Author: %s\n", *art.AuthorName)
		fmt.Fprintf(&b, "Description: %s\n", Truncate(art.Description, descriptionMaxLength, "..."))
		b.WriteString("---\n\n")
	}
	return b.String(), nil
}

func failure(err error) llm.ToolResult {
	slog.Error("Article search tool error", "error", err)
	return llm.ToolResult{Content: "Error searching articles: " + err.Error(), IsError: true}
}

// Truncate shortens s to at most n runes and appends suffix when it cut
// anything.
func Truncate(s string, n int, suffix string) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + suffix
}
