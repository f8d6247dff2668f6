package llm

import (
	"context"
	"fmt"
	"sort"
)

// Provider is an upstream LLM API.
type Provider interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
	// Stream starts a streamed call. Errors that happen before the first byte of
	// the response (bad key, unreachable host, non-200 status) are returned here;
	// later ones come out of EventSource.Next.
	Stream(ctx context.Context, req *GenerateRequest) (EventSource, error)
}

// Gateway maps provider names to their clients.
type Gateway struct {
	providers map[string]Provider
}

func NewGateway() *Gateway {
	return &Gateway{providers: make(map[string]Provider)}
}

// Register associates a provider name with a client.
func (g *Gateway) Register(name string, p Provider) {
	g.providers[name] = p
}

// For returns the client registered under name.
func (g *Gateway) For(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, &StreamError{Kind: KindConfiguration, Message: fmt.Sprintf("provider %q is not available", name)}
	}
	return p, nil
}

// Names lists the registered providers in lexical order.
func (g *Gateway) Names() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
