// Package v1 provides programmatic access to the comparison
// question-answering engine for embedding in other Go programs.
package v1

import (
	"context"

	"github.com/fintelligo/peerscope/internal"
)

// Client wraps one engine session. A Client holds a single active
// comparison context at a time; its methods are safe for concurrent
// use.
type Client struct {
	session *internal.Session
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.index == nil {
		cfg.index = internal.NewFlatIndex(0)
	}

	return &Client{
		session: internal.NewSession(cfg.embedder, cfg.index, cfg.logger),
	}
}

// SetContext replaces the active comparison context, rebuilding the
// retrieval index from scratch.
func (c *Client) SetContext(ctx context.Context, cc ComparisonContext) ContextInfo {
	return c.session.SetContext(ctx, cc)
}

// Ask answers a free-form question about the active context and records
// the turn in the conversation history.
func (c *Client) Ask(ctx context.Context, message string) string {
	return c.session.Query(ctx, message)
}

// History returns the conversation turns, oldest first.
func (c *Client) History() []Turn {
	return c.session.History()
}

// ClearConversation empties the conversation history.
func (c *Client) ClearConversation() {
	c.session.ClearConversation()
}

// ContextInfo reports a snapshot of the session state.
func (c *Client) ContextInfo() ContextInfo {
	return c.session.ContextInfo()
}
