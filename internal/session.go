package internal

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

const retrievalTopK = 3

// Session is one independent retrieval-and-response engine instance.
// It owns the active comparison context, its derived documents, the
// vector index and the conversation log as a single unit; one mutex
// serializes SetContext against in-flight queries.
type Session struct {
	mu        sync.Mutex
	embedder  Embedder
	index     VectorIndex
	indexer   *DocumentIndexer
	log       *zap.Logger
	cc        *ComparisonContext
	documents []Document
	history   *ConversationLog
}

// NewSession creates a session around the given embedder and index.
// embedder may be nil, in which case the session answers through the
// rule-based fallback only.
func NewSession(embedder Embedder, index VectorIndex, log *zap.Logger) *Session {
	if index == nil {
		index = NewFlatIndex(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		embedder: embedder,
		index:    index,
		indexer:  NewDocumentIndexer(embedder, index, log),
		log:      log,
		history:  NewConversationLog(),
	}
}

// SetContext replaces the active comparison context and rebuilds the
// document index from scratch. The previous context and all of its
// documents are discarded.
func (s *Session) SetContext(ctx context.Context, cc ComparisonContext) ContextInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cc = &cc
	s.documents = s.indexer.Rebuild(ctx, s.cc)

	s.log.Info("comparison context set",
		zap.String("target", cc.TargetCompany.Name),
		zap.Int("comparables", len(cc.ComparableCompanies)),
		zap.Int("documents", len(s.documents)))

	return s.contextInfoLocked()
}

// Query answers a free-form question about the active context. Relevant
// documents are retrieved by similarity search; if retrieval yields
// nothing the query is routed through keyword intent classification.
// Every call returns a non-empty response and records a conversation
// turn, including the no-context advisory.
func (s *Session) Query(ctx context.Context, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var response string
	if s.cc == nil {
		response = NoContextResponse
	} else {
		retrieved := s.searchLocked(ctx, message, retrievalTopK)
		response = NewResponder(s.cc).Respond(message, retrieved)
	}

	s.history.Append(message, response)
	return response
}

// searchLocked embeds the query and retrieves the most similar
// documents. Any failure degrades to zero results, which triggers the
// rule-based fallback.
func (s *Session) searchLocked(ctx context.Context, query string, k int) []RetrievedDocument {
	if s.embedder == nil || s.index.Len() == 0 {
		return nil
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		s.log.Warn("query embedding failed, falling back to rule-based response", zap.Error(err))
		return nil
	}

	hits, err := s.index.Search(vec, k)
	if err != nil {
		s.log.Warn("index search failed, falling back to rule-based response", zap.Error(err))
		return nil
	}

	retrieved := make([]RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		if hit.Position < 0 || hit.Position >= len(s.documents) {
			continue
		}
		retrieved = append(retrieved, RetrievedDocument{
			Document: s.documents[hit.Position],
			Score:    hit.Score,
		})
	}
	return retrieved
}

// History returns the conversation turns, oldest first.
func (s *Session) History() []ConversationTurn {
	return s.history.History()
}

// ClearConversation empties the conversation log.
func (s *Session) ClearConversation() {
	s.history.Clear()
}

// ContextInfo reports a snapshot of the session state.
func (s *Session) ContextInfo() ContextInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contextInfoLocked()
}

func (s *Session) contextInfoLocked() ContextInfo {
	info := ContextInfo{
		TargetCompany:     "None",
		ConversationTurns: s.history.Len(),
	}
	if s.cc == nil {
		return info
	}

	info.HasContext = true
	if s.cc.TargetCompany.Name != "" {
		info.TargetCompany = s.cc.TargetCompany.Name
	}
	info.ComparableCount = len(s.cc.ComparableCompanies)
	info.HasFinancialData = len(s.cc.FinancialData) > 0
	return info
}
