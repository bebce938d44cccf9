package internal

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionQueryWithoutContext(t *testing.T) {
	s := NewSession(nil, nil, nil)

	response := s.Query(context.Background(), "anything in there?")
	assert.Equal(t, NoContextResponse, response)

	// Even the advisory counts as a turn.
	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, "anything in there?", history[0].User)
	assert.Equal(t, NoContextResponse, history[0].Assistant)
}

func TestSessionSetContextInfo(t *testing.T) {
	s := NewSession(nil, nil, nil)

	info := s.ContextInfo()
	assert.False(t, info.HasContext)
	assert.Equal(t, "None", info.TargetCompany)
	assert.Zero(t, info.ComparableCount)

	cc := sampleContext()
	info = s.SetContext(context.Background(), cc)
	assert.True(t, info.HasContext)
	assert.Equal(t, "Acme Corp", info.TargetCompany)
	assert.Equal(t, 2, info.ComparableCount)
	assert.False(t, info.HasFinancialData)
}

func TestSessionRetrievalRoundTrip(t *testing.T) {
	cc := sampleContext()
	docs := BuildDocuments(&cc)
	require.Len(t, docs, 5)

	// Give each document its own direction and pin the query to the
	// Globex financial-metrics document.
	vectors := make(map[string][]float32, len(docs)+1)
	for i, doc := range docs {
		v := make([]float32, len(docs))
		v[i] = 1
		vectors[doc.Text] = v
	}
	query := "how big is globex"
	vectors[query] = vectors[docs[2].Text]

	embedder := &stubEmbedder{dim: len(docs), vectors: vectors}
	s := NewSession(embedder, NewFlatIndex(len(docs)), nil)
	s.SetContext(context.Background(), cc)

	response := s.Query(context.Background(), query)
	assert.Contains(t, response, "Based on your query: 'how big is globex'")
	assert.Contains(t, response, "1. Financial Metrics for Globex:")
}

func TestSessionFallsBackWhenEmbeddingFails(t *testing.T) {
	embedder := &stubEmbedder{dim: 2, failOn: "broken"}
	s := NewSession(embedder, NewFlatIndex(2), nil)
	s.SetContext(context.Background(), sampleContext())

	response := s.Query(context.Background(), "broken summary please")
	assert.Contains(t, response, "Current analysis: Acme Corp")
	assert.NotContains(t, response, "Based on your query")
}

func TestSessionWithoutEmbedderAnswersRuleBased(t *testing.T) {
	s := NewSession(nil, nil, nil)
	s.SetContext(context.Background(), sampleContext())

	response := s.Query(context.Background(), "give me a summary")
	assert.Contains(t, response, "Current analysis: Acme Corp")
	assert.Contains(t, response, "Found 2 comparable companies")
}

func TestSessionReplacesContext(t *testing.T) {
	embedder := &stubEmbedder{dim: 2}
	s := NewSession(embedder, NewFlatIndex(2), nil)

	first := sampleContext()
	s.SetContext(context.Background(), first)

	second := ComparisonContext{
		TargetCompany:       TargetCompany{Name: "Umbrella", Description: "Pharma research"},
		ComparableCompanies: []CompanyRecord{{Name: "Oscorp", Rationale: "same field"}},
	}
	info := s.SetContext(context.Background(), second)
	assert.Equal(t, "Umbrella", info.TargetCompany)
	assert.Equal(t, 1, info.ComparableCount)

	// Nothing from the first context survives the swap.
	response := s.Query(context.Background(), "what do we have")
	assert.NotContains(t, response, "Acme")
	assert.NotContains(t, response, "Globex")
	assert.Contains(t, response, "Umbrella")
}

func TestSessionHistoryEviction(t *testing.T) {
	s := NewSession(nil, nil, nil)
	s.SetContext(context.Background(), sampleContext())

	for i := 1; i <= 11; i++ {
		s.Query(context.Background(), fmt.Sprintf("question %d", i))
	}

	history := s.History()
	require.Len(t, history, 10)
	assert.Equal(t, "question 2", history[0].User)
	assert.Equal(t, "question 11", history[9].User)
	assert.Equal(t, 10, s.ContextInfo().ConversationTurns)

	s.ClearConversation()
	assert.Empty(t, s.History())
	assert.Zero(t, s.ContextInfo().ConversationTurns)
}
