package v1

import "github.com/fintelligo/peerscope/internal"

// Aliases for the engine types exposed through the client API.
type (
	ComparisonContext = internal.ComparisonContext
	TargetCompany     = internal.TargetCompany
	CompanyRecord     = internal.CompanyRecord
	ContextInfo       = internal.ContextInfo
	Turn              = internal.ConversationTurn
	Embedder          = internal.Embedder
	VectorIndex       = internal.VectorIndex
)
