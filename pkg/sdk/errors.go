package minwon

import "github.com/civicdesk/minwon/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrComplaintNotFound      = domain.ErrComplaintNotFound
	ErrInvalidArgument        = domain.ErrInvalidArgument
	ErrUnknownCategory        = domain.ErrUnknownCategory
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrRateLimited            = domain.ErrRateLimited
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrChatProviderError      = domain.ErrChatProviderError
)
