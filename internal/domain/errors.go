package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrComplaintNotFound signals a missing complaint.
	ErrComplaintNotFound = errors.New("complaint not found")
	// ErrInvalidArgument signals a request that failed validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownCategory signals a category outside the configured set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	// Fatal for a search request: no fallback query vector exists.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrChatProviderError signals a chat completion provider failure.
	ErrChatProviderError = errors.New("chat provider error")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
