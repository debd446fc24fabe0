// Package request holds the validated similarity search query.
package request

import (
	"fmt"
	"strings"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 4096
	DefaultTopK   = 3
	MaxTopK       = 50
	// DefaultThreshold is the minimum similarity a per-field hit must reach.
	DefaultThreshold = 0.5
)

// Request is a validated similarity search query.
type Request struct {
	text      string
	topK      int
	threshold float64
}

// New validates and normalizes search parameters.
// Defaults: topK=3, threshold=0.5. Empty or whitespace-only text is rejected.
func New(text string, topK int, threshold float64) (Request, error) {
	if strings.TrimSpace(text) == "" {
		return Request{}, fmt.Errorf("text is required")
	}
	if len(text) > MaxTextLength {
		return Request{}, fmt.Errorf("text too long (max %d chars)", MaxTextLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold < 0 || threshold > 1 {
		return Request{}, fmt.Errorf("threshold must be between 0 and 1")
	}

	return Request{text: text, topK: topK, threshold: threshold}, nil
}

// Text returns the raw query text.
func (r *Request) Text() string { return r.text }

// TopK returns the number of fused results requested.
func (r *Request) TopK() int { return r.topK }

// Threshold returns the per-field similarity cutoff.
func (r *Request) Threshold() float64 { return r.threshold }
