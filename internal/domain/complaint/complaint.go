// Package complaint holds the civil complaint aggregate.
package complaint

import (
	"fmt"
	"strings"
)

// Field size limits for intake validation.
const (
	MaxTitleSize   = 512
	MaxContentSize = 16384 // 16KB
)

// Status values follow the original intake lifecycle.
const (
	// StatusReceived marks a freshly submitted complaint.
	StatusReceived = "0"
	// StatusAnswered marks a complaint with an accepted response.
	StatusAnswered = "1"
)

// Embeddings carries the three per-field vectors stored alongside a complaint.
// All three must come from the same embedding model version as the index,
// or similarity scores are meaningless.
type Embeddings struct {
	Title   []float32
	Content []float32
	Summary []float32
}

// Complaint is the civil complaint aggregate (immutable value object).
type Complaint struct {
	id          string
	number      string
	title       string
	content     string
	summary     string
	category    string
	department  string
	status      string
	response    string
	submittedAt int64 // unix seconds
	vectors     Embeddings
}

// New validates and creates a Complaint at intake time.
// Summary, department and vectors are attached by the intake pipeline.
func New(id, number, title, content, category string, submittedAt int64) (Complaint, error) {
	if id == "" {
		return Complaint{}, fmt.Errorf("complaint ID is required")
	}
	if number == "" {
		return Complaint{}, fmt.Errorf("complaint number is required")
	}
	if strings.TrimSpace(title) == "" {
		return Complaint{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleSize {
		return Complaint{}, fmt.Errorf("title too long (max %d bytes)", MaxTitleSize)
	}
	if strings.TrimSpace(content) == "" {
		return Complaint{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Complaint{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if category == "" {
		return Complaint{}, fmt.Errorf("category is required")
	}

	return Complaint{
		id:          id,
		number:      number,
		title:       title,
		content:     content,
		category:    category,
		status:      StatusReceived,
		submittedAt: submittedAt,
	}, nil
}

// Reconstruct creates a Complaint without validation (storage hydration).
func Reconstruct(
	id, number, title, content, summary, category, department, status, response string,
	submittedAt int64, vectors Embeddings,
) Complaint {
	return Complaint{
		id: id, number: number, title: title, content: content,
		summary: summary, category: category, department: department,
		status: status, response: response,
		submittedAt: submittedAt, vectors: vectors,
	}
}

// ID returns the storage identifier.
func (c *Complaint) ID() string { return c.id }

// Number returns the human-facing sequential complaint number.
func (c *Complaint) Number() string { return c.number }

// Title returns the complaint title.
func (c *Complaint) Title() string { return c.title }

// Content returns the complaint body text.
func (c *Complaint) Content() string { return c.content }

// Summary returns the AI-generated one-line summary.
func (c *Complaint) Summary() string { return c.summary }

// Category returns the complaint category label.
func (c *Complaint) Category() string { return c.category }

// Department returns the assigned department.
func (c *Complaint) Department() string { return c.department }

// Status returns the lifecycle status.
func (c *Complaint) Status() string { return c.status }

// Response returns the staff response text, if any.
func (c *Complaint) Response() string { return c.response }

// SubmittedAt returns the submission time in unix seconds.
func (c *Complaint) SubmittedAt() int64 { return c.submittedAt }

// Vectors returns the stored per-field embeddings.
func (c *Complaint) Vectors() Embeddings { return c.vectors }

// WithAnalysis returns a copy with summary and department attached.
func (c *Complaint) WithAnalysis(summary, department string) Complaint {
	out := *c
	out.summary = summary
	out.department = department
	return out
}

// WithVectors returns a copy with embeddings attached.
func (c *Complaint) WithVectors(v Embeddings) Complaint {
	out := *c
	out.vectors = v
	return out
}

// WithResponse returns a copy with the response recorded and status advanced.
func (c *Complaint) WithResponse(response string) Complaint {
	out := *c
	out.response = response
	out.status = StatusAnswered
	return out
}
