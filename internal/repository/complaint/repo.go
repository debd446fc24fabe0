// Package complaint persists complaints as Redis hashes behind an FT index.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/civicdesk/minwon/internal/db"
	"github.com/civicdesk/minwon/internal/domain"
	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
)

// store is the consumer interface for complaint persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Incr(ctx context.Context, key string) (int64, error)
	SearchList(ctx context.Context, index, query string, offset, limit int, fields []string) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// Repo implements usecase/complaint.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates a complaint repository. prefix is the storage key prefix.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// NextNumber allocates the next sequential complaint number.
func (r *Repo) NextNumber(ctx context.Context) (string, error) {
	seq, err := r.store.Incr(ctx, r.prefix+"seq:complaint")
	if err != nil {
		return "", fmt.Errorf("next complaint number: %w", err)
	}
	return formatNumber(seq), nil
}

// Save persists a complaint and its number→id lookup entry.
func (r *Repo) Save(ctx context.Context, c *domcomplaint.Complaint) error {
	key := r.docKey(c.ID())

	if err := r.store.HSet(ctx, key, toFields(c)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}

	numKey := r.numberKey(c.Number())
	if err := r.store.Set(ctx, numKey, []byte(c.ID())); err != nil {
		return fmt.Errorf("set %s: %w", numKey, err)
	}

	return nil
}

// Get returns a complaint by storage ID.
func (r *Repo) Get(ctx context.Context, id string) (domcomplaint.Complaint, error) {
	key := r.docKey(id)

	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domcomplaint.Complaint{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(fields) == 0 {
		return domcomplaint.Complaint{}, domain.ErrComplaintNotFound
	}

	return fromFields(id, fields), nil
}

// GetByNumber returns a complaint by its human-facing number.
func (r *Repo) GetByNumber(ctx context.Context, number string) (domcomplaint.Complaint, error) {
	id, err := r.store.Get(ctx, r.numberKey(number))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domcomplaint.Complaint{}, domain.ErrComplaintNotFound
		}
		return domcomplaint.Complaint{}, fmt.Errorf("resolve number %s: %w", number, err)
	}
	return r.Get(ctx, string(id))
}

// List returns complaints with cursor-based pagination via FT.SEARCH.
func (r *Repo) List(ctx context.Context, cursor string, limit int) ([]domcomplaint.Complaint, string, error) {
	if limit <= 0 {
		limit = 20
	}

	offset := 0
	if cursor != "" {
		parsed, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, "", fmt.Errorf("invalid cursor %q: %w", cursor, domain.ErrInvalidArgument)
		}
		offset = parsed
	}

	fetchCount := limit + 1

	result, err := r.store.SearchList(ctx, r.indexName(), "*", offset, fetchCount, listReturnFields())
	if err != nil {
		return nil, "", fmt.Errorf("search list: %w", err)
	}

	if result == nil || result.Total == 0 {
		return nil, "", nil
	}

	complaints := make([]domcomplaint.Complaint, 0, limit)
	for i, entry := range result.Entries {
		if i >= limit {
			break
		}
		complaints = append(complaints, fromFields(r.extractID(entry.Key), entry.Fields))
	}

	var nextCursor string
	if len(result.Entries) > limit {
		nextCursor = strconv.Itoa(offset + limit)
	}

	return complaints, nextCursor, nil
}

// Count returns the number of stored complaints.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, r.indexName(), "*")
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}

// listReturnFields keeps list payloads lean: no body text, no vectors.
func listReturnFields() []string {
	return []string{
		fieldNumber, fieldTitle, fieldSummary, fieldCategory,
		fieldDepartment, fieldStatus, fieldSubmittedAt,
	}
}

func (r *Repo) docKey(id string) string {
	return r.prefix + "complaint:" + id
}

func (r *Repo) numberKey(number string) string {
	return r.prefix + "num:" + number
}

func (r *Repo) indexName() string {
	return r.prefix + "complaint:idx"
}

func (r *Repo) extractID(key string) string {
	prefix := r.prefix + "complaint:"
	if len(key) > len(prefix) && key[:len(prefix)] == prefix {
		return key[len(prefix):]
	}
	return key
}
