package complaint

import (
	"context"
	"fmt"

	"github.com/civicdesk/minwon/internal/db"
)

// indexStore is the consumer interface for index bootstrap.
type indexStore interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// IndexParams configures the complaint FT index schema.
type IndexParams struct {
	VectorDim       int
	HNSWMaxEdges    int
	HNSWEFConstruct int
}

// IndexManager creates the complaint search index on startup.
type IndexManager struct {
	store  indexStore
	prefix string
	params IndexParams
}

// NewIndexManager creates an index manager for the complaint index.
func NewIndexManager(s indexStore, prefix string, params IndexParams) *IndexManager {
	return &IndexManager{store: s, prefix: prefix, params: params}
}

// EnsureIndex creates the complaint FT index if it does not exist yet.
// Idempotent: safe to call on every startup.
func (m *IndexManager) EnsureIndex(ctx context.Context) error {
	name := m.prefix + "complaint:idx"

	exists, err := m.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	def := m.definition(name)
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index definition: %w", err)
	}

	if err := m.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, err)
	}

	return nil
}

func (m *IndexManager) definition(name string) *db.IndexDefinition {
	vectorField := func(fieldName string) db.IndexField {
		return db.IndexField{
			Name:              fieldName,
			Type:              db.IndexFieldVector,
			VectorAlgo:        db.VectorHNSW,
			VectorDim:         m.params.VectorDim,
			VectorDistance:    db.DistanceCosine,
			VectorM:           m.params.HNSWMaxEdges,
			VectorEFConstruct: m.params.HNSWEFConstruct,
		}
	}

	return &db.IndexDefinition{
		Name:        name,
		StorageType: db.StorageHash,
		Prefixes:    []string{m.prefix + "complaint:"},
		Fields: []db.IndexField{
			{Name: fieldCategory, Type: db.IndexFieldTag},
			{Name: fieldDepartment, Type: db.IndexFieldTag},
			{Name: fieldStatus, Type: db.IndexFieldTag},
			{Name: fieldSubmittedAt, Type: db.IndexFieldNumeric},
			vectorField(fieldTitleVec),
			vectorField(fieldContentVec),
			vectorField(fieldSummaryVec),
		},
	}
}
