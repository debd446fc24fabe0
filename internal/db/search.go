package db

// TagFilter restricts a search to documents whose tag field matches a value.
type TagFilter struct {
	Key   string
	Value string
}

// KNNQuery is the input for vector similarity search against one vector field.
type KNNQuery struct {
	IndexName    string
	VectorField  string
	Vector       []float32
	K            int
	Tag          *TagFilter // optional pre-filter, nil = full corpus
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
