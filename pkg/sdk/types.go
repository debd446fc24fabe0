package minwon

// Complaint is a stored civil complaint.
type Complaint struct {
	ID          string
	Number      string
	Title       string
	Content     string
	Summary     string
	Category    string
	Department  string
	Status      string
	Response    string
	SubmittedAt int64
}

// Complaint status constants.
const (
	StatusReceived = "0"
	StatusAnswered = "1"
)

// Department describes one routing target for intake analysis.
type Department struct {
	Name     string
	Duties   []string
	Keywords []string
}

// SearchResult is a single fused search hit.
type SearchResult struct {
	ID            string
	Number        string
	Title         string
	Summary       string
	Category      string
	Department    string
	Response      string
	FinalScore    float64
	MaxSimilarity float64
	AvgSimilarity float64
	SourceCount   int
	Sources       []string
	Contributions map[string]float64
}

// SearchResponse is the outcome of a similarity search, including how the
// query was routed.
type SearchResponse struct {
	Category        string
	Confidence      float64
	Strategy        string
	Results         []SearchResult
	TotalCandidates int
}

// ComplaintList is a paginated complaint listing.
type ComplaintList struct {
	Items      []Complaint
	NextCursor string
}
