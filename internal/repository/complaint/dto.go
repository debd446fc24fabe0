package complaint

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	domcomplaint "github.com/civicdesk/minwon/internal/domain/complaint"
)

// Hash field names. Vector fields hold FLOAT32 little-endian blobs and are
// indexed by FT.CREATE; the rest are plain strings.
const (
	fieldNumber      = "number"
	fieldTitle       = "title"
	fieldContent     = "content"
	fieldSummary     = "summary"
	fieldCategory    = "category"
	fieldDepartment  = "department"
	fieldStatus      = "status"
	fieldResponse    = "response"
	fieldSubmittedAt = "submitted_at"
	fieldTitleVec    = "title_vec"
	fieldContentVec  = "content_vec"
	fieldSummaryVec  = "summary_vec"
)

// toFields flattens a complaint into hash fields.
func toFields(c *domcomplaint.Complaint) map[string]string {
	fields := map[string]string{
		fieldNumber:      c.Number(),
		fieldTitle:       c.Title(),
		fieldContent:     c.Content(),
		fieldSummary:     c.Summary(),
		fieldCategory:    c.Category(),
		fieldDepartment:  c.Department(),
		fieldStatus:      c.Status(),
		fieldResponse:    c.Response(),
		fieldSubmittedAt: strconv.FormatInt(c.SubmittedAt(), 10),
	}

	v := c.Vectors()
	if len(v.Title) > 0 {
		fields[fieldTitleVec] = vectorToBlob(v.Title)
	}
	if len(v.Content) > 0 {
		fields[fieldContentVec] = vectorToBlob(v.Content)
	}
	if len(v.Summary) > 0 {
		fields[fieldSummaryVec] = vectorToBlob(v.Summary)
	}

	return fields
}

// fromFields hydrates a complaint from hash fields.
func fromFields(id string, fields map[string]string) domcomplaint.Complaint {
	submittedAt, _ := strconv.ParseInt(fields[fieldSubmittedAt], 10, 64)

	vectors := domcomplaint.Embeddings{
		Title:   blobToVector(fields[fieldTitleVec]),
		Content: blobToVector(fields[fieldContentVec]),
		Summary: blobToVector(fields[fieldSummaryVec]),
	}

	return domcomplaint.Reconstruct(
		id,
		fields[fieldNumber],
		fields[fieldTitle],
		fields[fieldContent],
		fields[fieldSummary],
		fields[fieldCategory],
		fields[fieldDepartment],
		fields[fieldStatus],
		fields[fieldResponse],
		submittedAt,
		vectors,
	)
}

func vectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func blobToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}

func formatNumber(seq int64) string {
	return fmt.Sprintf("%06d", seq)
}
