package complaint

import (
	"context"
	"errors"
	"testing"

	"github.com/civicdesk/minwon/internal/db"
	"github.com/civicdesk/minwon/internal/domain"
)

// --- NextNumber ---

func TestNextNumber(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()

	ms.incrFn = func(_ context.Context, key string) (int64, error) {
		if key != "minwon:seq:complaint" {
			t.Errorf("unexpected sequence key: %s", key)
		}
		return 42, nil
	}

	number, err := repo.NextNumber(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if number != "000042" {
		t.Errorf("number = %q, want 000042", number)
	}
}

func TestNextNumber_IncrError(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.incrFn = func(_ context.Context, _ string) (int64, error) {
		return 0, errors.New("connection refused")
	}

	if _, err := repo.NextNumber(context.Background()); err == nil {
		t.Fatal("expected error on INCR failure")
	}
}

// --- Save ---

func TestSave(t *testing.T) {
	repo, ms := newTestRepo(t)
	ctx := context.Background()
	c := testComplaint(t)

	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		if key != "minwon:complaint:c-1" {
			t.Errorf("unexpected hash key: %s", key)
		}
		gotFields = fields
		return nil
	}
	ms.setFn = func(_ context.Context, key string, value []byte) error {
		if key != "minwon:num:000042" {
			t.Errorf("unexpected number key: %s", key)
		}
		if string(value) != "c-1" {
			t.Errorf("number maps to %q, want c-1", value)
		}
		return nil
	}

	if err := repo.Save(ctx, &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotFields[fieldTitle] != "도로 파손 신고" {
		t.Errorf("title field = %q", gotFields[fieldTitle])
	}
	if gotFields[fieldStatus] != "0" {
		t.Errorf("status field = %q, want 0", gotFields[fieldStatus])
	}
	if len(gotFields[fieldTitleVec]) != 8*4 {
		t.Errorf("title_vec blob size = %d, want 32", len(gotFields[fieldTitleVec]))
	}
}

func TestSave_HSetError(t *testing.T) {
	repo, ms := newTestRepo(t)
	c := testComplaint(t)

	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("OOM")
	}

	if err := repo.Save(context.Background(), &c); err == nil {
		t.Fatal("expected error on HSET failure")
	}
}

// --- Get ---

func TestGet(t *testing.T) {
	repo, ms := newTestRepo(t)
	c := testComplaint(t)

	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "minwon:complaint:c-1" {
			t.Errorf("unexpected key: %s", key)
		}
		return toFields(&c), nil
	}

	got, err := repo.Get(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "c-1" || got.Number() != "000042" {
		t.Errorf("got id=%s number=%s", got.ID(), got.Number())
	}
	if got.Category() != "재해∙보상" {
		t.Errorf("category = %q", got.Category())
	}
	if len(got.Vectors().Content) != 8 {
		t.Errorf("content vector dim = %d, want 8", len(got.Vectors().Content))
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	// HGETALL on a missing key returns an empty map, not an error.
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	_, err := repo.Get(context.Background(), "nope")
	if !errors.Is(err, domain.ErrComplaintNotFound) {
		t.Fatalf("err = %v, want ErrComplaintNotFound", err)
	}
}

// --- GetByNumber ---

func TestGetByNumber(t *testing.T) {
	repo, ms := newTestRepo(t)
	c := testComplaint(t)

	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		if key != "minwon:num:000042" {
			t.Errorf("unexpected lookup key: %s", key)
		}
		return []byte("c-1"), nil
	}
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return toFields(&c), nil
	}

	got, err := repo.GetByNumber(context.Background(), "000042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID() != "c-1" {
		t.Errorf("id = %s, want c-1", got.ID())
	}
}

func TestGetByNumber_NotFound(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, db.ErrKeyNotFound
	}

	_, err := repo.GetByNumber(context.Background(), "999999")
	if !errors.Is(err, domain.ErrComplaintNotFound) {
		t.Fatalf("err = %v, want ErrComplaintNotFound", err)
	}
}

// --- List ---

func TestList(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchListFn = func(
		_ context.Context, index, query string, offset, limit int, _ []string,
	) (*db.SearchResult, error) {
		if index != "minwon:complaint:idx" {
			t.Errorf("unexpected index: %s", index)
		}
		if query != "*" {
			t.Errorf("unexpected query: %s", query)
		}
		if offset != 0 || limit != 3 {
			t.Errorf("offset=%d limit=%d, want 0/3", offset, limit)
		}
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "minwon:complaint:c-1", Fields: map[string]string{
					fieldNumber: "000001", fieldTitle: "첫번째",
				}},
				{Key: "minwon:complaint:c-2", Fields: map[string]string{
					fieldNumber: "000002", fieldTitle: "두번째",
				}},
			},
		}, nil
	}

	got, next, err := repo.List(context.Background(), "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d complaints, want 2", len(got))
	}
	if got[0].ID() != "c-1" || got[1].ID() != "c-2" {
		t.Errorf("ids = %s, %s", got[0].ID(), got[1].ID())
	}
	if next != "" {
		t.Errorf("next cursor = %q, want empty on last page", next)
	}
}

func TestList_NextCursor(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchListFn = func(
		_ context.Context, _, _ string, offset, limit int, _ []string,
	) (*db.SearchResult, error) {
		entries := make([]db.SearchEntry, limit)
		for i := range entries {
			entries[i] = db.SearchEntry{
				Key:    "minwon:complaint:c-x",
				Fields: map[string]string{},
			}
		}
		return &db.SearchResult{Total: 100, Entries: entries}, nil
	}

	got, next, err := repo.List(context.Background(), "10", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d complaints, want 5", len(got))
	}
	if next != "15" {
		t.Errorf("next cursor = %q, want 15", next)
	}
}

func TestList_BadCursor(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, _, err := repo.List(context.Background(), "abc", 5)
	if !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

// --- Count ---

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.searchCountFn = func(_ context.Context, index, query string) (int, error) {
		if index != "minwon:complaint:idx" || query != "*" {
			t.Errorf("unexpected call: %s %s", index, query)
		}
		return 7, nil
	}

	n, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("count = %d, want 7", n)
	}
}

// --- Vector codec ---

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{0.1, -2.5, 3.75, 0}
	out := blobToVector(vectorToBlob(in))
	if len(out) != len(in) {
		t.Fatalf("dim = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], in[i])
		}
	}
}

func TestBlobToVector_Truncated(t *testing.T) {
	if v := blobToVector("abc"); v != nil {
		t.Errorf("truncated blob decoded to %v, want nil", v)
	}
}
