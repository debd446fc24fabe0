package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/civicdesk/minwon/internal/domain/category"
)

func testCategories(t *testing.T) category.Set {
	t.Helper()
	set, err := category.NewSet([]string{"성과∙급여", "윤리∙복무", "재해∙보상", "채용∙임용"})
	if err != nil {
		t.Fatalf("category set: %v", err)
	}
	return set
}

// chatServer responds to /chat/completions with the given message content.
func chatServer(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "boom", "type": "server_error"},
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]any{
				"prompt_tokens":     30,
				"completion_tokens": 12,
				"total_tokens":      42,
			},
		})
	}))
}

func testClassifier(t *testing.T, url string) *Classifier {
	t.Helper()
	return NewClassifier(&ChatConfig{
		APIKey:    "test-key",
		BaseURL:   url,
		Model:     "test-model",
		MaxTokens: 100,
		Logger:    zap.NewNop(),
	}, testCategories(t))
}

func TestClassify(t *testing.T) {
	server := chatServer(t, `{"category": "재해∙보상", "confidence": 0.92}`, http.StatusOK)
	defer server.Close()

	res, err := testClassifier(t, server.URL).Classify(context.Background(), "사무실에서 넘어져 다쳤습니다")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Category != "재해∙보상" {
		t.Errorf("category = %q", res.Category)
	}
	if res.Confidence != 0.92 {
		t.Errorf("confidence = %v", res.Confidence)
	}
	if res.TotalTokens != 42 {
		t.Errorf("tokens = %d, expected 42", res.TotalTokens)
	}
}

func TestClassify_FencedJSON(t *testing.T) {
	server := chatServer(t, "```json\n{\"category\": \"채용∙임용\", \"confidence\": 0.8}\n```", http.StatusOK)
	defer server.Close()

	res, err := testClassifier(t, server.URL).Classify(context.Background(), "채용 공고 문의")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Category != "채용∙임용" {
		t.Errorf("category = %q", res.Category)
	}
}

func TestClassify_ClampsConfidence(t *testing.T) {
	server := chatServer(t, `{"category": "성과∙급여", "confidence": 1.7}`, http.StatusOK)
	defer server.Close()

	res, err := testClassifier(t, server.URL).Classify(context.Background(), "급여 문의")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Confidence != 1 {
		t.Errorf("confidence = %v, expected clamp to 1", res.Confidence)
	}
}

func TestClassify_UnknownCategoryDegrades(t *testing.T) {
	server := chatServer(t, `{"category": "기타", "confidence": 0.9}`, http.StatusOK)
	defer server.Close()

	res, err := testClassifier(t, server.URL).Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if res.Conclusive() {
		t.Errorf("expected inconclusive result, got category %q", res.Category)
	}
}

func TestClassify_MalformedReplyDegrades(t *testing.T) {
	server := chatServer(t, "I cannot classify this.", http.StatusOK)
	defer server.Close()

	res, err := testClassifier(t, server.URL).Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if res.Conclusive() || res.Confidence != 0 {
		t.Errorf("expected zero result, got %+v", res)
	}
}

func TestClassify_APIErrorDegrades(t *testing.T) {
	server := chatServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	res, err := testClassifier(t, server.URL).Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("expected degraded result, got error: %v", err)
	}
	if res.Conclusive() {
		t.Errorf("expected inconclusive result, got %+v", res)
	}
}
