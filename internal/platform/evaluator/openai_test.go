package evaluator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluatorStub(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", server.URL+"/v1", "grok-4-fast-non-reasoning")
}

func TestEvaluateDecodesStructuredReply(t *testing.T) {
	var gotBody map[string]any
	client := evaluatorStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "grok-4-fast-non-reasoning",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"score\": 7, \"comment\": \"Close, mind the edge cases.\"}"}
			}]
		}`))
	})

	evaluation, err := client.Evaluate(context.Background(), "Print Hello", `print("hi")`)
	require.NoError(t, err)
	assert.Equal(t, 7, evaluation.Score)
	assert.Equal(t, "Close, mind the edge cases.", evaluation.Comment)

	assert.Equal(t, "grok-4-fast-non-reasoning", gotBody["model"])
	messages, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	user := messages[1].(map[string]any)
	assert.Contains(t, user["content"], "Task Description: Print Hello")
	assert.Contains(t, user["content"], `User Answer: print("hi")`)
}

func TestEvaluateRemoteFailure(t *testing.T) {
	client := evaluatorStub(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "over capacity"}}`, http.StatusInternalServerError)
	})

	_, err := client.Evaluate(context.Background(), "d", "c")
	assert.Error(t, err)
}

func TestEvaluateMalformedReply(t *testing.T) {
	client := evaluatorStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "cmpl-2",
			"object": "chat.completion",
			"created": 1,
			"model": "grok-4-fast-non-reasoning",
			"choices": [{
				"index": 0,
				"finish_reason": "stop",
				"message": {"role": "assistant", "content": "not json at all"}
			}]
		}`))
	})

	_, err := client.Evaluate(context.Background(), "d", "c")
	assert.Error(t, err)
}
