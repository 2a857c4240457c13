package tracker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJiraClient_UpdateItemEstimate(t *testing.T) {
	req := require.New(t)

	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		req.Equal(http.MethodPut, r.Method)
		req.NoError(json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewJiraClient(server.URL, "bot@example.com", "token", "customfield_10016", zap.NewNop())
	err := client.UpdateItemEstimate(context.Background(), "PROJ-9", "8", "story")
	req.NoError(err)

	req.Equal("/rest/api/2/issue/PROJ-9", gotPath)
	fields := gotBody["fields"].(map[string]any)
	req.Equal(8.0, fields["customfield_10016"])
}

func TestJiraClient_NonNumericEstimateRejectedLocally(t *testing.T) {
	req := require.New(t)

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewJiraClient(server.URL, "bot@example.com", "token", "customfield_10016", zap.NewNop())
	err := client.UpdateItemEstimate(context.Background(), "PROJ-9", "?", "story")
	req.Error(err)
	req.False(called)
}

func TestJiraClient_SubTaskSkipped(t *testing.T) {
	req := require.New(t)

	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewJiraClient(server.URL, "bot@example.com", "token", "customfield_10016", zap.NewNop())
	err := client.UpdateItemEstimate(context.Background(), "PROJ-9", "3", "sub-task")
	req.NoError(err)
	req.False(called)
}

func TestJiraClient_APIErrorSurfaced(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errorMessages": []string{"Field 'customfield_10016' cannot be set"},
		})
	}))
	defer server.Close()

	client := NewJiraClient(server.URL, "bot@example.com", "token", "customfield_10016", zap.NewNop())
	err := client.UpdateItemEstimate(context.Background(), "PROJ-9", "8", "story")
	req.Error(err)
	req.Contains(err.Error(), "PROJ-9")
}
