package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tmcke/portview/internal/domain"
)

func TestClientQuery(t *testing.T) {
	t.Parallel()

	var got QueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/llm/query", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(QueryResponse{
			Response: "answer",
			Insights: []string{"one"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	records := []domain.ProjectRecord{{Portfolio: "P1", Program: "Alpha", Name: "A1", Budget: 100}}

	resp, err := c.Query(context.Background(), "how are budgets?", BuildContext(records), "dashboard")
	require.NoError(t, err)
	require.Equal(t, "answer", resp.Response)
	require.Equal(t, []string{"one"}, resp.Insights)

	require.Equal(t, "how are budgets?", got.Query)
	require.Equal(t, "dashboard", got.CurrentView)
	require.Len(t, got.DataContext.Projects, 1)
	require.Equal(t, "P1", got.DataContext.Portfolios[0].Name)
}

func TestClientQueryBackendError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	_, err := c.Query(context.Background(), "q", DataContext{}, "dashboard")
	require.Error(t, err)
	require.Contains(t, err.Error(), "500")
}

func TestClientQueryUnreachable(t *testing.T) {
	t.Parallel()

	c := NewClient("http://127.0.0.1:1", 500*time.Millisecond)
	_, err := c.Query(context.Background(), "q", DataContext{}, "dashboard")
	require.Error(t, err)
}

func TestClientHealth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 2*time.Second)
	require.NoError(t, c.Health(context.Background()))

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer bad.Close()

	c = NewClient(bad.URL, 2*time.Second)
	require.Error(t, c.Health(context.Background()))
}

func TestBuildContextShapes(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.ProjectRecord{
		{Portfolio: "P1", Program: "Alpha", Name: "A1", Manager: "chen", Budget: 100, Spent: 50, Status: domain.StatusOnTrack, Start: &start, CurrentEnd: &end},
		{Portfolio: "P1", Program: "Alpha", Name: "A2", Manager: "", Budget: 200, Status: domain.StatusDelayed},
	}

	ctx := BuildContext(records)
	require.Len(t, ctx.Portfolios, 1)
	require.Equal(t, 300.0, ctx.Portfolios[0].Value, "portfolio value sums budgets")
	require.Len(t, ctx.Programs, 1)
	require.Len(t, ctx.Projects, 2)
	require.Len(t, ctx.Timelines, 2)
	require.Empty(t, ctx.Timelines[1].Start, "missing dates serialize as empty strings")
	require.Len(t, ctx.Dependencies, 1, "managerless projects add no dependency")
}
