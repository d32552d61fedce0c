package greenhouse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/boards/riskified/jobs", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("content"))

		_, _ = w.Write([]byte(`{
			"jobs": [
				{
					"id": 4400001,
					"title": "Data Scientist",
					"location": {"name": "Tel Aviv, Israel"},
					"absolute_url": "https://www.riskified.com/careers/4400001",
					"content": "&lt;h2&gt;About the Role&lt;/h2&gt;&lt;p&gt;Fraud models.&lt;/p&gt;",
					"created_at": "2026-01-15T08:00:00Z",
					"updated_at": "2026-02-20T08:00:00Z"
				}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	list, err := c.ListJobs(context.Background(), "riskified")
	require.NoError(t, err)
	require.Len(t, list.Jobs, 1)

	job := list.Jobs[0]
	assert.Equal(t, int64(4400001), job.ID)
	assert.Equal(t, "Tel Aviv, Israel", job.Location.Name)
	assert.Contains(t, job.Content, "&lt;h2&gt;", "content stays entity-escaped at the client layer")
	assert.Equal(t, "2026-02-20T08:00:00Z", job.UpdatedAt)
}

func TestListJobs_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.ListJobs(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "nope")
}
