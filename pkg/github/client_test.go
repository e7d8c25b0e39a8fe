package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/hostprep/pkg/errors"
)

// fakeAPI serves /user/repos with a fixed number of repositories per page
type fakeAPI struct {
	t        *testing.T
	pages    []int
	status   int
	body     string
	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r)
	f.mu.Unlock()

	if r.URL.Path != "/user/repos" {
		http.NotFound(w, r)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		_, _ = fmt.Fprint(w, `{"message":"Bad credentials"}`)
		return
	}
	if f.body != "" {
		_, _ = fmt.Fprint(w, f.body)
		return
	}

	var page int
	_, _ = fmt.Sscanf(r.URL.Query().Get("page"), "%d", &page)
	count := 0
	if page >= 1 && page <= len(f.pages) {
		count = f.pages[page-1]
	}
	repos := make([]map[string]string, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("ada/repo-%d-%03d", page, i)
		repos = append(repos, map[string]string{
			"full_name": name,
			"clone_url": "https://github.com/" + name + ".git",
		})
	}
	w.Header().Set("Content-Type", "application/json")
	assert.NoError(f.t, json.NewEncoder(w).Encode(repos))
}

func newServer(t *testing.T, api *fakeAPI) *Client {
	t.Helper()
	api.t = t
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := NewClient("ghp_test", srv.URL)
	require.NoError(t, err)
	return c
}

func TestListOwnedRepositoriesPaginates(t *testing.T) {
	api := &fakeAPI{pages: []int{100, 100, 37}}
	c := newServer(t, api)

	repos, err := c.ListOwnedRepositories(context.Background())
	require.NoError(t, err)
	assert.Len(t, repos, 237)
	assert.Equal(t, "ada/repo-1-000", repos[0].FullName)
	assert.Equal(t, "https://github.com/ada/repo-3-036.git", repos[236].CloneURL)

	require.Len(t, api.requests, 4, "three full pages plus the terminating empty page")
	for i, r := range api.requests {
		q := r.URL.Query()
		assert.Equal(t, fmt.Sprint(i+1), q.Get("page"))
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "all", q.Get("visibility"))
		assert.Equal(t, "owner", q.Get("affiliation"))
		assert.Equal(t, "full_name", q.Get("sort"))
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
	}
}

func TestListOwnedRepositoriesErrorStatus(t *testing.T) {
	c := newServer(t, &fakeAPI{status: http.StatusUnauthorized})

	repos, err := c.ListOwnedRepositories(context.Background())
	require.Error(t, err)
	assert.Nil(t, repos)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGitHubAPI))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "HTTP 401")
}

func TestListOwnedRepositoriesNonArrayBody(t *testing.T) {
	c := newServer(t, &fakeAPI{body: `{"unexpected":"object"}`})

	repos, err := c.ListOwnedRepositories(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := NewClient("t", "http://[::1")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}
