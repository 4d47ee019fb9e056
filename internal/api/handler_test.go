package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github-trends/internal/model"
	"github-trends/internal/table"
)

func setupTestServer(t *testing.T) (*httptest.Server, string, string) {
	tablesDir := t.TempDir()
	chartsDir := t.TempDir()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httptest.NewServer(NewRouter(tablesDir, chartsDir, logger))
	t.Cleanup(server.Close)

	return server, tablesDir, chartsDir
}

func TestHealthCheck(t *testing.T) {
	server, _, _ := setupTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestGetTable(t *testing.T) {
	t.Run("serves a cleaned table as JSON rows", func(t *testing.T) {
		server, tablesDir, _ := setupTestServer(t)

		repos := []model.Repository{
			{ID: 1, Name: "ml-lib", Username: "org", OwnerType: model.OwnerTypeOrganization, Stars: 50, Subject: "ml"},
		}
		require.NoError(t, table.Write(filepath.Join(tablesDir, "top-repos.csv"), repos))

		resp, err := http.Get(server.URL + "/v1/tables/top-repos")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var rows []map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "ml-lib", rows[0]["repo_name"])
		assert.Equal(t, float64(50), rows[0]["stars"])
	})

	t.Run("unknown table name is a 404", func(t *testing.T) {
		server, _, _ := setupTestServer(t)

		resp, err := http.Get(server.URL + "/v1/tables/secrets")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("known table not yet produced is a 404", func(t *testing.T) {
		server, _, _ := setupTestServer(t)

		resp, err := http.Get(server.URL + "/v1/tables/user-data")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetChart(t *testing.T) {
	t.Run("serves a rendered chart", func(t *testing.T) {
		server, _, chartsDir := setupTestServer(t)
		require.NoError(t, os.WriteFile(filepath.Join(chartsDir, "top_repos_by_stars.png"), []byte("png-bytes"), 0o644))

		resp, err := http.Get(server.URL + "/v1/charts/top_repos_by_stars.png")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	})

	t.Run("missing chart is a 404", func(t *testing.T) {
		server, _, _ := setupTestServer(t)

		resp, err := http.Get(server.URL + "/v1/charts/user_map.png")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		server, _, _ := setupTestServer(t)

		for _, file := range []string{"..%2F..%2Fetc%2Fpasswd.png", "notes.txt", "..png"} {
			resp, err := http.Get(server.URL + "/v1/charts/" + file)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusNotFound, resp.StatusCode, file)
		}
	})
}
