package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/router"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"date=20250719", "q=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, []router.Param{
		{Key: "date", Value: "20250719"},
		{Key: "q", Value: "a=b"},
		{Key: "empty", Value: ""},
	}, params)

	_, err = parseParams([]string{"novalue"})
	assert.Error(t, err)

	_, err = parseParams([]string{"=x"})
	assert.Error(t, err)
}

func TestServeHandler(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "html"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<main id=\"main-content\"></main>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "html", "games.html"), []byte("<h1>Games</h1>"), 0o644))

	srv := httptest.NewServer(newServeHandler(root))
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/html/games.html")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "<h1>Games</h1>", body)

	status, body = get("/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "main-content")

	status, _ = get("/html/")
	assert.Equal(t, http.StatusNotFound, status, "directories without an index are not listed")

	status, _ = get("/html/missing.html")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = get("/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")
}
