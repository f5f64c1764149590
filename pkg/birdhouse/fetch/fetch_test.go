package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("elsewhere"))
	}))
	defer other.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/html/games.html":
			assert.Equal(t, "u=0", r.Header.Get("Priority"))
			assert.Empty(t, r.Header.Get("Cookie"))
			_, _ = w.Write([]byte("<h1>Games</h1>"))
		case "/moved":
			http.Redirect(w, r, "/html/games.html", http.StatusFound)
		case "/away":
			http.Redirect(w, r, other.URL, http.StatusFound)
		case "/slow":
			time.Sleep(200 * time.Millisecond)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := New(Options{Timeout: 5 * time.Second})
	mustURL := func(path string) *url.URL {
		u, err := url.Parse(srv.URL + path)
		require.NoError(t, err)
		return u
	}

	t.Run("ok", func(t *testing.T) {
		resp, err := client.Fetch(context.Background(), mustURL("/html/games.html"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Equal(t, "<h1>Games</h1>", resp.Text())
	})

	t.Run("not found is a response", func(t *testing.T) {
		resp, err := client.Fetch(context.Background(), mustURL("/html/missing.html"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("same origin redirect followed", func(t *testing.T) {
		resp, err := client.Fetch(context.Background(), mustURL("/moved"))
		require.NoError(t, err)
		assert.Equal(t, "/html/games.html", resp.URL.Path)
	})

	t.Run("cross origin redirect refused", func(t *testing.T) {
		_, err := client.Fetch(context.Background(), mustURL("/away"))
		assert.ErrorIs(t, err, ErrRedirectOrigin)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.Fetch(ctx, mustURL("/slow"))
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestSameOrigin(t *testing.T) {
	parse := func(s string) *url.URL {
		u, err := url.Parse(s)
		require.NoError(t, err)
		return u
	}

	assert.True(t, SameOrigin(parse("http://localhost:5173/html/a.html"), parse("http://localhost:5173/?x=1#games")))
	assert.False(t, SameOrigin(parse("http://localhost:5173/"), parse("http://localhost:8080/")))
	assert.False(t, SameOrigin(parse("http://example.com/"), parse("https://example.com/")))
	assert.Equal(t, "https://example.com", Origin(parse("https://example.com/a/b?c")))
}
