package module

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/fetch"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func mustURL(t *testing.T, s string) *url.URL {
	t.Helper()
	u, err := url.Parse(s)
	require.NoError(t, err)
	return u
}

// stubFetcher serves fixed bodies by path.
type stubFetcher map[string]string

func (s stubFetcher) Fetch(_ context.Context, u *url.URL) (*fetch.Response, error) {
	body, ok := s[u.Path]
	if !ok {
		return &fetch.Response{Status: http.StatusNotFound, URL: u}, nil
	}
	return &fetch.Response{Status: http.StatusOK, URL: u, Body: []byte(body)}, nil
}

func TestRegistry(t *testing.T) {
	ran := 0
	reg := NewRegistry().Register("./js/page/games.mjs", func() Exports {
		return Exports{Run: func(context.Context) error { ran++; return nil }}
	})

	t.Run("matches cleaned path", func(t *testing.T) {
		exp, err := reg.Import(context.Background(), mustURL(t, "http://localhost:5173/js/page/games.mjs"))
		require.NoError(t, err)
		require.NotNil(t, exp.Run)
		assert.Nil(t, exp.Free)
		require.NoError(t, exp.Run(context.Background()))
		assert.Equal(t, 1, ran)
	})

	t.Run("unknown path", func(t *testing.T) {
		_, err := reg.Import(context.Background(), mustURL(t, "http://localhost:5173/js/page/nope.mjs"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	assert.Equal(t, 1, reg.Len())
}

func TestChain(t *testing.T) {
	boom := errors.New("boom")
	failing := ImporterFunc(func(context.Context, *url.URL) (Exports, error) { return Exports{}, boom })
	reg := NewRegistry().Register("/a.mjs", func() Exports { return Exports{} })

	t.Run("falls through not found", func(t *testing.T) {
		_, err := Chain{NewRegistry(), reg}.Import(context.Background(), mustURL(t, "http://x/a.mjs"))
		assert.NoError(t, err)
	})

	t.Run("stops at real failures", func(t *testing.T) {
		_, err := Chain{failing, reg}.Import(context.Background(), mustURL(t, "http://x/a.mjs"))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nothing matches", func(t *testing.T) {
		_, err := Chain{NewRegistry()}.Import(context.Background(), mustURL(t, "http://x/b.mjs"))
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestEvaluate(t *testing.T) {
	t.Run("run and free", func(t *testing.T) {
		exp, err := Evaluate("games.mjs", `
			var count = 0;
			exports.run = function () { count++; };
			exports.free = function () { if (count !== 1) { throw new Error("run not called"); } };
		`, discard)
		require.NoError(t, err)
		require.NotNil(t, exp.Run)
		require.NotNil(t, exp.Free)

		assert.NoError(t, exp.Run(context.Background()))
		assert.NoError(t, exp.Free(context.Background()))
	})

	t.Run("module.exports replacement", func(t *testing.T) {
		exp, err := Evaluate("obj.mjs", `module.exports = { run: function () {} };`, discard)
		require.NoError(t, err)
		assert.NotNil(t, exp.Run)
		assert.Nil(t, exp.Free)
	})

	t.Run("no run export", func(t *testing.T) {
		exp, err := Evaluate("lib.mjs", `exports.helper = 1;`, discard)
		require.NoError(t, err)
		assert.Nil(t, exp.Run)
	})

	t.Run("throwing run", func(t *testing.T) {
		exp, err := Evaluate("bad.mjs", `exports.run = function () { throw new Error("nope"); };`, discard)
		require.NoError(t, err)
		assert.ErrorContains(t, exp.Run(context.Background()), "nope")
	})

	t.Run("rejected promise", func(t *testing.T) {
		exp, err := Evaluate("async.mjs", `exports.run = function () { return Promise.reject("late"); };`, discard)
		require.NoError(t, err)
		assert.ErrorContains(t, exp.Run(context.Background()), "late")
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := Evaluate("broken.mjs", `exports.run = function ( {`, discard)
		assert.Error(t, err)
	})

	t.Run("null exports", func(t *testing.T) {
		_, err := Evaluate("null.mjs", `module.exports = null;`, discard)
		assert.Error(t, err)
	})

	t.Run("console is available", func(t *testing.T) {
		exp, err := Evaluate("log.mjs", `exports.run = function () { console.log("ready", 1); console.error("x"); };`, discard)
		require.NoError(t, err)
		assert.NoError(t, exp.Run(context.Background()))
	})
}

func TestScriptImporter(t *testing.T) {
	imp := &ScriptImporter{
		Fetcher: stubFetcher{"/js/page/games.mjs": `exports.run = function () {};`},
		Logger:  discard,
	}

	exp, err := imp.Import(context.Background(), mustURL(t, "http://localhost/js/page/games.mjs"))
	require.NoError(t, err)
	assert.NotNil(t, exp.Run)

	_, err = imp.Import(context.Background(), mustURL(t, "http://localhost/js/page/missing.mjs"))
	assert.ErrorIs(t, err, ErrNotFound)
}
