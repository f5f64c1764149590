package alert

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type collector struct {
	messages []string
}

func (c *collector) Alert(message string) {
	c.messages = append(c.messages, message)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "", Format(nil))

	base := errors.New("connection refused")
	wrapped := fmt.Errorf("fetch /html/games.html: %w", base)

	got := Format(wrapped)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "fetch /html/games.html: connection refused", lines[0])
	assert.Equal(t, "    at *errors.errorString: connection refused", lines[1])
}

func TestFormatJoined(t *testing.T) {
	joined := errors.Join(errors.New("first"), fmt.Errorf("second: %w", errors.New("inner")))

	lines := strings.Split(strings.TrimRight(Format(joined), "\n"), "\n")
	assert.Equal(t, []string{
		"first",
		"second: inner",
		"    at *errors.errorString: first",
		"    at *fmt.wrapError: second: inner",
		"        at *errors.errorString: inner",
	}, lines)
}

func TestReporter(t *testing.T) {
	t.Run("english", func(t *testing.T) {
		sink := &collector{}
		r, err := NewReporter("", sink)
		require.NoError(t, err)

		assert.True(t, r.Report(errors.New("boom")))
		require.Len(t, sink.messages, 1)
		assert.True(t, strings.HasPrefix(sink.messages[0], "An error occurred, tell the dev!\n\nboom"))
	})

	t.Run("czech", func(t *testing.T) {
		sink := &collector{}
		r, err := NewReporter("cs", sink)
		require.NoError(t, err)

		r.ReportBackground("hashchange", errors.New("boom"))
		require.Len(t, sink.messages, 1)
		assert.Contains(t, sink.messages[0], "Nastala chyba (hashchange)")
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		sink := &collector{}
		r, err := NewReporter("de", sink)
		require.NoError(t, err)

		r.ReportBackground("hashchange", errors.New("boom"))
		require.Len(t, sink.messages, 1)
		assert.Contains(t, sink.messages[0], "An error (hashchange) occurred")
	})

	t.Run("invalid language", func(t *testing.T) {
		_, err := NewReporter("not a language!", nil)
		assert.Error(t, err)
	})

	t.Run("exit and nil are ignored", func(t *testing.T) {
		sink := &collector{}
		r, err := NewReporter("en", sink)
		require.NoError(t, err)

		assert.False(t, r.Report(nil))
		assert.False(t, r.Report(ErrExit))
		assert.False(t, r.Report(fmt.Errorf("shutting down: %w", ErrExit)))
		assert.False(t, r.ReportBackground("task", ErrExit))
		assert.Empty(t, sink.messages)
	})

	t.Run("sink func", func(t *testing.T) {
		var got string
		r, err := NewReporter("en", SinkFunc(func(m string) { got = m }))
		require.NoError(t, err)

		r.Report(errors.New("boom"))
		assert.Contains(t, got, "boom")
	})
}
