// Package alert reports unhandled errors to the person in front of the
// application. Messages are localized and carry the error's wrap chain.
package alert

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/internal"
)

// ErrExit marks a deliberate stop. Errors matching it are never reported.
var ErrExit = errors.New("exit")

//go:embed locales/*.toml
var locales embed.FS

// Message IDs.
const (
	msgErrorOccurred           = "error_occurred"
	msgBackgroundErrorOccurred = "background_error_occurred"
)

var defaultMessages = map[string]*i18n.Message{
	msgErrorOccurred: {
		ID:    msgErrorOccurred,
		Other: "An error occurred, tell the dev!",
	},
	msgBackgroundErrorOccurred: {
		ID:    msgBackgroundErrorOccurred,
		Other: "An error ({{.Source}}) occurred, tell the dev!",
	},
}

// Sink displays an alert.
type Sink interface {
	Alert(message string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(message string)

// Alert calls f.
func (f SinkFunc) Alert(message string) {
	f(message)
}

// LogSink writes alerts to a logger at error level.
type LogSink struct {
	Logger *slog.Logger
}

// Alert implements Sink.
func (s LogSink) Alert(message string) {
	logger := s.Logger
	if logger == nil {
		logger = internal.GetLogger()
	}
	logger.Error("Alert", "message", message)
}

// Reporter localizes alerts for unhandled errors and sends them to a sink.
type Reporter struct {
	localizer *i18n.Localizer
	sink      Sink
}

// NewReporter creates a Reporter for lang. Unknown or empty languages fall
// back to English. A nil sink logs alerts.
func NewReporter(lang string, sink Sink) (*Reporter, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}

	langs := []string{language.English.String()}
	if lang != "" {
		tag, err := language.Parse(lang)
		if err != nil {
			return nil, fmt.Errorf("alert: language %q: %w", lang, err)
		}
		langs = append([]string{tag.String()}, langs...)
	}

	if sink == nil {
		sink = LogSink{}
	}

	return &Reporter{
		localizer: i18n.NewLocalizer(bundle, langs...),
		sink:      sink,
	}, nil
}

func newBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(locales, file); err != nil {
			return nil, fmt.Errorf("alert: load %s: %w", file, err)
		}
	}
	return bundle, nil
}

// Report alerts about err and reports whether an alert was shown. Nil errors
// and errors matching ErrExit are ignored.
func (r *Reporter) Report(err error) bool {
	if err == nil || errors.Is(err, ErrExit) {
		return false
	}
	r.sink.Alert(r.localize(msgErrorOccurred, nil) + "\n\n" + Format(err))
	return true
}

// ReportBackground is Report for errors raised by a background task such as
// a hash-change navigation. source names the task.
func (r *Reporter) ReportBackground(source string, err error) bool {
	if err == nil || errors.Is(err, ErrExit) {
		return false
	}
	msg := r.localize(msgBackgroundErrorOccurred, map[string]string{"Source": source})
	r.sink.Alert(msg + "\n\n" + Format(err))
	return true
}

func (r *Reporter) localize(id string, data any) string {
	msg, err := r.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:      id,
		TemplateData:   data,
		DefaultMessage: defaultMessages[id],
	})
	if err != nil {
		internal.GetLogger().Warn("Failed to localize alert", "id", id, "error", err)
	}
	return msg
}

// Format renders err followed by every error it wraps, one per line, the
// innermost last.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteByte('\n')
	formatCauses(&b, err, 1)
	return b.String()
}

func formatCauses(b *strings.Builder, err error, depth int) {
	var causes []error
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		causes = e.Unwrap()
	case interface{ Unwrap() error }:
		if c := e.Unwrap(); c != nil {
			causes = []error{c}
		}
	}

	for _, c := range causes {
		fmt.Fprintf(b, "%sat %T: %s\n", strings.Repeat("    ", depth), c, c.Error())
		formatCauses(b, c, depth+1)
	}
}
