package router

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/abort"
	"github.com/BrandonKowalski/birdhouse/pkg/birdhouse/fetch"
)

// Sentinel errors for navigation outcomes.
var (
	// ErrCancelled indicates the attempt was superseded by a newer navigation
	// or cancelled by its caller before the point of no return.
	// Navigate reports it as status 0 rather than returning it.
	ErrCancelled = abort.ErrAborted

	// ErrMissingNotFoundRoute indicates the not-found fallback itself
	// answered 404. This is a configuration fault.
	ErrMissingNotFoundRoute = errors.New("router: not-found route is missing")

	errInlineModule = errors.New("inline module scripts are not supported")
)

// CrossOriginError is returned when a route resolves outside the document's
// own origin.
type CrossOriginError struct {
	URL    *url.URL
	Origin string
}

func (e *CrossOriginError) Error() string {
	return fmt.Sprintf("router: cross-origin request blocked: %s is outside %s", e.URL, e.Origin)
}

// ResponseError carries a document response whose status is neither 200 nor
// 404.
type ResponseError struct {
	Status   int
	URL      *url.URL
	Response *fetch.Response
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("router: unexpected status %d for %s", e.Status, e.URL)
}

// Module lifecycle phases reported in ModuleError.
const (
	PhaseLoad = "load"
	PhaseRun  = "run"
	PhaseFree = "free"
)

// ModuleError describes a page module that failed after the point of no
// return. It is logged and never returned from Navigate.
type ModuleError struct {
	Src   string
	Phase string
	Err   error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("router: module %s: %s: %v", e.Src, e.Phase, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// IsCancelled checks if an error indicates a superseded or cancelled attempt.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsCrossOrigin checks if an error is a blocked cross-origin navigation.
func IsCrossOrigin(err error) bool {
	var coErr *CrossOriginError
	return errors.As(err, &coErr)
}

// IsResponseError checks if an error carries an unexpected response.
func IsResponseError(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr)
}

// IsModuleError checks if an error is an isolated module failure.
func IsModuleError(err error) bool {
	var modErr *ModuleError
	return errors.As(err, &modErr)
}

func errPanic(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
