package aerovaldb

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError means the resolved location has no backing asset.  The
// caller may recover by supplying a default value (see GetByURIOr).
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("asset does not exist: %s", e.Path)
}

// TemplateNotFoundError means no candidate template for a route matched
// the in-effect version and supplied key names.  This is a catalog
// configuration error and is surfaced to the caller.
type TemplateNotFoundError struct {
	Route Route
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template found for route %s", e.Route)
}

// MalformedURIError means a URI string structurally matched no route.
type MalformedURIError struct {
	URI string
}

func (e *MalformedURIError) Error() string {
	return fmt.Sprintf("uri matches no route: %s", e.URI)
}

// UnusedArgumentsError means the caller supplied key names that no
// template for the route can consume.  This is a programmer error and
// is raised before any resolution is attempted.
type UnusedArgumentsError struct {
	Route Route
	Args  []string
}

func (e *UnusedArgumentsError) Error() string {
	return fmt.Sprintf("unused arguments [%s] for route %s",
		strings.Join(e.Args, ", "), e.Route)
}

// errSkipMapper is an internal control-flow signal meaning "this
// candidate does not apply, try the next one".  It must never escape
// template resolution.
var errSkipMapper = errors.New("skip template candidate")

// IsNotFound reports whether err (or its cause chain) is a missing
// asset.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
