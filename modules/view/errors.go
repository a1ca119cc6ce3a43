package view

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/uriscope/uriscope/modules/geo"
	"github.com/uriscope/uriscope/modules/prefixes"
	"github.com/uriscope/uriscope/modules/rdf"
	"github.com/uriscope/uriscope/modules/resolver"
	"github.com/uriscope/uriscope/modules/sparql"
)

// ErrEmptyDescribe is the "resource not found" terminal state: the query
// succeeded but described nothing.
var ErrEmptyDescribe = errors.New("resource not found")

// ErrRelatedLookup wraps failures of the best-effort same-class lookup.
var ErrRelatedLookup = errors.New("related lookup failed")

// Primary reports whether err aborts the whole page render. Best-effort
// failures (geometry, related resources, prefix loading) degrade into
// absent sections instead.
func Primary(err error) bool {
	switch {
	case errors.Is(err, resolver.ErrNoURI),
		errors.Is(err, sparql.ErrTransport),
		errors.Is(err, ErrEmptyDescribe),
		errors.Is(err, rdf.ErrParse):
		return true
	case errors.Is(err, geo.ErrGeometryParse),
		errors.Is(err, geo.ErrGeometryTransform),
		errors.Is(err, ErrRelatedLookup),
		errors.Is(err, prefixes.ErrPrefixLoad):
		return false
	}
	return true
}

// StatusFor maps a primary failure to the HTTP status the API answers
// with.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, resolver.ErrNoURI):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmptyDescribe):
		return http.StatusNotFound
	case errors.Is(err, sparql.ErrTransport):
		return http.StatusBadGateway
	case errors.Is(err, rdf.ErrParse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
