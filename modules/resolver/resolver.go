package resolver

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoURI signals that the request path carried nothing to resolve.
var ErrNoURI = errors.New("no URI supplied")

// Resolver derives the canonical resource URI from a request path and
// decides whether URIs encountered during rendering belong to the local
// entity namespace.
//
// Two operating modes fall out of Resolve: in production the URL is the
// URI and the page's own origin supplies the base, while an operator can
// paste a full http(s) URI after the slash to inspect a foreign resource
// ("testing mode").
type Resolver struct {
	// BaseOrigin is prepended to relative paths, e.g. "https://data.example.org".
	BaseOrigin string
	// EntityNamespace is the URI prefix of resources considered local.
	EntityNamespace string
}

// Resolve turns the request path (everything after the host) into the
// canonical absolute resource URI. Only exact "http://" and "https://"
// prefixes switch to testing mode; any other scheme-looking path is
// treated as a relative path and concatenated onto BaseOrigin verbatim.
func (r Resolver) Resolve(path string) (string, error) {
	if path == "" || path == "/" {
		return "", ErrNoURI
	}
	p := strings.TrimPrefix(path, "/")
	if p == "" {
		return "", ErrNoURI
	}

	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		decoded, err := url.PathUnescape(p)
		if err != nil {
			// Malformed escapes pass through untouched and surface as an
			// empty result or query error downstream.
			return p, nil
		}
		return decoded, nil
	}

	return r.BaseOrigin + "/" + p, nil
}

// LocalLink reports whether uri belongs to the entity namespace, and if so
// returns the in-app link for it. When the page's own origin equals the
// namespace the link is the URI's path suffix, so the browser bar keeps
// the clean production form; otherwise the full URI goes after the slash,
// which keeps testing mode sticky across every link on the page.
func (r Resolver) LocalLink(uri, pageOrigin string) (string, bool) {
	if !strings.HasPrefix(uri, r.EntityNamespace) {
		return "", false
	}
	if pageOrigin == r.EntityNamespace {
		link := strings.TrimPrefix(uri, r.EntityNamespace)
		if link == "" {
			link = "/"
		}
		return link, true
	}
	return "/" + uri, true
}

// IsLocal reports whether uri has the configured entity-namespace prefix.
func (r Resolver) IsLocal(uri string) bool {
	return strings.HasPrefix(uri, r.EntityNamespace)
}
