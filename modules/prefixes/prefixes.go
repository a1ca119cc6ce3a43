// Package prefixes shortens full IRIs to prefix:local labels using a
// namespace mapping document.
package prefixes

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/pkg/errors"
	"github.com/uriscope/uriscope/modules/ui"
)

// ErrPrefixLoad wraps failures reading or decoding a mapping document.
var ErrPrefixLoad = errors.New("could not load prefix mapping")

//go:embed prefixes.json
var embeddedPrefixes []byte

// Map holds the namespace to prefix mapping. Matching is
// longest-namespace-first so a short namespace can never mask a more
// specific one that extends it; among namespaces of equal length the
// mapping document's own order decides.
type Map struct {
	entries *ordereddict.Dict
	// namespaces sorted by descending length, document order within a length
	ordered []string
}

// Empty returns a mapping that shortens nothing, the degraded mode when
// no document could be loaded.
func Empty() *Map {
	return &Map{entries: ordereddict.NewDict()}
}

// Load reads the mapping document at path, falling back to the embedded
// document when path is empty or missing. A failure returns the empty
// mapping together with the error so display degrades to full URIs.
func Load(path string) (*Map, error) {
	if path != "" {
		f, err := os.Open(path)
		if err == nil {
			defer f.Close()
			m, err := Parse(f)
			if err != nil {
				return Empty(), err
			}
			ui.Info().Msgf("Loaded %v namespace prefixes from %v", m.Len(), path)
			return m, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Empty(), errors.Wrapf(ErrPrefixLoad, "%v", err)
		}
	}
	m, err := Parse(bytes.NewReader(embeddedPrefixes))
	if err != nil {
		return Empty(), err
	}
	return m, nil
}

// Parse decodes a JSON object of namespace to prefix entries, keeping the
// document's key order.
func Parse(r io.Reader) (*Map, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrapf(ErrPrefixLoad, "%v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Wrap(ErrPrefixLoad, "mapping document is not a JSON object")
	}

	entries := ordereddict.NewDict()
	for dec.More() {
		keytok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrapf(ErrPrefixLoad, "%v", err)
		}
		namespace := keytok.(string)
		var prefix string
		if err := dec.Decode(&prefix); err != nil {
			return nil, errors.Wrapf(ErrPrefixLoad, "value for %v: %v", namespace, err)
		}
		entries.Set(namespace, prefix)
	}

	m := &Map{entries: entries, ordered: entries.Keys()}
	sort.SliceStable(m.ordered, func(i, j int) bool {
		return len(m.ordered[i]) > len(m.ordered[j])
	})
	return m, nil
}

// Len returns the number of namespaces in the mapping.
func (m *Map) Len() int {
	return m.entries.Len()
}

// Shorten returns prefix:local for the longest namespace that is a string
// prefix of uri, or uri unchanged when nothing matches. Shortening an
// already-shortened string is a no-op since it can not match a namespace.
func (m *Map) Shorten(uri string) string {
	for _, namespace := range m.ordered {
		if strings.HasPrefix(uri, namespace) {
			prefix, _ := m.entries.GetString(namespace)
			return prefix + ":" + uri[len(namespace):]
		}
	}
	return uri
}

// Entries returns the mapping as a plain map for API output.
func (m *Map) Entries() map[string]string {
	out := make(map[string]string, m.entries.Len())
	for _, namespace := range m.entries.Keys() {
		prefix, _ := m.entries.GetString(namespace)
		out[namespace] = prefix
	}
	return out
}
