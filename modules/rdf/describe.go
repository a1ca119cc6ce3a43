package rdf

import (
	"sort"
)

// DescribeResult owns the full triple set returned by one DESCRIBE query.
// All views over it are derived on demand and recomputed from scratch,
// never patched, so they can not drift from the underlying triples.
type DescribeResult struct {
	triples []Triple
}

func NewDescribeResult(triples []Triple) *DescribeResult {
	return &DescribeResult{triples: triples}
}

// Len returns the number of triples held.
func (d *DescribeResult) Len() int {
	return len(d.triples)
}

// Triples returns the triple list in source order. Callers must not
// mutate it.
func (d *DescribeResult) Triples() []Triple {
	return d.triples
}

// Types returns the objects of all rdf:type triples in source order.
// Duplicates are kept as given.
func (d *DescribeResult) Types() []Term {
	var types []Term
	for _, t := range d.triples {
		if t.Predicate.IsIRI() && t.Predicate.Value == RDFType {
			types = append(types, t.Object)
		}
	}
	return types
}

// GeometryNode returns the object of the first geo:hasGeometry triple in
// source order. Only the first is honored even when a resource carries
// several geometries.
func (d *DescribeResult) GeometryNode() (Term, bool) {
	for _, t := range d.triples {
		if t.Predicate.IsIRI() && t.Predicate.Value == GeoHasGeometry {
			return t.Object, true
		}
	}
	return Term{}, false
}

// Label returns the best label literal for the subject, preferring the
// given language, then a bare "en", then any label at all.
func (d *DescribeResult) Label(subject, language string) (string, bool) {
	prios := []string{language}
	if len(language) > 2 {
		prios = append(prios, language[:2])
	}
	if language != "en" {
		prios = append(prios, "en")
	}
	prios = append(prios, "")

	best := -1
	var label string
	for _, t := range d.triples {
		if t.Subject.Value != subject || !t.Predicate.IsIRI() || t.Predicate.Value != RDFSLabel {
			continue
		}
		if t.Object.Kind != KindLiteral {
			continue
		}
		for i, lang := range prios {
			if t.Object.Language == lang && (best == -1 || i < best) {
				best = i
				label = t.Object.Value
			}
		}
	}
	return label, best != -1
}

// PropertyGroup is the values of one predicate on the current subject.
type PropertyGroup struct {
	Predicate Term   `json:"predicate"`
	Values    []Term `json:"values"`
}

// PropertiesOf groups the triples whose subject equals subjectURI by
// predicate. Groups are ordered lexicographically by the predicate's full
// IRI; values within a group keep source order.
func (d *DescribeResult) PropertiesOf(subjectURI string) []PropertyGroup {
	index := make(map[string]int)
	var groups []PropertyGroup
	for _, t := range d.triples {
		if !t.Subject.IsIRI() || t.Subject.Value != subjectURI {
			continue
		}
		key := t.Predicate.Value
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, PropertyGroup{Predicate: t.Predicate})
		}
		groups[i].Values = append(groups[i].Values, t.Object)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Predicate.Value < groups[j].Predicate.Value
	})
	return groups
}
