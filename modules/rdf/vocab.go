package rdf

// NS is a namespace base URI.
type NS string

// Term returns the full IRI for a name inside the namespace.
func (ns NS) Term(name string) string {
	return string(ns) + name
}

var (
	RDF  NS = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS NS = "http://www.w3.org/2000/01/rdf-schema#"
	XSD  NS = "http://www.w3.org/2001/XMLSchema#"
	GEO  NS = "http://www.opengis.net/ont/geosparql#"
)

var (
	RDFType        = RDF.Term("type")
	RDFSLabel      = RDFS.Term("label")
	XSDString      = XSD.Term("string")
	GeoHasGeometry = GEO.Term("hasGeometry")
	GeoAsWKT       = GEO.Term("asWKT")
	GeoWKTLiteral  = GEO.Term("wktLiteral")
)
