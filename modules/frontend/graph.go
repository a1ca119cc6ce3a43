package frontend

import (
	"fmt"

	"github.com/uriscope/uriscope/modules/rdf"
	"github.com/uriscope/uriscope/modules/version"
)

type MapStringInterface map[string]any

// CytoGraph is the Cytoscape.js exchange format the graph view consumes.
type CytoGraph struct {
	FormatVersion            string        `json:"format_version"`
	GeneratedBy              string        `json:"generated_by"`
	TargetCytoscapeJSVersion string        `json:"target_cytoscapejs_version"`
	Data                     CytoGraphData `json:"data"`
	Elements                 CytoElements  `json:"elements"`
}

type CytoGraphData struct {
	SharedName string `json:"shared_name"`
	Name       string `json:"name"`
	SUID       int    `json:"SUID"`
}

type CytoElements []CytoFlatElement

type CytoFlatElement struct {
	Data  MapStringInterface `json:"data"`
	Group string             `json:"group"` // nodes or edges
}

// cytoRenderer projects a described triple set onto Cytoscape.js
// elements: one node per distinct term, one edge per triple.
type cytoRenderer struct{}

func (cytoRenderer) RenderGraph(uri string, triples []rdf.Triple) any {
	g := CytoGraph{
		FormatVersion:            "1.0",
		GeneratedBy:              version.ProgramVersionShort(),
		TargetCytoscapeJSVersion: "~3.0",
		Data: CytoGraphData{
			SharedName: uri,
			Name:       uri,
		},
	}

	nodeids := make(map[string]string)
	nodeid := func(t rdf.Term) string {
		key := t.Kind.String() + "\x00" + t.Value
		if id, found := nodeids[key]; found {
			return id
		}
		id := fmt.Sprintf("n%v", len(nodeids))
		nodeids[key] = id

		newnode := CytoFlatElement{
			Group: "nodes",
			Data: MapStringInterface{
				"id":    id,
				"label": t.Value,
				"kind":  t.Kind.String(),
			},
		}
		if t.Kind == rdf.KindLiteral {
			if t.Language != "" {
				newnode.Data["language"] = t.Language
			}
			if t.Datatype != "" {
				newnode.Data["datatype"] = t.Datatype
			}
		}
		if t.Kind == rdf.KindIRI && t.Value == uri {
			newnode.Data["_querysource"] = true
		}
		g.Elements = append(g.Elements, newnode)
		return id
	}

	for i, triple := range triples {
		source := nodeid(triple.Subject)
		target := nodeid(triple.Object)
		g.Elements = append(g.Elements, CytoFlatElement{
			Group: "edges",
			Data: MapStringInterface{
				"id":     fmt.Sprintf("e%v", i),
				"source": source,
				"target": target,
				"label":  triple.Predicate.Value,
			},
		})
	}

	return g
}
