package experiment

import (
	"io"
	"sort"
	"text/template"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"github.com/askiada/geopipe/pkg/command"
)

var commandColours = map[command.Type][3]uint8{
	command.Analyze: {102, 194, 165},
	command.Eval:    {252, 141, 98},
}

var defaultColour = [3]uint8{200, 200, 200}

func commandColour(commandType command.Type) (string, error) {
	rgb, ok := commandColours[commandType]
	if !ok {
		rgb = defaultColour
	}
	colour, err := colors.RGB(rgb[0], rgb[1], rgb[2])
	if err != nil {
		return "", errors.Wrapf(err, "unable to get colour of %s", commandType)
	}

	return colour.ToHEX().String(), nil
}

func vertexAttributes(commandType command.Type) ([]func(*graph.VertexProperties), error) {
	colour, err := commandColour(commandType)
	if err != nil {
		return nil, err
	}

	return []func(*graph.VertexProperties){
		graph.VertexAttribute("shape", "box"),
		graph.VertexAttribute("style", "filled"),
		graph.VertexAttribute("fillcolor", colour),
		graph.VertexAttribute("tooltip", string(commandType)),
	}, nil
}

const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}={{printf "%q" $v}};
{{- end}}
{{- range .Statements}}
	{{printf "%q" .Source}}{{if .Target}} {{$.EdgeOperator}} {{printf "%q" .Target}} [ {{range $k, $v := .EdgeAttributes}}{{$k}}={{printf "%q" $v}}, {{end}}weight={{.EdgeWeight}} ]{{else}} [ {{range $k, $v := .SourceAttributes}}{{$k}}={{printf "%q" $v}}, {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

// DOTOption customises the rendered graph.
type DOTOption func(*description)

// GraphAttribute sets a graph level DOT attribute such as rankdir.
func GraphAttribute(key, value string) DOTOption {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

func (d *dag) description(opts ...DOTOption) (description, error) {
	desc := description{
		GraphType:    "digraph",
		Attributes:   map[string]string{"rankdir": "LR"},
		EdgeOperator: "->",
	}
	for _, opt := range opts {
		opt(&desc)
	}

	adjacencyMap, err := d.graph.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	for _, n := range d.order {
		_, properties, err := d.graph.VertexWithProperties(n.name)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}
		desc.Statements = append(desc.Statements, statement{
			Source:           n.name,
			SourceWeight:     properties.Weight,
			SourceAttributes: properties.Attributes,
		})

		targets := make([]string, 0, len(adjacencyMap[n.name]))
		for target := range adjacencyMap[n.name] {
			targets = append(targets, target)
		}
		sort.Slice(targets, func(i, j int) bool {
			return d.nodes[targets[i]].idx < d.nodes[targets[j]].idx
		})
		for _, target := range targets {
			edge := adjacencyMap[n.name][target]
			desc.Statements = append(desc.Statements, statement{
				Source:         n.name,
				Target:         target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "unable to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}
