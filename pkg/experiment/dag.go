package experiment

import (
	"fmt"
	"strings"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"github.com/askiada/geopipe/pkg/cfgerr"
	"github.com/askiada/geopipe/pkg/command"
)

type node struct {
	name string
	idx  int
	cfg  command.Config
	io   command.IODefinition
}

func nodeHash(n *node) string {
	return n.name
}

func nodeName(idx int, cfg command.Config) string {
	return fmt.Sprintf("%s-%d", strings.ToLower(string(cfg.CommandType())), idx)
}

// dag links every command to the commands producing its inputs.
type dag struct {
	graph     graph.Graph[string, *node]
	nodes     map[string]*node
	commands  []*node
	producers map[string]string
	order     []*node
}

func newDAG(configs []command.Config) (*dag, error) {
	if len(configs) == 0 {
		return nil, cfgerr.New("experiment", cfgerr.Missing("commands"))
	}

	d := &dag{
		graph:     graph.New(nodeHash, graph.Directed(), graph.PreventCycles()),
		nodes:     make(map[string]*node, len(configs)),
		producers: make(map[string]string),
	}

	err := d.addCommands(configs)
	if err != nil {
		return nil, err
	}

	err = d.addLinks()
	if err != nil {
		return nil, err
	}

	err = d.sort()
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *dag) addCommands(configs []command.Config) error {
	var errs []error
	for idx, cfg := range configs {
		if cfg == nil {
			errs = append(errs, cfgerr.Invalid(fmt.Sprintf("commands[%d]", idx), "cannot be nil"))
			continue
		}

		n := &node{
			name: nodeName(idx, cfg),
			idx:  idx,
			cfg:  cfg,
			io:   cfg.ReportIO(),
		}
		for _, uri := range n.io.Outputs {
			if other, ok := d.producers[uri]; ok {
				errs = append(errs, cfgerr.Invalid("outputs", fmt.Sprintf("%s is written by both %s and %s", uri, other, n.name)))
				continue
			}
			d.producers[uri] = n.name
		}

		attrs, err := vertexAttributes(cfg.CommandType())
		if err != nil {
			return err
		}
		err = d.graph.AddVertex(n, attrs...)
		if err != nil {
			return errors.Wrapf(err, "unable to add command %s", n.name)
		}
		d.nodes[n.name] = n
		d.commands = append(d.commands, n)
	}

	return cfgerr.New("experiment", errs...)
}

func (d *dag) addLinks() error {
	var errs []error
	for _, n := range d.commands {
		for _, uri := range n.io.Inputs {
			producer, ok := d.producers[uri]
			if !ok {
				continue
			}
			if producer == n.name {
				errs = append(errs, cfgerr.Invalid("commands", fmt.Sprintf("%s reads its own output %s", n.name, uri)))
				continue
			}

			err := d.graph.AddEdge(producer, n.name, graph.EdgeAttribute("label", uri))
			switch {
			case err == nil, errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				errs = append(errs, cfgerr.Invalid("commands", fmt.Sprintf("%s and %s depend on each other", producer, n.name)))
			default:
				return errors.Wrapf(err, "unable to link %s to %s", producer, n.name)
			}
		}
	}

	return cfgerr.New("experiment", errs...)
}

// sort orders the commands topologically, ties keep the order the commands were given in.
func (d *dag) sort() error {
	names, err := graph.StableTopologicalSort(d.graph, func(a, b string) bool {
		return d.nodes[a].idx < d.nodes[b].idx
	})
	if err != nil {
		return errors.Wrap(err, "unable to sort commands")
	}

	d.order = make([]*node, 0, len(names))
	for _, name := range names {
		d.order = append(d.order, d.nodes[name])
	}

	return nil
}
