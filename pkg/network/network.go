/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: network.go
Description: Directed acyclic network of categorical variables for the MedBayes
engine. The graph is an adjacency structure keyed by variable name, each node owns
exactly one CPD, and the network moves through an explicit lifecycle state machine:
Empty -> StructureDeclared -> ParametersAttached -> Validated. Once Validated the
network and its CPDs are read-only, so concurrent queries are safe.
*/

package network

import (
	"fmt"

	"github.com/kleascm/medbayes/pkg/model"
)

// State represents the lifecycle state of a network
type State string

const (
	StateEmpty              State = "empty"
	StateStructureDeclared  State = "structure_declared"
	StateParametersAttached State = "parameters_attached"
	StateValidated          State = "validated"
)

// Edge represents a directed dependency From -> To, meaning To's CPD includes
// From as a parent
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Network represents a Bayesian network over categorical variables
type Network struct {
	variables map[string]*model.Variable
	order     []string // declaration order, for deterministic iteration
	parents   map[string][]string
	children  map[string][]string
	cpds      map[string]*model.CPD
	state     State
}

// Build creates a network in the StructureDeclared state from variables and
// directed edges. Returns a StructureError for duplicate variable names,
// edges referencing unknown variables, self-loops, or duplicate edges.
// Cycle detection is deferred to Check
func Build(variables []*model.Variable, edges []Edge) (*Network, error) {
	n := &Network{
		variables: make(map[string]*model.Variable, len(variables)),
		order:     make([]string, 0, len(variables)),
		parents:   make(map[string][]string, len(variables)),
		children:  make(map[string][]string, len(variables)),
		cpds:      make(map[string]*model.CPD, len(variables)),
		state:     StateEmpty,
	}

	for _, v := range variables {
		if v == nil {
			return nil, &model.StructureError{Reason: "nil variable"}
		}
		if _, exists := n.variables[v.Name()]; exists {
			return nil, &model.StructureError{Variable: v.Name(), Reason: "duplicate variable name"}
		}
		n.variables[v.Name()] = v
		n.order = append(n.order, v.Name())
	}

	for _, e := range edges {
		if _, ok := n.variables[e.From]; !ok {
			return nil, &model.StructureError{Variable: e.From, Reason: "edge references unknown variable"}
		}
		if _, ok := n.variables[e.To]; !ok {
			return nil, &model.StructureError{Variable: e.To, Reason: "edge references unknown variable"}
		}
		if e.From == e.To {
			return nil, &model.StructureError{Variable: e.From, Reason: "self-loop edge"}
		}
		for _, p := range n.parents[e.To] {
			if p == e.From {
				return nil, &model.StructureError{Variable: e.To, Reason: fmt.Sprintf("duplicate edge %s -> %s", e.From, e.To)}
			}
		}
		n.parents[e.To] = append(n.parents[e.To], e.From)
		n.children[e.From] = append(n.children[e.From], e.To)
	}

	n.state = StateStructureDeclared
	return n, nil
}

// State returns the current lifecycle state of the network
func (n *Network) State() State {
	return n.state
}

// Size returns the number of variables in the network
func (n *Network) Size() int {
	return len(n.order)
}

// Variables returns the network's variables in declaration order
func (n *Network) Variables() []*model.Variable {
	out := make([]*model.Variable, len(n.order))
	for i, name := range n.order {
		out[i] = n.variables[name]
	}
	return out
}

// VariableNames returns the variable names in declaration order
func (n *Network) VariableNames() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

// Variable returns the named variable, if present
func (n *Network) Variable(name string) (*model.Variable, bool) {
	v, ok := n.variables[name]
	return v, ok
}

// Parents returns the parent names of a node in edge declaration order.
// This order fixes the parent scope order of the node's CPD
func (n *Network) Parents(name string) []string {
	out := make([]string, len(n.parents[name]))
	copy(out, n.parents[name])
	return out
}

// Children returns the child names of a node in edge declaration order
func (n *Network) Children(name string) []string {
	out := make([]string, len(n.children[name]))
	copy(out, n.children[name])
	return out
}

// Edges returns every directed edge in declaration order of the target nodes
func (n *Network) Edges() []Edge {
	var out []Edge
	for _, to := range n.order {
		for _, from := range n.parents[to] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// CPD returns the CPD attached to the named node, if any
func (n *Network) CPD(name string) (*model.CPD, bool) {
	c, ok := n.cpds[name]
	return c, ok
}

// AttachCPD attaches a CPD to the node matching its child variable.
// Once every node has a CPD the network moves to ParametersAttached.
// Attaching to a Validated network is rejected: the network is immutable
// after validation
func (n *Network) AttachCPD(cpd *model.CPD) error {
	if n.state == StateValidated {
		return &model.ValidationError{Node: cpd.Child().Name(), Reason: "network is validated and immutable"}
	}
	name := cpd.Child().Name()
	if _, ok := n.variables[name]; !ok {
		return &model.StructureError{Variable: name, Reason: "CPD child is not a network variable"}
	}
	n.cpds[name] = cpd

	if len(n.cpds) == len(n.order) {
		n.state = StateParametersAttached
	}
	return nil
}
