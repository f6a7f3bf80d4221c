/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine.go
Description: Variable Elimination inference engine for the MedBayes engine. Answers
P(targets | evidence) queries against a validated network by restricting every CPD
factor with the evidence, summing out all hidden variables in minimum-neighbors
order, and normalizing the product of the survivors. Queries are pure functions of
(network, targets, evidence); the engine never mutates a CPD or the topology, so
concurrent queries against the same validated network are safe.
*/

package inference

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/medbayes/pkg/logging"
	"github.com/kleascm/medbayes/pkg/model"
	"github.com/kleascm/medbayes/pkg/network"
)

// ImpossibleEvidenceError reports a query whose evidence combination has zero
// prior probability under the model
type ImpossibleEvidenceError struct {
	Evidence map[string]string
}

func (e *ImpossibleEvidenceError) Error() string {
	return fmt.Sprintf("evidence %v has zero probability under the model", e.Evidence)
}

// Unwrap exposes the underlying zero-sum condition
func (e *ImpossibleEvidenceError) Unwrap() error { return model.ErrZeroSum }

// Result is the outcome of a probability query: a factor over exactly the
// requested target variables, normalized to sum to one
type Result struct {
	ID          string            `json:"id"`          // Unique query identifier for log correlation
	Targets     []string          `json:"targets"`     // Target variables in request order
	Evidence    map[string]string `json:"evidence"`    // Evidence the query was conditioned on
	Elimination []string          `json:"elimination"` // Hidden variables in the order they were summed out
	factor      *model.Factor
}

// Factor returns the normalized result factor, scoped to the targets in
// request order
func (r *Result) Factor() *model.Factor {
	return r.factor
}

// Values returns the probability vector aligned to the Cartesian product of
// the target domains in request scope order
func (r *Result) Values() []float64 {
	return r.factor.Values()
}

// P returns the probability of a full assignment of the target variables
func (r *Result) P(assignment map[string]string) (float64, error) {
	return r.factor.Value(assignment)
}

// Engine answers probability queries against a validated network using exact
// Variable Elimination
type Engine struct {
	net    *network.Network
	logger *logrus.Logger
}

// NewEngine creates an inference engine for a validated network. A network
// that has not passed Check is refused with a ValidationError: the engine
// never produces best-effort output against an invalid model
func NewEngine(net *network.Network, logger *logrus.Logger) (*Engine, error) {
	if net.State() != network.StateValidated {
		return nil, &model.ValidationError{
			Reason: fmt.Sprintf("network is %s, must be validated before querying", net.State()),
		}
	}
	e := &Engine{net: net, logger: logger}
	if e.logger == nil {
		e.logger = logging.Discard()
	}
	return e, nil
}

// Query computes P(targets | evidence). Targets must be non-empty,
// duplicate-free, and disjoint from the evidence keys; every referenced
// variable must exist in the network and every evidence value must lie in its
// variable's domain. Violations fail with a QueryError naming the offending
// variable. An evidence combination with zero prior probability fails with
// ImpossibleEvidenceError
func (e *Engine) Query(targets []string, evidence map[string]string) (*Result, error) {
	if err := e.checkQuery(targets, evidence); err != nil {
		return nil, err
	}

	queryID := uuid.New().String()

	// Working factor set: every CPD as a plain factor, restricted by the
	// evidence. Restriction can shrink a factor to a scalar; scalars stay in
	// the set and fold into the final product.
	factors := make([]*model.Factor, 0, e.net.Size())
	for _, name := range e.net.VariableNames() {
		cpd, _ := e.net.CPD(name)
		f := cpd.Factor()
		for _, ev := range sortedKeys(evidence) {
			if !f.Contains(ev) {
				continue
			}
			restricted, err := f.Restrict(ev, evidence[ev])
			if err != nil {
				return nil, err
			}
			f = restricted
		}
		factors = append(factors, f)
	}

	hidden := e.hiddenVariables(targets, evidence)
	eliminated := make([]string, 0, len(hidden))
	for len(hidden) > 0 {
		name := pickMinNeighbors(hidden, factors)
		hidden = removeName(hidden, name)
		eliminated = append(eliminated, name)

		var combined *model.Factor
		remaining := factors[:0:0]
		for _, f := range factors {
			if !f.Contains(name) {
				remaining = append(remaining, f)
				continue
			}
			if combined == nil {
				combined = f
				continue
			}
			product, err := combined.Multiply(f)
			if err != nil {
				return nil, err
			}
			combined = product
		}
		if combined == nil {
			factors = remaining
			continue
		}
		summed, err := combined.Marginalize(name)
		if err != nil {
			return nil, err
		}
		factors = append(remaining, summed)
	}

	// At least one factor always survives: targets are non-empty and a
	// target's own restricted CPD is never eliminated.
	result := factors[0]
	for _, f := range factors[1:] {
		product, err := result.Multiply(f)
		if err != nil {
			return nil, err
		}
		result = product
	}

	// The survivors' scope is exactly the target set; align it to the
	// request order.
	result, err := result.Reorder(targets)
	if err != nil {
		return nil, err
	}
	result, err = result.Normalize()
	if err != nil {
		if errors.Is(err, model.ErrZeroSum) {
			return nil, &ImpossibleEvidenceError{Evidence: copyEvidence(evidence)}
		}
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"query_id":    queryID,
		"targets":     targets,
		"evidence":    evidence,
		"elimination": eliminated,
	}).Debug("Query answered")

	return &Result{
		ID:          queryID,
		Targets:     append([]string(nil), targets...),
		Evidence:    copyEvidence(evidence),
		Elimination: eliminated,
		factor:      result,
	}, nil
}

// checkQuery enforces the query preconditions
func (e *Engine) checkQuery(targets []string, evidence map[string]string) error {
	if len(targets) == 0 {
		return &model.QueryError{Reason: "query requires at least one target variable"}
	}
	seen := make(map[string]bool, len(targets))
	for _, name := range targets {
		if _, ok := e.net.Variable(name); !ok {
			return &model.QueryError{Variable: name, Reason: "target variable not in network"}
		}
		if seen[name] {
			return &model.QueryError{Variable: name, Reason: "duplicate target variable"}
		}
		seen[name] = true
	}
	for name, value := range evidence {
		v, ok := e.net.Variable(name)
		if !ok {
			return &model.QueryError{Variable: name, Reason: "evidence variable not in network"}
		}
		if seen[name] {
			return &model.QueryError{Variable: name, Reason: "variable is both target and evidence"}
		}
		if !v.Has(value) {
			return &model.QueryError{Variable: name, Reason: fmt.Sprintf("evidence value %q not in domain", value)}
		}
	}
	return nil
}

// hiddenVariables returns every network variable that is neither a target nor
// evidence, in declaration order
func (e *Engine) hiddenVariables(targets []string, evidence map[string]string) []string {
	keep := make(map[string]bool, len(targets)+len(evidence))
	for _, name := range targets {
		keep[name] = true
	}
	for name := range evidence {
		keep[name] = true
	}
	var out []string
	for _, name := range e.net.VariableNames() {
		if !keep[name] {
			out = append(out, name)
		}
	}
	return out
}

// pickMinNeighbors selects the next variable to eliminate: the one appearing
// in the fewest remaining factors, ties broken by ascending name. The choice
// is recomputed after every elimination, keeping intermediate factors small
// and the order fully deterministic
func pickMinNeighbors(hidden []string, factors []*model.Factor) string {
	best := ""
	bestCount := -1
	for _, name := range hidden {
		count := 0
		for _, f := range factors {
			if f.Contains(name) {
				count++
			}
		}
		if bestCount < 0 || count < bestCount || (count == bestCount && name < best) {
			best = name
			bestCount = count
		}
	}
	return best
}

// removeName removes one name from a slice preserving order
func removeName(names []string, name string) []string {
	out := names[:0:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// sortedKeys returns the map keys in ascending order for deterministic
// iteration
func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// copyEvidence clones the evidence map so results never alias caller state
func copyEvidence(evidence map[string]string) map[string]string {
	out := make(map[string]string, len(evidence))
	for k, v := range evidence {
		out[k] = v
	}
	return out
}
