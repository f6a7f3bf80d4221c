/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: estimator.go
Description: Maximum-likelihood parameter estimator for the MedBayes engine. Counts
joint (child, parents) occurrences over a fully-observed training table and divides
by parent-combination counts to produce one CPD per node. Supports additive
pseudocount smoothing and a pluggable fallback policy for parent combinations the
data never covers. Each node is estimated independently.
*/

package estimation

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/medbayes/pkg/model"
	"github.com/kleascm/medbayes/pkg/network"
)

// Config contains the configuration parameters for the estimator
type Config struct {
	// Fallback decides the distribution for parent combinations with zero
	// observations. Nil means UniformFallback
	Fallback FallbackPolicy

	// Pseudocount is added to every joint count before normalization
	// (additive / Laplace smoothing). Zero means pure maximum likelihood,
	// in which case Fallback handles uncovered parent combinations
	Pseudocount float64

	// Logger receives per-node estimation diagnostics. Nil disables logging
	Logger *logrus.Logger
}

// Estimator computes CPDs from categorical training data by frequency counting
type Estimator struct {
	fallback    FallbackPolicy
	pseudocount float64
	logger      *logrus.Logger
}

// NewEstimator creates a new maximum-likelihood estimator
func NewEstimator(config *Config) *Estimator {
	if config == nil {
		config = &Config{}
	}
	e := &Estimator{
		fallback:    config.Fallback,
		pseudocount: config.Pseudocount,
		logger:      config.Logger,
	}
	if e.fallback == nil {
		e.fallback = UniformFallback{}
	}
	if e.logger == nil {
		e.logger = logrus.New()
		e.logger.SetOutput(io.Discard)
	}
	return e
}

// Fit estimates one CPD per network node from the training table and attaches
// them to the network, moving it to ParametersAttached. Fails with a DataError
// if a network variable has no column or an observed value is outside its
// declared domain. Nodes are estimated independently; no cross-node ordering
// is guaranteed or required
func (e *Estimator) Fit(net *network.Network, table *Table) error {
	// Resolve and validate every column up front so row scanning below can
	// index without re-checking.
	columnOf := make(map[string]int, net.Size())
	for _, v := range net.Variables() {
		idx, err := table.ColumnIndex(v.Name())
		if err != nil {
			return err
		}
		columnOf[v.Name()] = idx
	}
	for r := 0; r < table.Len(); r++ {
		row := table.Row(r)
		for _, v := range net.Variables() {
			value := row[columnOf[v.Name()]]
			if !v.Has(value) {
				return &model.DataError{
					Column: v.Name(),
					Value:  value,
					Reason: "observed value outside declared domain",
				}
			}
		}
	}

	for _, v := range net.Variables() {
		cpd, err := e.fitNode(net, table, v, columnOf)
		if err != nil {
			return err
		}
		if err := net.AttachCPD(cpd); err != nil {
			return err
		}
	}
	return nil
}

// fitNode counts joint (child, parents) occurrences and normalizes each parent
// column into a conditional distribution
func (e *Estimator) fitNode(net *network.Network, table *Table, child *model.Variable, columnOf map[string]int) (*model.CPD, error) {
	parentNames := net.Parents(child.Name())
	parents := make([]*model.Variable, len(parentNames))
	for i, name := range parentNames {
		p, _ := net.Variable(name)
		parents[i] = p
	}

	parentCard := 1
	pStrides := make([]int, len(parents))
	for i := len(parents) - 1; i >= 0; i-- {
		pStrides[i] = parentCard
		parentCard *= parents[i].Cardinality()
	}

	counts := make([]float64, child.Cardinality()*parentCard)
	for i := range counts {
		counts[i] = e.pseudocount
	}

	for r := 0; r < table.Len(); r++ {
		row := table.Row(r)
		offset := 0
		for i, p := range parents {
			idx, _ := p.Index(row[columnOf[p.Name()]])
			offset += idx * pStrides[i]
		}
		childIdx, _ := child.Index(row[columnOf[child.Name()]])
		counts[childIdx*parentCard+offset]++
	}

	filled := 0
	for offset := 0; offset < parentCard; offset++ {
		total := 0.0
		for i := 0; i < child.Cardinality(); i++ {
			total += counts[i*parentCard+offset]
		}
		if total == 0 {
			combination := decodeParentAssignment(parents, offset)
			column, err := e.fallback.Fill(child, combination)
			if err != nil {
				return nil, err
			}
			for i := 0; i < child.Cardinality(); i++ {
				counts[i*parentCard+offset] = column[i]
			}
			filled++
			continue
		}
		for i := 0; i < child.Cardinality(); i++ {
			counts[i*parentCard+offset] /= total
		}
	}

	e.logger.WithFields(logrus.Fields{
		"node":          child.Name(),
		"parents":       parentNames,
		"rows":          table.Len(),
		"fallback_cols": filled,
		"fallback":      e.fallback.Name(),
	}).Debug("Estimated CPD")

	return model.NewCPD(child, parents, counts)
}

// decodeParentAssignment turns a parent combination offset into category labels
func decodeParentAssignment(parents []*model.Variable, offset int) []string {
	out := make([]string, len(parents))
	for i := len(parents) - 1; i >= 0; i-- {
		card := parents[i].Cardinality()
		out[i] = parents[i].Label(offset % card)
		offset /= card
	}
	return out
}
