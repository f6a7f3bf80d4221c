/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: fallback.go
Description: Zero-count fallback policies for the MedBayes parameter estimator. A
parent combination that never occurs in the training data has an undefined
conditional distribution under pure counting; the policy decides what the estimator
writes into that CPD column instead. The default is a uniform distribution, which
is a documented part of the estimation contract, never a silent NaN.
*/

package estimation

import (
	"fmt"

	"github.com/kleascm/medbayes/pkg/model"
)

// FallbackPolicy decides the conditional distribution for a parent combination
// that never occurs in the training data
type FallbackPolicy interface {
	// Name returns the name of this policy
	Name() string

	// Fill returns the distribution over the child's domain for the
	// never-observed parent combination, given as category labels in
	// parent scope order
	Fill(child *model.Variable, combination []string) ([]float64, error)
}

// UniformFallback fills never-observed parent combinations with a uniform
// distribution over the child's domain. This is the default policy
type UniformFallback struct{}

// Name returns the name of this policy
func (UniformFallback) Name() string { return "uniform" }

// Fill returns a uniform distribution over the child's domain
func (UniformFallback) Fill(child *model.Variable, combination []string) ([]float64, error) {
	out := make([]float64, child.Cardinality())
	p := 1.0 / float64(child.Cardinality())
	for i := range out {
		out[i] = p
	}
	return out, nil
}

// StrictFallback rejects never-observed parent combinations with a DataError
// naming the child and the combination. Use it when training data is expected
// to cover the full parent space
type StrictFallback struct{}

// Name returns the name of this policy
func (StrictFallback) Name() string { return "strict" }

// Fill fails with a DataError naming the uncovered parent combination
func (StrictFallback) Fill(child *model.Variable, combination []string) ([]float64, error) {
	return nil, &model.DataError{
		Column: child.Name(),
		Reason: fmt.Sprintf("parent combination %v never occurs in training data", combination),
	}
}
