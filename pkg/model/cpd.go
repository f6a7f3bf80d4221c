/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: cpd.go
Description: Conditional probability distribution type for the MedBayes engine. A CPD
is a factor whose scope is [child] + parents, with the invariant that for every fixed
parent combination the values over the child's domain sum to one. CPDs are immutable
after attachment to a network.
*/

package model

import (
	"fmt"
	"math"
)

// DefaultTolerance is the floating-point tolerance used when checking that CPD
// columns sum to one
const DefaultTolerance = 1e-6

// CPD represents P(child | parents) as a dense table.
// Scope order is [child] + parents, so with P parent combinations the entry
// P(child=i | parents=o) lives at table index i*P + o
type CPD struct {
	factor  *Factor
	child   *Variable
	parents []*Variable
}

// NewCPD creates a conditional probability distribution for a child variable.
// The values table is laid out row-major over the scope [child] + parents.
// A CPD with no parents is an unconditional distribution over the child
func NewCPD(child *Variable, parents []*Variable, values []float64) (*CPD, error) {
	scope := make([]*Variable, 0, len(parents)+1)
	scope = append(scope, child)
	scope = append(scope, parents...)

	factor, err := NewFactor(scope, values)
	if err != nil {
		return nil, err
	}

	c := &CPD{
		factor:  factor,
		child:   child,
		parents: make([]*Variable, len(parents)),
	}
	copy(c.parents, parents)
	return c, nil
}

// Child returns the child variable of the distribution
func (c *CPD) Child() *Variable {
	return c.child
}

// Parents returns a copy of the parent variables in scope order
func (c *CPD) Parents() []*Variable {
	out := make([]*Variable, len(c.parents))
	copy(out, c.parents)
	return out
}

// ParentNames returns the parent variable names in scope order
func (c *CPD) ParentNames() []string {
	out := make([]string, len(c.parents))
	for i, p := range c.parents {
		out[i] = p.Name()
	}
	return out
}

// Factor returns the CPD's table as a plain factor for use in inference
func (c *CPD) Factor() *Factor {
	return &Factor{scope: c.factor.Scope(), values: c.factor.Values()}
}

// Values returns a copy of the dense table in [child] + parents scope order
func (c *CPD) Values() []float64 {
	return c.factor.Values()
}

// parentCardinality returns the number of parent combinations
func (c *CPD) parentCardinality() int {
	return c.factor.Cardinality() / c.child.Cardinality()
}

// Column returns the conditional distribution over the child's domain for the
// parent combination at the given offset
func (c *CPD) Column(offset int) []float64 {
	pc := c.parentCardinality()
	out := make([]float64, c.child.Cardinality())
	for i := range out {
		out[i] = c.factor.values[i*pc+offset]
	}
	return out
}

// ParentAssignment decodes a parent combination offset into category labels,
// one per parent in scope order
func (c *CPD) ParentAssignment(offset int) []string {
	out := make([]string, len(c.parents))
	for i := len(c.parents) - 1; i >= 0; i-- {
		card := c.parents[i].Cardinality()
		out[i] = c.parents[i].Label(offset % card)
		offset /= card
	}
	return out
}

// Validate checks that every parent-combination column sums to one within the
// given tolerance. Returns a ValidationError naming the child and the offending
// parent combination
func (c *CPD) Validate(tolerance float64) error {
	pc := c.parentCardinality()
	for offset := 0; offset < pc; offset++ {
		sum := 0.0
		for i := 0; i < c.child.Cardinality(); i++ {
			sum += c.factor.values[i*pc+offset]
		}
		if math.Abs(sum-1.0) > tolerance {
			return &ValidationError{
				Node: c.child.Name(),
				Reason: fmt.Sprintf("column for parents %v sums to %g, expected 1.0",
					c.ParentAssignment(offset), sum),
			}
		}
	}
	return nil
}

// String returns a compact human-readable description of the CPD
func (c *CPD) String() string {
	if len(c.parents) == 0 {
		return fmt.Sprintf("P(%s)", c.child.Name())
	}
	return fmt.Sprintf("P(%s | %v)", c.child.Name(), c.ParentNames())
}
