/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: variable.go
Description: Categorical variable type for the MedBayes engine. A Variable is a named,
immutable, ordered set of category labels. All factor and CPD tables are indexed by
the Cartesian product of variable domains, so domain order is fixed at construction.
*/

package model

import "fmt"

// Variable represents a named categorical variable with an ordered, finite domain
// Immutable once created; the domain order determines table layout everywhere
type Variable struct {
	name   string
	domain []string
	index  map[string]int
}

// NewVariable creates a new categorical variable
// Returns a StructureError for an empty name, an empty domain, or duplicate labels
func NewVariable(name string, domain []string) (*Variable, error) {
	if name == "" {
		return nil, &StructureError{Reason: "variable name must not be empty"}
	}
	if len(domain) == 0 {
		return nil, &StructureError{Variable: name, Reason: "variable domain must not be empty"}
	}

	index := make(map[string]int, len(domain))
	for i, label := range domain {
		if label == "" {
			return nil, &StructureError{Variable: name, Reason: "empty category label"}
		}
		if _, exists := index[label]; exists {
			return nil, &StructureError{Variable: name, Reason: fmt.Sprintf("duplicate category label %q", label)}
		}
		index[label] = i
	}

	v := &Variable{
		name:   name,
		domain: make([]string, len(domain)),
		index:  index,
	}
	copy(v.domain, domain)
	return v, nil
}

// Name returns the unique identifier of the variable
func (v *Variable) Name() string {
	return v.name
}

// Domain returns a copy of the ordered category labels
func (v *Variable) Domain() []string {
	out := make([]string, len(v.domain))
	copy(out, v.domain)
	return out
}

// Cardinality returns the number of categories in the domain
func (v *Variable) Cardinality() int {
	return len(v.domain)
}

// Index returns the position of a category label in the domain
func (v *Variable) Index(value string) (int, bool) {
	i, ok := v.index[value]
	return i, ok
}

// Has reports whether a value is a member of the domain
func (v *Variable) Has(value string) bool {
	_, ok := v.index[value]
	return ok
}

// Label returns the category label at the given domain position
func (v *Variable) Label(i int) string {
	return v.domain[i]
}

// String returns a human-readable representation of the variable
func (v *Variable) String() string {
	return fmt.Sprintf("%s%v", v.name, v.domain)
}
