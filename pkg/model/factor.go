/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: factor.go
Description: Factor type for the MedBayes engine. A Factor is a dense multidimensional
table of non-negative reals indexed by the Cartesian product of its scope's domains in
row-major order. All operations return new owned values and never mutate the receiver,
which keeps concurrent read-only queries safe by construction.
*/

package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Factor represents a multidimensional table over an ordered scope of variables
// Table layout is row-major in scope order: the last scope variable varies fastest
type Factor struct {
	scope  []*Variable
	values []float64
}

// NewFactor creates a factor from a scope and a dense value table
// The table length must equal the product of the scope's domain sizes and every
// value must be non-negative
func NewFactor(scope []*Variable, values []float64) (*Factor, error) {
	seen := make(map[string]bool, len(scope))
	card := 1
	for _, v := range scope {
		if v == nil {
			return nil, &StructureError{Reason: "nil variable in factor scope"}
		}
		if seen[v.Name()] {
			return nil, &StructureError{Variable: v.Name(), Reason: "duplicate variable in factor scope"}
		}
		seen[v.Name()] = true
		card *= v.Cardinality()
	}
	if len(values) != card {
		return nil, &StructureError{Reason: fmt.Sprintf("table size %d does not match scope cardinality %d", len(values), card)}
	}
	for i, val := range values {
		if val < 0 {
			return nil, &StructureError{Reason: fmt.Sprintf("negative value %g at table index %d", val, i)}
		}
	}

	f := &Factor{
		scope:  make([]*Variable, len(scope)),
		values: make([]float64, len(values)),
	}
	copy(f.scope, scope)
	copy(f.values, values)
	return f, nil
}

// Scope returns a copy of the factor's ordered variable scope
func (f *Factor) Scope() []*Variable {
	out := make([]*Variable, len(f.scope))
	copy(out, f.scope)
	return out
}

// ScopeNames returns the names of the scope variables in order
func (f *Factor) ScopeNames() []string {
	out := make([]string, len(f.scope))
	for i, v := range f.scope {
		out[i] = v.Name()
	}
	return out
}

// Values returns a copy of the dense value table in row-major scope order
func (f *Factor) Values() []float64 {
	out := make([]float64, len(f.values))
	copy(out, f.values)
	return out
}

// Cardinality returns the total number of table entries
func (f *Factor) Cardinality() int {
	return len(f.values)
}

// Contains reports whether a variable name is part of the factor's scope
func (f *Factor) Contains(name string) bool {
	return f.position(name) >= 0
}

// position returns the scope index of a variable name, or -1 if absent
func (f *Factor) position(name string) int {
	for i, v := range f.scope {
		if v.Name() == name {
			return i
		}
	}
	return -1
}

// strides computes the row-major stride of each scope position
func strides(scope []*Variable) []int {
	out := make([]int, len(scope))
	acc := 1
	for i := len(scope) - 1; i >= 0; i-- {
		out[i] = acc
		acc *= scope[i].Cardinality()
	}
	return out
}

// next advances a row-major assignment odometer over the scope
// Returns false once the assignment wraps back to all zeros
func next(assign []int, scope []*Variable) bool {
	for i := len(assign) - 1; i >= 0; i-- {
		assign[i]++
		if assign[i] < scope[i].Cardinality() {
			return true
		}
		assign[i] = 0
	}
	return false
}

// Restrict returns a new factor with the named variable fixed to the given value
// and removed from scope. Fails with NotInScopeError if the variable is absent
// and OutOfDomainError if the value is not in its domain
func (f *Factor) Restrict(name, value string) (*Factor, error) {
	pos := f.position(name)
	if pos < 0 {
		return nil, &NotInScopeError{Variable: name}
	}
	fixed, ok := f.scope[pos].Index(value)
	if !ok {
		return nil, &OutOfDomainError{Variable: name, Value: value}
	}

	newScope := make([]*Variable, 0, len(f.scope)-1)
	newScope = append(newScope, f.scope[:pos]...)
	newScope = append(newScope, f.scope[pos+1:]...)

	newValues := make([]float64, len(f.values)/f.scope[pos].Cardinality())
	dStrides := strides(newScope)

	assign := make([]int, len(f.scope))
	src := 0
	for {
		if assign[pos] == fixed {
			dst := 0
			d := 0
			for i := range f.scope {
				if i == pos {
					continue
				}
				dst += assign[i] * dStrides[d]
				d++
			}
			newValues[dst] = f.values[src]
		}
		src++
		if !next(assign, f.scope) {
			break
		}
	}

	return &Factor{scope: newScope, values: newValues}, nil
}

// Multiply returns the product factor over the union of the two scopes.
// The result scope is the receiver's scope followed by the other factor's
// variables not already present, so the output ordering is deterministic
func (f *Factor) Multiply(other *Factor) (*Factor, error) {
	scope := make([]*Variable, 0, len(f.scope)+len(other.scope))
	scope = append(scope, f.scope...)
	for _, v := range other.scope {
		if f.position(v.Name()) < 0 {
			scope = append(scope, v)
		}
	}

	// Position of each of other's scope variables within the result scope.
	otherPos := make([]int, len(other.scope))
	for i, v := range other.scope {
		for j, rv := range scope {
			if rv.Name() == v.Name() {
				otherPos[i] = j
				break
			}
		}
	}

	card := 1
	for _, v := range scope {
		card *= v.Cardinality()
	}
	values := make([]float64, card)
	fStrides := strides(f.scope)
	oStrides := strides(other.scope)

	assign := make([]int, len(scope))
	idx := 0
	for {
		fi := 0
		for i := range f.scope {
			fi += assign[i] * fStrides[i]
		}
		oi := 0
		for i, p := range otherPos {
			oi += assign[p] * oStrides[i]
		}
		values[idx] = f.values[fi] * other.values[oi]
		idx++
		if !next(assign, scope) {
			break
		}
	}

	return &Factor{scope: scope, values: values}, nil
}

// Marginalize returns a new factor with the named variable summed out of scope
// Fails with NotInScopeError if the variable is absent
func (f *Factor) Marginalize(name string) (*Factor, error) {
	pos := f.position(name)
	if pos < 0 {
		return nil, &NotInScopeError{Variable: name}
	}

	newScope := make([]*Variable, 0, len(f.scope)-1)
	newScope = append(newScope, f.scope[:pos]...)
	newScope = append(newScope, f.scope[pos+1:]...)

	newValues := make([]float64, len(f.values)/f.scope[pos].Cardinality())
	dStrides := strides(newScope)

	assign := make([]int, len(f.scope))
	src := 0
	for {
		dst := 0
		d := 0
		for i := range f.scope {
			if i == pos {
				continue
			}
			dst += assign[i] * dStrides[d]
			d++
		}
		newValues[dst] += f.values[src]
		src++
		if !next(assign, f.scope) {
			break
		}
	}

	return &Factor{scope: newScope, values: newValues}, nil
}

// Normalize returns a new factor with all values divided by their sum
// Fails with ErrZeroSum when the sum is exactly zero, which signals an
// impossible evidence combination to the inference layer
func (f *Factor) Normalize() (*Factor, error) {
	sum := floats.Sum(f.values)
	if sum == 0 {
		return nil, ErrZeroSum
	}

	values := make([]float64, len(f.values))
	copy(values, f.values)
	floats.Scale(1/sum, values)

	scope := make([]*Variable, len(f.scope))
	copy(scope, f.scope)
	return &Factor{scope: scope, values: values}, nil
}

// Reorder returns a new factor over the same variables with the scope permuted
// to the requested name order. Fails if the requested names are not exactly the
// factor's scope
func (f *Factor) Reorder(names []string) (*Factor, error) {
	if len(names) != len(f.scope) {
		return nil, &StructureError{Reason: fmt.Sprintf("reorder expects %d variables, got %d", len(f.scope), len(names))}
	}

	newScope := make([]*Variable, len(names))
	srcPos := make([]int, len(names))
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if seen[name] {
			return nil, &StructureError{Variable: name, Reason: "duplicate variable in reorder request"}
		}
		seen[name] = true
		pos := f.position(name)
		if pos < 0 {
			return nil, &NotInScopeError{Variable: name}
		}
		newScope[i] = f.scope[pos]
		srcPos[i] = pos
	}

	values := make([]float64, len(f.values))
	fStrides := strides(f.scope)

	assign := make([]int, len(newScope))
	idx := 0
	for {
		src := 0
		for i, pos := range srcPos {
			src += assign[i] * fStrides[pos]
		}
		values[idx] = f.values[src]
		idx++
		if !next(assign, newScope) {
			break
		}
	}

	return &Factor{scope: newScope, values: values}, nil
}

// Value returns the table entry for a full assignment of the scope, given as a
// map from variable name to category label
func (f *Factor) Value(assignment map[string]string) (float64, error) {
	fStrides := strides(f.scope)
	idx := 0
	for i, v := range f.scope {
		label, ok := assignment[v.Name()]
		if !ok {
			return 0, fmt.Errorf("assignment missing scope variable %s", v.Name())
		}
		pos, ok := v.Index(label)
		if !ok {
			return 0, &OutOfDomainError{Variable: v.Name(), Value: label}
		}
		idx += pos * fStrides[i]
	}
	return f.values[idx], nil
}

// String returns a compact human-readable description of the factor
func (f *Factor) String() string {
	return fmt.Sprintf("Factor(%v, %d entries)", f.ScopeNames(), len(f.values))
}
