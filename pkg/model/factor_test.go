/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: factor_test.go
Description: Tests for the Factor type. Covers construction invariants,
restriction, multiplication, marginalization, normalization, scope reordering,
scalar (empty-scope) factors, and the zero-sum failure condition.
*/

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/medbayes/pkg/model"
)

func mustVariable(t *testing.T, name string, domain ...string) *model.Variable {
	t.Helper()
	v, err := model.NewVariable(name, domain)
	require.NoError(t, err)
	return v
}

// TestNewFactor tests factor construction invariants
func TestNewFactor(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "x", "y", "z")

	f, err := model.NewFactor([]*model.Variable{a, b}, []float64{0, 1, 2, 10, 11, 12})
	require.NoError(t, err)
	assert.Equal(t, 6, f.Cardinality())
	assert.Equal(t, []string{"A", "B"}, f.ScopeNames())
	assert.True(t, f.Contains("A"))
	assert.False(t, f.Contains("C"))

	// Table size must match scope cardinality
	_, err = model.NewFactor([]*model.Variable{a, b}, []float64{1, 2, 3})
	assert.Error(t, err)

	// Duplicate scope variable
	_, err = model.NewFactor([]*model.Variable{a, a}, []float64{1, 2, 3, 4})
	assert.Error(t, err)

	// Negative values are rejected
	_, err = model.NewFactor([]*model.Variable{a}, []float64{0.5, -0.5})
	assert.Error(t, err)
}

// TestFactorRestrict tests fixing a variable to a value
func TestFactorRestrict(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "x", "y", "z")
	f, err := model.NewFactor([]*model.Variable{a, b}, []float64{0, 1, 2, 10, 11, 12})
	require.NoError(t, err)

	// Fix the trailing variable
	r, err := f.Restrict("B", "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, r.ScopeNames())
	assert.Equal(t, []float64{1, 11}, r.Values())

	// Fix the leading variable
	r, err = f.Restrict("A", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, r.ScopeNames())
	assert.Equal(t, []float64{10, 11, 12}, r.Values())

	// The receiver is untouched
	assert.Equal(t, []float64{0, 1, 2, 10, 11, 12}, f.Values())

	var notInScope *model.NotInScopeError
	_, err = f.Restrict("C", "x")
	require.Error(t, err)
	assert.ErrorAs(t, err, &notInScope)
	assert.Equal(t, "C", notInScope.Variable)

	var outOfDomain *model.OutOfDomainError
	_, err = f.Restrict("B", "w")
	require.Error(t, err)
	assert.ErrorAs(t, err, &outOfDomain)
	assert.Equal(t, "w", outOfDomain.Value)
}

// TestFactorMultiply tests products over disjoint and shared scopes
func TestFactorMultiply(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "0", "1")

	fa, err := model.NewFactor([]*model.Variable{a}, []float64{2, 3})
	require.NoError(t, err)
	fb, err := model.NewFactor([]*model.Variable{b}, []float64{5, 7})
	require.NoError(t, err)

	// Disjoint scopes: result scope is self followed by other
	p, err := fa.Multiply(fb)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.ScopeNames())
	assert.Equal(t, []float64{10, 14, 15, 21}, p.Values())

	// Shared scope: pointwise product
	fa2, err := model.NewFactor([]*model.Variable{a}, []float64{5, 7})
	require.NoError(t, err)
	p, err = fa.Multiply(fa2)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, p.ScopeNames())
	assert.Equal(t, []float64{10, 21}, p.Values())
}

// TestFactorMultiplyOverlap tests products where scopes partially overlap
func TestFactorMultiplyOverlap(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "0", "1")

	fa, err := model.NewFactor([]*model.Variable{a}, []float64{0.3, 0.7})
	require.NoError(t, err)
	// P(B|A) laid out over scope [B, A]
	fba, err := model.NewFactor([]*model.Variable{b, a}, []float64{0.9, 0.2, 0.1, 0.8})
	require.NoError(t, err)

	p, err := fa.Multiply(fba)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, p.ScopeNames())
	// Joint P(A,B): entries [a0b0, a0b1, a1b0, a1b1]
	assert.InDeltaSlice(t, []float64{0.27, 0.03, 0.14, 0.56}, p.Values(), 1e-12)
}

// TestFactorMarginalize tests summing a variable out
func TestFactorMarginalize(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "x", "y", "z")
	f, err := model.NewFactor([]*model.Variable{a, b}, []float64{0, 1, 2, 10, 11, 12})
	require.NoError(t, err)

	m, err := f.Marginalize("B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, m.ScopeNames())
	assert.Equal(t, []float64{3, 33}, m.Values())

	m, err = f.Marginalize("A")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, m.ScopeNames())
	assert.Equal(t, []float64{10, 12, 14}, m.Values())

	var notInScope *model.NotInScopeError
	_, err = f.Marginalize("C")
	require.Error(t, err)
	assert.ErrorAs(t, err, &notInScope)
}

// TestFactorNormalize tests normalization and the zero-sum condition
func TestFactorNormalize(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	f, err := model.NewFactor([]*model.Variable{a}, []float64{1, 3})
	require.NoError(t, err)

	n, err := f.Normalize()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.25, 0.75}, n.Values(), 1e-12)
	// Original untouched
	assert.Equal(t, []float64{1, 3}, f.Values())

	zero, err := model.NewFactor([]*model.Variable{a}, []float64{0, 0})
	require.NoError(t, err)
	_, err = zero.Normalize()
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrZeroSum)
}

// TestFactorReorder tests scope permutation
func TestFactorReorder(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "x", "y", "z")
	f, err := model.NewFactor([]*model.Variable{a, b}, []float64{0, 1, 2, 10, 11, 12})
	require.NoError(t, err)

	r, err := f.Reorder([]string{"B", "A"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, r.ScopeNames())
	// Transposed layout: index = b*2 + a
	assert.Equal(t, []float64{0, 10, 1, 11, 2, 12}, r.Values())

	// Reordering back restores the original table
	back, err := r.Reorder([]string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, f.Values(), back.Values())

	_, err = f.Reorder([]string{"A"})
	assert.Error(t, err)
	_, err = f.Reorder([]string{"A", "A"})
	assert.Error(t, err)
	_, err = f.Reorder([]string{"A", "C"})
	assert.Error(t, err)
}

// TestFactorScalar tests empty-scope factors produced by restricting a
// single-variable factor
func TestFactorScalar(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	f, err := model.NewFactor([]*model.Variable{a}, []float64{0.3, 0.7})
	require.NoError(t, err)

	s, err := f.Restrict("A", "1")
	require.NoError(t, err)
	assert.Empty(t, s.ScopeNames())
	assert.Equal(t, []float64{0.7}, s.Values())

	// Scalars fold into products
	p, err := s.Multiply(f)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, p.ScopeNames())
	assert.InDeltaSlice(t, []float64{0.21, 0.49}, p.Values(), 1e-12)
}

// TestFactorValue tests the assignment lookup accessor
func TestFactorValue(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "x", "y", "z")
	f, err := model.NewFactor([]*model.Variable{a, b}, []float64{0, 1, 2, 10, 11, 12})
	require.NoError(t, err)

	v, err := f.Value(map[string]string{"A": "1", "B": "y"})
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)

	_, err = f.Value(map[string]string{"A": "1"})
	assert.Error(t, err)

	_, err = f.Value(map[string]string{"A": "1", "B": "nope"})
	assert.Error(t, err)
}
