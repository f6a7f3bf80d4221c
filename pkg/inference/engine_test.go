/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: engine_test.go
Description: Tests for the Variable Elimination engine. Covers the reference
chain-network expectations, conditional queries, marginal consistency, byte-exact
determinism across repeated queries, query precondition errors, impossible
evidence, and the refusal of unvalidated networks.
*/

package inference_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/medbayes/pkg/inference"
	"github.com/kleascm/medbayes/pkg/model"
	"github.com/kleascm/medbayes/pkg/network"
)

func mustVariable(t *testing.T, name string, domain ...string) *model.Variable {
	t.Helper()
	v, err := model.NewVariable(name, domain)
	require.NoError(t, err)
	return v
}

func attach(t *testing.T, net *network.Network, child *model.Variable, parents []*model.Variable, values []float64) {
	t.Helper()
	cpd, err := model.NewCPD(child, parents, values)
	require.NoError(t, err)
	require.NoError(t, net.AttachCPD(cpd))
}

// chainEngine builds the validated reference network A -> B with
// P(A) = [0.3, 0.7], P(B|A=0) = [0.9, 0.1], P(B|A=1) = [0.2, 0.8]
func chainEngine(t *testing.T) *inference.Engine {
	t.Helper()
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "0", "1")
	net, err := network.Build([]*model.Variable{a, b}, []network.Edge{{From: "A", To: "B"}})
	require.NoError(t, err)

	attach(t, net, a, nil, []float64{0.3, 0.7})
	attach(t, net, b, []*model.Variable{a}, []float64{0.9, 0.2, 0.1, 0.8})

	ok, err := net.Check()
	require.NoError(t, err)
	require.True(t, ok)

	engine, err := inference.NewEngine(net, nil)
	require.NoError(t, err)
	return engine
}

// threeChainEngine builds the validated chain A -> B -> C with
// P(A) = [0.5, 0.5], P(B=0|A) = [0.8, 0.3], P(C=0|B) = [0.9, 0.4]
func threeChainEngine(t *testing.T) *inference.Engine {
	t.Helper()
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "0", "1")
	c := mustVariable(t, "C", "0", "1")
	net, err := network.Build([]*model.Variable{a, b, c},
		[]network.Edge{{From: "A", To: "B"}, {From: "B", To: "C"}})
	require.NoError(t, err)

	attach(t, net, a, nil, []float64{0.5, 0.5})
	attach(t, net, b, []*model.Variable{a}, []float64{0.8, 0.3, 0.2, 0.7})
	attach(t, net, c, []*model.Variable{b}, []float64{0.9, 0.4, 0.1, 0.6})

	ok, err := net.Check()
	require.NoError(t, err)
	require.True(t, ok)

	engine, err := inference.NewEngine(net, nil)
	require.NoError(t, err)
	return engine
}

// TestQueryMarginal tests the reference prior marginal P(B) = [0.41, 0.59]
func TestQueryMarginal(t *testing.T) {
	engine := chainEngine(t)

	result, err := engine.Query([]string{"B"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, result.Targets)
	assert.InDeltaSlice(t, []float64{0.41, 0.59}, result.Values(), 1e-12)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, []string{"A"}, result.Elimination)
}

// TestQueryConditional tests the reference posterior P(A | B=1)
func TestQueryConditional(t *testing.T) {
	engine := chainEngine(t)

	result, err := engine.Query([]string{"A"}, map[string]string{"B": "1"})
	require.NoError(t, err)
	// [0.3*0.1, 0.7*0.8] / 0.59
	assert.InDeltaSlice(t, []float64{0.03 / 0.59, 0.56 / 0.59}, result.Values(), 1e-12)

	p, err := result.P(map[string]string{"A": "1"})
	require.NoError(t, err)
	assert.InDelta(t, 0.56/0.59, p, 1e-12)
}

// TestQueryChainPropagation tests multi-step elimination on A -> B -> C
func TestQueryChainPropagation(t *testing.T) {
	engine := threeChainEngine(t)

	result, err := engine.Query([]string{"C"}, nil)
	require.NoError(t, err)
	// P(B=0) = 0.55, P(C=0) = 0.55*0.9 + 0.45*0.4 = 0.675
	assert.InDeltaSlice(t, []float64{0.675, 0.325}, result.Values(), 1e-12)

	result, err = engine.Query([]string{"A"}, map[string]string{"C": "1"})
	require.NoError(t, err)
	// P(C=1|A=0) = 0.2, P(C=1|A=1) = 0.45
	assert.InDeltaSlice(t, []float64{0.2 / 0.65, 0.45 / 0.65}, result.Values(), 1e-12)
}

// TestQueryJointTargets tests a joint query with the scope in request order
func TestQueryJointTargets(t *testing.T) {
	engine := chainEngine(t)

	result, err := engine.Query([]string{"B", "A"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, result.Factor().ScopeNames())
	// Layout [B, A]: [P(a0,b0), P(a1,b0), P(a0,b1), P(a1,b1)]
	assert.InDeltaSlice(t, []float64{0.27, 0.14, 0.03, 0.56}, result.Values(), 1e-12)

	sum := 0.0
	for _, v := range result.Values() {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// TestMarginalConsistency tests that P(A) equals the joint P(A,B) summed
// over B
func TestMarginalConsistency(t *testing.T) {
	engine := chainEngine(t)

	marginal, err := engine.Query([]string{"A"}, nil)
	require.NoError(t, err)

	joint, err := engine.Query([]string{"A", "B"}, nil)
	require.NoError(t, err)
	summed, err := joint.Factor().Marginalize("B")
	require.NoError(t, err)

	assert.InDeltaSlice(t, marginal.Values(), summed.Values(), 1e-12)
}

// TestQueryDeterminism tests that identical queries produce byte-identical
// probability vectors
func TestQueryDeterminism(t *testing.T) {
	engine := threeChainEngine(t)

	first, err := engine.Query([]string{"A", "C"}, map[string]string{"B": "0"})
	require.NoError(t, err)
	second, err := engine.Query([]string{"A", "C"}, map[string]string{"B": "0"})
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first.Values(), second.Values()))
	assert.Empty(t, cmp.Diff(first.Elimination, second.Elimination))
	assert.Equal(t, first.Factor().ScopeNames(), second.Factor().ScopeNames())
}

// TestQueryErrors tests the query precondition failures
func TestQueryErrors(t *testing.T) {
	engine := chainEngine(t)
	var queryErr *model.QueryError

	// Empty targets
	_, err := engine.Query(nil, nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &queryErr)

	// Unknown target variable
	_, err = engine.Query([]string{"Z"}, nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "Z", queryErr.Variable)

	// Duplicate target
	_, err = engine.Query([]string{"A", "A"}, nil)
	require.Error(t, err)
	assert.ErrorAs(t, err, &queryErr)

	// Target and evidence overlap
	_, err = engine.Query([]string{"A"}, map[string]string{"A": "0"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "A", queryErr.Variable)

	// Unknown evidence variable
	_, err = engine.Query([]string{"A"}, map[string]string{"Z": "0"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "Z", queryErr.Variable)

	// Out-of-domain evidence value
	_, err = engine.Query([]string{"A"}, map[string]string{"B": "maybe"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &queryErr)
	assert.Equal(t, "B", queryErr.Variable)
}

// TestImpossibleEvidence tests that evidence with zero prior probability
// fails with ImpossibleEvidenceError instead of returning NaN
func TestImpossibleEvidence(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "0", "1")
	net, err := network.Build([]*model.Variable{a, b}, []network.Edge{{From: "A", To: "B"}})
	require.NoError(t, err)

	// A=1 has zero prior probability
	attach(t, net, a, nil, []float64{1, 0})
	attach(t, net, b, []*model.Variable{a}, []float64{1, 0.5, 0, 0.5})

	ok, err := net.Check()
	require.NoError(t, err)
	require.True(t, ok)
	engine, err := inference.NewEngine(net, nil)
	require.NoError(t, err)

	_, err = engine.Query([]string{"B"}, map[string]string{"A": "1"})
	require.Error(t, err)
	var impossible *inference.ImpossibleEvidenceError
	assert.ErrorAs(t, err, &impossible)
	assert.Equal(t, map[string]string{"A": "1"}, impossible.Evidence)
	assert.True(t, errors.Is(err, model.ErrZeroSum))
}

// TestQuerySingleNodeNetwork tests the smallest possible factor set: one
// variable, no edges, no evidence
func TestQuerySingleNodeNetwork(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	net, err := network.Build([]*model.Variable{a}, nil)
	require.NoError(t, err)
	attach(t, net, a, nil, []float64{0.3, 0.7})
	ok, err := net.Check()
	require.NoError(t, err)
	require.True(t, ok)

	engine, err := inference.NewEngine(net, nil)
	require.NoError(t, err)

	result, err := engine.Query([]string{"A"}, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, 0.7}, result.Values(), 1e-12)
	assert.Empty(t, result.Elimination)
}

// TestEngineRefusesUnvalidatedNetwork tests that the engine never runs
// against a network that has not passed Check
func TestEngineRefusesUnvalidatedNetwork(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	net, err := network.Build([]*model.Variable{a}, nil)
	require.NoError(t, err)
	attach(t, net, a, nil, []float64{0.3, 0.7})

	_, err = inference.NewEngine(net, nil)
	require.Error(t, err)
	var validationErr *model.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

// TestQueryDoesNotMutateNetwork tests that repeated mixed queries leave the
// CPDs untouched
func TestQueryDoesNotMutateNetwork(t *testing.T) {
	a := mustVariable(t, "A", "0", "1")
	b := mustVariable(t, "B", "0", "1")
	net, err := network.Build([]*model.Variable{a, b}, []network.Edge{{From: "A", To: "B"}})
	require.NoError(t, err)
	attach(t, net, a, nil, []float64{0.3, 0.7})
	attach(t, net, b, []*model.Variable{a}, []float64{0.9, 0.2, 0.1, 0.8})
	ok, err := net.Check()
	require.NoError(t, err)
	require.True(t, ok)

	engine, err := inference.NewEngine(net, nil)
	require.NoError(t, err)

	before, _ := net.CPD("B")
	beforeValues := before.Values()

	_, err = engine.Query([]string{"B"}, map[string]string{"A": "0"})
	require.NoError(t, err)
	_, err = engine.Query([]string{"A", "B"}, nil)
	require.NoError(t, err)

	after, _ := net.CPD("B")
	assert.Equal(t, beforeValues, after.Values())
	assert.Equal(t, network.StateValidated, net.State())
}
