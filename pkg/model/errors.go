/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Error taxonomy for the MedBayes engine. Every failure mode carries the
offending identifier so callers can report exactly which variable, column, or value
was at fault. All errors are deterministic logic errors; nothing here is retryable.
*/

package model

import (
	"errors"
	"fmt"
)

// ErrZeroSum is returned by Factor.Normalize when the table sums to exactly zero.
// During inference this signals an evidence combination with zero prior probability.
var ErrZeroSum = errors.New("factor values sum to zero")

// StructureError reports an invalid network structure: cyclic edges, duplicate
// variable names, or edges referencing unknown variables
type StructureError struct {
	Variable string // Offending variable name, if one is identifiable
	Reason   string // Human-readable reason
}

func (e *StructureError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("structure error: %s: %s", e.Variable, e.Reason)
	}
	return fmt.Sprintf("structure error: %s", e.Reason)
}

// DataError reports a training-data problem during parameter estimation:
// a missing column or an observed value outside a variable's declared domain
type DataError struct {
	Column string // Column / variable name involved
	Value  string // Offending observed value, if any
	Reason string // Human-readable reason
}

func (e *DataError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("data error: column %s: value %q: %s", e.Column, e.Value, e.Reason)
	}
	if e.Column != "" {
		return fmt.Sprintf("data error: column %s: %s", e.Column, e.Reason)
	}
	return fmt.Sprintf("data error: %s", e.Reason)
}

// ValidationError reports a network that failed its validity check: a node
// without a CPD, a CPD whose parents do not match the node's in-edges, or a
// CPD column that does not sum to one
type ValidationError struct {
	Node   string // Offending node name, if one is identifiable
	Reason string // Human-readable reason
}

func (e *ValidationError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("validation error: node %s: %s", e.Node, e.Reason)
	}
	return fmt.Sprintf("validation error: %s", e.Reason)
}

// QueryError reports an invalid query: an unknown variable, overlapping target
// and evidence sets, or an out-of-domain evidence value
type QueryError struct {
	Variable string // Offending variable name
	Reason   string // Human-readable reason
}

func (e *QueryError) Error() string {
	if e.Variable != "" {
		return fmt.Sprintf("query error: %s: %s", e.Variable, e.Reason)
	}
	return fmt.Sprintf("query error: %s", e.Reason)
}

// NotInScopeError is returned by factor operations that reference a variable
// absent from the factor's scope
type NotInScopeError struct {
	Variable string
}

func (e *NotInScopeError) Error() string {
	return fmt.Sprintf("variable %s not in factor scope", e.Variable)
}

// OutOfDomainError is returned when a value is not a member of a variable's domain
type OutOfDomainError struct {
	Variable string
	Value    string
}

func (e *OutOfDomainError) Error() string {
	return fmt.Sprintf("value %q not in domain of variable %s", e.Value, e.Variable)
}
