/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: transform.go
Description: Numeric column discretization for the MedBayes preprocessing
collaborator. Min-max scales a numeric column to [0,1] and cuts it into equal-width
labeled bins, turning continuous measurements into categorical observations the
estimator can count.
*/

package data

import (
	"strconv"

	"github.com/kleascm/medbayes/pkg/estimation"
	"github.com/kleascm/medbayes/pkg/model"
)

// MinMaxScale scales values linearly to [0,1]. A constant column scales to
// all zeros
func MinMaxScale(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return out
	}
	for i, v := range values {
		out[i] = (v - min) / (max - min)
	}
	return out
}

// Discretize returns a new table with the named numeric column replaced by
// equal-width categorical bins carrying the given labels. Fails with a
// DataError if a cell cannot be parsed as a number
func Discretize(table *estimation.Table, column string, labels []string) (*estimation.Table, error) {
	if len(labels) == 0 {
		return nil, &model.DataError{Column: column, Reason: "discretization requires at least one bin label"}
	}
	idx, err := table.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	numeric := make([]float64, table.Len())
	for r := 0; r < table.Len(); r++ {
		cell := table.Row(r)[idx]
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, &model.DataError{Column: column, Value: cell, Reason: "cell is not numeric"}
		}
		numeric[r] = v
	}

	scaled := MinMaxScale(numeric)
	out, err := estimation.NewTable(table.Columns())
	if err != nil {
		return nil, err
	}
	for r := 0; r < table.Len(); r++ {
		row := table.Row(r)
		bin := int(scaled[r] * float64(len(labels)))
		if bin >= len(labels) {
			bin = len(labels) - 1
		}
		row[idx] = labels[bin]
		if err := out.Append(row); err != nil {
			return nil, err
		}
	}
	return out, nil
}
