/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Text rendering of MedBayes networks, CPD tables, and query results for
the CLI. Consumes only the public introspection surface of the core packages; the
core itself never renders anything.
*/

package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/kleascm/medbayes/pkg/inference"
	"github.com/kleascm/medbayes/pkg/model"
	"github.com/kleascm/medbayes/pkg/network"
)

// NetworkSummary renders the variables, edges, and lifecycle state of a network
func NetworkSummary(net *network.Network) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Network (%d nodes, state: %s)\n", net.Size(), net.State())

	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NODE\tDOMAIN\tPARENTS")
	for _, v := range net.Variables() {
		parents := net.Parents(v.Name())
		parentCol := "-"
		if len(parents) > 0 {
			parentCol = strings.Join(parents, ", ")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.Name(), strings.Join(v.Domain(), ", "), parentCol)
	}
	w.Flush()
	return b.String()
}

// CPDTable renders one CPD as a table with a row per parent combination and a
// column per child category
func CPDTable(cpd *model.CPD) string {
	var b strings.Builder
	fmt.Fprintln(&b, cpd.String())

	child := cpd.Child()
	parents := cpd.Parents()

	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	header := make([]string, 0, len(parents)+child.Cardinality())
	for _, p := range parents {
		header = append(header, p.Name())
	}
	for _, label := range child.Domain() {
		header = append(header, fmt.Sprintf("%s=%s", child.Name(), label))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	parentCard := 1
	for _, p := range parents {
		parentCard *= p.Cardinality()
	}
	for offset := 0; offset < parentCard; offset++ {
		cells := cpd.ParentAssignment(offset)
		for _, p := range cpd.Column(offset) {
			cells = append(cells, fmt.Sprintf("%.4f", p))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	w.Flush()
	return b.String()
}

// QueryResult renders a query result as an assignment/probability table
func QueryResult(res *inference.Result) string {
	var b strings.Builder
	if len(res.Evidence) > 0 {
		pairs := make([]string, 0, len(res.Evidence))
		for k := range res.Evidence {
			pairs = append(pairs, k)
		}
		sort.Strings(pairs)
		for i, k := range pairs {
			pairs[i] = fmt.Sprintf("%s=%s", k, res.Evidence[k])
		}
		fmt.Fprintf(&b, "P(%s | %s)\n", strings.Join(res.Targets, ", "), strings.Join(pairs, ", "))
	} else {
		fmt.Fprintf(&b, "P(%s)\n", strings.Join(res.Targets, ", "))
	}

	factor := res.Factor()
	scope := factor.Scope()
	values := factor.Values()

	w := tabwriter.NewWriter(&b, 2, 4, 2, ' ', 0)
	header := make([]string, 0, len(scope)+1)
	for _, v := range scope {
		header = append(header, v.Name())
	}
	header = append(header, "PROBABILITY")
	fmt.Fprintln(w, strings.Join(header, "\t"))

	assign := make([]int, len(scope))
	for idx := range values {
		cells := make([]string, 0, len(scope)+1)
		for i, v := range scope {
			cells = append(cells, v.Label(assign[i]))
		}
		cells = append(cells, fmt.Sprintf("%.6f", values[idx]))
		fmt.Fprintln(w, strings.Join(cells, "\t"))
		advance(assign, scope)
	}
	w.Flush()
	return b.String()
}

// advance steps a row-major assignment odometer over the scope
func advance(assign []int, scope []*model.Variable) {
	for i := len(assign) - 1; i >= 0; i-- {
		assign[i]++
		if assign[i] < scope[i].Cardinality() {
			return
		}
		assign[i] = 0
	}
}
