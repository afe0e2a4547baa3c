// Package chart shapes filtered record sets into the node/link and
// coordinate models behind each visualization, and builds the echarts
// renderings from them. The adapters are pure; rendering is delegated
// to go-echarts.
package chart

import (
	"github.com/tmcke/portview/internal/domain"
)

// FlowNode is one stage of the budget flow.
type FlowNode struct {
	Name  string
	Value float64
}

// FlowLink carries budget between adjacent stages. Links are only
// emitted with a strictly positive value; a zero-width flow has no
// visual meaning and corrupts sankey layout.
type FlowLink struct {
	Source string
	Target string
	Value  float64
}

// FlowModel is the Portfolio→Program→Project budget flow.
type FlowModel struct {
	Nodes []FlowNode
	Links []FlowLink
}

// BuildFlow aggregates budgets along the hierarchy. Node values are
// sums for portfolios and programs and individual budgets for projects;
// node order is first-seen source order.
func BuildFlow(records []domain.ProjectRecord) FlowModel {
	type key struct{ src, dst string }

	var order []string
	values := map[string]float64{}
	seen := map[string]bool{}
	node := func(name string, add float64) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
		values[name] += add
	}

	var linkOrder []key
	linkValues := map[key]float64{}
	link := func(src, dst string, add float64) {
		k := key{src, dst}
		if _, ok := linkValues[k]; !ok {
			linkOrder = append(linkOrder, k)
		}
		linkValues[k] += add
	}

	for _, r := range records {
		node(r.Portfolio, r.Budget)
		node(r.Program, r.Budget)
		node(r.Name, r.Budget)
		link(r.Portfolio, r.Program, r.Budget)
		link(r.Program, r.Name, r.Budget)
	}

	m := FlowModel{}
	for _, name := range order {
		m.Nodes = append(m.Nodes, FlowNode{Name: name, Value: values[name]})
	}
	for _, k := range linkOrder {
		if v := linkValues[k]; v > 0 {
			m.Links = append(m.Links, FlowLink{Source: k.src, Target: k.dst, Value: v})
		}
	}
	return m
}
