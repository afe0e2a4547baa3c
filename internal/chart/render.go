package chart

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tmcke/portview/internal/domain"
)

const (
	chartWidth  = "1200px"
	chartHeight = "700px"
)

// FlowChart renders the budget flow model as a sankey diagram.
func FlowChart(m FlowModel, title string) *charts.Sankey {
	sankey := charts.NewSankey()
	sankey.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d nodes, %d positive-value links", len(m.Nodes), len(m.Links)),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.SankeyNode, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		nodes = append(nodes, opts.SankeyNode{Name: n.Name})
	}
	links := make([]opts.SankeyLink, 0, len(m.Links))
	for _, l := range m.Links {
		links = append(links, opts.SankeyLink{Source: l.Source, Target: l.Target, Value: float32(l.Value)})
	}

	sankey.AddSeries("budget flow", nodes, links,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Curveness: 0.5, Opacity: 0.4}),
	)
	return sankey
}

// HeatChart renders the portfolio × month budget matrix.
func HeatChart(m HeatModel, title string) *charts.HeatMap {
	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: m.Labels, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Portfolios, SplitArea: &opts.SplitArea{Show: opts.Bool(true)}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(m.Max),
			InRange:    &opts.VisualMapInRange{Color: []string{"#e0f3f8", "#74add1", "#4575b4"}},
		}),
	)

	data := make([]opts.HeatMapData, 0, len(m.Cells))
	for _, c := range m.Cells {
		data = append(data, opts.HeatMapData{Value: []interface{}{c.Month, c.Portfolio, math.Round(c.Value)}})
	}
	heatmap.AddSeries("monthly budget", data)
	return heatmap
}

// NetworkChart renders the manager/project graph with a force layout.
func NetworkChart(m NetworkModel, title string) *charts.Graph {
	graph := charts.NewGraph()
	graph.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d nodes, %d edges", m.Order, m.Size),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	nodes := make([]opts.GraphNode, 0, len(m.Nodes))
	for _, n := range m.Nodes {
		category := 0
		if n.Kind == NodeProject {
			category = 1
		}
		nodes = append(nodes, opts.GraphNode{
			Name:       n.Label,
			Value:      float32(n.Value),
			Category:   category,
			SymbolSize: nodeSymbolSize(n),
		})
	}
	links := make([]opts.GraphLink, 0, len(m.Edges))
	labelOf := map[string]string{}
	for _, n := range m.Nodes {
		labelOf[n.ID] = n.Label
	}
	for _, e := range m.Edges {
		links = append(links, opts.GraphLink{Source: labelOf[e.Source], Target: labelOf[e.Target], Value: 1})
	}

	graph.AddSeries("delivery network", nodes, links,
		charts.WithGraphChartOpts(opts.GraphChart{
			Layout: "force",
			Roam:   opts.Bool(true),
			Force:  &opts.GraphForce{Repulsion: 800, Gravity: 0.1, EdgeLength: 120},
			Categories: []*opts.GraphCategory{
				{Name: "Managers", ItemStyle: &opts.ItemStyle{Color: "#5470c6"}},
				{Name: "Projects", ItemStyle: &opts.ItemStyle{Color: "#91cc75"}},
			},
		}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}),
		charts.WithLineStyleOpts(opts.LineStyle{Curveness: 0.2}),
	)
	return graph
}

func nodeSymbolSize(n NetNode) float32 {
	base := 18.0
	if n.Kind == NodeProject && n.Value > 0 {
		base += math.Min(30, math.Sqrt(n.Value)/50)
	}
	if n.Kind == NodeManager {
		base += math.Min(20, n.Value*3)
	}
	return float32(base)
}

// BubbleChart renders the budget/spend scatter, one series per status
// so each keeps its palette color and legend entry.
func BubbleChart(m BubbleModel, title string) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Budget", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Spent", Type: "value"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	byStatus := map[domain.Status][]opts.ScatterData{}
	for _, p := range m.Points {
		byStatus[p.Status] = append(byStatus[p.Status], opts.ScatterData{
			Value:      []interface{}{p.X, p.Y},
			SymbolSize: bubbleSymbolSize(p.Radius),
		})
	}
	for _, status := range domain.KnownStatuses {
		data, ok := byStatus[status]
		if !ok {
			continue
		}
		scatter.AddSeries(string(status), data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: StatusColor(status)}),
		)
	}
	return scatter
}

func bubbleSymbolSize(radius float64) int {
	size := int(math.Round(radius / 20))
	if size < 6 {
		size = 6
	}
	if size > 60 {
		size = 60
	}
	return size
}

// RenderDashboard writes all four charts as a single HTML page.
func RenderDashboard(w io.Writer, records []domain.ProjectRecord, rng domain.DateRange) error {
	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(
		FlowChart(BuildFlow(records), "Budget Flow"),
		HeatChart(BuildHeat(records, rng), "Budget Heatmap"),
		NetworkChart(BuildNetwork(records), "Delivery Network"),
		BubbleChart(BuildBubble(records), "Budget vs Spend"),
	)
	return page.Render(w)
}
