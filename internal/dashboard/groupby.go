package dashboard

import (
	"math"
	"sort"
)

// grouped accumulates totals per label while preserving the order in which
// labels first appear. Deterministic output regardless of map iteration.
type grouped struct {
	labels []string
	totals map[string]float64
}

func newGrouped() *grouped {
	return &grouped{totals: make(map[string]float64)}
}

func (g *grouped) add(label string, v float64) {
	if _, ok := g.totals[label]; !ok {
		g.labels = append(g.labels, label)
	}
	g.totals[label] += v
}

// series renders the groups as a single-dataset chart.
func (g *grouped) series(datasetLabel string) ChartSeries {
	data := make([]float64, len(g.labels))
	for i, label := range g.labels {
		data[i] = round2(g.totals[label])
	}
	return ChartSeries{
		Labels:   append([]string{}, g.labels...),
		Datasets: []Dataset{{Label: datasetLabel, Data: data}},
	}
}

// top keeps the n largest groups. Ties keep first-appearance order; fewer
// groups than n is fine.
func (g *grouped) top(n int) *grouped {
	order := append([]string{}, g.labels...)
	sort.SliceStable(order, func(i, j int) bool {
		return g.totals[order[i]] > g.totals[order[j]]
	})
	if len(order) > n {
		order = order[:n]
	}
	out := newGrouped()
	for _, label := range order {
		out.add(label, g.totals[label])
	}
	return out
}

// fixedSeries renders a chart over a preset label order, zero-filling labels
// that never accumulated a value.
func fixedSeries(labels []string, datasetLabel string, totals map[string]float64) ChartSeries {
	data := make([]float64, len(labels))
	for i, label := range labels {
		data[i] = round2(totals[label])
	}
	return ChartSeries{
		Labels:   append([]string{}, labels...),
		Datasets: []Dataset{{Label: datasetLabel, Data: data}},
	}
}

// percentage returns part/whole*100 rounded to the nearest whole number,
// 0 when the denominator is zero.
func percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(part / whole * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// orDefault substitutes a placeholder for empty grouping values.
func orDefault(v, placeholder string) string {
	if v == "" {
		return placeholder
	}
	return v
}
