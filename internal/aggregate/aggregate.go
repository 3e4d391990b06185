// Package aggregate reshapes flat energy facts into the chart views served by
// the API. Every function is pure and works on facts already filtered by
// energy type.
package aggregate

import (
	"sort"

	"github.com/energydash/energydash-go/internal/model"
)

// MonthsPerYear is the number of points in every monthly view.
const MonthsPerYear = 12

var monthLabels = [MonthsPerYear]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// MonthLabel returns the three-letter label for a calendar month (1-12),
// or an empty string when m is out of range.
func MonthLabel(m int) string {
	if m < 1 || m > MonthsPerYear {
		return ""
	}
	return monthLabels[m-1]
}

// Pivot groups facts by month, then by source, summing kWh per group.
func Pivot(facts []model.Fact) map[int]map[string]float64 {
	pivot := make(map[int]map[string]float64)
	for _, f := range facts {
		bySource, ok := pivot[f.Month]
		if !ok {
			bySource = make(map[string]float64)
			pivot[f.Month] = bySource
		}
		bySource[f.Source] += f.KWh
	}
	return pivot
}

// Trends returns exactly twelve points, January first, each carrying one
// value per name in sources. Missing month/source combinations are zero.
func Trends(facts []model.Fact, sources []string) []model.TrendPoint {
	pivot := Pivot(facts)

	out := make([]model.TrendPoint, 0, MonthsPerYear)
	for m := 1; m <= MonthsPerYear; m++ {
		bySource := pivot[m]
		values := make([]model.SourceValue, len(sources))
		for i, src := range sources {
			values[i] = model.SourceValue{Source: src, KWh: bySource[src]}
		}
		out = append(out, model.TrendPoint{Month: MonthLabel(m), Values: values})
	}
	return out
}

// Composition has the same shape and values as Trends. It backs the stacked
// bar chart.
func Composition(facts []model.Fact, sources []string) []model.TrendPoint {
	return Trends(facts, sources)
}

// Summary returns the total kWh per source over all months, one row per
// source present in facts, in order of first appearance.
func Summary(facts []model.Fact) []model.SummaryPoint {
	index := make(map[string]int)
	out := make([]model.SummaryPoint, 0)
	for _, f := range facts {
		i, ok := index[f.Source]
		if !ok {
			i = len(out)
			index[f.Source] = i
			out = append(out, model.SummaryPoint{Source: f.Source})
		}
		out[i].KWh += f.KWh
	}
	return out
}

// Composed returns twelve points with the month's total across all sources
// and the kWh of the highlighted source.
func Composed(facts []model.Fact, highlight string) []model.ComposedPoint {
	pivot := Pivot(facts)

	out := make([]model.ComposedPoint, 0, MonthsPerYear)
	for m := 1; m <= MonthsPerYear; m++ {
		var total float64
		for _, kwh := range pivot[m] {
			total += kwh
		}
		out = append(out, model.ComposedPoint{
			Month:     MonthLabel(m),
			Total:     total,
			Highlight: pivot[m][highlight],
		})
	}
	return out
}

// Tracks flattens facts into per-(source, type) monthly series. Series keep
// the order in which they first appear; months are ascending and only months
// with data are emitted.
func Tracks(facts []model.Fact) []model.TrackPoint {
	type seriesKey struct{ source, typ string }

	var order []seriesKey
	series := make(map[seriesKey]map[int]float64)
	for _, f := range facts {
		k := seriesKey{f.Source, f.Type}
		months, ok := series[k]
		if !ok {
			months = make(map[int]float64)
			series[k] = months
			order = append(order, k)
		}
		months[f.Month] += f.KWh
	}

	out := make([]model.TrackPoint, 0)
	for _, k := range order {
		for m := 1; m <= MonthsPerYear; m++ {
			kwh, ok := series[k][m]
			if !ok {
				continue
			}
			out = append(out, model.TrackPoint{Month: MonthLabel(m), KWh: kwh, Source: k.source, Type: k.typ})
		}
	}
	return out
}

// UnknownSources lists, sorted, the source names present in facts that are
// not columns in sources. Their kWh never shows up in Trends.
func UnknownSources(facts []model.Fact, sources []string) []string {
	known := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		known[s] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, f := range facts {
		if _, ok := known[f.Source]; ok {
			continue
		}
		if _, ok := seen[f.Source]; ok {
			continue
		}
		seen[f.Source] = struct{}{}
		out = append(out, f.Source)
	}
	sort.Strings(out)
	return out
}
