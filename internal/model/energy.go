package model

import (
	"bytes"

	"github.com/goccy/go-json"
)

// Energy type names stored in the energy_types lookup table.
const (
	TypeGeneration  = "generation"
	TypeConsumption = "consumption"
)

// DefaultSources is the fixed set of source columns rendered by the trend and
// composition views. Names must match energy_sources.name exactly.
var DefaultSources = []string{"solar", "tidal", "grid", "hydro", "geothermal"}

// EnergySource is a row of the energy_sources lookup table.
type EnergySource struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EnergyType is a row of the energy_types lookup table.
type EnergyType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EnergyTrack is a single kWh measurement for a source, type and month.
type EnergyTrack struct {
	ID       int64
	SourceID int64
	TypeID   int64
	Month    int
	KWh      float64
}

// Fact is an energy track joined with its source and type names.
type Fact struct {
	Month  int
	KWh    float64
	Source string
	Type   string
}

// SourceValue is one source column of a TrendPoint.
type SourceValue struct {
	Source string
	KWh    float64
}

// TrendPoint is one month of per-source totals. It serializes as a flat
// object, {"month":"Jan","solar":1.5,...}, with sources in column order.
type TrendPoint struct {
	Month  string
	Values []SourceValue
}

// Value returns the kWh for source, or 0 when the point has no such column.
func (p TrendPoint) Value(source string) float64 {
	for _, v := range p.Values {
		if v.Source == source {
			return v.KWh
		}
	}
	return 0
}

func (p TrendPoint) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"month":`)
	if err := writeJSONValue(&buf, p.Month); err != nil {
		return nil, err
	}
	for _, v := range p.Values {
		buf.WriteByte(',')
		if err := writeJSONValue(&buf, v.Source); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONValue(&buf, v.KWh); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// SummaryPoint is the total kWh of one source across all months.
type SummaryPoint struct {
	Source string  `json:"source"`
	KWh    float64 `json:"kwh"`
}

// ComposedPoint is one month of the combined bar+line view.
type ComposedPoint struct {
	Month     string  `json:"month"`
	Total     float64 `json:"total"`
	Highlight float64 `json:"highlight"`
}

// TrackPoint is the monthly kWh of one (source, type) series.
type TrackPoint struct {
	Month  string  `json:"month"`
	KWh    float64 `json:"kwh"`
	Source string  `json:"source"`
	Type   string  `json:"type"`
}
