package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/tuanvumaihuynh/sales-analytics/internal/model"
)

const PNGMediaType = "image/png"

const (
	chartWidth  = 1024
	chartHeight = 512
	barWidth    = 60
	barSpacing  = 20
)

// RenderTimelinePNG plots the summed sale total of each date.
func RenderTimelinePNG(totals []model.DailyTotal) ([]byte, error) {
	if len(totals) == 0 {
		return nil, ErrNoData
	}

	series := chart.TimeSeries{
		Name:    "Total",
		XValues: make([]time.Time, 0, len(totals)),
		YValues: make([]float64, 0, len(totals)),
	}
	maxY := 0.0
	for _, t := range totals {
		y := t.Sum.InexactFloat64()
		series.XValues = append(series.XValues, t.Date)
		series.YValues = append(series.YValues, y)
		maxY = max(maxY, y)
	}

	first, last := totals[0].Date, totals[len(totals)-1].Date
	if !last.After(first) {
		first, last = first.AddDate(0, 0, -1), last.AddDate(0, 0, 1)
	}

	graph := chart.Chart{
		Title:  "Ventas por fecha",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis: chart.XAxis{
			Name:           "Fecha",
			ValueFormatter: chart.TimeDateValueFormatter,
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(first),
				Max: chart.TimeToFloat64(last),
			},
		},
		YAxis: chart.YAxis{
			Name:  "Total",
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxY)},
		},
		Series: []chart.Series{series},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, renderingFailed(fmt.Errorf("render timeline: %w", err))
	}

	return buf.Bytes(), nil
}

// RenderTopProductsPNG draws one bar per product, in the given order.
func RenderTopProductsPNG(products []model.ProductQuantity) ([]byte, error) {
	if len(products) == 0 {
		return nil, ErrNoData
	}

	bars := make([]chart.Value, 0, len(products))
	maxY := 0.0
	for _, p := range products {
		v := float64(p.Quantity)
		bars = append(bars, chart.Value{Label: p.ProductName, Value: v})
		maxY = max(maxY, v)
	}

	graph := chart.BarChart{
		Title:      "Productos más vendidos",
		Width:      max(chartWidth, len(bars)*(barWidth+barSpacing)+2*barWidth),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		XAxis:      chart.Style{FontSize: 9},
		YAxis: chart.YAxis{
			Name:  "Cantidad",
			Range: &chart.ContinuousRange{Min: 0, Max: axisMax(maxY)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, renderingFailed(fmt.Errorf("render top products: %w", err))
	}

	return buf.Bytes(), nil
}

// axisMax leaves headroom above the highest value and never collapses the
// axis to an empty range.
func axisMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}
