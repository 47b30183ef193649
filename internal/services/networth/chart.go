package networth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/argos/internal/interfaces"
	"github.com/bobmcallan/argos/internal/models"
)

// ErrNoChartData is returned when there is nothing to draw.
var ErrNoChartData = errors.New("no net worth history to chart")

const (
	minChartWidth = 300
	maxChartWidth = 2000
	chartHeight   = 400
)

// RenderChartPNG renders the chart series as a PNG line chart.
func (s *Service) RenderChartPNG(ctx context.Context, userID string, opts interfaces.ChartOptions, w io.Writer) error {
	series, err := s.Chart(ctx, userID, opts)
	if err != nil {
		return err
	}
	width := s.withDefaults(opts).ViewportWidth
	return RenderNetWorthChart(series, width, w)
}

// RenderNetWorthChart draws the net worth line with event markers.
// A single point is drawn as a flat line.
func RenderNetWorthChart(series *models.ChartSeries, width int, w io.Writer) error {
	points := series.Points
	if len(points) == 0 {
		return ErrNoChartData
	}
	if len(points) == 1 {
		points = []models.TimeSeriesPoint{points[0], points[0]}
		points[1].Date = points[1].Date.Add(time.Hour)
	}
	width = min(max(width, minChartWidth), maxChartWidth)

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date
		yValues[i] = p.Value
	}

	valueSeries := chart.TimeSeries{
		Name: "Net Worth",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			FillColor:   drawing.ColorFromHex("2563eb").WithAlpha(40),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: yValues,
	}

	chartSeries := []chart.Series{valueSeries}
	if len(series.Events) > 0 {
		markers := chart.AnnotationSeries{
			Name: "Events",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("dc2626"), // red-600
				FontColor:   drawing.ColorFromHex("dc2626"),
			},
		}
		for _, e := range series.Events {
			markers.Annotations = append(markers.Annotations, chart.Value2{
				XValue: chart.TimeToFloat64(e.Date),
				YValue: e.Value,
				Label:  fmt.Sprintf("%+.1f%%", e.ChangePercentage),
			})
		}
		chartSeries = append(chartSeries, markers)
	}

	dateFormat := "Jan 06"
	if series.Granularity == models.Hourly || series.Granularity == models.Daily {
		dateFormat = "Jan 02"
	}

	graph := chart.Chart{
		Title:  "Net Worth",
		Width:  width,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format(dateFormat)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: chartSeries,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}
