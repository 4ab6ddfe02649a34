package report

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/ChristianF88/onesweep/histogram"
)

// PlotHistogramHeatmap renders a radix-group-by-digit occurrence heatmap
// for h as a self-contained HTML file at path, useful for spotting skewed
// key distributions: a clustered dataset lights up a handful of columns
// per row instead of spreading evenly across all 256 digits.
func PlotHistogramHeatmap(h histogram.Matrix, filename string) error {
	digits := makeRange(0, histogram.Digits-1)
	groupLabels := make([]int, histogram.RadixGroups)
	for g := range groupLabels {
		groupLabels[g] = g
	}

	var heatmapData []opts.HeatMapData
	var maxCount uint32
	for g := 0; g < histogram.RadixGroups; g++ {
		for d := 0; d < histogram.Digits; d++ {
			count := h[g][d]
			if count > maxCount {
				maxCount = count
			}
			if count > 0 {
				heatmapData = append(heatmapData, opts.HeatMapData{
					Value: [3]interface{}{d, g, count},
					Name:  fmt.Sprintf("digit %d, byte %d", d, g),
				})
			}
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "Radix Digit Histogram",
			Width:           "180vh",
			Height:          "60vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Radix Digit Occurrence Counts",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
			Formatter: opts.FuncOpts(`function (params) {
		return params.name + '<br />Count: ' + params.value[2];
	}`),
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show: opts.Bool(true),
			Min:  0,
			Max:  float32(maxCount),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#ffff8f", "#ff0000", "#000000"},
			},
			Orient: "vertical",
			Right:  "5%",
			Top:    "middle",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "digit value",
			Type: "category",
			Data: digits,
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "radix group (byte offset)",
			Type: "category",
			Data: groupLabels,
		}),
	)

	heatmap.AddSeries("occurrences", heatmapData)

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(heatmap)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("report: could not create heatmap file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("report: rendering heatmap: %w", err)
	}

	return nil
}

func makeRange(min, max int) []int {
	r := make([]int, max-min+1)
	for i := range r {
		r[i] = min + i
	}
	return r
}
