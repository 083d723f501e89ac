package web

import (
	"bytes"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/keywordpulse/keywordpulse/internal/traffic"
)

// Bar-end labels: thousands-separated, no decimals.
const volumeLabelFormatter = `function (p) { return p.value.toLocaleString('en-US', {maximumFractionDigits: 0}); }`

// volumeBarChart renders a horizontal bar chart of the given rows as a
// standalone HTML document, one bar per keyword, largest volume first.
func volumeBarChart(rows []traffic.Row, volumeColumn string) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Top search terms",
			Width:     "720px",
			Height:    "420px",
		}),
		charts.WithTitleOpts(opts.Title{Title: "Top 流量词 · " + volumeColumn}),
	)

	// The category axis renders bottom-up after XYReversal, so feed rows in
	// ascending order to put the largest bar on top.
	names := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		names = append(names, rows[i].Keyword)
		data = append(data, opts.BarData{Value: rows[i].Volume})
	}
	bar.SetXAxis(names).AddSeries(volumeColumn, data,
		charts.WithLabelOpts(opts.Label{
			Show:      true,
			Position:  "right",
			Formatter: string(opts.FuncOpts(volumeLabelFormatter)),
		}),
	)
	bar.XYReversal()

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
