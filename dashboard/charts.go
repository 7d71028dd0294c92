package dashboard

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/rustyeddy/tradedash/analytics"
)

// Chart names, as used in URLs.
const (
	ChartEquity  = "equity"
	ChartSymbols = "symbols"
	ChartDaily   = "daily"
)

// ChartNames lists the charts in page order.
var ChartNames = []string{ChartEquity, ChartSymbols, ChartDaily}

var chartTitles = map[string]string{
	ChartEquity:  "Portfolio Equity Curve",
	ChartSymbols: "Profit by Instrument",
	ChartDaily:   "Daily Profit Distribution per Instrument",
}

func initOpts(title string) charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		PageTitle: title,
		Width:     "100%",
		Height:    "420px",
	})
}

// EquityChart plots cumulative profit against trade time.
func EquityChart(r *analytics.Report) *charts.Line {
	title := chartTitles[ChartEquity]
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "PortfolioEquity"}),
	)

	xs := make([]string, len(r.Equity))
	ys := make([]opts.LineData, len(r.Equity))
	for i, p := range r.Equity {
		xs[i] = formatTime(p.Time)
		ys[i] = opts.LineData{Value: p.Cumulative.InexactFloat64()}
	}
	line.SetXAxis(xs).AddSeries("PortfolioEquity", ys)
	return line
}

// SymbolChart is a bar per instrument, best first.
func SymbolChart(r *analytics.Report) *charts.Bar {
	title := chartTitles[ChartSymbols]
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Symbol"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Profit"}),
	)

	xs := make([]string, len(r.BySymbol))
	ys := make([]opts.BarData, len(r.BySymbol))
	for i, s := range r.BySymbol {
		xs[i] = s.Symbol
		ys[i] = opts.BarData{Value: s.Profit.InexactFloat64()}
	}
	bar.SetXAxis(xs).AddSeries("Profit", ys)
	return bar
}

// DailyBoxChart shows the spread of daily profit for each instrument.
func DailyBoxChart(r *analytics.Report) *charts.BoxPlot {
	title := chartTitles[ChartDaily]
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		initOpts(title),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Symbol"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Profit"}),
	)

	xs := make([]string, len(r.DailyBoxes))
	ys := make([]opts.BoxPlotData, len(r.DailyBoxes))
	for i, b := range r.DailyBoxes {
		xs[i] = b.Symbol
		ys[i] = opts.BoxPlotData{Name: b.Symbol, Value: b.Values()}
	}
	box.SetXAxis(xs).AddSeries("Daily Profit", ys)
	return box
}

// RenderChart writes the named chart as a standalone HTML document.
func RenderChart(w io.Writer, name string, r *analytics.Report) error {
	switch name {
	case ChartEquity:
		return EquityChart(r).Render(w)
	case ChartSymbols:
		return SymbolChart(r).Render(w)
	case ChartDaily:
		return DailyBoxChart(r).Render(w)
	default:
		return fmt.Errorf("unknown chart %q", name)
	}
}

// KnownChart reports whether name is a chart RenderChart can draw.
func KnownChart(name string) bool {
	_, ok := chartTitles[name]
	return ok
}
