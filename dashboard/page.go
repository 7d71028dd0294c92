package dashboard

import (
	"html/template"
	"io"
	"strconv"

	"github.com/rustyeddy/tradedash/analytics"
)

// Metric is one labeled KPI tile.
type Metric struct {
	Label string
	Value string
}

type chartFrame struct {
	Title string
	URL   string
}

type pageData struct {
	Title    string
	Source   string
	LoadedAt string
	Metrics  []Metric
	Risk     []Metric
	Columns  []string
	Preview  [][]string
	Charts   []chartFrame // drawn above the risk metrics
	Extra    []chartFrame // drawn below them
	Error    string
}

// Metrics returns the four headline KPI tiles.
func Metrics(r *analytics.Report) []Metric {
	k := r.KPIs
	return []Metric{
		{"Total Profit", Money(k.TotalProfit)},
		{"Trades", strconv.Itoa(k.Trades)},
		{"Win Rate", Percent(k.WinRate)},
		{"Avg Trade", Fixed2(k.AvgTrade)},
	}
}

// RiskMetrics returns the drawdown tile.
func RiskMetrics(r *analytics.Report) []Metric {
	return []Metric{{"Max Drawdown", Money(r.MaxDrawdown)}}
}

// Page renders the dashboard. ChartURL maps a chart name to the address
// its iframe loads.
type Page struct {
	Title    string
	ChartURL func(name string) string
}

// NewPage returns a page whose charts load from /charts/{name}.
func NewPage() *Page {
	return &Page{
		Title:    "MT5 Expert Advisor — Performance Analytics",
		ChartURL: func(name string) string { return "/charts/" + name },
	}
}

// Render writes the full dashboard for r.
func (p *Page) Render(w io.Writer, r *analytics.Report) error {
	data := pageData{
		Title:    p.Title,
		Source:   r.Source,
		LoadedAt: formatTime(r.LoadedAt),
		Metrics:  Metrics(r),
		Risk:     RiskMetrics(r),
		Columns:  r.Columns,
		Preview:  r.Preview,
	}
	for _, name := range ChartNames {
		f := chartFrame{Title: chartTitles[name], URL: p.ChartURL(name)}
		if name == ChartDaily {
			data.Extra = append(data.Extra, f)
		} else {
			data.Charts = append(data.Charts, f)
		}
	}
	return pageTmpl.Execute(w, data)
}

// RenderError writes the page shown when trades cannot be loaded. No
// metrics or charts are drawn.
func (p *Page) RenderError(w io.Writer, err error) error {
	return pageTmpl.Execute(w, pageData{Title: p.Title, Error: err.Error()})
}

var pageTmpl = template.Must(template.New("dashboard").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; margin: 0 auto; padding: 24px; max-width: 1400px; color: #262730; }
        .error { background: #ffe4e4; color: #7d1a1a; padding: 16px; border-radius: 6px; }
        .metrics { display: grid; grid-template-columns: repeat(4, 1fr); gap: 16px; margin: 16px 0; }
        .metric .label { font-size: 14px; color: #6b6f76; }
        .metric .value { font-size: 32px; }
        table { border-collapse: collapse; width: 100%; font-size: 14px; }
        th, td { border: 1px solid #e6e9ef; padding: 4px 8px; text-align: right; }
        th { background: #f0f2f6; }
        iframe { width: 100%; height: 460px; border: none; }
        .source { color: #6b6f76; font-size: 13px; }
    </style>
</head>
<body>
<h1>{{.Title}}</h1>
{{- if .Error}}
<div class="error">{{.Error}}</div>
{{- else}}
<p>This dashboard provides a structured analysis of <strong>executed trades</strong> from an MT5 Expert Advisor.
It focuses on realized profitability, trade frequency, per-instrument performance and equity evolution over time.</p>
<p class="source">Source: {{.Source}} (loaded {{.LoadedAt}})</p>

<h2>Data Snapshot</h2>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Preview}}
<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>

<div class="metrics">
{{- range .Metrics}}
<div class="metric"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{- end}}
</div>

{{- range .Charts}}
<iframe title="{{.Title}}" src="{{.URL}}"></iframe>
{{- end}}

<h2>Risk Metrics</h2>
<div class="metrics">
{{- range .Risk}}
<div class="metric"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{- end}}
</div>

<h2>Strategy Constraint Validation</h2>
{{- range .Extra}}
<iframe title="{{.Title}}" src="{{.URL}}"></iframe>
{{- end}}
{{- end}}
</body>
</html>
`
