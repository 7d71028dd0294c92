package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradedash/journal"
)

// PreviewRows is how many raw trades the data snapshot shows.
const PreviewRows = 5

// Report is everything the dashboard displays, derived from one snapshot.
type Report struct {
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Columns  []string  `json:"columns"`

	KPIs KPIs `json:"kpis"`

	Equity   []EquityPoint   `json:"equity"`
	Drawdown []DrawdownPoint `json:"drawdown"`

	MaxDrawdown   decimal.Decimal `json:"max_drawdown"`
	MaxDrawdownAt time.Time       `json:"max_drawdown_at"`

	BySymbol   []SymbolProfit    `json:"by_symbol"`
	Daily      []DaySymbolProfit `json:"daily"`
	DailyBoxes []BoxStats        `json:"daily_boxes"`

	// Preview holds the leading source rows, cell for cell under Columns.
	Preview [][]string `json:"preview"`
}

// Build validates t and computes the full report. Nothing is computed for
// a table that fails validation.
func Build(t *journal.Table) (*Report, error) {
	if err := journal.Validate(t); err != nil {
		return nil, err
	}

	r := &Report{
		Source:   t.Source,
		LoadedAt: t.LoadedAt,
		Columns:  append([]string(nil), t.Columns...),
		KPIs:     ComputeKPIs(t),
		Equity:   EquityCurve(t),
		BySymbol: ProfitBySymbol(t),
		Daily:    DailyProfitBySymbol(t),
		Preview:  t.Preview(PreviewRows),
	}
	r.Drawdown = Drawdowns(r.Equity)
	if worst, ok := MaxDrawdown(r.Drawdown); ok {
		r.MaxDrawdown = worst.Drawdown
		r.MaxDrawdownAt = worst.Time
	}
	r.DailyBoxes = DailyProfitDistribution(r.Daily)
	return r, nil
}
