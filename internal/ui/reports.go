package ui

import (
	"encoding/json"
	"net/url"

	"github.com/shopspring/decimal"

	"chitieu/internal/core"
)

const (
	MsgNoSpending  = "Không có dữ liệu chi tiêu"
	MsgNoChartData = "Chưa có dữ liệu"
	AllWalletsLbl  = "Tất cả Nguồn tiền"
)

// ReportBoard tracks the filter and fetch ordering of one report view.
// Issued grows with every fetch; Applied is the newest fetch rendered.
type ReportBoard struct {
	Filter  core.ReportFilter
	Issued  uint64
	Applied uint64
}

func NewReportBoard() ReportBoard {
	return ReportBoard{Filter: core.ReportFilter{}.Normalize()}
}

// Issue records a new fetch for f and returns its sequence number.
func (b ReportBoard) Issue(f core.ReportFilter) (ReportBoard, uint64) {
	b.Filter = f.Normalize()
	b.Issued++
	return b, b.Issued
}

// Accept marks seq as rendered unless a newer fetch already was; stale
// responses are rejected.
func (b ReportBoard) Accept(seq uint64) (ReportBoard, bool) {
	if seq <= b.Applied {
		return b, false
	}
	b.Applied = seq
	return b, true
}

// ChartData is the JSON contract consumed by the chart script. Blank
// charts are still recreated so the previous drawing goes away.
type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
	Blank  bool      `json:"-"`
}

func NewChartData(s core.Series) ChartData {
	c := ChartData{Labels: s.Labels, Data: make([]float64, 0, len(s.Data)), Blank: s.Empty()}
	if c.Labels == nil {
		c.Labels = []string{}
	}
	for _, d := range s.Data {
		c.Data = append(c.Data, d.InexactFloat64())
	}
	return c
}

func (c ChartData) JSON() string {
	b, err := json.Marshal(c)
	if err != nil {
		return `{"labels":[],"data":[]}`
	}
	return string(b)
}

// TopRow is one row of the top spending table.
type TopRow struct {
	Category string
	Amount   string
	Percent  string
	Width    string
}

// ReportView is everything the dashboard renders for one fetch.
type ReportView struct {
	Pie     ChartData
	Bar     ChartData
	Line    ChartData
	Top     []TopRow
	Empty   string
	Income  string
	Expense string
	Balance string
}

func NewReportView(r core.Report) ReportView {
	v := ReportView{
		Pie:     NewChartData(r.Pie),
		Bar:     NewChartData(r.Bar),
		Line:    NewChartData(r.Line),
		Income:  core.FormatVND(r.Summary.TotalIncome),
		Expense: core.FormatVND(r.Summary.TotalExpense),
		Balance: core.FormatVND(r.Summary.Balance),
	}
	for _, row := range r.TopSpending {
		pct := row.Percent
		v.Top = append(v.Top, TopRow{
			Category: row.Category,
			Amount:   row.AmountFormatted,
			Percent:  pct.String() + "%",
			Width:    decimal.Min(decimal.Max(pct, decimal.Zero), decimal.NewFromInt(100)).String() + "%",
		})
	}
	if len(v.Top) == 0 {
		v.Empty = MsgNoSpending
	}
	return v
}

// ExportLink is an export control: pdf opens in a new tab, excel navigates
// in place.
type ExportLink struct {
	Kind   core.ExportKind
	Href   string
	Target string
}

// ExportLinks builds the controls for the current filter. basePath is the
// UI route prefix the kind is appended to.
func ExportLinks(basePath string, f core.ReportFilter) []ExportLink {
	f = f.Normalize()
	q := url.Values{}
	q.Set("time_range", string(f.TimeRange))
	q.Set("wallet_id", f.WalletID)
	return []ExportLink{
		{Kind: core.ExportPDF, Href: basePath + string(core.ExportPDF) + "?" + q.Encode(), Target: "_blank"},
		{Kind: core.ExportExcel, Href: basePath + string(core.ExportExcel) + "?" + q.Encode()},
	}
}
