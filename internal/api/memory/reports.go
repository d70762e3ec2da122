package memory

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

const uncategorized = "Chưa phân loại"

// period returns the inclusive date bounds of a time range.
func period(tr core.TimeRange, now time.Time) (core.ISODate, core.ISODate) {
	y, m, _ := now.Date()
	loc := now.Location()
	switch tr {
	case core.LastMonth:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		end := first.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, loc)
		return core.NewISODate(start), core.NewISODate(end)
	case core.ThisYear:
		return core.NewISODate(time.Date(y, 1, 1, 0, 0, 0, 0, loc)),
			core.NewISODate(time.Date(y, 12, 31, 0, 0, 0, 0, loc))
	default:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return core.NewISODate(start), core.NewISODate(start.AddDate(0, 1, -1))
	}
}

func (s *Store) periodTransactions(f core.ReportFilter) []core.Transaction {
	from, to := period(f.TimeRange, s.now())
	var out []core.Transaction
	for _, r := range s.txs {
		if !r.Date.InRange(from, to) {
			continue
		}
		if f.WalletID != core.AllWallets && r.WalletID != f.WalletID {
			continue
		}
		out = append(out, r.Transaction)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type bucket struct {
	label string
	total decimal.Decimal
}

// sumBy groups amounts by key, keeping first-seen order.
func sumBy(txs []core.Transaction, kind core.TxKind, key func(core.Transaction) string) []bucket {
	idx := map[string]int{}
	var out []bucket
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		k := key(t)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, bucket{label: k})
		}
		out[i].total = out[i].total.Add(t.Amount)
	}
	return out
}

func toSeries(bs []bucket) core.Series {
	s := core.Series{Labels: make([]string, 0, len(bs)), Data: make([]decimal.Decimal, 0, len(bs))}
	for _, b := range bs {
		s.Labels = append(s.Labels, b.label)
		s.Data = append(s.Data, b.total)
	}
	return s
}

func total(txs []core.Transaction, kind core.TxKind) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		if t.Kind == kind {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

func (s *Store) ReportData(_ context.Context, f core.ReportFilter) (core.Report, error) {
	f = f.Normalize()
	s.mu.Lock()
	defer s.mu.Unlock()

	txs := s.periodTransactions(f)
	byCategory := func(t core.Transaction) string {
		if name := s.categoryName(t.CategoryID); name != "" {
			return name
		}
		return uncategorized
	}

	income := total(txs, core.KindIncome)
	expense := total(txs, core.KindExpense)
	rep := core.Report{
		Pie: toSeries(sumBy(txs, f.Type, byCategory)),
		Bar: core.Series{
			Labels: []string{"Thu nhập", "Chi tiêu", "Chuyển khoản"},
			Data:   []decimal.Decimal{income, expense, total(txs, core.KindTransfer)},
		},
		Line: toSeries(sumBy(txs, f.Type, func(t core.Transaction) string { return t.Date.DayMonth() })),
		Summary: core.ReportSummary{
			TotalIncome:  income,
			TotalExpense: expense,
			Balance:      income.Sub(expense),
		},
	}

	top := sumBy(txs, core.KindExpense, byCategory)
	sort.SliceStable(top, func(i, j int) bool { return top[i].total.GreaterThan(top[j].total) })
	for _, b := range top {
		pct := decimal.Zero
		if expense.IsPositive() {
			pct = b.total.Div(expense).Mul(hundred).Round(1)
		}
		rep.TopSpending = append(rep.TopSpending, core.SpendingRow{
			Category:        b.label,
			Amount:          b.total,
			AmountFormatted: core.FormatDong(b.total.Round(0)),
			Percent:         pct,
		})
	}
	return rep, nil
}

var pdfTemplate = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="vi"><head><meta charset="utf-8"><title>Báo cáo tài chính</title></head>
<body onload="window.print()">
<h1>Báo cáo tài chính</h1>
<p>Từ {{.From}} đến {{.To}}</p>
<p>Tổng thu: {{.Income}} · Tổng chi: {{.Expense}}</p>
<table border="1" cellpadding="4">
<tr><th>Ngày</th><th>Loại</th><th>Danh mục</th><th>Mô tả</th><th>Số tiền</th></tr>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Kind}}</td><td>{{.Category}}</td><td>{{.Description}}</td><td>{{.Amount}}</td></tr>
{{end}}</table>
</body></html>`))

type exportRow struct {
	Date, Kind, Category, Description, Amount string
}

var kindLabels = map[core.TxKind]string{
	core.KindExpense:  "Chi tiêu",
	core.KindIncome:   "Thu nhập",
	core.KindTransfer: "Chuyển khoản",
}

// ExportReport renders the period's transactions: a printable HTML page for
// pdf and a CSV sheet for excel.
func (s *Store) ExportReport(_ context.Context, kind core.ExportKind, f core.ReportFilter) (*api.Document, error) {
	f = f.Normalize()
	s.mu.Lock()
	txs := s.periodTransactions(f)
	rows := make([]exportRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, exportRow{
			Date:        t.Date.String(),
			Kind:        kindLabels[t.Kind],
			Category:    s.categoryName(t.CategoryID),
			Description: t.Description,
			Amount:      core.FormatDong(t.Amount),
		})
	}
	from, to := period(f.TimeRange, s.now())
	s.mu.Unlock()

	var buf bytes.Buffer
	switch kind {
	case core.ExportPDF:
		err := pdfTemplate.Execute(&buf, map[string]any{
			"From":    from.String(),
			"To":      to.String(),
			"Income":  core.FormatDong(total(txs, core.KindIncome)),
			"Expense": core.FormatDong(total(txs, core.KindExpense)),
			"Rows":    rows,
		})
		if err != nil {
			return nil, fmt.Errorf("render pdf report: %w", err)
		}
		return &api.Document{
			ContentType: "text/html; charset=utf-8",
			Body:        io.NopCloser(&buf),
		}, nil
	case core.ExportExcel:
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"Ngày", "Loại", "Danh mục", "Mô tả", "Số tiền"})
		for _, r := range rows {
			_ = w.Write([]string{r.Date, r.Kind, r.Category, r.Description, r.Amount})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("render excel report: %w", err)
		}
		return &api.Document{
			ContentType:        "text/csv; charset=utf-8",
			ContentDisposition: fmt.Sprintf(`attachment; filename="bao_cao_%s.csv"`, f.TimeRange),
			Body:               io.NopCloser(&buf),
		}, nil
	}
	return nil, badRequest(fmt.Sprintf("Định dạng không hỗ trợ: %s", kind))
}
