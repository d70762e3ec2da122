package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TimeRange selects the reporting period.
type TimeRange string

const (
	ThisMonth TimeRange = "this_month"
	LastMonth TimeRange = "last_month"
	ThisYear  TimeRange = "year"
)

// AllWallets is the wallet filter value that disables wallet filtering.
const AllWallets = "all"

// ExportKind is a report document format offered by the backend.
type ExportKind string

const (
	ExportPDF   ExportKind = "pdf"
	ExportExcel ExportKind = "excel"
)

func ParseExportKind(s string) (ExportKind, error) {
	switch ExportKind(s) {
	case ExportPDF, ExportExcel:
		return ExportKind(s), nil
	}
	return "", fmt.Errorf("unknown export kind %q", s)
}

// ReportFilter is the query shared by the report data and export calls.
type ReportFilter struct {
	TimeRange TimeRange
	WalletID  string
	Type      TxKind
}

// Normalize fills defaults for unset or unknown values.
func (f ReportFilter) Normalize() ReportFilter {
	switch f.TimeRange {
	case ThisMonth, LastMonth, ThisYear:
	default:
		f.TimeRange = ThisMonth
	}
	if f.WalletID == "" {
		f.WalletID = AllWallets
	}
	if f.Type != KindIncome {
		f.Type = KindExpense
	}
	return f
}

// Series is one chart's data contract: parallel labels and values.
type Series struct {
	Labels []string
	Data   []decimal.Decimal
}

func (s Series) Empty() bool { return len(s.Labels) == 0 }

type SpendingRow struct {
	Category        string
	Amount          decimal.Decimal
	AmountFormatted string
	Percent         decimal.Decimal
}

type ReportSummary struct {
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Balance      decimal.Decimal
}

// Report holds the four independently aggregated shapes of the dashboard.
type Report struct {
	Pie         Series
	Bar         Series
	Line        Series
	TopSpending []SpendingRow
	Summary     ReportSummary
}
