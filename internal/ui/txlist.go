package ui

import (
	"strings"

	"chitieu/internal/core"
)

const (
	MsgNoMatches      = "Không tìm thấy giao dịch nào."
	MsgNoTransactions = "Chưa có giao dịch nào."
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// TxFilter narrows the view snapshot. All criteria must hold; empty ones
// match everything.
type TxFilter struct {
	Keyword string
	Type    core.TxKind
	From    core.ISODate
	To      core.ISODate
}

func (f TxFilter) IsZero() bool {
	return trimmed(f.Keyword) == "" && f.Type == "" && f.From.IsEmpty() && f.To.IsEmpty()
}

func (f TxFilter) Match(t core.Transaction) bool {
	if kw := strings.ToLower(trimmed(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(t.Description), kw) &&
			!strings.Contains(strings.ToLower(t.CategoryName), kw) {
			return false
		}
	}
	if f.Type != "" && t.Kind != f.Type {
		return false
	}
	return t.Date.InRange(f.From, f.To)
}

// Apply returns the matching transactions in snapshot order.
func (f TxFilter) Apply(snapshot []core.Transaction) []core.Transaction {
	if f.IsZero() {
		return snapshot
	}
	out := make([]core.Transaction, 0, len(snapshot))
	for _, t := range snapshot {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// TxRow is the display form of a transaction.
type TxRow struct {
	ID          string
	Icon        string
	Color       string
	AmountClass string
	Description string
	Date        string
	Category    string
	FromWallet  string
	ToWallet    string
	IsTransfer  bool
	Amount      string
}

var rowStyles = map[core.TxKind]struct{ icon, color, class, sign string }{
	core.KindExpense:  {"fa-utensils", "#dc3545", "amount-expense", "-"},
	core.KindIncome:   {"fa-briefcase", "#28a745", "amount-income", "+"},
	core.KindTransfer: {"fa-exchange-alt", "#3498db", "amount-transfer", ""},
}

func NewTxRow(t core.Transaction) TxRow {
	st := rowStyles[t.Kind]
	r := TxRow{
		ID:          t.ID,
		Icon:        st.icon,
		Color:       st.color,
		AmountClass: st.class,
		Description: t.Description,
		Date:        t.Date.String(),
		Category:    t.CategoryName,
		FromWallet:  t.WalletName,
		IsTransfer:  t.Kind == core.KindTransfer,
		Amount:      strings.TrimSpace(st.sign + " " + core.FormatDong(t.Amount)),
	}
	if r.Description == "" {
		r.Description = "Không có mô tả"
	}
	if r.IsTransfer {
		r.Category = "Chuyển khoản"
		r.ToWallet = t.DestWalletName
	}
	return r
}

// TxList is the rendered list: rows or a single empty message.
type TxList struct {
	Rows  []TxRow
	Empty string
}

// BuildTxList filters the snapshot and picks the empty message: an empty
// snapshot and an empty filter result read differently.
func BuildTxList(snapshot []core.Transaction, f TxFilter) TxList {
	if len(snapshot) == 0 {
		return TxList{Empty: MsgNoTransactions}
	}
	matched := f.Apply(snapshot)
	if len(matched) == 0 {
		return TxList{Empty: MsgNoMatches}
	}
	rows := make([]TxRow, 0, len(matched))
	for _, t := range matched {
		rows = append(rows, NewTxRow(t))
	}
	return TxList{Rows: rows}
}
