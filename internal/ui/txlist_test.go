package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/core"
)

func ids(txs []core.Transaction) []string {
	out := []string{}
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func TestTxFilterApply(t *testing.T) {
	tests := []struct {
		name   string
		filter TxFilter
		want   []string
	}{
		{"zero filter keeps everything", TxFilter{}, []string{"T1", "T2", "T3"}},
		{"keyword matches description case-insensitively", TxFilter{Keyword: "PHỞ"}, []string{"T1"}},
		{"keyword matches category name", TxFilter{Keyword: "lương"}, []string{"T2"}},
		{"blank keyword ignored", TxFilter{Keyword: "   "}, []string{"T1", "T2", "T3"}},
		{"type is exact", TxFilter{Type: core.KindTransfer}, []string{"T3"}},
		{"range is inclusive", TxFilter{From: "2024-05-01", To: "2024-05-03"}, []string{"T1", "T2"}},
		{"open lower bound", TxFilter{To: "2024-04-30"}, []string{"T3"}},
		{"criteria are conjunctive", TxFilter{Keyword: "lương", Type: core.KindExpense}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(testTransactions)))
		})
	}
}

func TestNewTxRow(t *testing.T) {
	expense := NewTxRow(testTransactions[0])
	assert.Equal(t, "- 50.000 đ", expense.Amount)
	assert.Equal(t, "amount-expense", expense.AmountClass)
	assert.Equal(t, "Ăn uống", expense.Category)
	assert.Equal(t, "Tiền mặt", expense.FromWallet)
	assert.False(t, expense.IsTransfer)

	income := NewTxRow(testTransactions[1])
	assert.Equal(t, "+ 10.000.000 đ", income.Amount)
	assert.Equal(t, "#28a745", income.Color)

	transfer := NewTxRow(testTransactions[2])
	assert.Equal(t, "500.000 đ", transfer.Amount)
	assert.Equal(t, "Không có mô tả", transfer.Description)
	assert.Equal(t, "Chuyển khoản", transfer.Category)
	assert.True(t, transfer.IsTransfer)
	assert.Equal(t, "Vietcombank", transfer.FromWallet)
	assert.Equal(t, "Tiền mặt", transfer.ToWallet)
}

func TestBuildTxListEmptyMessages(t *testing.T) {
	assert.Equal(t, MsgNoTransactions, BuildTxList(nil, TxFilter{Keyword: "x"}).Empty)
	assert.Equal(t, MsgNoMatches, BuildTxList(testTransactions, TxFilter{Keyword: "không có"}).Empty)

	list := BuildTxList(testTransactions, TxFilter{})
	require.Len(t, list.Rows, 3)
	assert.Empty(t, list.Empty)
	assert.Equal(t, "T1", list.Rows[0].ID)
}
