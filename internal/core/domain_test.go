package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTxKind(t *testing.T) {
	cases := map[string]TxKind{
		"expense":  KindExpense,
		"chi":      KindExpense,
		"income":   KindIncome,
		"thu":      KindIncome,
		"transfer": KindTransfer,
		"chuyen":   KindTransfer,
		" CHI ":    KindExpense,
	}
	for in, want := range cases {
		got, err := ParseTxKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseTxKind("refund")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestTxKindCategoryKind(t *testing.T) {
	k, ok := KindExpense.CategoryKind()
	assert.True(t, ok)
	assert.Equal(t, CategoryExpense, k)

	k, ok = KindIncome.CategoryKind()
	assert.True(t, ok)
	assert.Equal(t, CategoryIncome, k)

	_, ok = KindTransfer.CategoryKind()
	assert.False(t, ok)
}

func TestCategoriesOfKind(t *testing.T) {
	all := []Category{
		{ID: "C1", Name: "Ăn uống", Kind: CategoryExpense},
		{ID: "C2", Name: "Lương", Kind: CategoryIncome},
		{ID: "C3", Name: "Đi lại", Kind: CategoryExpense},
	}
	got := CategoriesOfKind(all, CategoryExpense)
	require.Len(t, got, 2)
	assert.Equal(t, "C1", got[0].ID)
	assert.Equal(t, "C3", got[1].ID)
}

func TestISODate(t *testing.T) {
	d := ISODate("2025-03-07")
	assert.Equal(t, "07/03", d.DayMonth())
	assert.Equal(t, "garbage", ISODate("garbage").DayMonth())

	assert.True(t, d.InRange("", ""))
	assert.True(t, d.InRange("2025-03-07", "2025-03-07"))
	assert.False(t, d.InRange("2025-03-08", ""))
	assert.False(t, d.InRange("", "2025-03-06"))
}

func TestReportFilterNormalize(t *testing.T) {
	f := ReportFilter{TimeRange: "decade", Type: KindTransfer}.Normalize()
	assert.Equal(t, ThisMonth, f.TimeRange)
	assert.Equal(t, AllWallets, f.WalletID)
	assert.Equal(t, KindExpense, f.Type)

	f = ReportFilter{TimeRange: ThisYear, WalletID: "W1", Type: KindIncome}.Normalize()
	assert.Equal(t, ReportFilter{TimeRange: ThisYear, WalletID: "W1", Type: KindIncome}, f)
}
