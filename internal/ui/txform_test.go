package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

func TestNewTxFormDefaults(t *testing.T) {
	f := NewTxForm("2024-05-10")

	assert.False(t, f.Mode.IsEdit())
	assert.Equal(t, core.KindExpense, f.Tab)
	assert.Equal(t, core.ISODate("2024-05-10"), f.Date)
	assert.Equal(t, "Lưu Giao dịch", f.SubmitLabel())
	assert.Empty(t, f.SubmitColor())
}

func TestTabProjection(t *testing.T) {
	tests := []struct {
		tab                    core.TxKind
		category, source, dest bool
		options                []string
	}{
		{core.KindExpense, true, true, false, []string{"C1", "C3"}},
		{core.KindIncome, true, false, true, []string{"C2"}},
		{core.KindTransfer, false, true, true, nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.tab), func(t *testing.T) {
			f := NewTxForm("2024-05-10").WithTab(tt.tab)
			assert.Equal(t, tt.category, f.ShowCategory())
			assert.Equal(t, tt.source, f.ShowSourceWallet())
			assert.Equal(t, tt.dest, f.ShowDestWallet())
			assert.Equal(t, string(tt.tab), f.Payload().Type)

			var ids []string
			for _, c := range f.CategoryOptions(testCategories) {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.options, ids)
		})
	}
}

func TestWithTabClearsCategory(t *testing.T) {
	f := NewTxForm("2024-05-10")
	f.CategoryID = "C1"

	assert.Equal(t, "C1", f.WithTab(core.KindExpense).CategoryID)
	assert.Empty(t, f.WithTab(core.KindIncome).CategoryID)
	assert.Equal(t, core.KindExpense, f.WithTab("bogus").Tab)
}

func TestEnterEdit(t *testing.T) {
	t.Run("expense fills source wallet and category", func(t *testing.T) {
		f, ok := EnterEdit(testTransactions, "T1")
		require.True(t, ok)
		assert.Equal(t, "T1", f.Mode.EditID())
		assert.Equal(t, core.KindExpense, f.Tab)
		assert.Equal(t, "50000", f.Amount)
		assert.Equal(t, "Phở bò", f.Description)
		assert.Equal(t, core.ISODate("2024-05-03"), f.Date)
		assert.Equal(t, "W1", f.SourceWalletID)
		assert.Empty(t, f.DestWalletID)
		assert.Equal(t, "C1", f.CategoryID)
		assert.Equal(t, "Cập nhật Giao dịch", f.SubmitLabel())
		assert.Equal(t, "#f39c12", f.SubmitColor())
	})

	t.Run("income fills destination wallet", func(t *testing.T) {
		f, ok := EnterEdit(testTransactions, "T2")
		require.True(t, ok)
		assert.Equal(t, core.KindIncome, f.Tab)
		assert.Equal(t, "W2", f.DestWalletID)
		assert.Empty(t, f.SourceWalletID)
		assert.Equal(t, "C2", f.CategoryID)
	})

	t.Run("transfer fills both wallets", func(t *testing.T) {
		f, ok := EnterEdit(testTransactions, "T3")
		require.True(t, ok)
		assert.Equal(t, core.KindTransfer, f.Tab)
		assert.Equal(t, "W2", f.SourceWalletID)
		assert.Equal(t, "W1", f.DestWalletID)
		assert.Empty(t, f.CategoryID)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		_, ok := EnterEdit(testTransactions, "T99")
		assert.False(t, ok)
	})
}

func TestPayloadSendsEveryField(t *testing.T) {
	f := NewTxForm("2024-05-10").WithTab(core.KindTransfer)
	f.Amount = "1.500.000"
	f.Description = "Rút tiền"
	f.CategoryID = "C1"
	f.SourceWalletID = "W2"
	f.DestWalletID = "W1"

	assert.Equal(t, api.TransactionInput{
		Type:           "transfer",
		Amount:         "1.500.000",
		Description:    "Rút tiền",
		Date:           "2024-05-10",
		CategoryID:     "C1",
		SourceWalletID: "W2",
		DestWalletID:   "W1",
	}, f.Payload())
}

func TestShouldPredict(t *testing.T) {
	f := NewTxForm("2024-05-10")
	assert.False(t, f.ShouldPredict())

	f.Description = "  "
	assert.False(t, f.ShouldPredict())

	f.Description = "cà phê"
	assert.True(t, f.ShouldPredict())
	assert.True(t, f.WithTab(core.KindIncome).ShouldPredict())
	assert.False(t, f.WithTab(core.KindTransfer).ShouldPredict())
}

func TestApplyPrediction(t *testing.T) {
	base := NewTxForm("2024-05-10")
	base.Description = "lương tháng"

	t.Run("switches tab for the other kind", func(t *testing.T) {
		f, ok := base.ApplyPrediction(api.Prediction{
			Status: "success", CategoryID: "C2", CategoryKind: core.CategoryIncome,
		})
		require.True(t, ok)
		assert.Equal(t, core.KindIncome, f.Tab)
		assert.Equal(t, "C2", f.CategoryID)
		assert.True(t, f.Highlight)
		assert.Equal(t, "lương tháng", f.Description)
	})

	t.Run("keeps tab for the same kind", func(t *testing.T) {
		f, ok := base.ApplyPrediction(api.Prediction{
			Status: "success", CategoryID: "C3", CategoryKind: core.CategoryExpense,
		})
		require.True(t, ok)
		assert.Equal(t, core.KindExpense, f.Tab)
		assert.Equal(t, "C3", f.CategoryID)
	})

	t.Run("unmatched changes nothing", func(t *testing.T) {
		for _, p := range []api.Prediction{
			{Status: "no_match"},
			{Status: "error"},
			{Status: "success"},
		} {
			f, ok := base.ApplyPrediction(p)
			assert.False(t, ok)
			assert.Equal(t, base, f)
		}
	})
}

func TestWalletOptions(t *testing.T) {
	opts := WalletOptions(testWallets)

	require.Len(t, opts, 2)
	assert.Equal(t, WalletOption{ID: "W1", Label: "Tiền mặt (2.000.000 đ)"}, opts[0])
	assert.Equal(t, "Vietcombank (15.000.000 đ)", opts[1].Label)
}
