package ui

import (
	"github.com/shopspring/decimal"

	"chitieu/internal/core"
)

func dong(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

var (
	testCategories = []core.Category{
		{ID: "C1", Name: "Ăn uống", Kind: core.CategoryExpense},
		{ID: "C2", Name: "Lương", Kind: core.CategoryIncome},
		{ID: "C3", Name: "Di chuyển", Kind: core.CategoryExpense},
	}
	testWallets = []core.Wallet{
		{ID: "W1", Name: "Tiền mặt", Type: "cash", Balance: dong(2000000)},
		{ID: "W2", Name: "Vietcombank", Type: "bank", Balance: dong(15000000)},
	}
	testTransactions = []core.Transaction{
		{ID: "T1", Kind: core.KindExpense, Amount: dong(50000), Description: "Phở bò", Date: "2024-05-03",
			CategoryID: "C1", CategoryName: "Ăn uống", WalletID: "W1", WalletName: "Tiền mặt"},
		{ID: "T2", Kind: core.KindIncome, Amount: dong(10000000), Description: "Lương tháng 5", Date: "2024-05-01",
			CategoryID: "C2", CategoryName: "Lương", WalletID: "W2", WalletName: "Vietcombank"},
		{ID: "T3", Kind: core.KindTransfer, Amount: dong(500000), Date: "2024-04-28",
			WalletID: "W2", WalletName: "Vietcombank", DestWalletID: "W1", DestWalletName: "Tiền mặt"},
	}
)
