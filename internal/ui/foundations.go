package ui

import (
	"chitieu/internal/api"
	"chitieu/internal/core"
)

const (
	MsgNoWallets    = "Chưa có ví nào"
	MsgNoCategories = "Chưa có danh mục nào"
)

// WalletForm backs the wallet modal. A non-empty ID means update.
type WalletForm struct {
	ID      string
	Name    string
	Type    string
	Balance string
}

func EditWalletForm(w core.Wallet) WalletForm {
	return WalletForm{ID: w.ID, Name: w.Name, Type: w.Type, Balance: w.Balance.String()}
}

func (f WalletForm) IsEdit() bool { return f.ID != "" }

func (f WalletForm) Title() string {
	if f.IsEdit() {
		return "Cập nhật Nguồn tiền"
	}
	return "Thêm Nguồn tiền"
}

func (f WalletForm) SuccessMessage() string {
	if f.IsEdit() {
		return MsgUpdated
	}
	return MsgWalletCreated
}

func (f WalletForm) Payload() api.WalletInput {
	return api.WalletInput{Name: f.Name, Type: f.Type, Balance: f.Balance}
}

// CategoryForm backs the category modal. A non-empty ID means update.
type CategoryForm struct {
	ID   string
	Name string
	Kind core.CategoryKind
}

func EditCategoryForm(c core.Category) CategoryForm {
	return CategoryForm{ID: c.ID, Name: c.Name, Kind: c.Kind}
}

func (f CategoryForm) IsEdit() bool { return f.ID != "" }

func (f CategoryForm) Title() string {
	if f.IsEdit() {
		return "Cập nhật Danh mục"
	}
	return "Thêm Danh mục mới"
}

func (f CategoryForm) SuccessMessage() string {
	if f.IsEdit() {
		return MsgUpdated
	}
	return MsgCategoryCreated
}

func (f CategoryForm) Payload() api.CategoryInput {
	kind := f.Kind
	if kind == "" {
		kind = core.CategoryExpense
	}
	return api.CategoryInput{Name: f.Name, Type: kind.Wire()}
}

// WalletCard is a wallet grid entry.
type WalletCard struct {
	ID      string
	Name    string
	Type    string
	Balance string
}

func WalletCards(ws []core.Wallet) []WalletCard {
	out := make([]WalletCard, 0, len(ws))
	for _, w := range ws {
		out = append(out, WalletCard{ID: w.ID, Name: w.Name, Type: w.Type, Balance: core.FormatDong(w.Balance)})
	}
	return out
}

// CategoryCard is a category grid entry with its kind badge.
type CategoryCard struct {
	ID         string
	Name       string
	Badge      string
	BadgeClass string
}

func CategoryCards(cs []core.Category) []CategoryCard {
	out := make([]CategoryCard, 0, len(cs))
	for _, c := range cs {
		card := CategoryCard{ID: c.ID, Name: c.Name, Badge: "Chi tiêu", BadgeClass: "badge-expense"}
		if c.Kind == core.CategoryIncome {
			card.Badge, card.BadgeClass = "Thu nhập", "badge-income"
		}
		out = append(out, card)
	}
	return out
}
