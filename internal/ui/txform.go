package ui

import (
	"chitieu/internal/api"
	"chitieu/internal/core"
)

// FormMode is either create or edit of a specific transaction. The zero
// value is create.
type FormMode struct {
	editID string
}

func CreateMode() FormMode { return FormMode{} }

func EditMode(id string) FormMode { return FormMode{editID: id} }

func (m FormMode) IsEdit() bool { return m.editID != "" }

// EditID returns the transaction under edit, or "" in create mode.
func (m FormMode) EditID() string { return m.editID }

// TxForm is the transaction entry form of one view.
type TxForm struct {
	Mode           FormMode
	Tab            core.TxKind
	Amount         string
	Description    string
	Date           core.ISODate
	CategoryID     string
	SourceWalletID string
	DestWalletID   string
	// Highlight marks a category chosen by prediction; it lasts one render.
	Highlight bool
}

// NewTxForm is the empty create form dated today on the expense tab.
func NewTxForm(today core.ISODate) TxForm {
	return TxForm{Tab: core.KindExpense, Date: today}
}

// Tabs lists the form tabs in display order.
var Tabs = []core.TxKind{core.KindExpense, core.KindIncome, core.KindTransfer}

// WithTab switches the active tab. The category choice does not survive a
// change of tab since the option list is rebuilt.
func (f TxForm) WithTab(tab core.TxKind) TxForm {
	if !tab.Valid() {
		tab = core.KindExpense
	}
	if tab != f.Tab {
		f.CategoryID = ""
	}
	f.Tab = tab
	return f
}

func (f TxForm) ShowCategory() bool { return f.Tab != core.KindTransfer }

func (f TxForm) ShowSourceWallet() bool { return f.Tab != core.KindIncome }

func (f TxForm) ShowDestWallet() bool { return f.Tab != core.KindExpense }

// CategoryOptions are the categories selectable on the current tab.
func (f TxForm) CategoryOptions(all []core.Category) []core.Category {
	kind, ok := f.Tab.CategoryKind()
	if !ok {
		return nil
	}
	return core.CategoriesOfKind(all, kind)
}

func (f TxForm) SubmitLabel() string {
	if f.Mode.IsEdit() {
		return "Cập nhật Giao dịch"
	}
	return "Lưu Giao dịch"
}

// SubmitColor is the button background; empty keeps the stylesheet default.
func (f TxForm) SubmitColor() string {
	if f.Mode.IsEdit() {
		return "#f39c12"
	}
	return ""
}

// EnterEdit loads transaction id from the snapshot into an edit form.
// It reports false when the id is not in the snapshot.
func EnterEdit(snapshot []core.Transaction, id string) (TxForm, bool) {
	t, ok := core.FindTransaction(snapshot, id)
	if !ok {
		return TxForm{}, false
	}
	f := TxForm{
		Mode:        EditMode(t.ID),
		Tab:         t.Kind,
		Amount:      t.Amount.String(),
		Description: t.Description,
		Date:        t.Date,
	}
	switch t.Kind {
	case core.KindIncome:
		f.DestWalletID = t.WalletID
		f.CategoryID = t.CategoryID
	case core.KindTransfer:
		f.SourceWalletID = t.WalletID
		f.DestWalletID = t.DestWalletID
	default:
		f.Tab = core.KindExpense
		f.SourceWalletID = t.WalletID
		f.CategoryID = t.CategoryID
	}
	return f, true
}

// Payload is the request body for the form exactly as entered. Every field
// is sent regardless of the tab; the backend picks what the type needs.
func (f TxForm) Payload() api.TransactionInput {
	return api.TransactionInput{
		Type:           string(f.Tab),
		Amount:         f.Amount,
		Description:    f.Description,
		Date:           f.Date.String(),
		CategoryID:     f.CategoryID,
		SourceWalletID: f.SourceWalletID,
		DestWalletID:   f.DestWalletID,
	}
}

// ShouldPredict reports whether a description change warrants a category
// suggestion.
func (f TxForm) ShouldPredict() bool {
	return f.Tab != core.KindTransfer && trimmed(f.Description) != ""
}

// ApplyPrediction selects the suggested category, switching tab first when
// the category belongs to the other kind. Unmatched predictions change
// nothing.
func (f TxForm) ApplyPrediction(p api.Prediction) (TxForm, bool) {
	if !p.Matched() {
		return f, false
	}
	if p.CategoryKind != "" {
		f = f.WithTab(p.CategoryKind.TxKind())
	}
	f.CategoryID = p.CategoryID
	f.Highlight = true
	return f, true
}

// WalletOption is one entry of a wallet select.
type WalletOption struct {
	ID    string
	Label string
}

// WalletOptions renders wallets as "name (balance đ)".
func WalletOptions(wallets []core.Wallet) []WalletOption {
	out := make([]WalletOption, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, WalletOption{ID: w.ID, Label: w.Name + " (" + core.FormatDong(w.Balance) + ")"})
	}
	return out
}
