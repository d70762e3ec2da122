package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/ui"
)

// WalletTypes are the wallet kinds offered by the wallet modal.
var WalletTypes = []string{"Tiền mặt", "Ngân hàng", "Ví điện tử", "Thẻ tín dụng"}

type foundationsPageData struct {
	Page
	Wallets    walletGridData
	Categories categoryGridData
}

type walletGridData struct {
	Cards []ui.WalletCard
	Empty string
}

type categoryGridData struct {
	Cards []ui.CategoryCard
	Empty string
}

type walletModalData struct {
	Form  ui.WalletForm
	Types []string
}

type categoryModalData struct {
	Form ui.CategoryForm
}

func newWalletGrid(ws []core.Wallet) walletGridData {
	g := walletGridData{Cards: ui.WalletCards(ws)}
	if len(g.Cards) == 0 {
		g.Empty = ui.MsgNoWallets
	}
	return g
}

func newCategoryGrid(cs []core.Category) categoryGridData {
	g := categoryGridData{Cards: ui.CategoryCards(cs)}
	if len(g.Cards) == 0 {
		g.Empty = ui.MsgNoCategories
	}
	return g
}

func (s *Server) handleFoundationsPage(w http.ResponseWriter, r *http.Request) {
	const both = partWallets | partCategories
	data := s.fetchLedger(r.Context(), both)
	v := ledgerView{Wallets: data.Wallets, Categories: data.Categories}

	page := Page{Title: "Nguồn tiền & Danh mục", Active: "foundations"}
	page.ViewID = s.ledgerViews.open(v)
	page.ChatView = s.chatViews.open(ui.NewTranscript())

	s.render(w, r, "page_foundations", foundationsPageData{
		Page:       page,
		Wallets:    newWalletGrid(v.Wallets),
		Categories: newCategoryGrid(v.Categories),
	})
}

// handleCloseModal empties the modal slot.
func (s *Server) handleCloseModal(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "modal_closed", false)
}

func (s *Server) handleWalletForm(w http.ResponseWriter, r *http.Request) {
	v, ok := s.ledgerViews.Get(viewID(r))
	if !ok {
		s.expired(w, r)
		return
	}
	form := ui.WalletForm{Type: WalletTypes[0]}
	if id := r.URL.Query().Get("id"); id != "" {
		wallet, found := core.FindWallet(v.Wallets, id)
		if !found {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		form = ui.EditWalletForm(wallet)
	}
	s.render(w, r, "wallet_modal", walletModalData{Form: form, Types: WalletTypes})
}

func (s *Server) handleSaveWallet(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.ledgerViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	p, err := readFields(w, r)
	if err != nil {
		BadRequestError("Yêu cầu không hợp lệ").Write(w)
		return
	}
	form := ui.WalletForm{ID: p.Get("id"), Name: p.Get("name"), Type: p.Get("type"), Balance: p.Get("balance")}

	if form.IsEdit() {
		err = s.backend.UpdateWallet(r.Context(), form.ID, form.Payload())
	} else {
		err = s.backend.CreateWallet(r.Context(), form.Payload())
	}
	if err != nil {
		s.backendFailed(r.Context(), "Failed to save wallet", err)
		Rejected(ui.MsgGenericFailure).Write(w)
		return
	}
	op := log.OpCreate
	if form.IsEdit() {
		op = log.OpUpdate
	}
	s.mutated(r, log.ComponentLedger, op, "wallet", form.ID)

	v := s.refreshWallets(r, id)
	s.fragment().
		add("wallet_grid", newWalletGrid(v.Wallets)).
		add("modal_closed", true).
		send(w, r, NewHTMXResponse().TriggerSuccessNotification(form.SuccessMessage()))
}

func (s *Server) handleDeleteWallet(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.ledgerViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	walletID := chi.URLParam(r, "id")
	if err := s.backend.DeleteWallet(r.Context(), walletID); err != nil {
		s.backendFailed(r.Context(), "Failed to delete wallet", err)
		Rejected(failureText(err, ui.MsgGenericFailure)).Write(w)
		return
	}
	s.mutated(r, log.ComponentLedger, log.OpDelete, "wallet", walletID)

	v := s.refreshWallets(r, id)
	s.render(w, r, "wallet_grid", newWalletGrid(v.Wallets))
}

// refreshWallets reloads the wallet list into the view. A failed reload
// keeps the previous list.
func (s *Server) refreshWallets(r *http.Request, id string) ledgerView {
	wallets, err := s.backend.ListWallets(r.Context())
	if err != nil {
		s.backendFailed(r.Context(), "Failed to load wallets", err)
	}
	v, ok := s.ledgerViews.modify(id, func(v *ledgerView) {
		if err == nil {
			v.Wallets = wallets
		}
	})
	if !ok {
		v.Wallets = wallets
	}
	return v
}

func (s *Server) handleCategoryForm(w http.ResponseWriter, r *http.Request) {
	v, ok := s.ledgerViews.Get(viewID(r))
	if !ok {
		s.expired(w, r)
		return
	}
	form := ui.CategoryForm{Kind: core.CategoryExpense}
	if id := r.URL.Query().Get("id"); id != "" {
		cat, found := core.FindCategory(v.Categories, id)
		if !found {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		form = ui.EditCategoryForm(cat)
	}
	s.render(w, r, "category_modal", categoryModalData{Form: form})
}

func (s *Server) handleSaveCategory(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.ledgerViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	p, err := readFields(w, r)
	if err != nil {
		BadRequestError("Yêu cầu không hợp lệ").Write(w)
		return
	}
	kind, err := core.ParseCategoryKind(p.Get("kind"))
	if err != nil {
		kind = core.CategoryExpense
	}
	form := ui.CategoryForm{ID: p.Get("id"), Name: p.Get("name"), Kind: kind}

	if form.IsEdit() {
		err = s.backend.UpdateCategory(r.Context(), form.ID, form.Payload())
	} else {
		err = s.backend.CreateCategory(r.Context(), form.Payload())
	}
	if err != nil {
		s.backendFailed(r.Context(), "Failed to save category", err)
		Rejected(ui.MsgGenericFailure).Write(w)
		return
	}
	op := log.OpCreate
	if form.IsEdit() {
		op = log.OpUpdate
	}
	s.mutated(r, log.ComponentLedger, op, "category", form.ID)

	v := s.refreshCategories(r, id)
	s.fragment().
		add("category_grid", newCategoryGrid(v.Categories)).
		add("modal_closed", true).
		send(w, r, NewHTMXResponse().TriggerSuccessNotification(form.SuccessMessage()))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.ledgerViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	catID := chi.URLParam(r, "id")
	if err := s.backend.DeleteCategory(r.Context(), catID); err != nil {
		s.backendFailed(r.Context(), "Failed to delete category", err)
		Rejected(failureText(err, ui.MsgGenericFailure)).Write(w)
		return
	}
	s.mutated(r, log.ComponentLedger, log.OpDelete, "category", catID)

	v := s.refreshCategories(r, id)
	s.render(w, r, "category_grid", newCategoryGrid(v.Categories))
}

func (s *Server) refreshCategories(r *http.Request, id string) ledgerView {
	cats, err := s.backend.ListCategories(r.Context())
	if err != nil {
		s.backendFailed(r.Context(), "Failed to load categories", err)
	}
	v, ok := s.ledgerViews.modify(id, func(v *ledgerView) {
		if err == nil {
			v.Categories = cats
		}
	})
	if !ok {
		v.Categories = cats
	}
	return v
}
