package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/ui"
)

type txPageData struct {
	Page
	Form    txFormData
	Filters txFiltersData
	List    txListData
}

type txFormData struct {
	Form       ui.TxForm
	Tabs       []core.TxKind
	Categories []core.Category
	Wallets    []ui.WalletOption
	OOB        bool
}

type txListData struct {
	List ui.TxList
	OOB  bool
}

type txFiltersData struct {
	Filter ui.TxFilter
	Tabs   []core.TxKind
	OOB    bool
}

func newTxFormData(v txView, oob bool) txFormData {
	return txFormData{
		Form:       v.Form,
		Tabs:       ui.Tabs,
		Categories: v.Form.CategoryOptions(v.Categories),
		Wallets:    ui.WalletOptions(v.Wallets),
		OOB:        oob,
	}
}

func newTxListData(v txView, oob bool) txListData {
	return txListData{List: ui.BuildTxList(v.Transactions, v.Filter), OOB: oob}
}

// readTxForm reads the entry form fields. The mode is never taken from the
// request; it belongs to the view.
func readTxForm(src fieldSource, mode ui.FormMode) ui.TxForm {
	tab := core.TxKind(src.Get("type"))
	if !tab.Valid() {
		tab = core.KindExpense
	}
	return ui.TxForm{
		Mode:           mode,
		Tab:            tab,
		Amount:         src.Get("amount"),
		Description:    src.Get("description"),
		Date:           core.ISODate(src.Get("date")),
		CategoryID:     src.Get("category_id"),
		SourceWalletID: src.Get("source_wallet_id"),
		DestWalletID:   src.Get("dest_wallet_id"),
	}
}

func readTxFilter(src fieldSource) ui.TxFilter {
	kind := core.TxKind(src.Get("type"))
	if !kind.Valid() {
		kind = ""
	}
	return ui.TxFilter{
		Keyword: src.Get("keyword"),
		Type:    kind,
		From:    core.ISODate(src.Get("from")),
		To:      core.ISODate(src.Get("to")),
	}
}

func (s *Server) handleTransactionsPage(w http.ResponseWriter, r *http.Request) {
	const all = partTransactions | partWallets | partCategories
	v := txView{Form: ui.NewTxForm(core.NewISODate(s.now()))}
	s.fetchLedger(r.Context(), all).apply(&v, all)

	page := Page{Title: "Giao dịch", Active: "transactions"}
	page.ViewID = s.txViews.open(v)
	page.ChatView = s.chatViews.open(ui.NewTranscript())

	s.render(w, r, "page_transactions", txPageData{
		Page:    page,
		Form:    newTxFormData(v, false),
		Filters: txFiltersData{Filter: v.Filter, Tabs: ui.Tabs},
		List:    newTxListData(v, false),
	})
}

func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	v, ok := s.txViews.Get(id)
	if !ok {
		s.expired(w, r)
		return
	}

	p, err := readFields(w, r)
	if err != nil {
		BadRequestError("Yêu cầu không hợp lệ").Write(w)
		return
	}
	form := readTxForm(p, v.Form.Mode)

	if form.Mode.IsEdit() {
		err = s.backend.UpdateTransaction(r.Context(), form.Mode.EditID(), form.Payload())
	} else {
		err = s.backend.CreateTransaction(r.Context(), form.Payload())
	}
	if err != nil {
		s.backendFailed(r.Context(), "Failed to save transaction", err)
		s.txViews.modify(id, func(v *txView) { v.Form = form })
		Rejected(ui.ErrorPrefixed(failureText(err, "Không thể lưu giao dịch."), "")).Write(w)
		return
	}

	op, msg := log.OpCreate, ui.MsgTxCreated
	if form.Mode.IsEdit() {
		op, msg = log.OpUpdate, ui.MsgUpdated
	}
	s.mutated(r, log.ComponentLedger, op, "transaction", form.Mode.EditID())

	const resync = partTransactions | partWallets
	data := s.fetchLedger(r.Context(), resync)
	v, ok = s.txViews.modify(id, func(v *txView) {
		data.apply(v, resync)
		v.Form = ui.NewTxForm(core.NewISODate(s.now()))
	})
	if !ok {
		s.expired(w, r)
		return
	}
	s.fragment().
		add("tx_form", newTxFormData(v, false)).
		add("tx_list", newTxListData(v, true)).
		send(w, r, NewHTMXResponse().TriggerSuccessNotification(msg))
}

func (s *Server) handleFilterTransactions(w http.ResponseWriter, r *http.Request) {
	filter := readTxFilter(queryFields(r))
	v, ok := s.txViews.modify(viewID(r), func(v *txView) { v.Filter = filter })
	if !ok {
		s.expired(w, r)
		return
	}
	s.render(w, r, "tx_list", newTxListData(v, false))
}

func (s *Server) handleResetFilter(w http.ResponseWriter, r *http.Request) {
	v, ok := s.txViews.modify(viewID(r), func(v *txView) { v.Filter = ui.TxFilter{} })
	if !ok {
		s.expired(w, r)
		return
	}
	s.fragment().
		add("tx_list", newTxListData(v, false)).
		add("tx_filters", txFiltersData{Tabs: ui.Tabs, OOB: true}).
		send(w, r, nil)
}

// handleSwitchTab re-renders the form on another tab, keeping what was
// typed so far.
func (s *Server) handleSwitchTab(w http.ResponseWriter, r *http.Request) {
	q := queryFields(r)
	tab := core.TxKind(q.Get("tab"))
	v, ok := s.txViews.modify(viewID(r), func(v *txView) {
		v.Form = readTxForm(q, v.Form.Mode).WithTab(tab)
	})
	if !ok {
		s.expired(w, r)
		return
	}
	s.render(w, r, "tx_form", newTxFormData(v, false))
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	v, ok := s.txViews.modify(viewID(r), func(v *txView) {
		v.Form = ui.NewTxForm(core.NewISODate(s.now()))
	})
	if !ok {
		s.expired(w, r)
		return
	}
	s.render(w, r, "tx_form", newTxFormData(v, false))
}

func (s *Server) handleEditTransaction(w http.ResponseWriter, r *http.Request) {
	txID := chi.URLParam(r, "id")
	found := false
	v, ok := s.txViews.modify(viewID(r), func(v *txView) {
		if form, hit := ui.EnterEdit(v.Transactions, txID); hit {
			v.Form, found = form, true
		}
	})
	if !ok {
		s.expired(w, r)
		return
	}
	if !found {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, "tx_form", newTxFormData(v, false))
}

// handlePredictCategory suggests a category for the typed description.
// Anything short of a match answers 204 so the form stays untouched.
func (s *Server) handlePredictCategory(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	v, ok := s.txViews.Get(id)
	if !ok {
		s.expired(w, r)
		return
	}
	p, err := readFields(w, r)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	form := readTxForm(p, v.Form.Mode)
	if !form.ShouldPredict() {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	pred, err := s.backend.PredictCategory(r.Context(), form.Description)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Category prediction failed",
			log.FieldOperation, log.OpPredict, log.FieldError, err)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	form, matched := form.ApplyPrediction(pred)
	if !matched {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	stored := form
	stored.Highlight = false
	v, ok = s.txViews.modify(id, func(v *txView) { v.Form = stored })
	if !ok {
		s.expired(w, r)
		return
	}
	v.Form = form
	s.render(w, r, "tx_form", newTxFormData(v, false))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.txViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	txID := chi.URLParam(r, "id")
	if err := s.backend.DeleteTransaction(r.Context(), txID); err != nil {
		s.backendFailed(r.Context(), "Failed to delete transaction", err)
		Rejected(ui.MsgTxDeleteFailed).Write(w)
		return
	}
	s.mutated(r, log.ComponentLedger, log.OpDelete, "transaction", txID)

	const resync = partTransactions | partWallets
	data := s.fetchLedger(r.Context(), resync)
	v, ok := s.txViews.modify(id, func(v *txView) {
		data.apply(v, resync)
		v.Form.Highlight = false
	})
	if !ok {
		s.expired(w, r)
		return
	}
	// Balances changed, so the wallet selects are refreshed too.
	s.fragment().
		add("tx_list", newTxListData(v, false)).
		add("tx_form", newTxFormData(v, true)).
		send(w, r, nil)
}
