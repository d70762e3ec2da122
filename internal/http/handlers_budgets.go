package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"chitieu/internal/api"
	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/ui"
)

type budgetsPageData struct {
	Page
	List budgetListData
}

type budgetListData struct {
	Cards []ui.BudgetCard
	// Notice replaces the cards when there are none or loading failed.
	Notice string
	Failed bool
}

type budgetModalData struct {
	Form       ui.BudgetForm
	Categories []core.Category
}

func newBudgetList(v budgetView) budgetListData {
	if v.Failed {
		return budgetListData{Notice: ui.MsgBudgetLoadFail, Failed: true}
	}
	l := budgetListData{Cards: ui.BudgetCards(v.Budgets)}
	if len(l.Cards) == 0 {
		l.Notice = ui.MsgNoBudgets
	}
	return l
}

// loadBudgets reads budgets and the expense categories offered by the
// modal. A category failure only leaves the modal without choices.
func (s *Server) loadBudgets(ctx context.Context) budgetView {
	var (
		v       budgetView
		bErr    error
		catErr  error
		allCats []core.Category
	)
	var g errgroup.Group
	g.Go(func() error {
		v.Budgets, bErr = s.backend.ListBudgets(ctx)
		return nil
	})
	g.Go(func() error {
		allCats, catErr = s.backend.ListCategories(ctx)
		return nil
	})
	_ = g.Wait()

	if bErr != nil {
		s.backendFailed(ctx, "Failed to load budgets", bErr)
		v.Failed = true
	}
	if catErr != nil {
		s.backendFailed(ctx, "Failed to load categories", catErr)
	}
	v.Categories = core.CategoriesOfKind(allCats, core.CategoryExpense)
	return v
}

func (s *Server) handleBudgetsPage(w http.ResponseWriter, r *http.Request) {
	v := s.loadBudgets(r.Context())
	page := Page{Title: "Ngân sách", Active: "budgets"}
	page.ViewID = s.budgetViews.open(v)
	page.ChatView = s.chatViews.open(ui.NewTranscript())
	s.render(w, r, "page_budgets", budgetsPageData{Page: page, List: newBudgetList(v)})
}

func (s *Server) handleBudgetForm(w http.ResponseWriter, r *http.Request) {
	v, ok := s.budgetViews.Get(viewID(r))
	if !ok {
		s.expired(w, r)
		return
	}
	s.render(w, r, "budget_modal", budgetModalData{Categories: v.Categories})
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.budgetViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	p, err := readFields(w, r)
	if err != nil {
		BadRequestError("Yêu cầu không hợp lệ").Write(w)
		return
	}
	form := ui.BudgetForm{
		Name:        p.Get("name"),
		Amount:      p.Get("amount"),
		StartDate:   p.Get("start_date"),
		EndDate:     p.Get("end_date"),
		CategoryIDs: p.GetAll("category_ids"),
	}
	if err := form.Validate(); err != nil {
		Rejected(ui.MsgNoCategoryChosen).Write(w)
		return
	}

	if err := s.backend.CreateBudget(r.Context(), form.Payload()); err != nil {
		s.backendFailed(r.Context(), "Failed to create budget", err)
		msg := ui.MsgConnectionFailed
		if !api.IsTransport(err) {
			msg = ui.ErrorPrefixed(api.ServerMessage(err), ui.MsgBudgetCreateFail)
		}
		Rejected(msg).Write(w)
		return
	}
	s.mutated(r, log.ComponentBudget, log.OpCreate, "budget", "")

	v := s.refreshBudgets(r, id)
	s.fragment().
		add("budget_list", newBudgetList(v)).
		add("modal_closed", true).
		send(w, r, nil)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	if _, ok := s.budgetViews.Get(id); !ok {
		s.expired(w, r)
		return
	}
	budgetID := chi.URLParam(r, "id")
	if err := s.backend.DeleteBudget(r.Context(), budgetID); err != nil {
		s.backendFailed(r.Context(), "Failed to delete budget", err)
		Rejected(ui.MsgBudgetDeleteFail).Write(w)
		return
	}
	s.mutated(r, log.ComponentBudget, log.OpDelete, "budget", budgetID)
	s.render(w, r, "budget_list", newBudgetList(s.refreshBudgets(r, id)))
}

func (s *Server) refreshBudgets(r *http.Request, id string) budgetView {
	budgets, err := s.backend.ListBudgets(r.Context())
	if err != nil {
		s.backendFailed(r.Context(), "Failed to load budgets", err)
	}
	v, ok := s.budgetViews.modify(id, func(v *budgetView) {
		v.Budgets, v.Failed = budgets, err != nil
	})
	if !ok {
		v.Budgets, v.Failed = budgets, err != nil
	}
	return v
}
