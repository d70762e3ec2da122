package memory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

var hundred = decimal.NewFromInt(100)

// ListBudgets derives spent, progress and deadline for every budget from
// the expenses in its categories and date range. Progress is capped at 100
// and days left at 0.
func (s *Store) ListBudgets(context.Context) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today, err := s.today().Time()
	if err != nil {
		return nil, err
	}

	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		inBudget := make(map[string]bool, len(b.CategoryIDs))
		cats := make([]core.BudgetCategory, 0, len(b.CategoryIDs))
		for _, id := range b.CategoryIDs {
			inBudget[id] = true
			cats = append(cats, core.BudgetCategory{ID: id, Name: s.categoryName(id)})
		}

		spent := decimal.Zero
		for _, t := range s.txs {
			if t.Kind == core.KindExpense && inBudget[t.CategoryID] && t.Date.InRange(b.StartDate, b.EndDate) {
				spent = spent.Add(t.Amount)
			}
		}

		progress := decimal.Zero
		if b.Amount.IsPositive() {
			progress = decimal.Min(spent.Div(b.Amount).Mul(hundred), hundred)
		}

		daysLeft := 0
		if end, err := b.EndDate.Time(); err == nil {
			daysLeft = max(int(end.Sub(today).Hours()/24), 0)
		}

		out = append(out, core.Budget{
			ID:         b.ID,
			Name:       b.Name,
			Amount:     b.Amount,
			Spent:      spent,
			Progress:   progress,
			Exceeded:   spent.GreaterThan(b.Amount),
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			DaysLeft:   daysLeft,
			Categories: cats,
		})
	}
	return out, nil
}

func (s *Store) CreateBudget(_ context.Context, in api.BudgetInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return badRequest("Tên ngân sách không được để trống")
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return badRequest("Số tiền không hợp lệ")
	}
	start, end := core.ISODate(in.StartDate), core.ISODate(in.EndDate)
	if _, err := start.Time(); err != nil {
		return badRequest("Ngày bắt đầu không hợp lệ")
	}
	if _, err := end.Time(); err != nil {
		return badRequest("Ngày kết thúc không hợp lệ")
	}
	if end < start {
		return badRequest("Ngày kết thúc phải sau ngày bắt đầu")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		if s.categoryIndex(id) >= 0 {
			ids = append(ids, id)
		}
	}
	s.budgets = append(s.budgets, budgetRecord{
		ID:          s.id("B"),
		Name:        in.Name,
		Amount:      amount,
		StartDate:   start,
		EndDate:     end,
		CategoryIDs: ids,
	})
	return nil
}

func (s *Store) DeleteBudget(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.budgets {
		if b.ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return notFound()
}
