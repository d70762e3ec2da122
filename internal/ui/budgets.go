package ui

import (
	"fmt"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

const MsgNoBudgets = "Bạn chưa có ngân sách nào. Hãy tạo mới!"

// BudgetForm is the create-budget modal.
type BudgetForm struct {
	Name        string
	Amount      string
	StartDate   string
	EndDate     string
	CategoryIDs []string
}

// Validate blocks submission without any category.
func (f BudgetForm) Validate() error {
	if len(f.CategoryIDs) == 0 {
		return core.ErrNoCategorySelected
	}
	return nil
}

func (f BudgetForm) Payload() api.BudgetInput {
	return api.BudgetInput{
		Name:        f.Name,
		Amount:      f.Amount,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		CategoryIDs: append([]string{}, f.CategoryIDs...),
	}
}

// BudgetCard is the display form of a budget.
type BudgetCard struct {
	ID         string
	Name       string
	SpentText  string
	Exceeded   bool
	FillWidth  string
	DateRange  string
	DaysText   string
	DaysWarn   bool
	Categories []string
}

// NewBudgetCard derives the card from server values. Progress is used as
// the fill width as-is.
func NewBudgetCard(b core.Budget) BudgetCard {
	c := BudgetCard{
		ID:        b.ID,
		Name:      b.Name,
		SpentText: core.FormatVND(b.Spent) + " / " + core.FormatVND(b.Amount),
		Exceeded:  b.Exceeded,
		FillWidth: b.Progress.String() + "%",
		DateRange: b.StartDate.DayMonth() + " - " + b.EndDate.DayMonth(),
	}
	c.DaysText, c.DaysWarn = DaysLeftText(b.DaysLeft)
	for _, cat := range b.Categories {
		c.Categories = append(c.Categories, cat.Name)
	}
	return c
}

// DaysLeftText words the remaining days and reports whether it is a warning.
func DaysLeftText(days int) (string, bool) {
	switch {
	case days > 0:
		return fmt.Sprintf("Còn %d ngày", days), false
	case days == 0:
		return "Hôm nay là hạn chót", true
	default:
		return "Đã hết hạn", true
	}
}

func BudgetCards(bs []core.Budget) []BudgetCard {
	out := make([]BudgetCard, 0, len(bs))
	for _, b := range bs {
		out = append(out, NewBudgetCard(b))
	}
	return out
}
