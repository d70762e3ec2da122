package rest

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"chitieu/internal/core"
)

// flexID accepts ids encoded as strings, numbers or null.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

// flexString tolerates null where the backend omits optional names.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*f = flexString(s)
	return nil
}

type (
	wireWallet struct {
		ID      flexID          `json:"MaNguonTien"`
		Name    flexString      `json:"TenNguonTien"`
		Type    flexString      `json:"LoaiNguonTien"`
		Balance decimal.Decimal `json:"SoDu"`
	}

	wireCategory struct {
		ID   flexID     `json:"MaDanhMuc"`
		Name flexString `json:"TenDanhMuc"`
		Type flexString `json:"LoaiDanhMuc"`
	}

	wireTransaction struct {
		ID             flexID          `json:"id"`
		Type           string          `json:"type"`
		Amount         decimal.Decimal `json:"amount"`
		Description    flexString      `json:"description"`
		Date           string          `json:"date"`
		CategoryID     flexID          `json:"category_id"`
		CategoryName   flexString      `json:"category_name"`
		WalletID       flexID          `json:"wallet_id"`
		WalletName     flexString      `json:"wallet_name"`
		DestWalletID   flexID          `json:"dest_wallet_id"`
		DestWalletName flexString      `json:"dest_wallet_name"`
	}

	wireBudget struct {
		ID         flexID          `json:"id"`
		Name       flexString      `json:"name"`
		Amount     decimal.Decimal `json:"amount"`
		Spent      decimal.Decimal `json:"spent"`
		Progress   decimal.Decimal `json:"progress"`
		Exceeded   bool            `json:"is_exceeded"`
		StartDate  string          `json:"start_date"`
		EndDate    string          `json:"end_date"`
		DaysLeft   int             `json:"days_left"`
		Categories []struct {
			ID   flexID     `json:"id"`
			Name flexString `json:"name"`
		} `json:"categories"`
	}

	wireSeries struct {
		Labels []string          `json:"labels"`
		Data   []decimal.Decimal `json:"data"`
	}

	wireReport struct {
		Pie         wireSeries `json:"pie_chart"`
		Bar         wireSeries `json:"bar_chart"`
		Line        wireSeries `json:"line_chart"`
		TopSpending []struct {
			Category        flexString      `json:"category"`
			Amount          decimal.Decimal `json:"amount"`
			AmountFormatted string          `json:"amount_formatted"`
			Percent         decimal.Decimal `json:"percent"`
		} `json:"top_spending"`
		Summary *struct {
			TotalIncome  decimal.Decimal `json:"total_income"`
			TotalExpense decimal.Decimal `json:"total_expense"`
			Balance      decimal.Decimal `json:"balance"`
		} `json:"summary"`
	}

	wirePrediction struct {
		Status       string     `json:"status"`
		CategoryID   flexID     `json:"category_id"`
		CategoryName flexString `json:"category_name"`
		CategoryType flexString `json:"category_type"`
		Confidence   float64    `json:"confidence"`
	}

	wireChatReply struct {
		Response *string `json:"response"`
	}

	wireChatMessage struct {
		Role    string     `json:"role"`
		Content flexString `json:"content"`
	}
)

func (w wireWallet) toCore() core.Wallet {
	return core.Wallet{ID: string(w.ID), Name: string(w.Name), Type: string(w.Type), Balance: w.Balance}
}

// toCore drops categories whose type the UI cannot place.
func (w wireCategory) toCore() (core.Category, bool) {
	kind, err := core.ParseCategoryKind(string(w.Type))
	if err != nil {
		return core.Category{}, false
	}
	return core.Category{ID: string(w.ID), Name: string(w.Name), Kind: kind}, true
}

func (w wireTransaction) toCore() core.Transaction {
	kind, err := core.ParseTxKind(w.Type)
	if err != nil {
		kind = core.KindExpense
	}
	return core.Transaction{
		ID:             string(w.ID),
		Kind:           kind,
		Amount:         w.Amount,
		Description:    string(w.Description),
		Date:           core.ISODate(w.Date),
		CategoryID:     string(w.CategoryID),
		CategoryName:   string(w.CategoryName),
		WalletID:       string(w.WalletID),
		WalletName:     string(w.WalletName),
		DestWalletID:   string(w.DestWalletID),
		DestWalletName: string(w.DestWalletName),
	}
}

func (w wireBudget) toCore() core.Budget {
	b := core.Budget{
		ID:        string(w.ID),
		Name:      string(w.Name),
		Amount:    w.Amount,
		Spent:     w.Spent,
		Progress:  w.Progress,
		Exceeded:  w.Exceeded,
		StartDate: core.ISODate(w.StartDate),
		EndDate:   core.ISODate(w.EndDate),
		DaysLeft:  w.DaysLeft,
	}
	for _, c := range w.Categories {
		b.Categories = append(b.Categories, core.BudgetCategory{ID: string(c.ID), Name: string(c.Name)})
	}
	return b
}

func (w wireSeries) toCore() core.Series {
	return core.Series{Labels: w.Labels, Data: w.Data}
}

func (w wireReport) toCore() core.Report {
	r := core.Report{Pie: w.Pie.toCore(), Bar: w.Bar.toCore(), Line: w.Line.toCore()}
	for _, row := range w.TopSpending {
		r.TopSpending = append(r.TopSpending, core.SpendingRow{
			Category:        string(row.Category),
			Amount:          row.Amount,
			AmountFormatted: row.AmountFormatted,
			Percent:         row.Percent,
		})
	}
	if w.Summary != nil {
		r.Summary = core.ReportSummary{
			TotalIncome:  w.Summary.TotalIncome,
			TotalExpense: w.Summary.TotalExpense,
			Balance:      w.Summary.Balance,
		}
	}
	return r
}

// The history endpoint labels assistant turns "ai".
func (w wireChatMessage) toCore() core.ChatMessage {
	role := core.RoleAssistant
	if strings.EqualFold(w.Role, string(core.RoleUser)) {
		role = core.RoleUser
	}
	return core.ChatMessage{Role: role, Content: string(w.Content)}
}
