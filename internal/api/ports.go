// Package api defines the contract the UI consumes from the finance REST
// backend: request payloads, read models and the service ports the page
// handlers depend on.
package api

import (
	"context"
	"io"

	"chitieu/internal/core"
)

// Payloads carry form values exactly as the user typed them; the backend
// owns parsing and validation.
type (
	WalletInput struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Balance string `json:"balance"`
	}

	CategoryInput struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}

	TransactionInput struct {
		Type           string `json:"type"`
		Amount         string `json:"amount"`
		Description    string `json:"description"`
		Date           string `json:"date"`
		CategoryID     string `json:"category_id"`
		SourceWalletID string `json:"source_wallet_id"`
		DestWalletID   string `json:"dest_wallet_id"`
	}

	BudgetInput struct {
		Name        string   `json:"name"`
		Amount      string   `json:"amount"`
		StartDate   string   `json:"start_date"`
		EndDate     string   `json:"end_date"`
		CategoryIDs []string `json:"category_ids"`
	}
)

// Prediction is the category-suggestion result for a description.
type Prediction struct {
	Status       string
	CategoryID   string
	CategoryName string
	CategoryKind core.CategoryKind
	Confidence   float64
}

// Matched reports whether the prediction carries a usable category.
func (p Prediction) Matched() bool {
	return p.Status == "success" && p.CategoryID != ""
}

// Document is a downloadable report streamed from the backend. The caller
// must close Body.
type Document struct {
	ContentType        string
	ContentDisposition string
	Body               io.ReadCloser
}

// Ports for outbound adapters.
type (
	WalletService interface {
		ListWallets(ctx context.Context) ([]core.Wallet, error)
		CreateWallet(ctx context.Context, in WalletInput) error
		UpdateWallet(ctx context.Context, id string, in WalletInput) error
		DeleteWallet(ctx context.Context, id string) error
	}

	CategoryService interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		CreateCategory(ctx context.Context, in CategoryInput) error
		UpdateCategory(ctx context.Context, id string, in CategoryInput) error
		DeleteCategory(ctx context.Context, id string) error
	}

	TransactionService interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		CreateTransaction(ctx context.Context, in TransactionInput) error
		UpdateTransaction(ctx context.Context, id string, in TransactionInput) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	BudgetService interface {
		ListBudgets(ctx context.Context) ([]core.Budget, error)
		CreateBudget(ctx context.Context, in BudgetInput) error
		DeleteBudget(ctx context.Context, id string) error
	}

	ReportService interface {
		ReportData(ctx context.Context, f core.ReportFilter) (core.Report, error)
		ExportReport(ctx context.Context, kind core.ExportKind, f core.ReportFilter) (*Document, error)
	}

	ChatService interface {
		// Chat sends one user turn and returns the assistant reply, which
		// may be empty when the backend produced none.
		Chat(ctx context.Context, message string) (string, error)
		ChatHistory(ctx context.Context) ([]core.ChatMessage, error)
	}

	CategoryPredictor interface {
		PredictCategory(ctx context.Context, description string) (Prediction, error)
	}

	// Backend is everything the UI talks to.
	Backend interface {
		WalletService
		CategoryService
		TransactionService
		BudgetService
		ReportService
		ChatService
		CategoryPredictor
	}
)
