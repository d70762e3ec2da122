package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"chitieu/internal/api"
	"chitieu/internal/core"
	"chitieu/internal/log"
)

const (
	walletsPath      = "/api/wallets"
	categoriesPath   = "/api/categories"
	transactionsPath = "/api/transactions"
	budgetsPath      = "/api/budgets"
	reportDataPath   = "/api/reports/data"
	reportExportPath = "/api/reports/export/"
	chatPath         = "/api/chat"
	chatHistoryPath  = "/api/chat/history"
	predictPath      = "/api/predict-category"
)

func (c *Client) ListWallets(ctx context.Context) ([]core.Wallet, error) {
	var raw []wireWallet
	if err := c.do(ctx, http.MethodGet, walletsPath, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	out := make([]core.Wallet, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toCore())
	}
	return out, nil
}

func (c *Client) CreateWallet(ctx context.Context, in api.WalletInput) error {
	return c.do(ctx, http.MethodPost, walletsPath, nil, in, nil)
}

func (c *Client) UpdateWallet(ctx context.Context, id string, in api.WalletInput) error {
	return c.do(ctx, http.MethodPut, itemPath(walletsPath, id), nil, in, nil)
}

func (c *Client) DeleteWallet(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(walletsPath, id), nil, nil, nil)
}

func (c *Client) ListCategories(ctx context.Context) ([]core.Category, error) {
	var raw []wireCategory
	if err := c.do(ctx, http.MethodGet, categoriesPath, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]core.Category, 0, len(raw))
	for _, w := range raw {
		if cat, ok := w.toCore(); ok {
			out = append(out, cat)
		} else {
			c.logger.WarnContext(ctx, "Skipping category with unknown type",
				log.FieldResourceID, string(w.ID),
				log.FieldType, string(w.Type))
		}
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in api.CategoryInput) error {
	return c.do(ctx, http.MethodPost, categoriesPath, nil, in, nil)
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in api.CategoryInput) error {
	return c.do(ctx, http.MethodPut, itemPath(categoriesPath, id), nil, in, nil)
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(categoriesPath, id), nil, nil, nil)
}

func (c *Client) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	var raw []wireTransaction
	if err := c.do(ctx, http.MethodGet, transactionsPath, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]core.Transaction, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toCore())
	}
	return out, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in api.TransactionInput) error {
	return c.do(ctx, http.MethodPost, transactionsPath, nil, in, nil)
}

func (c *Client) UpdateTransaction(ctx context.Context, id string, in api.TransactionInput) error {
	return c.do(ctx, http.MethodPut, itemPath(transactionsPath, id), nil, in, nil)
}

func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(transactionsPath, id), nil, nil, nil)
}

func (c *Client) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	var raw []wireBudget
	if err := c.do(ctx, http.MethodGet, budgetsPath, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	out := make([]core.Budget, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toCore())
	}
	return out, nil
}

func (c *Client) CreateBudget(ctx context.Context, in api.BudgetInput) error {
	if in.CategoryIDs == nil {
		in.CategoryIDs = []string{}
	}
	return c.do(ctx, http.MethodPost, budgetsPath, nil, in, nil)
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(budgetsPath, id), nil, nil, nil)
}

func reportQuery(f core.ReportFilter, withType bool) url.Values {
	f = f.Normalize()
	q := url.Values{}
	q.Set("time_range", string(f.TimeRange))
	q.Set("wallet_id", f.WalletID)
	if withType {
		q.Set("type", string(f.Type))
	}
	return q
}

func (c *Client) ReportData(ctx context.Context, f core.ReportFilter) (core.Report, error) {
	var raw wireReport
	if err := c.do(ctx, http.MethodGet, reportDataPath, reportQuery(f, true), nil, &raw); err != nil {
		return core.Report{}, fmt.Errorf("report data: %w", err)
	}
	return raw.toCore(), nil
}

// ExportReport opens the export document as a stream.
func (c *Client) ExportReport(ctx context.Context, kind core.ExportKind, f core.ReportFilter) (*api.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, reportExportPath+string(kind), reportQuery(f, false), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	resp, err := c.send(req)
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", kind, err)
	}
	return &api.Document{
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
		Body:               resp.Body,
	}, nil
}

func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	var raw wireChatReply
	body := map[string]string{"message": message}
	if err := c.do(ctx, http.MethodPost, chatPath, nil, body, &raw); err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	if raw.Response == nil {
		return "", nil
	}
	return *raw.Response, nil
}

func (c *Client) ChatHistory(ctx context.Context) ([]core.ChatMessage, error) {
	var raw []wireChatMessage
	if err := c.do(ctx, http.MethodGet, chatHistoryPath, nil, nil, &raw); err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	out := make([]core.ChatMessage, 0, len(raw))
	for _, m := range raw {
		out = append(out, m.toCore())
	}
	return out, nil
}

func (c *Client) PredictCategory(ctx context.Context, description string) (api.Prediction, error) {
	var raw wirePrediction
	body := map[string]string{"description": description}
	if err := c.do(ctx, http.MethodPost, predictPath, nil, body, &raw); err != nil {
		return api.Prediction{}, fmt.Errorf("predict category: %w", err)
	}
	p := api.Prediction{
		Status:       raw.Status,
		CategoryID:   string(raw.CategoryID),
		CategoryName: string(raw.CategoryName),
		Confidence:   raw.Confidence,
	}
	if kind, err := core.ParseCategoryKind(string(raw.CategoryType)); err == nil {
		p.CategoryKind = kind
	}
	return p, nil
}
