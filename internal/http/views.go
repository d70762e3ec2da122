package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chitieu/internal/cache"
	"chitieu/internal/core"
	"chitieu/internal/log"
	"chitieu/internal/ui"
)

// views is the per-page-load state of one controller. A view is created by
// the page handler and only ever modified afterwards; partial requests for
// an unknown view are answered with a full refresh.
type views[T any] struct {
	*cache.LRUCache[T]
}

func newViews[T any](capacity int, ttl time.Duration) views[T] {
	return views[T]{cache.NewLRUCache[T](capacity, ttl)}
}

func (v views[T]) open(state T) string {
	id := uuid.NewString()
	v.Set(id, state)
	return id
}

// modify applies fn to an existing view. It reports false, without
// creating anything, when the view is unknown or expired.
func (v views[T]) modify(id string, fn func(*T)) (T, bool) {
	if id == "" {
		var zero T
		return zero, false
	}
	return v.Update(id, func(cur T, ok bool) (T, bool) {
		if !ok {
			return cur, false
		}
		fn(&cur)
		return cur, true
	})
}

// Page is what the layout needs on every full page.
type Page struct {
	Title  string
	Active string
	ViewID string
	// ChatView is the chat transcript id opened alongside the page.
	ChatView string
}

type txView struct {
	Transactions []core.Transaction
	Wallets      []core.Wallet
	Categories   []core.Category
	Filter       ui.TxFilter
	Form         ui.TxForm
}

type ledgerView struct {
	Wallets    []core.Wallet
	Categories []core.Category
}

type budgetView struct {
	Budgets    []core.Budget
	Categories []core.Category
	Failed     bool
}

type reportView struct {
	Board   ui.ReportBoard
	Wallets []core.Wallet
}

// ledger parts, combined as a bitmask.
type part uint8

const (
	partTransactions part = 1 << iota
	partWallets
	partCategories
)

// ledgerData is the outcome of fetchLedger. Only parts that loaded are
// set; Failed holds the parts that did not.
type ledgerData struct {
	Transactions []core.Transaction
	Wallets      []core.Wallet
	Categories   []core.Category
	Failed       part
}

// fetchLedger loads the requested parts concurrently. A failing part does
// not cancel the others; it is logged and left out so the caller keeps
// what it had.
func (s *Server) fetchLedger(ctx context.Context, want part) ledgerData {
	var (
		out       ledgerData
		txErr     error
		walletErr error
		catErr    error
	)
	var g errgroup.Group
	if want&partTransactions != 0 {
		g.Go(func() error {
			out.Transactions, txErr = s.backend.ListTransactions(ctx)
			return nil
		})
	}
	if want&partWallets != 0 {
		g.Go(func() error {
			out.Wallets, walletErr = s.backend.ListWallets(ctx)
			return nil
		})
	}
	if want&partCategories != 0 {
		g.Go(func() error {
			out.Categories, catErr = s.backend.ListCategories(ctx)
			return nil
		})
	}
	_ = g.Wait()

	for _, f := range []struct {
		p    part
		name string
		err  error
	}{
		{partTransactions, "transactions", txErr},
		{partWallets, "wallets", walletErr},
		{partCategories, "categories", catErr},
	} {
		if f.err == nil {
			continue
		}
		out.Failed |= f.p
		s.backendFailed(ctx, "Failed to load "+f.name, f.err)
	}
	return out
}

// apply copies the loaded parts into a transaction view.
func (d ledgerData) apply(v *txView, want part) {
	if want&partTransactions != 0 && d.Failed&partTransactions == 0 {
		v.Transactions = d.Transactions
	}
	if want&partWallets != 0 && d.Failed&partWallets == 0 {
		v.Wallets = d.Wallets
	}
	if want&partCategories != 0 && d.Failed&partCategories == 0 {
		v.Categories = d.Categories
	}
}

func (s *Server) backendFailed(ctx context.Context, msg string, err error) {
	s.appMetrics.backendErrors.Inc()
	s.logger.ErrorContext(ctx, msg, log.FieldError, err)
}

// mutated counts and logs a successful write.
func (s *Server) mutated(r *http.Request, component, op, resource, id string) {
	s.appMetrics.mutations.WithLabelValues(resource, op).Inc()
	s.events.LogMutation(r.Context(), component, op, resource, id)
}
