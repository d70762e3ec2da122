package http

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/api"
	"chitieu/internal/ui"
)

func TestWalletModal(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	view, _ := openPage(t, srv, "/foundations")

	rr := send(srv, http.MethodGet, "/wallets/form", view, nil)
	assert.Contains(t, rr.Body.String(), "Thêm Nguồn tiền")
	assert.Contains(t, rr.Body.String(), `name="id" value=""`)

	rr = send(srv, http.MethodGet, "/wallets/form?id=W2", view, nil)
	body := rr.Body.String()
	assert.Contains(t, body, "Cập nhật Nguồn tiền")
	assert.Contains(t, body, `name="id" value="W2"`)
	assert.Contains(t, body, `value="15000000"`)

	rr = send(srv, http.MethodGet, "/wallets/form?id=W404", view, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestSaveWallet(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	view, _ := openPage(t, srv, "/foundations")

	t.Run("create", func(t *testing.T) {
		before := b.count("ListWallets")
		rr := send(srv, http.MethodPost, "/wallets", view, url.Values{"name": {"MoMo"}, "type": {"Ví điện tử"}, "balance": {"300000"}})
		require.Equal(t, http.StatusOK, rr.Code)
		n, ok := notification(t, rr)
		require.True(t, ok)
		assert.Equal(t, ui.MsgWalletCreated, n.Message)
		assert.Equal(t, before+1, b.count("ListWallets"))
		body := rr.Body.String()
		assert.Contains(t, body, "MoMo")
		assert.Contains(t, body, "300.000 đ")
		assert.Contains(t, body, `<div id="modal" hx-swap-oob="innerHTML"></div>`)
	})

	t.Run("update", func(t *testing.T) {
		rr := send(srv, http.MethodPost, "/wallets", view, url.Values{"id": {"W1"}, "name": {"Ví tiền"}, "type": {"Tiền mặt"}, "balance": {"100"}})
		n, ok := notification(t, rr)
		require.True(t, ok)
		assert.Equal(t, ui.MsgUpdated, n.Message)
		assert.Contains(t, rr.Body.String(), "Ví tiền")
	})

	t.Run("failure", func(t *testing.T) {
		before := b.count("ListWallets")
		rr := send(srv, http.MethodPost, "/wallets", view, url.Values{"name": {"X"}, "balance": {"abc"}})
		n, ok := notification(t, rr)
		require.True(t, ok)
		assert.Equal(t, ui.MsgGenericFailure, n.Message)
		assert.Equal(t, "none", rr.Header().Get("HX-Reswap"))
		assert.Equal(t, before, b.count("ListWallets"))
	})
}

func TestDeleteWallet(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	view, _ := openPage(t, srv, "/foundations")

	b.failWith("DeleteWallet", &api.StatusError{Code: http.StatusConflict, Message: "Ví đang được sử dụng"})
	before := b.count("ListWallets")
	rr := send(srv, http.MethodDelete, "/wallets/W1", view, nil)
	n, ok := notification(t, rr)
	require.True(t, ok)
	assert.Equal(t, "Ví đang được sử dụng", n.Message)
	assert.Equal(t, before, b.count("ListWallets"))

	b.failWith("DeleteWallet", nil)
	rr = send(srv, http.MethodDelete, "/wallets/W1", view, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, before+1, b.count("ListWallets"))
	assert.NotContains(t, rr.Body.String(), "Tiền mặt")
	assert.Contains(t, rr.Body.String(), "Vietcombank")
}

func TestCategoryModalAndSave(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	view, _ := openPage(t, srv, "/foundations")

	rr := send(srv, http.MethodGet, "/categories/form?id=C7", view, nil)
	body := rr.Body.String()
	assert.Contains(t, body, "Cập nhật Danh mục")
	assert.Contains(t, body, `value="income" selected`)

	rr = send(srv, http.MethodPost, "/categories", view, url.Values{"name": {"Học phí"}, "kind": {"expense"}})
	n, ok := notification(t, rr)
	require.True(t, ok)
	assert.Equal(t, ui.MsgCategoryCreated, n.Message)
	assert.Contains(t, rr.Body.String(), "Học phí")
	assert.Contains(t, rr.Body.String(), "badge-expense")
}

func TestEmptyFoundations(t *testing.T) {
	b := newStubBackend()
	b.failWith("ListWallets", api.ErrTransport)
	srv := newTestServer(t, b)
	rr := send(srv, http.MethodGet, "/foundations", "", nil)
	assert.Contains(t, rr.Body.String(), ui.MsgNoWallets)
}

func budgetForm(categories ...string) url.Values {
	return url.Values{
		"name":         {"Ăn uống tháng 5"},
		"amount":       {"3000000"},
		"start_date":   {"2024-05-01"},
		"end_date":     {"2024-05-31"},
		"category_ids": categories,
	}
}

func TestBudgetsPage(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	view, _ := openPage(t, srv, "/budgets")

	rr := send(srv, http.MethodGet, "/budgets/form", view, nil)
	body := rr.Body.String()
	assert.Contains(t, body, `value="C3"`)
	assert.NotContains(t, body, "Lương", "only expense categories are offered")
}

func TestCreateBudget(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	view, _ := openPage(t, srv, "/budgets")

	t.Run("needs a category", func(t *testing.T) {
		rr := send(srv, http.MethodPost, "/budgets", view, budgetForm())
		n, ok := notification(t, rr)
		require.True(t, ok)
		assert.Equal(t, ui.MsgNoCategoryChosen, n.Message)
		assert.Zero(t, b.count("CreateBudget"))
	})

	t.Run("transport failure", func(t *testing.T) {
		b.failWith("CreateBudget", fmt.Errorf("post budgets: %w", api.ErrTransport))
		rr := send(srv, http.MethodPost, "/budgets", view, budgetForm("C3"))
		n, ok := notification(t, rr)
		require.True(t, ok)
		assert.Equal(t, ui.MsgConnectionFailed, n.Message)
	})

	t.Run("server failure without message", func(t *testing.T) {
		b.failWith("CreateBudget", &api.StatusError{Code: http.StatusBadRequest})
		rr := send(srv, http.MethodPost, "/budgets", view, budgetForm("C3"))
		n, ok := notification(t, rr)
		require.True(t, ok)
		assert.Equal(t, "Lỗi: "+ui.MsgBudgetCreateFail, n.Message)
	})

	t.Run("success", func(t *testing.T) {
		b.failWith("CreateBudget", nil)
		before := b.count("ListBudgets")
		rr := send(srv, http.MethodPost, "/budgets", view, budgetForm("C3", "C4"))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, before+1, b.count("ListBudgets"))
		body := rr.Body.String()
		assert.Contains(t, body, "Ăn uống tháng 5")
		assert.Contains(t, body, "01/05 - 31/05")
		assert.Contains(t, body, "Còn 21 ngày")
		assert.Contains(t, body, `<span class="chip">Di chuyển</span>`)
		assert.Contains(t, body, `hx-swap-oob="innerHTML"`)
	})
}

func TestDeleteBudget(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	view, _ := openPage(t, srv, "/budgets")
	send(srv, http.MethodPost, "/budgets", view, budgetForm("C3"))
	budgets, err := b.Store.ListBudgets(context.Background())
	require.NoError(t, err)
	require.Len(t, budgets, 1)

	b.failWith("DeleteBudget", api.ErrTransport)
	rr := send(srv, http.MethodDelete, "/budgets/"+budgets[0].ID, view, nil)
	n, ok := notification(t, rr)
	require.True(t, ok)
	assert.Equal(t, ui.MsgBudgetDeleteFail, n.Message)

	b.failWith("DeleteBudget", nil)
	rr = send(srv, http.MethodDelete, "/budgets/"+budgets[0].ID, view, nil)
	assert.Contains(t, rr.Body.String(), ui.MsgNoBudgets)
}

func TestBudgetLoadFailure(t *testing.T) {
	b := newStubBackend()
	b.failWith("ListBudgets", &api.StatusError{Code: http.StatusInternalServerError})
	srv := newTestServer(t, b)
	rr := send(srv, http.MethodGet, "/budgets", "", nil)
	assert.Contains(t, rr.Body.String(), ui.MsgBudgetLoadFail)
}
