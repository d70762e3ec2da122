package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

func (s *Store) ListTransactions(context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := sortedDesc(s.txs)
	out := make([]core.Transaction, 0, len(recs))
	for _, r := range recs {
		t := r.Transaction
		t.CategoryName = s.categoryName(t.CategoryID)
		if t.CategoryName == "" {
			t.CategoryName = "Khác"
		}
		t.WalletName = s.walletName(t.WalletID)
		t.DestWalletName = s.walletName(t.DestWalletID)
		out = append(out, t)
	}
	return out, nil
}

// transactionFromInput resolves the form payload into a stored transaction.
// Income lands in the destination wallet; expenses and transfers leave the
// source wallet.
func (s *Store) transactionFromInput(in api.TransactionInput) (core.Transaction, error) {
	kind, err := core.ParseTxKind(in.Type)
	if err != nil {
		kind = core.KindExpense
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Transaction{}, badRequest("Số tiền không hợp lệ")
	}
	walletID := in.SourceWalletID
	if kind == core.KindIncome {
		walletID = in.DestWalletID
	}
	if walletID == "" || s.walletIndex(walletID) < 0 {
		return core.Transaction{}, badRequest("Chưa chọn ví")
	}
	t := core.Transaction{
		Kind:        kind,
		Amount:      amount,
		Description: in.Description,
		Date:        core.ISODate(in.Date),
		WalletID:    walletID,
	}
	if t.Date.IsEmpty() {
		t.Date = s.today()
	} else if _, err := t.Date.Time(); err != nil {
		return core.Transaction{}, badRequest("Ngày không hợp lệ")
	}
	switch kind {
	case core.KindTransfer:
		if in.DestWalletID == "" || s.walletIndex(in.DestWalletID) < 0 {
			return core.Transaction{}, badRequest("Chưa chọn ví nhận")
		}
		t.DestWalletID = in.DestWalletID
	default:
		t.CategoryID = in.CategoryID
	}
	return t, nil
}

// apply moves money for t; sign -1 reverts it.
func (s *Store) apply(t core.Transaction, sign int64) {
	amt := t.Amount.Mul(decimal.NewFromInt(sign))
	adjust := func(id string, delta decimal.Decimal) {
		if i := s.walletIndex(id); i >= 0 {
			s.wallets[i].Balance = s.wallets[i].Balance.Add(delta)
		}
	}
	switch t.Kind {
	case core.KindIncome:
		adjust(t.WalletID, amt)
	case core.KindExpense:
		adjust(t.WalletID, amt.Neg())
	case core.KindTransfer:
		adjust(t.WalletID, amt.Neg())
		adjust(t.DestWalletID, amt)
	}
}

func (s *Store) txIndex(id string) int {
	for i, r := range s.txs {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) CreateTransaction(_ context.Context, in api.TransactionInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.transactionFromInput(in)
	if err != nil {
		return err
	}
	t.ID = s.id("T")
	s.apply(t, 1)
	s.txs = append(s.txs, txRecord{Transaction: t, seq: s.nextID})
	return nil
}

func (s *Store) UpdateTransaction(_ context.Context, id string, in api.TransactionInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.txIndex(id)
	if i < 0 {
		return notFound()
	}
	t, err := s.transactionFromInput(in)
	if err != nil {
		return err
	}
	s.apply(s.txs[i].Transaction, -1)
	t.ID = id
	s.apply(t, 1)
	s.txs[i].Transaction = t
	return nil
}

// DeleteTransaction refunds the wallets the transaction touched.
func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.txIndex(id)
	if i < 0 {
		return notFound()
	}
	s.apply(s.txs[i].Transaction, -1)
	s.txs = append(s.txs[:i], s.txs[i+1:]...)
	return nil
}
