package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TxKind is the type of a transaction as the UI names it.
type TxKind string

const (
	KindExpense  TxKind = "expense"
	KindIncome   TxKind = "income"
	KindTransfer TxKind = "transfer"
)

// CategoryKind partitions categories into income and expense.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

type (
	Wallet struct {
		ID      string
		Name    string
		Type    string
		Balance decimal.Decimal
	}

	Category struct {
		ID   string
		Name string
		Kind CategoryKind
	}

	// Transaction is the read model returned by the backend list endpoint.
	// WalletID is the paying wallet for expenses and transfers and the
	// receiving wallet for income; DestWalletID is only set on transfers.
	Transaction struct {
		ID             string
		Kind           TxKind
		Amount         decimal.Decimal
		Description    string
		Date           ISODate
		CategoryID     string
		CategoryName   string
		WalletID       string
		WalletName     string
		DestWalletID   string
		DestWalletName string
	}

	BudgetCategory struct {
		ID   string
		Name string
	}

	Budget struct {
		ID         string
		Name       string
		Amount     decimal.Decimal
		Spent      decimal.Decimal
		Progress   decimal.Decimal
		Exceeded   bool
		StartDate  ISODate
		EndDate    ISODate
		DaysLeft   int
		Categories []BudgetCategory
	}

	ChatMessage struct {
		Role    ChatRole
		Content string
	}
)

var (
	ErrUnknownKind        = errors.New("unknown transaction type")
	ErrUnknownCategory    = errors.New("unknown category type")
	ErrNoCategorySelected = errors.New("at least one category must be selected")
)

// The backend stores Vietnamese short codes for kinds.
var (
	txWire = map[TxKind]string{
		KindExpense:  "chi",
		KindIncome:   "thu",
		KindTransfer: "chuyen",
	}
	catWire = map[CategoryKind]string{
		CategoryExpense: "chi",
		CategoryIncome:  "thu",
	}
)

// ParseTxKind accepts both the UI names and the backend codes.
func ParseTxKind(s string) (TxKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, w := range txWire {
		if s == string(k) || s == w {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k TxKind) Valid() bool {
	_, ok := txWire[k]
	return ok
}

// CategoryKind returns the category kind a transaction of this type is
// classified with. Transfers carry no category.
func (k TxKind) CategoryKind() (CategoryKind, bool) {
	switch k {
	case KindExpense:
		return CategoryExpense, true
	case KindIncome:
		return CategoryIncome, true
	default:
		return "", false
	}
}

// ParseCategoryKind accepts both the UI names and the backend codes.
func ParseCategoryKind(s string) (CategoryKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, w := range catWire {
		if s == string(k) || s == w {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Wire returns the code the backend stores for the kind.
func (k CategoryKind) Wire() string { return catWire[k] }

// TxKind is the tab that lists categories of this kind.
func (k CategoryKind) TxKind() TxKind {
	if k == CategoryIncome {
		return KindIncome
	}
	return KindExpense
}

// CategoriesOfKind keeps the categories of the given kind in input order.
func CategoriesOfKind(all []Category, kind CategoryKind) []Category {
	out := make([]Category, 0, len(all))
	for _, c := range all {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func FindWallet(all []Wallet, id string) (Wallet, bool) {
	for _, w := range all {
		if w.ID == id {
			return w, true
		}
	}
	return Wallet{}, false
}

func FindCategory(all []Category, id string) (Category, bool) {
	for _, c := range all {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func FindTransaction(all []Transaction, id string) (Transaction, bool) {
	for _, t := range all {
		if t.ID == id {
			return t, true
		}
	}
	return Transaction{}, false
}
