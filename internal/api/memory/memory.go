// Package memory is an in-process implementation of the finance backend
// used for local development and tests. It applies the same balance,
// budget and report rules as the REST backend.
package memory

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

type (
	txRecord struct {
		core.Transaction
		seq int
	}

	budgetRecord struct {
		ID          string
		Name        string
		Amount      decimal.Decimal
		StartDate   core.ISODate
		EndDate     core.ISODate
		CategoryIDs []string
	}
)

// Store holds one user's data.
type Store struct {
	mu      sync.Mutex
	now     func() time.Time
	nextID  int
	wallets []core.Wallet
	cats    []core.Category
	txs     []txRecord
	budgets []budgetRecord
	chat    []core.ChatMessage
}

var _ api.Backend = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for dates and budget deadlines.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewSeeded returns a store with a starter set of wallets and categories.
func NewSeeded(opts ...Option) *Store {
	s := New(opts...)
	s.wallets = []core.Wallet{
		{ID: s.id("W"), Name: "Tiền mặt", Type: "Tiền mặt", Balance: decimal.NewFromInt(2_000_000)},
		{ID: s.id("W"), Name: "Vietcombank", Type: "Ngân hàng", Balance: decimal.NewFromInt(15_000_000)},
	}
	for _, c := range []struct {
		name string
		kind core.CategoryKind
	}{
		{"Ăn uống", core.CategoryExpense},
		{"Di chuyển", core.CategoryExpense},
		{"Mua sắm", core.CategoryExpense},
		{"Hóa đơn", core.CategoryExpense},
		{"Lương", core.CategoryIncome},
		{"Thưởng", core.CategoryIncome},
	} {
		s.cats = append(s.cats, core.Category{ID: s.id("C"), Name: c.name, Kind: c.kind})
	}
	return s
}

func (s *Store) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s%d", prefix, s.nextID)
}

func (s *Store) today() core.ISODate { return core.NewISODate(s.now()) }

func badRequest(msg string) error {
	return &api.StatusError{Code: http.StatusBadRequest, Message: msg}
}

func notFound() error {
	return &api.StatusError{Code: http.StatusNotFound, Message: "Không tìm thấy"}
}

func (s *Store) walletIndex(id string) int {
	for i, w := range s.wallets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) categoryIndex(id string) int {
	for i, c := range s.cats {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) categoryName(id string) string {
	if i := s.categoryIndex(id); i >= 0 {
		return s.cats[i].Name
	}
	return ""
}

func (s *Store) walletName(id string) string {
	if i := s.walletIndex(id); i >= 0 {
		return s.wallets[i].Name
	}
	return ""
}

func (s *Store) ListWallets(context.Context) ([]core.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Wallet(nil), s.wallets...), nil
}

func parseBalance(raw string) (decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, badRequest("Số dư không hợp lệ")
	}
	return d, nil
}

func (s *Store) CreateWallet(_ context.Context, in api.WalletInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return badRequest("Tên ví không được để trống")
	}
	bal, err := parseBalance(in.Balance)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wallets = append(s.wallets, core.Wallet{ID: s.id("W"), Name: in.Name, Type: in.Type, Balance: bal})
	return nil
}

func (s *Store) UpdateWallet(_ context.Context, id string, in api.WalletInput) error {
	bal, err := parseBalance(in.Balance)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.walletIndex(id)
	if i < 0 {
		return notFound()
	}
	s.wallets[i] = core.Wallet{ID: id, Name: in.Name, Type: in.Type, Balance: bal}
	return nil
}

func (s *Store) DeleteWallet(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.walletIndex(id)
	if i < 0 {
		return notFound()
	}
	s.wallets = append(s.wallets[:i], s.wallets[i+1:]...)
	return nil
}

func (s *Store) ListCategories(context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.cats...), nil
}

func categoryFromInput(in api.CategoryInput) (core.Category, error) {
	if strings.TrimSpace(in.Name) == "" {
		return core.Category{}, badRequest("Tên danh mục không được để trống")
	}
	kind, err := core.ParseCategoryKind(in.Type)
	if err != nil {
		return core.Category{}, badRequest("Loại danh mục không hợp lệ")
	}
	return core.Category{Name: in.Name, Kind: kind}, nil
}

func (s *Store) CreateCategory(_ context.Context, in api.CategoryInput) error {
	c, err := categoryFromInput(in)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id("C")
	s.cats = append(s.cats, c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, id string, in api.CategoryInput) error {
	c, err := categoryFromInput(in)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return notFound()
	}
	c.ID = id
	s.cats[i] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.categoryIndex(id)
	if i < 0 {
		return notFound()
	}
	s.cats = append(s.cats[:i], s.cats[i+1:]...)
	return nil
}

// sortedDesc orders newest first by date, then by creation.
func sortedDesc(in []txRecord) []txRecord {
	out := append([]txRecord(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].seq > out[j].seq
	})
	return out
}
