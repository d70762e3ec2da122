package memory

import (
	"context"
	"fmt"
	"strings"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

const historyLimit = 40

// keywords maps description words to category names for prediction.
var keywords = map[string][]string{
	"Ăn uống":   {"ăn", "cơm", "phở", "bún", "cafe", "cà phê", "trà sữa", "nhà hàng"},
	"Di chuyển": {"xăng", "grab", "taxi", "xe buýt", "gửi xe"},
	"Mua sắm":   {"mua", "quần áo", "giày", "shopee"},
	"Hóa đơn":   {"điện", "nước", "internet", "wifi"},
	"Lương":     {"lương"},
	"Thưởng":    {"thưởng"},
}

// PredictCategory suggests a category whose name or keywords occur in the
// description.
func (s *Store) PredictCategory(_ context.Context, description string) (api.Prediction, error) {
	text := strings.ToLower(strings.TrimSpace(description))
	if text == "" {
		return api.Prediction{Status: "error"}, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.cats {
		if strings.Contains(text, strings.ToLower(c.Name)) {
			return matched(c, 0.95), nil
		}
	}
	for _, c := range s.cats {
		for _, kw := range keywords[c.Name] {
			if strings.Contains(text, kw) {
				return matched(c, 0.8), nil
			}
		}
	}
	return api.Prediction{Status: "no_match"}, nil
}

func matched(c core.Category, confidence float64) api.Prediction {
	return api.Prediction{
		Status:       "success",
		CategoryID:   c.ID,
		CategoryName: c.Name,
		CategoryKind: c.Kind,
		Confidence:   confidence,
	}
}

// Chat answers with a wallet balance overview and records the exchange.
func (s *Store) Chat(_ context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "Bạn hỏi: %s\n", message)
	b.WriteString("Số dư các ví:")
	for _, w := range s.wallets {
		fmt.Fprintf(&b, "\n- %s: %s", w.Name, core.FormatDong(w.Balance))
	}
	reply := b.String()

	s.chat = append(s.chat,
		core.ChatMessage{Role: core.RoleUser, Content: message},
		core.ChatMessage{Role: core.RoleAssistant, Content: reply},
	)
	if len(s.chat) > historyLimit {
		s.chat = s.chat[len(s.chat)-historyLimit:]
	}
	return reply, nil
}

func (s *Store) ChatHistory(context.Context) ([]core.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ChatMessage(nil), s.chat...), nil
}
