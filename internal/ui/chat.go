package ui

import (
	"errors"
	"html/template"
	"strings"

	"chitieu/internal/api"
	"chitieu/internal/core"
)

const (
	ChatGreeting      = "Xin chào! Tôi là trợ lý tài chính. Bạn muốn biết gì về chi tiêu của mình?"
	ChatThinking      = "Đang suy nghĩ..."
	ChatNoReply       = "Xin lỗi, tôi không nhận được phản hồi."
	ChatConnectionErr = "Lỗi kết nối server. Vui lòng thử lại sau."
)

// Bubble is one message in the chat window.
type Bubble struct {
	ID      string
	Role    core.ChatRole
	Content string
	Pending bool
}

// CSSClass is the sender class used by the stylesheet.
func (b Bubble) CSSClass() string {
	if b.Role == core.RoleUser {
		return "user"
	}
	return "ai"
}

// HTML escapes the content and maps newlines to line breaks.
func (b Bubble) HTML() template.HTML {
	esc := template.HTMLEscapeString(b.Content)
	return template.HTML(strings.ReplaceAll(esc, "\n", "<br>"))
}

// Transcript is the chat state of one view. Greeting stays until history
// replaces it.
type Transcript struct {
	Greeting      bool
	HistoryLoaded bool
	Bubbles       []Bubble
	// Questions maps a pending placeholder to the message it answers.
	Questions map[string]string
}

func NewTranscript() Transcript {
	return Transcript{Greeting: true}
}

func (t Transcript) clone() Transcript {
	t.Bubbles = append([]Bubble(nil), t.Bubbles...)
	q := make(map[string]string, len(t.Questions))
	for k, v := range t.Questions {
		q[k] = v
	}
	t.Questions = q
	return t
}

// Send appends the user's bubble and a thinking placeholder with id
// placeholderID. Blank messages are ignored and report false.
func (t Transcript) Send(message, placeholderID string) (Transcript, Bubble, Bubble, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return t, Bubble{}, Bubble{}, false
	}
	t = t.clone()
	user := Bubble{Role: core.RoleUser, Content: message}
	wait := Bubble{ID: placeholderID, Role: core.RoleAssistant, Content: ChatThinking, Pending: true}
	t.Bubbles = append(t.Bubbles, user, wait)
	t.Questions[placeholderID] = message
	return t, user, wait, true
}

// Question returns the message a pending placeholder is waiting on.
func (t Transcript) Question(placeholderID string) (string, bool) {
	q, ok := t.Questions[placeholderID]
	return q, ok
}

// ReplyBubble turns a chat outcome into the assistant's bubble. A backend
// that answered without a reply counts as no reply; anything else that
// failed is a connection problem.
func ReplyBubble(reply string, err error) Bubble {
	var se *api.StatusError
	switch {
	case err == nil && reply != "":
		return Bubble{Role: core.RoleAssistant, Content: reply}
	case err == nil, errors.As(err, &se):
		return Bubble{Role: core.RoleAssistant, Content: ChatNoReply}
	default:
		return Bubble{Role: core.RoleAssistant, Content: ChatConnectionErr}
	}
}

// Resolve replaces the placeholder with the outcome. The user's bubble is
// left untouched whatever the outcome.
func (t Transcript) Resolve(placeholderID string, reply Bubble) Transcript {
	t = t.clone()
	delete(t.Questions, placeholderID)
	for i, b := range t.Bubbles {
		if b.ID == placeholderID && b.Pending {
			reply.ID = placeholderID
			t.Bubbles[i] = reply
			return t
		}
	}
	return t
}

// ReplayHistory loads prior messages once per view. A non-empty history
// clears the greeting; it is placed before anything sent meanwhile.
func (t Transcript) ReplayHistory(msgs []core.ChatMessage) Transcript {
	if t.HistoryLoaded {
		return t
	}
	t = t.clone()
	t.HistoryLoaded = true
	if len(msgs) == 0 {
		return t
	}
	t.Greeting = false
	replayed := make([]Bubble, 0, len(msgs)+len(t.Bubbles))
	for _, m := range msgs {
		replayed = append(replayed, Bubble{Role: m.Role, Content: m.Content})
	}
	t.Bubbles = append(replayed, t.Bubbles...)
	return t
}
