package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"chitieu/internal/log"
	"chitieu/internal/ui"
)

type chatSentData struct {
	User ui.Bubble
	Wait ui.Bubble
}

type chatHistoryData struct {
	Bubbles []ui.Bubble
}

// handleChatHistory replays earlier messages ahead of the current ones. It
// runs once per transcript; failures leave the greeting in place.
func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	t, ok := s.chatViews.Get(id)
	if !ok {
		s.expired(w, r)
		return
	}
	if t.HistoryLoaded {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	msgs, err := s.backend.ChatHistory(r.Context())
	if err != nil {
		s.logger.DebugContext(r.Context(), "Chat history unavailable",
			log.FieldError, err)
		s.chatViews.modify(id, func(t *ui.Transcript) { t.HistoryLoaded = true })
		w.WriteHeader(http.StatusNoContent)
		return
	}

	replayed := false
	t, _ = s.chatViews.modify(id, func(t *ui.Transcript) {
		replayed = !t.HistoryLoaded && len(msgs) > 0
		*t = t.ReplayHistory(msgs)
	})
	if !replayed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, "chat_history", chatHistoryData{Bubbles: t.Bubbles[:len(msgs)]})
}

// handleSendChat shows the user's message at once together with a
// placeholder that fetches the reply on its own.
func (s *Server) handleSendChat(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	p, err := readFields(w, r)
	if err != nil {
		BadRequestError("Yêu cầu không hợp lệ").Write(w)
		return
	}
	message := p.Get("message")

	var (
		sent       bool
		user, wait ui.Bubble
	)
	if _, ok := s.chatViews.modify(id, func(t *ui.Transcript) {
		*t, user, wait, sent = t.Send(message, "msg-"+uuid.NewString())
	}); !ok {
		s.expired(w, r)
		return
	}
	if !sent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.render(w, r, "chat_sent", chatSentData{User: user, Wait: wait})
}

// handleChatReply asks the assistant and replaces the placeholder with the
// answer. The user's bubble is never touched, whatever happens here.
func (s *Server) handleChatReply(w http.ResponseWriter, r *http.Request) {
	id := viewID(r)
	placeholder := chi.URLParam(r, "id")
	t, ok := s.chatViews.Get(id)
	if !ok {
		s.expired(w, r)
		return
	}
	question, ok := t.Question(placeholder)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	reply, err := s.backend.Chat(r.Context(), question)
	if err != nil {
		s.backendFailed(r.Context(), "Chat request failed", err)
	}
	bubble := ui.ReplyBubble(reply, err)
	bubble.ID = placeholder
	s.chatViews.modify(id, func(t *ui.Transcript) { *t = t.Resolve(placeholder, bubble) })

	s.render(w, r, "chat_bubble", bubble)
}
