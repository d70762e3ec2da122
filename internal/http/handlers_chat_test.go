package http

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/api"
	"chitieu/internal/ui"
)

var placeholderPattern = regexp.MustCompile(`hx-get="/chat/replies/(msg-[0-9a-f-]+)"`)

func sendChat(t *testing.T, srv *Server, chat, message string) string {
	t.Helper()
	rr := send(srv, http.MethodPost, "/chat/messages", chat, url.Values{"message": {message}})
	require.Equal(t, http.StatusOK, rr.Code)
	m := placeholderPattern.FindStringSubmatch(rr.Body.String())
	require.Len(t, m, 2, rr.Body.String())
	return m[1]
}

func TestChatRoundTrip(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	_, chat := openPage(t, srv, "/budgets")

	rr := send(srv, http.MethodPost, "/chat/messages", chat, url.Values{"message": {"  hi  "}})
	body := rr.Body.String()
	assert.Contains(t, body, `class="message user">hi</div>`)
	assert.Contains(t, body, "pending")
	assert.Contains(t, body, ui.ChatThinking)
	assert.Zero(t, b.count("Chat"), "the reply is fetched separately")

	id := placeholderPattern.FindStringSubmatch(body)[1]
	rr = send(srv, http.MethodGet, "/chat/replies/"+id, chat, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `id="`+id+`"`)
	assert.Contains(t, rr.Body.String(), "Bạn hỏi: hi<br>")
	assert.NotContains(t, rr.Body.String(), "hx-get")

	rr = send(srv, http.MethodGet, "/chat/replies/"+id, chat, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code, "a resolved placeholder is not asked twice")
	assert.Equal(t, 1, b.count("Chat"))
}

func TestChatBlankMessage(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	_, chat := openPage(t, srv, "/transactions")
	rr := send(srv, http.MethodPost, "/chat/messages", chat, url.Values{"message": {"   "}})
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestChatReplyErrors(t *testing.T) {
	b := newStubBackend()
	srv := newTestServer(t, b)
	_, chat := openPage(t, srv, "/transactions")

	b.failWith("Chat", api.ErrTransport)
	id := sendChat(t, srv, chat, "số dư?")
	rr := send(srv, http.MethodGet, "/chat/replies/"+id, chat, nil)
	assert.Contains(t, rr.Body.String(), ui.ChatConnectionErr)

	b.failWith("Chat", &api.StatusError{Code: http.StatusInternalServerError})
	id = sendChat(t, srv, chat, "số dư?")
	rr = send(srv, http.MethodGet, "/chat/replies/"+id, chat, nil)
	assert.Contains(t, rr.Body.String(), ui.ChatNoReply)
}

func TestChatHistory(t *testing.T) {
	b := newStubBackend()
	_, err := b.Store.Chat(context.Background(), "hôm qua")
	require.NoError(t, err)
	srv := newTestServer(t, b)
	_, chat := openPage(t, srv, "/transactions")

	rr := send(srv, http.MethodGet, "/chat/history", chat, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `<div id="chat-greeting" hx-swap-oob="delete"></div>`)
	assert.Contains(t, body, `class="message user">hôm qua</div>`)
	assert.Contains(t, body, "Bạn hỏi: hôm qua")

	rr = send(srv, http.MethodGet, "/chat/history", chat, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, b.count("ChatHistory"))
}

func TestChatHistoryFailureKeepsGreeting(t *testing.T) {
	b := newStubBackend()
	b.failWith("ChatHistory", api.ErrTransport)
	srv := newTestServer(t, b)
	_, chat := openPage(t, srv, "/transactions")

	rr := send(srv, http.MethodGet, "/chat/history", chat, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = send(srv, http.MethodGet, "/chat/history", chat, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, b.count("ChatHistory"))
}

func TestChatEmptyHistory(t *testing.T) {
	srv := newTestServer(t, newStubBackend())
	_, chat := openPage(t, srv, "/transactions")
	rr := send(srv, http.MethodGet, "/chat/history", chat, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
