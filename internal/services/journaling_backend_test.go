package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/amqp"
	"chitieu/internal/api"
	"chitieu/internal/api/memory"
	"chitieu/internal/log"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.MutationEvent
	err    error
}

func (p *recordingPublisher) PublishMutation(_ context.Context, msg *amqp.MutationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return p.err
}

func TestJournalingBackendPublishesAfterSuccess(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	b := NewJournalingBackend(memory.NewSeeded(), pub, log.Discard())

	require.NoError(t, b.CreateTransaction(ctx, api.TransactionInput{
		Type: "expense", Amount: "50000", Description: "Phở", SourceWalletID: "W1", CategoryID: "C3",
	}))
	require.NoError(t, b.UpdateWallet(ctx, "W2", api.WalletInput{Name: "VCB", Balance: "1"}))

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.ResourceTransaction, pub.events[0].Resource)
	assert.Equal(t, amqp.OpCreate, pub.events[0].Operation)
	assert.Equal(t, "Thêm giao dịch expense 50000 (Phở)", pub.events[0].Summary)
	assert.Equal(t, "W2", pub.events[1].ResourceID)
	assert.Equal(t, amqp.OpUpdate, pub.events[1].Operation)
}

func TestJournalingBackendSkipsFailedWrites(t *testing.T) {
	pub := &recordingPublisher{}
	b := NewJournalingBackend(memory.NewSeeded(), pub, log.Discard())

	err := b.DeleteBudget(context.Background(), "missing")
	require.Error(t, err)
	assert.Empty(t, pub.events)
}

func TestJournalingBackendIgnoresPublishErrors(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("circuit breaker is open")}
	b := NewJournalingBackend(memory.NewSeeded(), pub, log.Discard())

	assert.NoError(t, b.CreateCategory(context.Background(), api.CategoryInput{Name: "Du lịch", Type: "expense"}))
	assert.Len(t, pub.events, 1)
}

func TestJournalingBackendWithoutPublisher(t *testing.T) {
	b := NewJournalingBackend(memory.NewSeeded(), nil, log.Discard())
	assert.NoError(t, b.DeleteWallet(context.Background(), "W1"))
}
