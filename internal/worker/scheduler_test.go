package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chitieu/internal/storage"
)

func TestSchedulerRegistersJobs(t *testing.T) {
	ctx := context.Background()

	w := NewJournalWorker(newRepo(t), nil, 10, quietLogger())
	s := NewScheduler(w, DefaultSchedulerConfig())
	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 1, s.Jobs(), "no mirror, prune only")
	require.NoError(t, s.Stop(ctx))

	w = NewJournalWorker(newRepo(t), &fakeMirror{}, 10, quietLogger())
	s = NewScheduler(w, DefaultSchedulerConfig())
	require.NoError(t, s.Start(ctx))
	assert.Equal(t, 2, s.Jobs())
	assert.Error(t, s.Start(ctx), "already running")
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx), "stopping twice is harmless")
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	w := NewJournalWorker(newRepo(t), nil, 10, quietLogger())
	cfg := DefaultSchedulerConfig()
	cfg.PruneSchedule = "every tuesday"
	err := NewScheduler(w, cfg).Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid prune schedule")
}

func TestSchedulerJobs(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	mirror := &fakeMirror{}
	w := NewJournalWorker(repo, mirror, 10, quietLogger())
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	_, err := repo.Record(ctx, storage.ActivityEntry{Resource: "wallet", Operation: "create", OccurredAt: now.Add(-200 * 24 * time.Hour)})
	require.NoError(t, err)
	_, err = repo.Record(ctx, storage.ActivityEntry{Resource: "wallet", Operation: "update", OccurredAt: now})
	require.NoError(t, err)

	s := NewScheduler(w, DefaultSchedulerConfig())
	s.runMirror(ctx)
	assert.Equal(t, 2, mirror.count())

	s.runPrune(ctx)
	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "update", got[0].Operation)
}
