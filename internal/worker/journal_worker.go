package worker

import (
	"context"
	"fmt"
	"time"

	"chitieu/internal/amqp"
	"chitieu/internal/log"
	"chitieu/internal/sheets"
	"chitieu/internal/storage"
)

// Journal is the activity store the worker writes to.
type Journal interface {
	Record(ctx context.Context, e storage.ActivityEntry) (int64, error)
	Unmirrored(ctx context.Context, limit int) ([]storage.ActivityEntry, error)
	MarkMirrored(ctx context.Context, id int64) error
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// JournalWorker records mutation events and copies them to the
// spreadsheet mirror when one is configured.
type JournalWorker struct {
	journal   Journal
	mirror    sheets.JournalWriter
	batchSize int
	now       func() time.Time
	logger    *log.Logger
}

// NewJournalWorker builds a worker. mirror may be nil.
func NewJournalWorker(journal Journal, mirror sheets.JournalWriter, batchSize int, logger *log.Logger) *JournalWorker {
	if batchSize < 1 {
		batchSize = 50
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &JournalWorker{
		journal:   journal,
		mirror:    mirror,
		batchSize: batchSize,
		now:       time.Now,
		logger:    logger.WithComponent(log.ComponentWorker),
	}
}

// Mirroring reports whether a spreadsheet mirror is configured.
func (w *JournalWorker) Mirroring() bool { return w.mirror != nil }

// HandleMutation records one event. Only a failed write to the journal is
// returned, so the broker redelivers; a failed mirror is left for
// MirrorPending.
func (w *JournalWorker) HandleMutation(ctx context.Context, msg *amqp.MutationEvent) error {
	entry := storage.ActivityEntry{
		Resource:   string(msg.Resource),
		Operation:  string(msg.Operation),
		ResourceID: msg.ResourceID,
		Summary:    msg.Summary,
		OccurredAt: msg.Timestamp,
	}
	id, err := w.journal.Record(ctx, entry)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	entry.ID = id

	w.logger.InfoContext(ctx, "Activity recorded",
		log.FieldOperation, log.OpRecord,
		log.FieldResource, entry.Resource,
		log.FieldResourceID, entry.ResourceID,
		log.FieldActivityID, id)

	if w.mirror != nil {
		if err := w.mirrorEntry(ctx, entry); err != nil {
			w.logger.WarnContext(ctx, "Mirror failed, will retry on next catch-up",
				log.FieldActivityID, id, log.FieldError, err)
		}
	}
	return nil
}

// MirrorPending copies entries the mirror has not seen yet, one batch at a
// time until none are left. It stops at the first entry that cannot be
// copied or marked, or when ctx ends, and returns how many were copied.
func (w *JournalWorker) MirrorPending(ctx context.Context) (int, error) {
	if w.mirror == nil {
		return 0, nil
	}

	copied := 0
	for {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		pending, err := w.journal.Unmirrored(ctx, w.batchSize)
		if err != nil {
			return copied, fmt.Errorf("get unmirrored activity: %w", err)
		}
		if len(pending) == 0 {
			break
		}
		for _, e := range pending {
			if err := w.mirrorEntry(ctx, e); err != nil {
				return copied, err
			}
			copied++
		}
		if len(pending) < w.batchSize {
			break
		}
	}

	if copied > 0 {
		w.logger.InfoContext(ctx, "Mirrored pending activity",
			log.FieldOperation, log.OpMirror, log.FieldCount, copied)
	}
	return copied, nil
}

func (w *JournalWorker) mirrorEntry(ctx context.Context, e storage.ActivityEntry) error {
	ref, err := w.mirror.AppendActivity(ctx, e)
	if err != nil {
		return fmt.Errorf("mirror activity %d: %w", e.ID, err)
	}
	if err := w.journal.MarkMirrored(ctx, e.ID); err != nil {
		// The row is in the sheet already; a later catch-up repeats it once.
		return fmt.Errorf("mark activity %d mirrored (sheet row %s): %w", e.ID, ref, err)
	}
	w.logger.DebugContext(ctx, "Activity mirrored", log.FieldActivityID, e.ID, log.FieldSheetRef, ref)
	return nil
}

// Prune drops entries older than retention.
func (w *JournalWorker) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := w.now().Add(-retention)
	n, err := w.journal.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	w.logger.InfoContext(ctx, "Pruned activity journal",
		log.FieldOperation, log.OpPrune,
		log.FieldCount, n,
		"cutoff", cutoff.Format(time.RFC3339))
	return n, nil
}
