package sheets

import (
	"context"

	"chitieu/internal/storage"
)

// JournalWriter copies journaled activity to an external spreadsheet.
type JournalWriter interface {
	AppendActivity(ctx context.Context, e storage.ActivityEntry) (rowRef string, err error)
}
