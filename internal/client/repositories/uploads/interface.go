package uploads

import (
	"context"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
)

// Repository stores upload history records.
type Repository interface {
	// Insert stores a terminal attempt. Attempt IDs are unique.
	Insert(ctx context.Context, r *models.UploadRecord) error

	// List returns up to limit records, newest first. A limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*models.UploadRecord, error)

	// GetByAttemptID returns one record or common.ErrorNotFound.
	GetByAttemptID(ctx context.Context, id string) (*models.UploadRecord, error)

	// Prune deletes all but the newest keep records and reports how many
	// were removed.
	Prune(ctx context.Context, keep int) (int64, error)
}
