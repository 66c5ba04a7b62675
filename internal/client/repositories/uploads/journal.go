package uploads

import (
	"context"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/dbx"
)

// Journal records attempts and keeps the history bounded. Each Insert and the
// prune that follows it share one transaction.
type Journal struct {
	db   dbx.TxBeginner
	keep int
}

// NewJournal returns a Journal writing through db. keep <= 0 disables pruning.
func NewJournal(db dbx.TxBeginner, keep int) *Journal {
	return &Journal{db: db, keep: keep}
}

func (j *Journal) Insert(ctx context.Context, r *models.UploadRecord) error {
	return dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)
		if err := repo.Insert(ctx, r); err != nil {
			return err
		}
		if j.keep <= 0 {
			return nil
		}
		_, err := repo.Prune(ctx, j.keep)
		return err
	})
}
