// Package uploads persists the outcome of each upload attempt in the local
// SQLite database.
//
// Typical Usage
//
//	repo := uploads.NewSQLiteRepository(db)
//	_ = repo.Insert(ctx, record)
//	recent, _ := repo.List(ctx, 20)
package uploads
