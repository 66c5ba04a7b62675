package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/imgdrop/internal/client/models"
	"github.com/dmitrijs2005/imgdrop/internal/common"
	"github.com/dmitrijs2005/imgdrop/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, u *models.UploadRecord) error {

	query := `INSERT INTO uploads (attempt_id, file_name, size, mime_type, object_key, location, status, error, created_at)
			values (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, u.AttemptID, u.FileName, u.Size, u.MimeType,
		u.ObjectKey, u.Location, u.Status, u.Error, u.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}

	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*models.UploadRecord, error) {

	query := `select attempt_id, file_name, size, mime_type, object_key, location, status, error, created_at
			from uploads order by created_at desc, rowid desc`
	args := []any{}
	if limit > 0 {
		query += ` limit ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error selecting uploads: %w", err)
	}
	defer rows.Close()

	var result []*models.UploadRecord

	for rows.Next() {
		item := &models.UploadRecord{}
		if err := scan(rows, item); err != nil {
			return nil, err
		}
		result = append(result, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *SQLiteRepository) GetByAttemptID(ctx context.Context, id string) (*models.UploadRecord, error) {

	query := `select attempt_id, file_name, size, mime_type, object_key, location, status, error, created_at
			from uploads where attempt_id=?`
	row := r.db.QueryRowContext(ctx, query, id)

	item := &models.UploadRecord{}
	if err := scan(row, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error selecting upload: %w", err)
	}

	return item, nil
}

func (r *SQLiteRepository) Prune(ctx context.Context, keep int) (int64, error) {

	query := `delete from uploads where rowid not in
			(select rowid from uploads order by created_at desc, rowid desc limit ?)`

	res, err := r.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune uploads: %w", err)
	}

	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner, u *models.UploadRecord) error {
	return s.Scan(&u.AttemptID, &u.FileName, &u.Size, &u.MimeType, &u.ObjectKey,
		&u.Location, &u.Status, &u.Error, &u.CreatedAt)
}
