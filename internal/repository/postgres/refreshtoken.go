package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const findByMember = `-- name: FindByMember
SELECT member_id, token, created_at, updated_at
FROM refresh_tokens
WHERE member_id = $1
`

func (r *RefreshTokenRepo) FindByMember(ctx context.Context, memberID uuid.UUID) (models.RefreshRecord, error) {
	rows, _ := r.DB.Query(ctx, findByMember, memberID)
	record, err := pgx.CollectOneRow(rows, rowToRecord)

	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, pgx.ErrNoRows):
		return record, fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	default:
		return record, fmt.Errorf("db error: %w", err)
	}
}

const upsertToken = `-- name: Upsert
INSERT INTO refresh_tokens (member_id, token)
VALUES ($1, $2)
ON CONFLICT (member_id) DO UPDATE
SET token = EXCLUDED.token, updated_at = now()
RETURNING member_id, token, created_at, updated_at
`

// Upsert replaces any existing record of the member with the new token.
// member_id is the table primary key, so concurrent logins for the same member
// settle last-writer-wins on a single row.
func (r *RefreshTokenRepo) Upsert(ctx context.Context, memberID uuid.UUID, token string) (models.RefreshRecord, error) {
	rows, _ := r.DB.Query(ctx, upsertToken, memberID, token)
	record, err := pgx.CollectOneRow(rows, rowToRecord)
	if err != nil {
		return record, fmt.Errorf("db error: %w", err)
	}

	return record, nil
}

const deleteToken = `-- name: Delete
DELETE FROM refresh_tokens
WHERE member_id = $1
`

func (r *RefreshTokenRepo) Delete(ctx context.Context, memberID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deleteToken, memberID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenNotFound)
	}

	return nil
}

func rowToRecord(row pgx.CollectableRow) (models.RefreshRecord, error) {
	var rec models.RefreshRecord
	err := row.Scan(&rec.MemberID, &rec.Token, &rec.CreatedAt, &rec.UpdatedAt)
	return rec, err
}
