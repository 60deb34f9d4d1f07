package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/models"
)

type MemberRepo struct {
	DB DBTX
}

const createMember = `-- name: CreateMember
INSERT INTO members (id, login_id, password_hash)
VALUES ($1, $2, $3)
RETURNING id, created_at, login_id, password_hash
`

func (r *MemberRepo) CreateMember(ctx context.Context, loginID string, hashedPassword string) (models.Member, error) {
	rows, _ := r.DB.Query(ctx, createMember, uuid.New(), loginID, hashedPassword)
	member, err := pgx.CollectOneRow(rows, rowToMember)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return member, apperrors.ErrMemberAlreadyExists
		}

		return member, fmt.Errorf("db error: %w", err)
	}

	return member, nil
}

const getMemberByID = `-- name: GetMemberByID
SELECT id, created_at, login_id, password_hash FROM members
WHERE id = $1
`

func (r *MemberRepo) GetMemberByID(ctx context.Context, memberID uuid.UUID) (models.Member, error) {
	rows, _ := r.DB.Query(ctx, getMemberByID, memberID)
	member, err := pgx.CollectOneRow(rows, rowToMember)

	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, pgx.ErrNoRows):
		return member, apperrors.ErrMemberNotFound
	default:
		return member, fmt.Errorf("db error: %w", err)
	}
}

const getMemberByLoginID = `-- name: GetMemberByLoginID
SELECT id, created_at, login_id, password_hash FROM members
WHERE login_id = $1
`

func (r *MemberRepo) GetMemberByLoginID(ctx context.Context, loginID string) (models.Member, error) {
	rows, _ := r.DB.Query(ctx, getMemberByLoginID, loginID)
	member, err := pgx.CollectOneRow(rows, rowToMember)

	switch {
	case err == nil:
		return member, nil
	case errors.Is(err, pgx.ErrNoRows):
		return member, apperrors.ErrMemberNotFound
	default:
		return member, fmt.Errorf("db error: %w", err)
	}
}

func rowToMember(row pgx.CollectableRow) (models.Member, error) {
	var m models.Member
	err := row.Scan(&m.ID, &m.CreatedAt, &m.LoginID, &m.HashedPassword)
	return m, err
}
