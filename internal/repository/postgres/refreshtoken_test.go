package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jyoon-dev/skyticket/internal/apperrors"
	"github.com/jyoon-dev/skyticket/internal/models"
	"github.com/jyoon-dev/skyticket/internal/testutil"
)

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// The refresh_tokens table has a FK to members, so every subtest needs one
	createMember := func(t *testing.T, tx pgx.Tx, loginID string) models.Member {
		t.Helper()
		member, err := (&MemberRepo{DB: tx}).CreateMember(t.Context(), loginID, "hashed-password")
		require.NoError(t, err)
		return member
	}

	t.Run("upsert creates record", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			member := createMember(t, tx, "alice")

			record, err := repo.Upsert(t.Context(), member.ID, "refresh-token-1")

			require.NoError(t, err)
			assert.Equal(t, member.ID, record.MemberID)
			assert.Equal(t, "refresh-token-1", record.Token)
			assert.WithinDuration(t, time.Now(), record.CreatedAt, 5*time.Second)
		})
	})

	t.Run("upsert replaces record in place", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			member := createMember(t, tx, "alice")

			first, err := repo.Upsert(t.Context(), member.ID, "refresh-token-1")
			require.NoError(t, err)

			second, err := repo.Upsert(t.Context(), member.ID, "refresh-token-2")
			require.NoError(t, err)

			assert.Equal(t, "refresh-token-2", second.Token)
			assert.WithinDuration(t, first.CreatedAt, second.CreatedAt, 0, "created at must survive the replace")

			// Only the newest token remains visible
			got, err := repo.FindByMember(t.Context(), member.ID)
			require.NoError(t, err)
			assert.Equal(t, "refresh-token-2", got.Token)

			// And it is really a single row, not an append
			var count int
			err = tx.QueryRow(t.Context(), "SELECT count(*) FROM refresh_tokens WHERE member_id = $1", member.ID).Scan(&count)
			require.NoError(t, err)
			assert.Equal(t, 1, count, "member must never have more than one record")
		})
	})

	t.Run("find absent member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			_, err := repo.FindByMember(t.Context(), uuid.New())

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("delete record", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			member := createMember(t, tx, "alice")

			_, err := repo.Upsert(t.Context(), member.ID, "refresh-token-1")
			require.NoError(t, err)

			err = repo.Delete(t.Context(), member.ID)
			require.NoError(t, err)

			_, err = repo.FindByMember(t.Context(), member.ID)
			require.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("delete absent record", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}

			err := repo.Delete(t.Context(), uuid.New())

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
		})
	})

	t.Run("records independent per member", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := RefreshTokenRepo{DB: tx}
			alice := createMember(t, tx, "alice")
			bob := createMember(t, tx, "bob")

			_, err := repo.Upsert(t.Context(), alice.ID, "alice-token")
			require.NoError(t, err)
			_, err = repo.Upsert(t.Context(), bob.ID, "bob-token")
			require.NoError(t, err)

			require.NoError(t, repo.Delete(t.Context(), alice.ID))

			got, err := repo.FindByMember(t.Context(), bob.ID)
			require.NoError(t, err)
			assert.Equal(t, "bob-token", got.Token, "deleting alice's record must not touch bob's")
		})
	})
}
