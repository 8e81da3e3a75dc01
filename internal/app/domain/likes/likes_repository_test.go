package likes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockRepo(t *testing.T) (*RepositoryImpl, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock, zap.NewNop()), mock
}

func TestAddLikeIsIdempotentInsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	mapID, userID := uuid.New(), uuid.New()

	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs(mapID, userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.AddLike(context.Background(), mapID, userID))

	// Second like hits the conflict clause and inserts nothing.
	mock.ExpectExec(`INSERT INTO likes`).
		WithArgs(mapID, userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	require.NoError(t, repo.AddLike(context.Background(), mapID, userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveLikeAbsentRowIsNoOp(t *testing.T) {
	repo, mock := newMockRepo(t)
	mapID, userID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM likes`).
		WithArgs(mapID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.RemoveLike(context.Background(), mapID, userID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsLiked(t *testing.T) {
	repo, mock := newMockRepo(t)
	mapID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(mapID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	liked, err := repo.IsLiked(context.Background(), mapID, userID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountLikesCountsRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	mapID := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM likes`).
		WithArgs(mapID).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(12))

	count, err := repo.CountLikes(context.Background(), mapID)
	require.NoError(t, err)
	assert.Equal(t, 12, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
