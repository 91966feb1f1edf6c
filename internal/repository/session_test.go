package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-advisor/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-advisor/internal/entity"
	"github.com/rocketscienceinc/tictactoe-advisor/testing/suite"
)

func newSession(id string) *entity.Session {
	return &entity.Session{
		ID:     id,
		Mode:   entity.ModeComputer,
		GameID: "game-" + id,
		Game: entity.GameState{
			Board:        entity.Board{entity.PlayerX, entity.PlayerX, entity.PlayerX, entity.PlayerO, entity.PlayerO},
			ActivePlayer: entity.PlayerX,
			Phase:        entity.PhaseWon,
			Winner:       entity.PlayerX,
			WinningLine:  &entity.WinningLine{Indices: [3]int{0, 1, 2}, Player: entity.PlayerX},
		},
		Statistics: entity.Statistics{XWins: 1, TotalGames: 1},
		UpdatedAt:  time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC),
	}
}

// exerciseRepository runs the shared contract against any SessionRepository.
func exerciseRepository(ctx context.Context, t *testing.T, repo SessionRepository) {
	t.Helper()

	t.Run("CreateOrUpdate then GetByID returns the same session", func(t *testing.T) {
		// Given: a stored session
		session := newSession("123")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: reading it back
		stored, err := repo.GetByID(ctx, session.ID)

		// Then: it matches the saved session
		require.NoError(t, err)
		assert.Equal(t, session, stored)
	})

	t.Run("CreateOrUpdate overwrites the session", func(t *testing.T) {
		session := newSession("456")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// When: the session is updated
		session.Loading = true
		session.Statistics.Draws = 3
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		// Then: the last write wins
		stored, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.True(t, stored.Loading)
		assert.Equal(t, 3, stored.Statistics.Draws)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		stored, err := repo.GetByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, stored)
	})

	t.Run("DeleteByID removes the session", func(t *testing.T) {
		session := newSession("789")
		require.NoError(t, repo.CreateOrUpdate(ctx, session))

		require.NoError(t, repo.DeleteByID(ctx, session.ID))

		_, err := repo.GetByID(ctx, session.ID)
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		err := repo.DeleteByID(ctx, "9999999")

		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
	})
}

func TestRedisSessionRepository(t *testing.T) {
	ctx, st := suite.New(t)

	exerciseRepository(ctx, t, NewSessionRepository(st.Storage, time.Hour))

	t.Run("Applies the TTL", func(t *testing.T) {
		repo := NewSessionRepository(st.Storage, time.Minute)
		require.NoError(t, repo.CreateOrUpdate(ctx, newSession("ttl")))

		ttl, err := st.Storage.TTL(ctx, sessionKeyPrefix+"ttl").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})
}

func TestMemorySessionRepository(t *testing.T) {
	ctx := context.Background()

	exerciseRepository(ctx, t, NewMemorySessionRepository())

	t.Run("Returned sessions are detached copies", func(t *testing.T) {
		// Given: a stored session
		repo := NewMemorySessionRepository()
		require.NoError(t, repo.CreateOrUpdate(ctx, newSession("copy")))

		// When: the caller mutates what it read
		stored, err := repo.GetByID(ctx, "copy")
		require.NoError(t, err)
		stored.Game.Board[8] = entity.PlayerO
		stored.Game.WinningLine.Player = entity.PlayerO

		// Then: the repository still holds the original
		again, err := repo.GetByID(ctx, "copy")
		require.NoError(t, err)
		assert.Equal(t, newSession("copy"), again)
	})
}
