package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connectfour-backend/internal/apperror"
	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
	"github.com/rocketscienceinc/connectfour-backend/internal/repository"
)

type memPlayerRepo struct {
	players map[string]*entity.Player
}

func (that *memPlayerRepo) CreateOrUpdate(_ context.Context, player *entity.Player) error {
	that.players[player.ID] = player
	return nil
}

func (that *memPlayerRepo) GetByID(_ context.Context, id string) (*entity.Player, error) {
	player, ok := that.players[id]
	if !ok {
		return nil, repository.ErrPlayerNotFound
	}
	return player, nil
}

type memGameRepo struct {
	games map[string]*entity.Game
}

func (that *memGameRepo) CreateOrUpdate(_ context.Context, game *entity.Game) error {
	that.games[game.ID] = game
	return nil
}

func (that *memGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	game, ok := that.games[id]
	if !ok {
		return nil, repository.ErrGameNotFound
	}
	return game, nil
}

func (that *memGameRepo) GetWaitingPublicGame(_ context.Context) (*entity.Game, error) {
	for _, game := range that.games {
		if game.IsPublic() && game.IsWaiting() {
			return game, nil
		}
	}
	return nil, repository.ErrGameNotFound
}

func (that *memGameRepo) DeleteByID(_ context.Context, id string) error {
	delete(that.games, id)
	return nil
}

type memHistoryRepo struct {
	results []*entity.GameResult
}

func (that *memHistoryRepo) Append(_ context.Context, result *entity.GameResult) error {
	that.results = append(that.results, result)
	return nil
}

func (that *memHistoryRepo) List(_ context.Context) ([]*entity.GameResult, error) {
	return that.results, nil
}

func (that *memHistoryRepo) Clear(_ context.Context) error {
	that.results = nil
	return nil
}

type gamePlayFixture struct {
	gamePlay GamePlayService
	players  PlayerService
	games    GameService
	history  *memHistoryRepo
}

func newGamePlayFixture() *gamePlayFixture {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	historyRepo := &memHistoryRepo{}
	playerService := NewPlayerService(&memPlayerRepo{players: make(map[string]*entity.Player)})
	gameService := NewGameService(&memGameRepo{games: make(map[string]*entity.Game)})
	historyService := NewHistoryService(historyRepo)

	return &gamePlayFixture{
		gamePlay: NewGamePlayService(logger, playerService, gameService, historyService),
		players:  playerService,
		games:    gameService,
		history:  historyRepo,
	}
}

// startTwoPlayerGame creates a private game, joins a second player and
// returns creator, joiner and the ongoing game.
func startTwoPlayerGame(t *testing.T, fx *gamePlayFixture, rows, cols int) (*entity.Player, *entity.Player, *entity.Game) {
	t.Helper()

	ctx := context.Background()

	creator, err := fx.players.CreatePlayer(ctx)
	require.NoError(t, err)

	joiner, err := fx.players.CreatePlayer(ctx)
	require.NoError(t, err)

	game, err := fx.gamePlay.GetOrCreateGame(ctx, creator, entity.PrivateType, rows, cols)
	require.NoError(t, err)
	require.True(t, game.IsWaiting())

	game, err = fx.gamePlay.JoinGameByID(ctx, game.ID, joiner.ID)
	require.NoError(t, err)
	require.True(t, game.IsOngoing())

	return creator, joiner, game
}

func TestGamePlayService_JoinGameByID(t *testing.T) {
	t.Run("Second player joins and the game starts", func(t *testing.T) {
		fx := newGamePlayFixture()

		// Given/When: a created game joined by a second player
		creator, joiner, game := startTwoPlayerGame(t, fx, 6, 7)

		// Then: the creator plays X, the joiner plays O, X moves first
		assert.Equal(t, entity.PlayerX, creator.Mark)
		assert.Equal(t, entity.PlayerO, joiner.Mark)
		assert.Equal(t, entity.PlayerX, game.Turn)
		assert.Len(t, game.Players, 2)
	})

	t.Run("Third player is rejected", func(t *testing.T) {
		fx := newGamePlayFixture()
		ctx := context.Background()

		_, _, game := startTwoPlayerGame(t, fx, 6, 7)

		intruder, err := fx.players.CreatePlayer(ctx)
		require.NoError(t, err)

		// When: a third player tries to join
		_, err = fx.gamePlay.JoinGameByID(ctx, game.ID, intruder.ID)

		// Then: the join is rejected
		require.ErrorIs(t, err, ErrGameIsFull)
	})
}

func TestGamePlayService_MakeTurn(t *testing.T) {
	t.Run("Winning move records the result in history", func(t *testing.T) {
		fx := newGamePlayFixture()
		ctx := context.Background()

		creator, joiner, game := startTwoPlayerGame(t, fx, 6, 7)

		// When: X builds the bottom-row run at columns 0..3 while O
		// stacks elsewhere
		moves := []struct {
			playerID string
			column   int
		}{
			{creator.ID, 0}, {joiner.ID, 6},
			{creator.ID, 1}, {joiner.ID, 6},
			{creator.ID, 2}, {joiner.ID, 6},
			{creator.ID, 3},
		}

		var err error
		for _, move := range moves {
			game, err = fx.gamePlay.MakeTurn(ctx, move.playerID, move.column)
			require.NoError(t, err)
		}

		// Then: X wins and exactly one result reaches the history sink
		assert.Equal(t, entity.StatusWon, game.Status)
		assert.Equal(t, entity.PlayerX, game.Winner)

		require.Len(t, fx.history.results, 1)
		assert.Equal(t, entity.WonOutcome(entity.PlayerX), fx.history.results[0].Outcome)
	})

	t.Run("Full column surfaces ErrColumnFull without ending the game", func(t *testing.T) {
		fx := newGamePlayFixture()
		ctx := context.Background()

		creator, joiner, game := startTwoPlayerGame(t, fx, 4, 4)

		// Given: column 1 saturated by alternating drops
		ids := []string{creator.ID, joiner.ID, creator.ID, joiner.ID}
		for _, id := range ids {
			var err error
			game, err = fx.gamePlay.MakeTurn(ctx, id, 1)
			require.NoError(t, err)
		}

		// When: the current player drops into the full column
		_, err := fx.gamePlay.MakeTurn(ctx, creator.ID, 1)

		// Then: ErrColumnFull is reported and nothing was recorded
		require.ErrorIs(t, err, apperror.ErrColumnFull)
		assert.Empty(t, fx.history.results)

		refreshed, err := fx.games.GetGameByID(ctx, game.ID)
		require.NoError(t, err)
		assert.True(t, refreshed.IsOngoing())
	})

	t.Run("Draw records a draw result", func(t *testing.T) {
		fx := newGamePlayFixture()
		ctx := context.Background()

		creator, joiner, game := startTwoPlayerGame(t, fx, 4, 4)

		// Given: a fill order with no four-in-a-row
		columns := []int{1, 0, 1, 0, 3, 2, 3, 2, 0, 1, 0, 1, 2, 3, 2, 3}

		var err error
		for i, column := range columns {
			playerID := creator.ID
			if i%2 == 1 {
				playerID = joiner.ID
			}

			game, err = fx.gamePlay.MakeTurn(ctx, playerID, column)
			require.NoError(t, err)
		}

		// Then: the game ends in a draw and the draw is recorded
		assert.Equal(t, entity.StatusDraw, game.Status)

		require.Len(t, fx.history.results, 1)
		assert.Equal(t, entity.OutcomeDraw, fx.history.results[0].Outcome)
	})
}

func TestGamePlayService_CleanupGame(t *testing.T) {
	fx := newGamePlayFixture()
	ctx := context.Background()

	creator, joiner, game := startTwoPlayerGame(t, fx, 6, 7)

	// When: the game is cleaned up
	fx.gamePlay.CleanupGame(ctx, game)

	// Then: both players are detached and the game is gone
	for _, id := range []string{creator.ID, joiner.ID} {
		player, err := fx.players.GetPlayerByID(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, player.GameID)
		assert.Equal(t, entity.EmptyCell, player.Mark)
	}

	_, err := fx.games.GetGameByID(ctx, game.ID)
	require.ErrorIs(t, err, repository.ErrGameNotFound)
}
