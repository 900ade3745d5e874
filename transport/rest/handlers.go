package rest

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rocketscienceinc/connectfour-backend/internal/entity"
)

type Handlers interface {
	Ping(c echo.Context) error

	GuestLogin(c echo.Context) error

	ListHistory(c echo.Context) error
	ClearHistory(c echo.Context) error
}

type playerService interface {
	CreatePlayer(ctx context.Context) (*entity.Player, error)
}

type authService interface {
	GenerateToken(playerID string) (string, error)
}

type historyService interface {
	ListResults(ctx context.Context) ([]*entity.GameResult, error)
	ClearResults(ctx context.Context) error
}

type handlers struct {
	playerService  playerService
	authService    authService
	historyService historyService
}

func NewHandlers(playerService playerService, authService authService, historyService historyService) Handlers {
	return &handlers{
		playerService:  playerService,
		authService:    authService,
		historyService: historyService,
	}
}

func (that *handlers) Ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

// GuestLogin creates an anonymous player and hands back its ID with a signed
// session token.
func (that *handlers) GuestLogin(c echo.Context) error {
	ctx := c.Request().Context()

	player, err := that.playerService.CreatePlayer(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create player")
	}

	token, err := that.authService.GenerateToken(player.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate auth token")
	}

	return c.JSON(http.StatusOK, guestLoginResponse{
		PlayerID: player.ID,
		Token:    token,
	})
}

func (that *handlers) ListHistory(c echo.Context) error {
	ctx := c.Request().Context()

	results, err := that.historyService.ListResults(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read game history")
	}

	records := make([]historyRecord, 0, len(results))
	for _, result := range results {
		records = append(records, historyRecord{
			StartedAt: result.StartedAt,
			Rows:      result.Rows,
			Cols:      result.Cols,
			Outcome:   result.Outcome,
			Line:      result.String(),
		})
	}

	return c.JSON(http.StatusOK, records)
}

func (that *handlers) ClearHistory(c echo.Context) error {
	ctx := c.Request().Context()

	if err := that.historyService.ClearResults(ctx); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to clear game history")
	}

	return c.NoContent(http.StatusNoContent)
}
