package rest

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server exposes the HTTP API: health check, guest authentication and the
// finished-games history.
type Server struct {
	logger   *slog.Logger
	handlers Handlers
}

func New(logger *slog.Logger, handlers Handlers) *Server {
	return &Server{
		logger:   logger,
		handlers: handlers,
	}
}

func (that *Server) Start(port string) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 30 * time.Second

	e.GET("/ping", that.handlers.Ping)
	e.POST("/auth/guest", that.handlers.GuestLogin)
	e.GET("/history", that.handlers.ListHistory)
	e.DELETE("/history", that.handlers.ClearHistory)

	that.logger.Info("starting HTTP server", "port", port)

	if err := e.Start(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
