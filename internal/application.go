package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/numbers-backend/internal/config"
	"github.com/rocketscienceinc/numbers-backend/internal/entity"
	"github.com/rocketscienceinc/numbers-backend/internal/game"
	"github.com/rocketscienceinc/numbers-backend/internal/session"
	"github.com/rocketscienceinc/numbers-backend/transport/rest"
	"github.com/rocketscienceinc/numbers-backend/transport/websocket"
)

// DebugRoomID is the fixed address of the optional unrestricted room.
const DebugRoomID entity.RoomID = "testroom"

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	registry := session.NewRegistry()
	defer registry.Close()

	if conf.DebugRoom {
		registry.CreateWithID(DebugRoomID, game.Config{
			TeamPlayerLimit: game.UnlimitedSeats,
			FirstSide:       entity.SideA,
		})
		log.Info("debug room created", "room_id", string(DebugRoomID))
	}

	socketHandler := websocket.NewHandler(logger, registry)
	handlers := rest.NewHandlers(logger, registry, socketHandler)

	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, conf.HTTPPort, handlers.Router()); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	select {
	case err := <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
