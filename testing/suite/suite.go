package suite

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rocketscienceinc/numbers-backend/internal/session"
	"github.com/rocketscienceinc/numbers-backend/transport/rest"
	"github.com/rocketscienceinc/numbers-backend/transport/websocket"
)

const maxWaitDuration = 120 * time.Second

// Suite wires the whole HTTP + game-protocol stack around an isolated
// registry, served from an in-process test server.
type Suite struct {
	*testing.T
	Logger *slog.Logger

	Registry *session.Registry
	Server   *httptest.Server
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWaitDuration)
	t.Cleanup(func() {
		cancel()
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	registry := session.NewRegistry()
	t.Cleanup(func() {
		registry.Close()
	})

	socketHandler := websocket.NewHandler(logger, registry)
	handlers := rest.NewHandlers(logger, registry, socketHandler)

	server := httptest.NewServer(handlers.Router())
	t.Cleanup(func() {
		server.Close()
	})

	return ctx, &Suite{
		T:        t,
		Logger:   logger,
		Registry: registry,
		Server:   server,
	}
}

// SocketURL - the ws:// address of a room's game protocol endpoint.
func (that *Suite) SocketURL(roomID string) string {
	return strings.Replace(that.Server.URL, "http", "ws", 1) + "/rooms/" + roomID + "/ws"
}
