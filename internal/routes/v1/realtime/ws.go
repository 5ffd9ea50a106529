package routesV1Realtime

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo"
	"github.com/tindev/tindev-app/internal/realtime"
	"github.com/tindev/tindev-app/pkg/jwt"
	"github.com/tindev/tindev-app/pkg/logx"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades the connection and registers it as the user's
// realtime channel until the peer disconnects. The token travels as a
// query parameter because browser websocket clients cannot set headers.
func WSHandler(c echo.Context, registry *realtime.Registry) error {
	token := c.QueryParam("token")

	if token == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing token"})
	}

	claims, err := jwt.ValidateToken(token)

	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)

	if err != nil {
		return err
	}

	logger := logx.Component("ws")

	ch := realtime.NewChannel(claims.UserID, conn)
	registry.Register(claims.UserID, ch)

	logger.Info().Int("user_id", claims.UserID).Str("channel_id", ch.ID()).Msg("channel connected")

	ch.Run(func() {
		registry.Unregister(claims.UserID, ch)
		logger.Info().Int("user_id", claims.UserID).Str("channel_id", ch.ID()).Msg("channel disconnected")
	})

	return nil
}
