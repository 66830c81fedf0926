package echoapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/tupine/lifegear/core"
	"github.com/tupine/lifegear/services/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type realtimeApi struct {
	logger   core.Logger
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func registerRealtimeAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := realtimeApi{
		logger: deps.Logger,
		hub:    deps.Hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// auth happens via the session cookie; the frontend dev server
			// runs on its own origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	g.GET("/ws", api.serve, authed...)
}

// serve upgrades the connection and keeps the tab subscribed to its
// session's events until it goes away.
func (api *realtimeApi) serve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	conn, err := api.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return errors.Wrap(err, "upgrading to websocket")
	}

	client := api.hub.Register(claims.SessionID)
	go api.writePump(conn, client)
	go api.readPump(conn, client)
	return nil
}

// writePump pumps hub messages out to the connection and keeps it alive
// with pings.
func (api *realtimeApi) writePump(conn *websocket.Conn, client *realtime.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection; tabs only ever send pongs and closes.
func (api *realtimeApi) readPump(conn *websocket.Conn, client *realtime.Client) {
	defer func() {
		api.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				api.logger.Debug("websocket read: " + err.Error())
			}
			return
		}
	}
}
