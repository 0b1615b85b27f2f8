package events

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Stream pumps a subscription into a websocket connection as
// {"type":"<topic>"} text frames until the peer goes away or the
// subscription is closed. It owns conn and unsubscribes on return.
func Stream(bus *Bus, sub *Subscription, conn *websocket.Conn, lg zerolog.Logger) {
	done := make(chan struct{})
	go readPump(conn, done, lg)

	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		bus.Unsubscribe(sub)
		_ = conn.Close()
	}()

	for {
		select {
		case <-done:
			return

		case e, ok := <-sub.C():
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			frame, err := json.Marshal(e)
			if err != nil {
				lg.Error().Err(err).Msg("encode event frame")
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and keeps the read deadline fresh on
// pongs. It closes done when the connection fails.
func readPump(conn *websocket.Conn, done chan<- struct{}, lg zerolog.Logger) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				lg.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
	}
}
