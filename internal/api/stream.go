package api

import (
	"log"
	"net/http"
	"time"

	"github.com/BerylCAtieno/rankrent-factory/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingEvery  = (wsPongWait * 9) / 10
	sseKeepAlive = 15 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// snapshotEvent is sent first on every stream so clients start from the
// current step.
func snapshotEvent(sess *session.Session) session.Event {
	v := session.ViewOf(sess.Snapshot())
	return session.Event{Kind: session.EventState, State: &v}
}

// streamEvents serves the session's events as Server-Sent Events until the
// client goes away.
func (s *Server) streamEvents(c *gin.Context) {
	sess := currentSession(c)
	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	first := snapshotEvent(sess)
	c.SSEvent(string(first.Kind), first)
	c.Writer.Flush()

	ctx := c.Request.Context()
	keepAlive := time.NewTicker(sseKeepAlive)
	defer keepAlive.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			c.Writer.Flush()
		case evt, ok := <-events:
			if !ok {
				return
			}
			c.SSEvent(string(evt.Kind), evt)
			c.Writer.Flush()
		}
	}
}

// streamWebsocket pushes the same events as JSON frames over a websocket.
func (s *Server) streamWebsocket(c *gin.Context) {
	sess := currentSession(c)
	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARN: session %s websocket upgrade: %v", sess.ID, err)
		return
	}
	defer conn.Close()

	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Reads only drive pong and close handling.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	write := func(v any) error {
		if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
			return err
		}
		return conn.WriteJSON(v)
	}

	if err := write(snapshotEvent(sess)); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := write(evt); err != nil {
				return
			}
		}
	}
}
