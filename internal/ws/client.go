package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/manpreetbhatti/sketchroom/internal/hub"
	"github.com/manpreetbhatti/sketchroom/internal/ratelimit"
	"github.com/manpreetbhatti/sketchroom/internal/room"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type Config struct {
	MaxMessageBytes int64
	Rate            float64
	Burst           int
}

func DefaultConfig() Config {
	return Config{
		MaxMessageBytes: 1024 * 1024,
		Rate:            100,
		Burst:           200,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	hub     *hub.Hub
	conn    *websocket.Conn
	room    *room.Room
	sess    *room.Session
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// Handler upgrades /ws?room={name}&name={displayName}&color={color}
// requests and runs the session until the connection drops.
func Handler(h *hub.Hub, cfg Config, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("upgrade failed", zap.Error(err))
			return
		}

		q := r.URL.Query()
		rm, sess := h.Connect(q.Get("room"), q.Get("name"), q.Get("color"))

		c := &client{
			hub:     h,
			conn:    conn,
			room:    rm,
			sess:    sess,
			limiter: ratelimit.NewLimiter(cfg.Rate, cfg.Burst),
			logger: logger.With(
				zap.String("room", rm.Name),
				zap.String("session", sess.ID)),
		}

		go c.writePump()
		go c.readPump(cfg.MaxMessageBytes)
	}
}

func (c *client) readPump(maxMessageBytes int64) {
	defer func() {
		c.hub.Disconnect(c.room, c.sess)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	rateLimitWarnings := 0

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("read error", zap.Error(err))
			}
			break
		}

		if !c.limiter.Allow() {
			rateLimitWarnings++
			if rateLimitWarnings%100 == 1 {
				c.logger.Warn("rate limit exceeded",
					zap.Int("warnings", rateLimitWarnings))
			}
			if rateLimitWarnings > 1000 {
				c.logger.Warn("disconnecting for sustained rate limit violations")
				return
			}
			continue
		}

		c.hub.Handle(c.room, c.sess, message)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.sess.Outbound():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.sess.Done():
			// Failed or disconnected elsewhere; closing the connection
			// unblocks the read pump, which runs the leave path.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
