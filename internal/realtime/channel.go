package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/tindev/tindev-app/internal/entity"
	"github.com/tindev/tindev-app/pkg/logx"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Channel is one live realtime connection for a user. The registry
// compares channels by instance ID so a stale disconnect cannot remove
// a newer connection registered for the same user.
type Channel struct {
	id     string
	userID int
	conn   *websocket.Conn
	send   chan entity.MatchEvent

	// mu guards closed. trySend may only touch send while holding mu
	// with closed false; shutdown closes send only after flipping
	// closed under mu. That ordering is what keeps a delivery racing a
	// disconnect from sending on a closed channel.
	mu     sync.Mutex
	closed bool

	closeOnce sync.Once
	logger    zerolog.Logger
}

func NewChannel(userID int, conn *websocket.Conn) *Channel {
	id := uuid.NewString()
	return &Channel{
		id:     id,
		userID: userID,
		conn:   conn,
		send:   make(chan entity.MatchEvent, sendBuffer),
		logger: logx.Component("channel").With().Str("channel_id", id).Int("user_id", userID).Logger(),
	}
}

func (c *Channel) ID() string {
	return c.id
}

func (c *Channel) UserID() int {
	return c.userID
}

// Run starts the read and write pumps and blocks until the connection
// dies. onClose fires exactly once, before Run returns.
func (c *Channel) Run(onClose func()) {
	go c.writePump()
	c.readPump()

	c.shutdown()
	if onClose != nil {
		onClose()
	}
}

// shutdown marks the channel closed so concurrent deliveries turn into
// drops, then releases the write pump.
func (c *Channel) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.send)
	})
}

// Close tears the connection down; Run unblocks shortly after.
func (c *Channel) Close() {
	c.conn.Close()
}

// trySend queues an event without blocking. A full buffer or a channel
// mid-teardown counts as a failed delivery, there is no retry at this
// layer.
func (c *Channel) trySend(ev entity.MatchEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

// readPump exists only to detect the peer closing; the core protocol
// has no client-to-server realtime messages.
func (c *Channel) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Debug().Err(err).Msg("read pump closed")
			}
			return
		}
	}
}

func (c *Channel) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(ev); err != nil {
				c.logger.Debug().Err(err).Msg("write failed")
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
