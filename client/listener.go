package client

import (
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tindev/tindev-app/internal/entity"
)

type ListenerState int

const (
	StateDisconnected ListenerState = iota
	StateConnecting
	StateConnected
)

func (s ListenerState) String() string {
	switch s {
	case StateConnecting:
		return "Connecting"
	case StateConnected:
		return "Connected"
	default:
		return "Disconnected"
	}
}

const (
	reconnectBase = time.Second
	reconnectMax  = 30 * time.Second
)

// Listener owns the one realtime connection of an active session and
// pushes match events to the view layer in arrival order, one by one,
// with no buffering. Events missed while disconnected are gone; the
// protocol is at-most-once.
type Listener struct {
	wsURL   string
	token   string
	dialer  *websocket.Dialer
	onMatch func(entity.MatchEvent)

	mu    sync.Mutex
	state ListenerState
	conn  *websocket.Conn

	closed    chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewListener prepares a listener for wsURL (ws:// or wss://). Start
// must be called exactly once; the token identifies the session and
// must stay valid while the listener runs.
func NewListener(wsURL, token string, onMatch func(entity.MatchEvent)) *Listener {
	return &Listener{
		wsURL:   wsURL,
		token:   token,
		dialer:  websocket.DefaultDialer,
		onMatch: onMatch,
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the connect/read/reconnect loop.
func (l *Listener) Start() {
	go l.run()
}

// Close tears the connection down and stops reconnecting. It must be
// called before the session identifier is cleared, otherwise a
// reconnect could fire with a stale identifier. Close returns after
// the loop has fully stopped.
func (l *Listener) Close() {
	l.closeOnce.Do(func() {
		close(l.closed)
		l.mu.Lock()
		if l.conn != nil {
			l.conn.Close()
		}
		l.mu.Unlock()
	})
	<-l.done
}

func (l *Listener) State() ListenerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Listener) run() {
	defer close(l.done)
	defer l.setState(StateDisconnected)

	backoff := reconnectBase

	for {
		select {
		case <-l.closed:
			return
		default:
		}

		l.setState(StateConnecting)

		conn, _, err := l.dialer.Dial(l.dialURL(), nil)
		if err != nil {
			l.setState(StateDisconnected)
			select {
			case <-l.closed:
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > reconnectMax {
				backoff = reconnectMax
			}
			continue
		}

		l.mu.Lock()
		select {
		case <-l.closed:
			// Close raced the dial; this connection must not survive it.
			l.mu.Unlock()
			conn.Close()
			return
		default:
		}
		l.conn = conn
		l.state = StateConnected
		l.mu.Unlock()

		backoff = reconnectBase
		l.readLoop(conn)

		l.mu.Lock()
		l.conn = nil
		l.state = StateDisconnected
		l.mu.Unlock()
	}
}

func (l *Listener) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		var ev entity.MatchEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return
		}

		if ev.Type != entity.EventTypeMatch {
			continue
		}

		if l.onMatch != nil {
			l.onMatch(ev)
		}
	}
}

func (l *Listener) dialURL() string {
	return l.wsURL + "?token=" + url.QueryEscape(l.token)
}

func (l *Listener) setState(s ListenerState) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}
