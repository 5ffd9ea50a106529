package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/tindev/tindev-app/internal/entity"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type matchCollector struct {
	mu     sync.Mutex
	events []entity.MatchEvent
}

func (c *matchCollector) collect(ev entity.MatchEvent) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *matchCollector) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		names = append(names, ev.Payload.Name)
	}
	return names
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestListenerReceivesMatchesInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session-token", r.URL.Query().Get("token"))

		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for _, name := range []string{"Ana", "Bo", "Cy"} {
			conn.WriteJSON(entity.MatchEvent{
				Type:    entity.EventTypeMatch,
				Payload: entity.Candidate{Name: name},
			})
		}

		// Non-match frames are ignored by the listener.
		conn.WriteJSON(map[string]string{"type": "diagnostic"})

		time.Sleep(time.Second)
	}))
	defer server.Close()

	collector := &matchCollector{}
	l := NewListener(wsURL(server), "session-token", collector.collect)
	l.Start()
	defer l.Close()

	assert.Eventually(t, func() bool {
		return len(collector.names()) == 3
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{"Ana", "Bo", "Cy"}, collector.names())
}

func TestListenerStateTransitions(t *testing.T) {
	connected := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		close(connected)
		// Hold the connection open until the client goes away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	l := NewListener(wsURL(server), "session-token", nil)
	assert.Equal(t, StateDisconnected, l.State())

	l.Start()
	<-connected

	assert.Eventually(t, func() bool {
		return l.State() == StateConnected
	}, 3*time.Second, 10*time.Millisecond)

	l.Close()
	assert.Equal(t, StateDisconnected, l.State())
}

func TestListenerReconnects(t *testing.T) {
	var mu sync.Mutex
	dials := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		mu.Lock()
		dials++
		first := dials == 1
		mu.Unlock()

		if first {
			// Drop the first connection immediately to force a reconnect.
			conn.Close()
			return
		}

		conn.WriteJSON(entity.MatchEvent{
			Type:    entity.EventTypeMatch,
			Payload: entity.Candidate{Name: "AfterReconnect"},
		})
		time.Sleep(time.Second)
		conn.Close()
	}))
	defer server.Close()

	collector := &matchCollector{}
	l := NewListener(wsURL(server), "session-token", collector.collect)
	l.Start()
	defer l.Close()

	assert.Eventually(t, func() bool {
		return len(collector.names()) == 1
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{"AfterReconnect"}, collector.names())

	mu.Lock()
	assert.GreaterOrEqual(t, dials, 2)
	mu.Unlock()
}

func TestListenerCloseStopsReconnecting(t *testing.T) {
	// No server at all: the listener sits in its retry loop.
	l := NewListener("ws://127.0.0.1:1/ws", "session-token", nil)
	l.Start()

	time.Sleep(50 * time.Millisecond)
	l.Close()

	assert.Equal(t, StateDisconnected, l.State())
}
