package events

import (
	"sync"
	"time"
)

// Event names emitted by the engine boundary.
const (
	GameStarted    = "game_started"
	ActionResolved = "action_resolved"
	RoundAdvanced  = "round_advanced"
	GameEnded      = "game_ended"
	PlayerJoined   = "player_joined"
	PlayerLeft     = "player_left"
	SessionPaused  = "session_paused"
	SessionResumed = "session_resumed"
)

// Event is one state-delta notification fanned out to connected clients.
type Event struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is the transport boundary: the engine publishes state deltas
// and has no knowledge of connection sockets.
type Publisher interface {
	Publish(sessionCode string, evt Event)
}

// Bus is an in-process Publisher with per-session subscriber channels.
// Slow subscribers are skipped rather than blocking game resolution.
type Bus struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string]map[chan Event]struct{})}
}

func (b *Bus) Publish(sessionCode string, evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[sessionCode] {
		select {
		case ch <- evt:
		default:
			// drop for slow consumers; clients re-sync via GET session
		}
	}
}

// Subscribe returns a buffered event channel for the session and a cancel
// function that removes and closes it.
func (b *Bus) Subscribe(sessionCode string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	if b.subs[sessionCode] == nil {
		b.subs[sessionCode] = make(map[chan Event]struct{})
	}
	b.subs[sessionCode][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[sessionCode]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(b.subs, sessionCode)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// NopPublisher discards events; used by tests and offline tools.
type NopPublisher struct{}

func (NopPublisher) Publish(string, Event) {}
