package server

import (
	"sync"

	"github.com/rs/zerolog"
)

// hub fans messages out to the spectators of one game.
type hub struct {
	mu     sync.RWMutex
	conns  map[*Connection]struct{}
	logger zerolog.Logger
}

func newHub(logger zerolog.Logger) *hub {
	return &hub{conns: make(map[*Connection]struct{}), logger: logger}
}

func (h *hub) add(c *Connection) {
	h.mu.Lock()
	h.conns[c] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()
	h.logger.Debug().Int("spectators", n).Msg("spectator joined")

	go func() {
		<-c.Done()
		h.remove(c)
	}()
}

func (h *hub) remove(c *Connection) {
	h.mu.Lock()
	delete(h.conns, c)
	h.mu.Unlock()
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *hub) broadcast(msg *Message) {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.SendMessage(msg); err != nil {
			h.remove(c)
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[*Connection]struct{})
	h.mu.Unlock()
	for c := range conns {
		_ = c.Close()
	}
}
