package server

import (
	"encoding/json"
	"time"
)

// MessageType tags websocket messages.
type MessageType string

const (
	// MessageTypeState carries a full game.Snapshot.
	MessageTypeState MessageType = "state"
	// MessageTypeEvent carries a bot.Event.
	MessageTypeEvent MessageType = "event"
	// MessageTypeAction carries an ActionResult from a human request.
	MessageTypeAction MessageType = "action"
	// MessageTypeClosed is the last message before a session shuts down.
	MessageTypeClosed MessageType = "closed"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	GameID    string          `json:"gameId"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, gameID string, data any) (*Message, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Message{
		Type:      messageType,
		GameID:    gameID,
		Data:      raw,
		Timestamp: time.Now(),
	}, nil
}
