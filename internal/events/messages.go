package events

import (
	"encoding/json"
	"time"
)

const (
	EntityTransaction = "transaction"

	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EntityEventMessage is a lightweight notification that an entity changed.
// Consumers that need the full record fetch it from storage by ID.
type EntityEventMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntityEventMessage(entity, id, userID, action string) *EntityEventMessage {
	return &EntityEventMessage{
		Entity:    entity,
		ID:        id,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

func (m *EntityEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EntityEventMessageFromJSON(data []byte) (*EntityEventMessage, error) {
	var msg EntityEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
