package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// CollectionChangedMessage announces that a persisted collection was rewritten.
// It carries only the storage key and a few hints; consumers reload the
// collection from the store, so a late message never ships stale rows.
type CollectionChangedMessage struct {
	Key        string    `json:"key"`
	Unit       string    `json:"unit,omitempty"`
	Collection string    `json:"collection"`
	Count      int       `json:"count"`
	ChangedAt  time.Time `json:"changed_at"`
}

// NewCollectionChangedMessage stamps a message with the current time.
func NewCollectionChangedMessage(key, unit, collection string, count int) *CollectionChangedMessage {
	return &CollectionChangedMessage{
		Key:        key,
		Unit:       unit,
		Collection: collection,
		Count:      count,
		ChangedAt:  time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *CollectionChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// CollectionChangedMessageFromJSON decodes a message; a message without a key
// is rejected.
func CollectionChangedMessageFromJSON(data []byte) (*CollectionChangedMessage, error) {
	var msg CollectionChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Key == "" {
		return nil, errors.New("collection changed message without key")
	}
	return &msg, nil
}
