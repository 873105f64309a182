package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// Change operations carried by ChangeMessage.
const (
	OpCreate  = "create"
	OpReplace = "replace"
	OpDelete  = "delete"
)

// ChangeMessage announces that a document was written. It carries only the
// document's address; consumers re-read the store if they need the content.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	Op         string    `json:"op"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewChangeMessage(collection, id, op string) *ChangeMessage {
	return &ChangeMessage{
		Collection: collection,
		ID:         id,
		Op:         op,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON decodes and checks a message body.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Collection == "" {
		return nil, errors.New("change message without collection")
	}
	switch msg.Op {
	case OpCreate, OpReplace, OpDelete:
	default:
		return nil, errors.New("change message with unknown op " + msg.Op)
	}
	return &msg, nil
}
