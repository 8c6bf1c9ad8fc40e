package amqp

import (
	"encoding/json"
	"time"
)

// ChangeMessage announces that one of a user's record streams changed.
// It carries no record data; the worker reloads the stream from storage.
type ChangeMessage struct {
	Owner     string    `json:"owner"`
	Stream    string    `json:"stream"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeMessage(owner, stream, reason string) *ChangeMessage {
	return &ChangeMessage{
		Owner:     owner,
		Stream:    stream,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
