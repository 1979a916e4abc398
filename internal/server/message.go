package server

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/jesmun04/logbait/internal/game"
	"github.com/jesmun04/logbait/internal/registry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Message is the envelope for every websocket frame. Replies carry the
// RequestID of the message they answer; broadcasts carry none.
type Message struct {
	Type      MessageType         `json:"type"`
	Data      jsoniter.RawMessage `json:"data,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
	RequestID string              `json:"request_id,omitempty"`
}

// NewMessage encodes data into a message stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	msg := &Message{Type: messageType, Timestamp: now}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		msg.Data = raw
	}
	return msg, nil
}

// Decode unmarshals the message payload into v.
func (m *Message) Decode(v any) error {
	if len(m.Data) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server Messages

// AuthData identifies the connection. With authentication disabled the
// client chooses its AccountID; otherwise Token decides it.
type AuthData struct {
	Token       string `json:"token,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// TableData addresses a table: leave_table, watch_table, start_hand and get_state.
type TableData struct {
	TableID string `json:"table_id"`
}

type AdjustStackData struct {
	TableID string  `json:"table_id"`
	Stack   float64 `json:"stack"`
}

type ActData struct {
	TableID string  `json:"table_id"`
	Action  string  `json:"action"`
	Amount  float64 `json:"amount,omitempty"`
}

// Server → Client Messages

type AuthResponseData struct {
	Success     bool   `json:"success"`
	AccountID   string `json:"account_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableListData struct {
	Tables []registry.TableInfo `json:"tables"`
}

// StateData is a table view for one recipient. Event is empty for replies
// to get_state and watch_table.
type StateData struct {
	Event game.EventType `json:"event,omitempty"`
	View  game.View      `json:"view"`
}
