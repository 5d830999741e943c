package amqp

import (
	"encoding/json"
	"time"
)

// Actions and item kinds carried by ItemEventMessage.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"

	ItemIncome  = "income"
	ItemExpense = "expense"
	ItemSaving  = "saving"
	ItemAsset   = "asset"
)

// ItemEventMessage is a lightweight record of one mutation to a financial
// item. It carries only identifiers; consumers fetch current state from
// the database if they need it.
type ItemEventMessage struct {
	Action    string    `json:"action"`
	ItemType  string    `json:"item_type"`
	ItemID    int64     `json:"item_id"`
	UserID    int64     `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewItemEventMessage builds an event stamped with the current time.
func NewItemEventMessage(action, itemType string, itemID, userID int64) *ItemEventMessage {
	return &ItemEventMessage{
		Action:    action,
		ItemType:  itemType,
		ItemID:    itemID,
		UserID:    userID,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *ItemEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ItemEventMessageFromJSON creates a message from JSON bytes.
func ItemEventMessageFromJSON(data []byte) (*ItemEventMessage, error) {
	var msg ItemEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
