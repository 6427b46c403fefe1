package amqp

import (
	"encoding/json"
	"time"
)

// Change actions carried by BudgetChangedMessage.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities whose changes invalidate derived reports.
const (
	EntityWorkItem       = "work_item"
	EntityBudgetLine     = "budget_line"
	EntityInvoice        = "invoice"
	EntityBudgetSource   = "budget_source"
	EntitySubsidyProgram = "subsidy_program"
)

// BudgetChangedMessage tells the report worker that a budget row changed.
// It carries only the entity kind and id; the worker rereads a fresh
// snapshot from the store rather than trusting message payloads.
type BudgetChangedMessage struct {
	Entity    string    `json:"entity"`
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetChangedMessage creates a change message stamped with now.
func NewBudgetChangedMessage(entity, id, action string) *BudgetChangedMessage {
	return &BudgetChangedMessage{
		Entity:    entity,
		ID:        id,
		Action:    action,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetChangedMessageFromJSON creates a message from JSON bytes
func BudgetChangedMessageFromJSON(data []byte) (*BudgetChangedMessage, error) {
	var msg BudgetChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
