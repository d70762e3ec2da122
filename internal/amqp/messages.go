package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Resource names a kind of record the UI mutates.
type Resource string

const (
	ResourceTransaction Resource = "transaction"
	ResourceWallet      Resource = "wallet"
	ResourceCategory    Resource = "category"
	ResourceBudget      Resource = "budget"
)

// Operation names a mutation.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// MutationEvent announces a successful write against the finance backend.
// ResourceID is empty for creates, where the backend does not return one.
type MutationEvent struct {
	Resource   Resource  `json:"resource"`
	Operation  Operation `json:"operation"`
	ResourceID string    `json:"resource_id,omitempty"`
	Summary    string    `json:"summary"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewMutationEvent(res Resource, op Operation, id, summary string) *MutationEvent {
	return &MutationEvent{
		Resource:   res,
		Operation:  op,
		ResourceID: id,
		Summary:    summary,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *MutationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MutationEventFromJSON decodes and validates a message body.
func MutationEventFromJSON(data []byte) (*MutationEvent, error) {
	var msg MutationEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Resource == "" || msg.Operation == "" {
		return nil, fmt.Errorf("mutation event missing resource or operation")
	}
	return &msg, nil
}
