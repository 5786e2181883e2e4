package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"moneytracker/internal/core"
)

// EventType doubles as the routing key of the published message.
type EventType string

const (
	EventTransactionCommitted EventType = "transaction.committed"
	EventAccountRemoved       EventType = "account.removed"
)

// Event is the envelope of every message. Exactly one payload is set, matching Type.
type Event struct {
	ID          string              `json:"id"`
	Type        EventType           `json:"type"`
	Timestamp   time.Time           `json:"timestamp"`
	Transaction *TransactionPayload `json:"transaction,omitempty"`
	Account     *AccountPayload     `json:"account,omitempty"`
}

type TransactionPayload struct {
	ID          int     `json:"id"`
	Kind        string  `json:"kind"`
	SourceID    int     `json:"source_id,omitempty"`
	TargetID    int     `json:"target_id,omitempty"`
	CategoryID  int     `json:"category_id"`
	Amount      float64 `json:"amount"`
	Rate        float64 `json:"rate"`
	Description string  `json:"description,omitempty"`
}

type AccountPayload struct {
	ID                  int `json:"id"`
	RemovedTransactions int `json:"removed_transactions"`
}

func newEvent(t EventType) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransactionCommitted describes a stored transaction.
func NewTransactionCommitted(tx core.Transaction) *Event {
	e := newEvent(EventTransactionCommitted)
	e.Transaction = &TransactionPayload{
		ID:          tx.ID,
		Kind:        string(tx.Kind()),
		SourceID:    tx.SourceID,
		TargetID:    tx.TargetID,
		CategoryID:  tx.CategoryID,
		Amount:      tx.Amount,
		Rate:        tx.Rate,
		Description: tx.Description,
	}
	return e
}

// NewAccountRemoved describes an account deletion and its cascade.
func NewAccountRemoved(accountID, cascaded int) *Event {
	e := newEvent(EventAccountRemoved)
	e.Account = &AccountPayload{ID: accountID, RemovedTransactions: cascaded}
	return e
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EventFromJSON decodes and checks an envelope.
func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if _, err := uuid.Parse(e.ID); err != nil {
		return nil, fmt.Errorf("invalid event id %q: %w", e.ID, err)
	}
	switch e.Type {
	case EventTransactionCommitted:
		if e.Transaction == nil {
			return nil, fmt.Errorf("event %s: missing transaction payload", e.ID)
		}
	case EventAccountRemoved:
		if e.Account == nil {
			return nil, fmt.Errorf("event %s: missing account payload", e.ID)
		}
	default:
		return nil, fmt.Errorf("event %s: unknown type %q", e.ID, e.Type)
	}
	return &e, nil
}

// String renders the event as one line for terminal output.
func (e *Event) String() string {
	ts := e.Timestamp.Local().Format(time.DateTime)
	switch {
	case e.Transaction != nil:
		p := e.Transaction
		return fmt.Sprintf("%s %s #%d %s %s x %s", ts, e.Type, p.ID, p.Kind,
			core.FormatAmount(p.Amount), core.FormatRatio(p.Rate))
	case e.Account != nil:
		return fmt.Sprintf("%s %s #%d (%d transactions)", ts, e.Type, e.Account.ID, e.Account.RemovedTransactions)
	}
	return fmt.Sprintf("%s %s", ts, e.Type)
}
