package amqp

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"moneytracker/internal/core"
)

func TestNewTransactionCommitted(t *testing.T) {
	tx := core.Transaction{
		ID: 4, SourceID: 1, TargetID: 2, CategoryID: 3, Amount: 20, Rate: 0.5,
		ListItem: core.ListItem{Description: "savings"},
	}

	e := NewTransactionCommitted(tx)

	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("event id %q is not a uuid: %v", e.ID, err)
	}
	if e.Type != EventTransactionCommitted || e.Account != nil {
		t.Errorf("unexpected envelope: %+v", e)
	}
	p := e.Transaction
	if p.ID != 4 || p.Kind != "movement" || p.Rate != 0.5 || p.Description != "savings" {
		t.Errorf("payload = %+v", p)
	}
	if time.Since(e.Timestamp) > time.Second {
		t.Error("timestamp should be recent")
	}
	if NewTransactionCommitted(tx).ID == e.ID {
		t.Error("event ids must be unique")
	}
}

func TestEventJSON(t *testing.T) {
	e := NewAccountRemoved(9, 3)
	e.Timestamp = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	data, err := e.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if strings.Contains(string(data), `"transaction"`) {
		t.Errorf("empty payload should be omitted: %s", data)
	}

	got, err := EventFromJSON(data)
	if err != nil {
		t.Fatalf("EventFromJSON() error = %v", err)
	}
	if got.ID != e.ID || got.Account.ID != 9 || got.Account.RemovedTransactions != 3 || !got.Timestamp.Equal(e.Timestamp) {
		t.Errorf("decoded = %+v", got)
	}
}

func TestEventFromJSONRejects(t *testing.T) {
	id := uuid.NewString()
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"id": 12`},
		{"bad id", `{"id":"x","type":"account.removed","account":{"id":1}}`},
		{"unknown type", `{"id":"` + id + `","type":"budget.exceeded"}`},
		{"missing payload", `{"id":"` + id + `","type":"transaction.committed"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EventFromJSON([]byte(tt.body)); err == nil {
				t.Errorf("EventFromJSON(%s) should fail", tt.body)
			}
		})
	}
}

func TestEventString(t *testing.T) {
	e := NewTransactionCommitted(core.Transaction{ID: 2, TargetID: 1, Amount: 12.5, Rate: 1})
	if s := e.String(); !strings.Contains(s, "transaction.committed #2 income 12.50 x 1") {
		t.Errorf("String() = %q", s)
	}
}
