package backend

import (
	"context"

	"moneytracker/internal/amqp"
	"moneytracker/internal/records"
	"moneytracker/internal/services"
)

// CleanupFunc releases the resources held by a backend.
type CleanupFunc func() error

// Result is a ready record store plus the optional event publisher.
// Publisher is nil when events are disabled or the broker was unreachable.
type Result struct {
	Store     *records.Store
	Publisher services.EventPublisher
	Events    *amqp.Client
	Cleanup   CleanupFunc
}

// Close runs Cleanup when there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Event publishing, off when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Type names a record store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
