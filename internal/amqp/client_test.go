package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"moneytracker/internal/core"
)

type sent struct {
	exchange, key string
	msg           amqp091.Publishing
}

// fakeBroker answers sends from a script of errors; once exhausted, sends succeed.
type fakeBroker struct {
	errs []error
	got  []sent
}

func (b *fakeBroker) send(_ context.Context, exchange, key string, msg amqp091.Publishing) error {
	b.got = append(b.got, sent{exchange: exchange, key: key, msg: msg})
	if len(b.got) <= len(b.errs) {
		return b.errs[len(b.got)-1]
	}
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestClient(b *fakeBroker, clk *clock) *Client {
	c := newClient("amqp://localhost:5672/", "moneytracker", "moneytracker.events")
	c.send = b.send
	c.backoff = func(int) time.Duration { return 0 }
	c.now = clk.now
	return c
}

func repeat(err error, n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = err
	}
	return errs
}

func TestBackoffDoublesUntilCap(t *testing.T) {
	want := []time.Duration{1, 2, 4, 8, 16, 30, 30}
	for attempt, secs := range want {
		if got := exponentialBackoff(attempt); got != secs*time.Second {
			t.Errorf("attempt %d: got %v, want %v", attempt, got, secs*time.Second)
		}
	}
	if got := exponentialBackoff(40); got != maxBackoff {
		t.Errorf("large attempt: got %v", got)
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"closed sentinel", amqp091.ErrClosed, true},
		{"wrapped closed sentinel", fmt.Errorf("publish: %w", amqp091.ErrClosed), true},
		{"refused dial", errors.New("dial tcp 127.0.0.1:5672: connect: connection refused"), true},
		{"reset stream", errors.New("read: broken pipe"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"channel level failure", errors.New("Exception (406) PRECONDITION_FAILED"), false},
		{"other access error", amqp091.ErrCredentials, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.want {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestPublishRoutesByEventType(t *testing.T) {
	tests := []struct {
		name    string
		publish func(context.Context, *Client) error
		key     string
	}{
		{
			name: "transaction committed",
			publish: func(ctx context.Context, c *Client) error {
				return c.PublishTransactionCommitted(ctx, core.Transaction{ID: 7, SourceID: 1, Amount: 30, Rate: 1})
			},
			key: "transaction.committed",
		},
		{
			name: "account removed",
			publish: func(ctx context.Context, c *Client) error {
				return c.PublishAccountRemoved(ctx, 3, 2)
			},
			key: "account.removed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBroker{}
			c := newTestClient(b, &clock{t: time.Now()})

			if err := tt.publish(context.Background(), c); err != nil {
				t.Fatalf("publish: %v", err)
			}
			if len(b.got) != 1 {
				t.Fatalf("sends = %d, want 1", len(b.got))
			}
			s := b.got[0]
			if s.exchange != "moneytracker" || s.key != tt.key {
				t.Errorf("sent to %s/%s, want moneytracker/%s", s.exchange, s.key, tt.key)
			}

			e, err := EventFromJSON(s.msg.Body)
			if err != nil {
				t.Fatalf("body does not decode: %v", err)
			}
			if s.msg.MessageId != e.ID || s.msg.Type != tt.key {
				t.Errorf("message id %q type %q, body id %q", s.msg.MessageId, s.msg.Type, e.ID)
			}
			if s.msg.DeliveryMode != amqp091.Persistent || s.msg.ContentType != "application/json" {
				t.Errorf("delivery mode %d content type %q", s.msg.DeliveryMode, s.msg.ContentType)
			}
			if !s.msg.Timestamp.Equal(e.Timestamp) {
				t.Errorf("timestamp %v, body says %v", s.msg.Timestamp, e.Timestamp)
			}
		})
	}
}

func TestPublishRetries(t *testing.T) {
	tests := []struct {
		name      string
		errs      []error
		wantSends int
		wantErr   bool
	}{
		{"first send succeeds", nil, 1, false},
		{"recovers after lost connection", []error{amqp091.ErrClosed}, 2, false},
		{"gives up after max retries", repeat(amqp091.ErrClosed, maxRetries), maxRetries, true},
		{"broker refusal is not retried", []error{errors.New("Exception (403) ACCESS_REFUSED")}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBroker{errs: tt.errs}
			c := newTestClient(b, &clock{t: time.Now()})

			err := c.PublishAccountRemoved(context.Background(), 1, 0)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(b.got) != tt.wantSends {
				t.Errorf("sends = %d, want %d", len(b.got), tt.wantSends)
			}
			if err == nil && c.failureCount != 0 {
				t.Errorf("success left failure count at %d", c.failureCount)
			}
		})
	}
}

func TestPublishOpensBreaker(t *testing.T) {
	b := &fakeBroker{errs: repeat(amqp091.ErrClosed, 2*maxFailures)}
	clk := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := newTestClient(b, clk)
	ctx := context.Background()

	// Three failed sends, then two more trip the breaker mid-retry.
	for i := 0; i < 2; i++ {
		if err := c.PublishAccountRemoved(ctx, 1, 0); err == nil {
			t.Fatalf("publish %d: expected failure", i+1)
		}
	}
	if len(b.got) != maxFailures {
		t.Fatalf("sends before breaker opened = %d, want %d", len(b.got), maxFailures)
	}

	err := c.PublishAccountRemoved(ctx, 1, 0)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Fatalf("err = %v, want open breaker", err)
	}
	if len(b.got) != maxFailures {
		t.Errorf("open breaker still sent: %d sends", len(b.got))
	}

	t.Run("stays open within timeout", func(t *testing.T) {
		clk.t = clk.t.Add(openTimeout - time.Second)
		if err := c.PublishAccountRemoved(ctx, 1, 0); err == nil {
			t.Fatal("expected open breaker")
		}
		if len(b.got) != maxFailures {
			t.Errorf("sends = %d", len(b.got))
		}
	})

	t.Run("half-open failure reopens", func(t *testing.T) {
		clk.t = clk.t.Add(2 * time.Second)
		if err := c.PublishAccountRemoved(ctx, 1, 0); err == nil {
			t.Fatal("scripted failure should surface")
		}
		if len(b.got) != maxFailures+1 {
			t.Fatalf("half-open allowed %d sends, want one", len(b.got)-maxFailures)
		}
		if err := c.PublishAccountRemoved(ctx, 1, 0); err == nil || !strings.Contains(err.Error(), "circuit breaker is open") {
			t.Errorf("err = %v, want reopened breaker", err)
		}
	})

	t.Run("half-open success closes", func(t *testing.T) {
		b.errs = nil
		clk.t = clk.t.Add(openTimeout + time.Second)
		if err := c.PublishAccountRemoved(ctx, 1, 0); err != nil {
			t.Fatalf("publish: %v", err)
		}
		if c.state != StateClosed || c.failureCount != 0 {
			t.Errorf("state %d failures %d after success", c.state, c.failureCount)
		}
	})
}

func TestPublishCancelledContext(t *testing.T) {
	b := &fakeBroker{}
	c := newTestClient(b, &clock{t: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.PublishAccountRemoved(ctx, 1, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(b.got) != 0 {
		t.Errorf("cancelled publish reached the broker")
	}
}
