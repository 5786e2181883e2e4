package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesComponent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentCurrency, Output: buf})

	logger.Info("rates refreshed", FieldCount, 3)

	out := buf.String()
	if !strings.Contains(out, "rates refreshed") {
		t.Fatalf("expected message in output, got: %s", out)
	}
	if !strings.Contains(out, ComponentCurrency) {
		t.Fatalf("expected component in output, got: %s", out)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentApp, Output: buf})

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug message written at info level: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"WARN", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"bogus", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromContext(t *testing.T) {
	logger := New(Config{Component: ComponentAMQP, Output: &bytes.Buffer{}})
	ctx := WithContext(context.Background(), logger)

	if got := FromContext(ctx); got.Component() != ComponentAMQP {
		t.Fatalf("FromContext component = %q", got.Component())
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Fatalf("default component = %q", got.Component())
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().
		WithComponent(ComponentTransaction).
		WithOperation(OpCommit).
		WithTransaction(7, "expense", 30, 1).
		WithError(nil)

	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error should not add a field")
	}
	if f[FieldTransaction] != 7 || f[FieldKind] != "expense" {
		t.Fatalf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != len(f)*2 {
		t.Fatalf("ToSlice length mismatch")
	}
}
