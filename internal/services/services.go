// Package services holds the application operations over the record store.
package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"moneytracker/internal/core"
)

// EventPublisher is notified after state changes are stored. *amqp.Client implements it.
type EventPublisher interface {
	PublishTransactionCommitted(ctx context.Context, tx core.Transaction) error
	PublishAccountRemoved(ctx context.Context, accountID, cascaded int) error
}

// Clock returns the current time.
type Clock func() time.Time

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	return v
}

type itemInput struct {
	Name        string `label:"name" validate:"required,max=60"`
	ShortName   string `label:"short name" validate:"max=12"`
	Description string `label:"description" validate:"max=280"`
}

func newItemInput(name, shortName, description string) itemInput {
	return itemInput{
		Name:        strings.TrimSpace(name),
		ShortName:   strings.TrimSpace(shortName),
		Description: strings.TrimSpace(description),
	}
}

type accountInput struct {
	itemInput
	Currency      string  `label:"currency" validate:"required,alpha,len=3"`
	StartingMoney float64 `label:"starting money" validate:"gte=0"`
}

// check runs the struct validator and turns its report into a ValidationError.
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return core.ValidationError{Msg: strings.Join(msgs, "; ")}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "len":
		return fe.Field() + " must be exactly " + fe.Param() + " characters"
	case "alpha":
		return fe.Field() + " must only contain letters"
	case "gte":
		return fe.Field() + " must not be negative"
	}
	return fe.Field() + " is invalid"
}

// active keeps the records that have not been removed, preserving order.
func active[T core.Listable](all []T) []T {
	out := make([]T, 0, len(all))
	for _, v := range all {
		if v.Item().IsActive() {
			out = append(out, v)
		}
	}
	return out
}
