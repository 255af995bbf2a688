package model

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/KrappRamiro/zero2prod/internal/domain"
)

var emailValidate = validator.New()

// SubscriberEmail is an email address that passed syntactic validation.
// Obtain one through ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail rejects the empty string and anything that does not
// conform to a standard local-part@domain grammar.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	if raw == "" {
		return SubscriberEmail{}, fmt.Errorf("%w: email is empty", domain.ErrInvalidArgument)
	}
	if err := emailValidate.Var(raw, "email"); err != nil {
		return SubscriberEmail{}, fmt.Errorf("%w: %q is not a valid email address", domain.ErrInvalidArgument, raw)
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string { return e.value }
