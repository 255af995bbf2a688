package model

import (
	"time"

	"github.com/KrappRamiro/zero2prod/internal/domain"
)

type SubscriberStatus string

const (
	SubscriberStatusPending   SubscriberStatus = "pending_confirmation"
	SubscriberStatusConfirmed SubscriberStatus = "confirmed"
)

// Subscriber is one enrollment on the mailing list. Rows are created by the
// enroll path with status pending_confirmation; the only mutation afterwards
// is the pending -> confirmed transition.
type Subscriber struct {
	ID           string // UUID
	Email        SubscriberEmail
	Name         SubscriberName
	Status       SubscriberStatus
	SubscribedAt time.Time
}

// NewSubscriber builds a pending subscriber from already-validated fields.
func NewSubscriber(id string, email SubscriberEmail, name SubscriberName) (*Subscriber, error) {
	if id == "" || email.String() == "" || name.String() == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscriber{
		ID:           id,
		Email:        email,
		Name:         name,
		Status:       SubscriberStatusPending,
		SubscribedAt: time.Now().UTC(),
	}, nil
}
