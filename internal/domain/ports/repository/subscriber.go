package repository

import (
	"context"

	"github.com/KrappRamiro/zero2prod/internal/domain/model"
)

// SubscriberRepository is the port for mailing-list subscribers and their
// confirmation tokens. Both relations are written inside the same transaction
// on the enroll path, so the two groups of methods share one port.
type SubscriberRepository interface {
	// Insert persists a new pending subscriber. Returns domain.ErrAlreadyExists
	// when a row with the same email is present; the uniqueness is enforced by
	// a storage-level constraint, not an application-level check.
	Insert(ctx context.Context, tx Tx, sub *model.Subscriber) error

	// FindByEmail returns domain.ErrNotFound if missing.
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Subscriber, error)

	// InsertToken binds a confirmation token to a subscriber id.
	InsertToken(ctx context.Context, tx Tx, token, subscriberID string) error

	// TokenForSubscriber returns the token previously issued for the
	// subscriber, or domain.ErrNotFound.
	TokenForSubscriber(ctx context.Context, tx Tx, subscriberID string) (string, error)

	// SubscriberIDForToken resolves a well-formed token, or domain.ErrNotFound.
	SubscriberIDForToken(ctx context.Context, tx Tx, token string) (string, error)

	// MarkConfirmed transitions a subscriber to confirmed. Confirming an
	// already-confirmed subscriber succeeds silently.
	MarkConfirmed(ctx context.Context, tx Tx, subscriberID string) error

	// ListConfirmedEmails returns the stored email of every confirmed
	// subscriber. The result is finite and recomputed per call.
	ListConfirmedEmails(ctx context.Context, tx Tx) ([]string, error)
}
