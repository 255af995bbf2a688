package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/KrappRamiro/zero2prod/internal/domain"
	"github.com/KrappRamiro/zero2prod/internal/domain/model"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/adapter"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/repository"
	"github.com/KrappRamiro/zero2prod/internal/infra/logging"
	"github.com/KrappRamiro/zero2prod/internal/infra/metrics"
	"github.com/KrappRamiro/zero2prod/internal/security/token"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase is the enroll path: validate input, persist the
// pending subscriber and its confirmation token atomically, then dispatch
// the confirmation email.
type SubscriptionUseCase interface {
	Subscribe(ctx context.Context, name, email string) error
}

type subscriptionUC struct {
	subs    repository.SubscriberRepository
	tm      repository.TransactionManager
	sender  adapter.EmailSender
	baseURL string
	log     *zerolog.Logger
}

func NewSubscriptionUseCase(
	subs repository.SubscriberRepository,
	tm repository.TransactionManager,
	sender adapter.EmailSender,
	baseURL string,
	logger *zerolog.Logger,
) *subscriptionUC {
	return &subscriptionUC{
		subs:    subs,
		tm:      tm,
		sender:  sender,
		baseURL: baseURL,
		log:     logger,
	}
}

func (u *subscriptionUC) Subscribe(ctx context.Context, rawName, rawEmail string) error {
	defer logging.TraceDuration(u.log, "SubscriptionUC.Subscribe")()

	name, err := model.ParseSubscriberName(rawName)
	if err != nil {
		metrics.IncEnrolled("invalid")
		return err
	}
	email, err := model.ParseSubscriberEmail(rawEmail)
	if err != nil {
		metrics.IncEnrolled("invalid")
		return err
	}

	// The subscriber row and its token are written in one transaction: a
	// subscriber must never exist durably without a token, and vice versa.
	// A duplicate enrollment resolves inside the same transaction to the
	// existing row's token, so the outcome is indistinguishable from the
	// first enrollment. Default (read committed) isolation is required here:
	// it lets ON CONFLICT DO NOTHING absorb a concurrent duplicate and lets
	// the follow-up lookup see the winner's committed row, where serializable
	// would abort the loser with a serialization failure instead.
	var confirmationToken string
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		sub, err := model.NewSubscriber(uuid.NewString(), email, name)
		if err != nil {
			return err
		}
		err = u.subs.Insert(ctx, tx, sub)
		switch {
		case err == nil:
			tok, err := token.Generate()
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}
			if err := u.subs.InsertToken(ctx, tx, tok, sub.ID); err != nil {
				return err
			}
			confirmationToken = tok
			metrics.IncEnrolled("created")
			return nil
		case errors.Is(err, domain.ErrAlreadyExists):
			existing, err := u.subs.FindByEmail(ctx, tx, email.String())
			if err != nil {
				return err
			}
			tok, err := u.subs.TokenForSubscriber(ctx, tx, existing.ID)
			if err != nil {
				return err
			}
			confirmationToken = tok
			metrics.IncEnrolled("existing")
			return nil
		default:
			return err
		}
	})
	if err != nil {
		metrics.IncEnrolled("error")
		logging.With(ctx, u.log).Error().Err(err).Msg("failed to persist subscriber")
		return err
	}

	// The record is committed; a dispatch failure is surfaced but never
	// rolls it back. The subscriber stays confirmable.
	msg := adapter.Message{
		To:      email.String(),
		Subject: "Welcome!",
		HTML: fmt.Sprintf(
			`Welcome to our newsletter!<br />Click <a href="%s">here</a> to confirm your subscription.`,
			u.confirmationURL(confirmationToken),
		),
		Text: fmt.Sprintf(
			"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
			u.confirmationURL(confirmationToken),
		),
	}
	if err := u.sender.Send(ctx, msg); err != nil {
		metrics.IncEmailSent("confirmation", false)
		logging.With(ctx, u.log).Error().Err(err).Msg("failed to send confirmation email")
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	metrics.IncEmailSent("confirmation", true)
	return nil
}

func (u *subscriptionUC) confirmationURL(tok string) string {
	return fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", u.baseURL, url.QueryEscape(tok))
}
