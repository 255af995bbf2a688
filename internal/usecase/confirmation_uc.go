package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"github.com/KrappRamiro/zero2prod/internal/domain"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/repository"
	"github.com/KrappRamiro/zero2prod/internal/infra/logging"
	"github.com/KrappRamiro/zero2prod/internal/infra/metrics"
	"github.com/KrappRamiro/zero2prod/internal/security/token"
)

// Compile-time check
var _ ConfirmationUseCase = (*confirmationUC)(nil)

// ConfirmationUseCase drives the pending -> confirmed transition from an
// incoming confirmation token.
type ConfirmationUseCase interface {
	// Confirm returns domain.ErrTokenMalformed for input that does not have
	// the shape of an issued token, domain.ErrTokenUnknown for a well-formed
	// token that resolves to no subscriber, and nil on success. Confirming
	// an already-confirmed subscriber is a no-op success.
	Confirm(ctx context.Context, rawToken string) error
}

type confirmationUC struct {
	subs repository.SubscriberRepository
	tm   repository.TransactionManager
	log  *zerolog.Logger
}

func NewConfirmationUseCase(subs repository.SubscriberRepository, tm repository.TransactionManager, logger *zerolog.Logger) *confirmationUC {
	return &confirmationUC{subs: subs, tm: tm, log: logger}
}

func (u *confirmationUC) Confirm(ctx context.Context, rawToken string) error {
	defer logging.TraceDuration(u.log, "ConfirmationUC.Confirm")()

	if !token.Wellformed(rawToken) {
		metrics.IncConfirmed("malformed")
		return domain.ErrTokenMalformed
	}

	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		id, err := u.subs.SubscriberIDForToken(ctx, tx, rawToken)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrTokenUnknown
			}
			return err
		}
		return u.subs.MarkConfirmed(ctx, tx, id)
	})
	switch {
	case err == nil:
		metrics.IncConfirmed("confirmed")
		return nil
	case errors.Is(err, domain.ErrTokenUnknown):
		metrics.IncConfirmed("unknown")
		return err
	default:
		metrics.IncConfirmed("error")
		logging.With(ctx, u.log).Error().Err(err).Msg("failed to confirm subscriber")
		return fmt.Errorf("confirm subscriber: %w", err)
	}
}
