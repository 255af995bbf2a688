package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/KrappRamiro/zero2prod/internal/domain"
	"github.com/KrappRamiro/zero2prod/internal/domain/model"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/repository"
)

// Ensure interface compliance:
var _ repository.SubscriberRepository = (*PostgresSubscriberRepo)(nil)

type PostgresSubscriberRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriberRepo(pool *pgxpool.Pool) *PostgresSubscriberRepo {
	return &PostgresSubscriberRepo{pool: pool}
}

func (r *PostgresSubscriberRepo) Insert(ctx context.Context, tx repository.Tx, sub *model.Subscriber) error {
	// ON CONFLICT DO NOTHING keeps a losing duplicate enrollment from
	// aborting the surrounding transaction; the caller still needs to fetch
	// the winner, so zero affected rows is reported as ErrAlreadyExists.
	const q = `
INSERT INTO subscriptions (id, email, name, status, subscribed_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (email) DO NOTHING;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, q, sub.ID, sub.Email.String(), sub.Name.String(), sub.Status, sub.SubscribedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation on id
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *PostgresSubscriberRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.Subscriber, error) {
	const q = `
SELECT id, email, name, status, subscribed_at
  FROM subscriptions WHERE email=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var (
		sub                     model.Subscriber
		storedEmail, storedName string
	)
	if err := ex.QueryRow(ctx, q, email).Scan(&sub.ID, &storedEmail, &storedName, &sub.Status, &sub.SubscribedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find subscriber by email: %w", err)
	}
	// Stored values were validated at write time; re-parse so callers always
	// hold the parsed types.
	if sub.Email, err = model.ParseSubscriberEmail(storedEmail); err != nil {
		return nil, err
	}
	if sub.Name, err = model.ParseSubscriberName(storedName); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *PostgresSubscriberRepo) InsertToken(ctx context.Context, tx repository.Tx, token, subscriberID string) error {
	const q = `
INSERT INTO subscription_tokens (subscription_token, subscriber_id)
VALUES ($1,$2);`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, q, token, subscriberID); err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *PostgresSubscriberRepo) TokenForSubscriber(ctx context.Context, tx repository.Tx, subscriberID string) (string, error) {
	const q = `
SELECT subscription_token FROM subscription_tokens WHERE subscriber_id=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return "", err
	}
	var token string
	if err := ex.QueryRow(ctx, q, subscriberID).Scan(&token); err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("token for subscriber: %w", err)
	}
	return token, nil
}

func (r *PostgresSubscriberRepo) SubscriberIDForToken(ctx context.Context, tx repository.Tx, token string) (string, error) {
	const q = `
SELECT subscriber_id FROM subscription_tokens WHERE subscription_token=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return "", err
	}
	var id string
	if err := ex.QueryRow(ctx, q, token).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("subscriber for token: %w", err)
	}
	return id, nil
}

func (r *PostgresSubscriberRepo) MarkConfirmed(ctx context.Context, tx repository.Tx, subscriberID string) error {
	// Unconditional UPDATE keeps the transition idempotent: confirming an
	// already-confirmed subscriber rewrites the same value.
	const q = `
UPDATE subscriptions SET status='confirmed' WHERE id=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return err
	}
	tag, err := ex.Exec(ctx, q, subscriberID)
	if err != nil {
		return fmt.Errorf("mark confirmed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresSubscriberRepo) ListConfirmedEmails(ctx context.Context, tx repository.Tx) ([]string, error) {
	const q = `
SELECT email FROM subscriptions WHERE status='confirmed';`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list confirmed: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	return out, rows.Err()
}
