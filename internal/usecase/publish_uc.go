package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/KrappRamiro/zero2prod/internal/domain/model"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/adapter"
	"github.com/KrappRamiro/zero2prod/internal/domain/ports/repository"
	"github.com/KrappRamiro/zero2prod/internal/infra/logging"
	"github.com/KrappRamiro/zero2prod/internal/infra/metrics"
	"github.com/KrappRamiro/zero2prod/internal/infra/worker"
)

// Compile-time check
var _ PublishUseCase = (*publishUC)(nil)

// Delivery summarizes one broadcast: how many confirmed subscribers were
// sent the issue, how many were skipped because their stored email no longer
// validates, and how many sends failed.
type Delivery struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// PublishUseCase broadcasts a newsletter issue to every confirmed
// subscriber. Per-recipient problems (stale invalid email, transport
// failure) are logged and counted, never fatal; only failing to read the
// confirmed set aborts the broadcast. A non-empty idempotencyKey makes the
// request replay-safe: a key seen before returns the recorded summary
// without sending anything.
type PublishUseCase interface {
	Publish(ctx context.Context, issue *model.Issue, idempotencyKey string) (*Delivery, error)
}

type publishUC struct {
	subs   repository.SubscriberRepository
	sender adapter.EmailSender
	pool   *worker.Pool
	idem   adapter.IdempotencyStore
	log    *zerolog.Logger
}

func NewPublishUseCase(
	subs repository.SubscriberRepository,
	sender adapter.EmailSender,
	pool *worker.Pool,
	idem adapter.IdempotencyStore,
	logger *zerolog.Logger,
) *publishUC {
	return &publishUC{
		subs:   subs,
		sender: sender,
		pool:   pool,
		idem:   idem,
		log:    logger,
	}
}

func (u *publishUC) Publish(ctx context.Context, issue *model.Issue, idempotencyKey string) (*Delivery, error) {
	defer logging.TraceDuration(u.log, "PublishUC.Publish")()
	start := time.Now()

	if idempotencyKey != "" && u.idem != nil {
		if stored, seen, err := u.idem.Get(ctx, idempotencyKey); err != nil {
			// The store being unreachable must not block the broadcast.
			u.log.Warn().Err(err).Msg("idempotency store lookup failed; proceeding")
		} else if seen {
			var d Delivery
			if err := json.Unmarshal(stored, &d); err == nil {
				u.log.Info().Str("idempotency_key", idempotencyKey).Msg("replayed newsletter publish")
				return &d, nil
			}
		}
	}

	emails, err := u.subs.ListConfirmedEmails(ctx, repository.NoTX)
	if err != nil {
		return nil, fmt.Errorf("list confirmed subscribers: %w", err)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
		d  Delivery
	)
	for _, raw := range emails {
		// Validation rules can tighten after a row was written; an address
		// that no longer parses is skipped, not fatal.
		email, err := model.ParseSubscriberEmail(raw)
		if err != nil {
			u.log.Warn().Err(err).Msg("skipping a confirmed subscriber, their stored contact details are invalid")
			d.Skipped++
			continue
		}

		msg := adapter.Message{
			To:      email.String(),
			Subject: issue.Title,
			HTML:    issue.HTML,
			Text:    issue.Text,
		}
		wg.Add(1)
		task := func(taskCtx context.Context) error {
			defer wg.Done()
			err := u.sender.Send(taskCtx, msg)
			mu.Lock()
			if err != nil {
				d.Failed++
			} else {
				d.Sent++
			}
			mu.Unlock()
			metrics.IncEmailSent("newsletter", err == nil)
			if err != nil {
				u.log.Warn().Err(err).Str("recipient", msg.To).Msg("failed to send newsletter issue")
			}
			return nil // counted above; the pool should not double-log
		}
		if err := u.pool.SubmitWait(ctx, task); err != nil {
			wg.Done()
			mu.Lock()
			d.Failed++
			mu.Unlock()
			u.log.Warn().Err(err).Str("recipient", msg.To).Msg("failed to enqueue newsletter send")
		}
	}
	wg.Wait()
	metrics.ObservePublishLatency(float64(time.Since(start).Milliseconds()))

	if idempotencyKey != "" && u.idem != nil {
		if b, err := json.Marshal(&d); err == nil {
			if err := u.idem.Set(ctx, idempotencyKey, b, 0); err != nil {
				u.log.Warn().Err(err).Msg("failed to record idempotency key")
			}
		}
	}

	u.log.Info().Int("sent", d.Sent).Int("skipped", d.Skipped).Int("failed", d.Failed).Msg("newsletter broadcast finished")
	return &d, nil
}
