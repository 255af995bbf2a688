package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KrappRamiro/zero2prod/internal/domain"
	"github.com/KrappRamiro/zero2prod/internal/domain/model"
	"github.com/KrappRamiro/zero2prod/internal/infra/logging"
)

// subscribeHandler accepts an application/x-www-form-urlencoded body with
// "name" and "email" fields.
func (s *Server) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return
	}
	name := r.PostForm.Get("name")
	email := r.PostForm.Get("email")

	ctx := logging.WithSubscriberName(r.Context(), name)
	ctx = logging.WithSubscriberEmail(ctx, email)
	logging.With(ctx, s.log).Info().Msg("adding a new subscriber")

	if err := s.subscribeUC.Subscribe(ctx, name, email); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// confirmHandler resolves the subscription_token query parameter. A request
// without the parameter, or with one that does not have the shape of an
// issued token, is a client mistake; a well-formed token we never issued is
// treated as unauthorized.
func (s *Server) confirmHandler(w http.ResponseWriter, r *http.Request) {
	rawToken := r.URL.Query().Get("subscription_token")
	if err := s.confirmUC.Confirm(r.Context(), rawToken); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type publishRequest struct {
	Title   string `json:"title"`
	Content struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"content"`
}

type publishResponse struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// publishHandler accepts a JSON issue and broadcasts it to every confirmed
// subscriber. An optional Idempotency-Key header makes retries replay-safe.
func (s *Server) publishHandler(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed json body", http.StatusBadRequest)
		return
	}
	issue, err := model.NewIssue(req.Title, req.Content.HTML, req.Content.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	delivery, err := s.publishUC.Publish(r.Context(), issue, r.Header.Get("Idempotency-Key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(publishResponse{
		Sent:    delivery.Sent,
		Skipped: delivery.Skipped,
		Failed:  delivery.Failed,
	})
}

// writeError maps domain errors to status codes. Internal failures are
// logged with their cause but answered with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrTokenMalformed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrTokenUnknown):
		http.Error(w, "unknown subscription token", http.StatusUnauthorized)
	default:
		logging.With(r.Context(), s.log).Error().Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
		http.Error(w, "something went wrong", http.StatusInternalServerError)
	}
}
