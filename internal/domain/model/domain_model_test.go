//go:build !integration

package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/KrappRamiro/zero2prod/internal/domain"
)

// --- SubscriberName Tests ---

func TestParseSubscriberName(t *testing.T) {
	t.Run("should accept an ordinary name and trim whitespace", func(t *testing.T) {
		name, err := ParseSubscriberName("  le guin  ")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if name.String() != "le guin" {
			t.Errorf("expected trimmed name 'le guin', but got %q", name.String())
		}
	})

	t.Run("should reject whitespace-only names", func(t *testing.T) {
		for _, raw := range []string{"", " ", "\t \n"} {
			if _, err := ParseSubscriberName(raw); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("ParseSubscriberName(%q): expected ErrInvalidArgument, got %v", raw, err)
			}
		}
	})

	t.Run("should count grapheme clusters, not code points", func(t *testing.T) {
		// The family emoji is one user-perceived character built from
		// several code points joined with ZWJ.
		family := "\U0001F468‍\U0001F469‍\U0001F467"

		if _, err := ParseSubscriberName(strings.Repeat(family, 256)); err != nil {
			t.Errorf("256 grapheme clusters should be accepted, got: %v", err)
		}
		if _, err := ParseSubscriberName(strings.Repeat(family, 257)); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("257 grapheme clusters should be rejected, got: %v", err)
		}
		if _, err := ParseSubscriberName(strings.Repeat("a", 256)); err != nil {
			t.Errorf("256 ascii characters should be accepted, got: %v", err)
		}
	})

	t.Run("should reject every forbidden character", func(t *testing.T) {
		for _, c := range []string{"/", "(", ")", `"`, "<", ">", `\`, "{", "}"} {
			raw := "le" + c + "guin"
			if _, err := ParseSubscriberName(raw); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("ParseSubscriberName(%q): expected ErrInvalidArgument, got %v", raw, err)
			}
		}
	})
}

// --- SubscriberEmail Tests ---

func TestParseSubscriberEmail(t *testing.T) {
	t.Run("should accept a well-formed address", func(t *testing.T) {
		email, err := ParseSubscriberEmail("ursula_le_guin@gmail.com")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if email.String() != "ursula_le_guin@gmail.com" {
			t.Errorf("unexpected parsed value %q", email.String())
		}
	})

	t.Run("should reject malformed addresses", func(t *testing.T) {
		for _, raw := range []string{"", "ursulagmail.com", "@gmail.com", "ursula@", "ursula @gmail.com"} {
			if _, err := ParseSubscriberEmail(raw); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("ParseSubscriberEmail(%q): expected ErrInvalidArgument, got %v", raw, err)
			}
		}
	})
}

// --- Subscriber / Issue Tests ---

func TestNewSubscriber(t *testing.T) {
	name, _ := ParseSubscriberName("le guin")
	email, _ := ParseSubscriberEmail("ursula_le_guin@gmail.com")

	t.Run("should start pending", func(t *testing.T) {
		sub, err := NewSubscriber("id-1", email, name)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if sub.Status != SubscriberStatusPending {
			t.Errorf("expected status 'pending_confirmation', but got %q", sub.Status)
		}
		if sub.SubscribedAt.IsZero() {
			t.Error("expected SubscribedAt to be set")
		}
	})

	t.Run("should fail with empty id", func(t *testing.T) {
		if _, err := NewSubscriber("", email, name); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestNewIssue(t *testing.T) {
	t.Run("should require a title and at least one body", func(t *testing.T) {
		if _, err := NewIssue("", "<p>hi</p>", "hi"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty title, got %v", err)
		}
		if _, err := NewIssue("Issue #1", "", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument for empty bodies, got %v", err)
		}
		if _, err := NewIssue("Issue #1", "<p>hi</p>", "hi"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}
