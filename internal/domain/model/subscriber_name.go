package model

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/KrappRamiro/zero2prod/internal/domain"
)

// maxNameGraphemes is a limit on user-perceived characters, not bytes or
// runes. A multi-code-point glyph (emoji, combining accents) counts once.
const maxNameGraphemes = 256

var forbiddenNameCharacters = [...]rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName is a display name that passed validation. The zero value is
// not valid; obtain one through ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName trims surrounding whitespace and rejects names that are
// empty, longer than 256 grapheme clusters, or contain a forbidden character.
// No other normalization is applied.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return SubscriberName{}, fmt.Errorf("%w: name is empty or whitespace", domain.ErrInvalidArgument)
	}
	if uniseg.GraphemeClusterCount(trimmed) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("%w: name exceeds %d characters", domain.ErrInvalidArgument, maxNameGraphemes)
	}
	for _, c := range forbiddenNameCharacters {
		if strings.ContainsRune(trimmed, c) {
			return SubscriberName{}, fmt.Errorf("%w: name contains forbidden character %q", domain.ErrInvalidArgument, c)
		}
	}
	return SubscriberName{value: trimmed}, nil
}

func (n SubscriberName) String() string { return n.value }
