package model

import "github.com/KrappRamiro/zero2prod/internal/domain"

// Issue is a newsletter issue to broadcast. It is a per-request value,
// never persisted.
type Issue struct {
	Title string
	HTML  string
	Text  string
}

func NewIssue(title, html, text string) (*Issue, error) {
	if title == "" {
		return nil, domain.ErrInvalidArgument
	}
	if html == "" && text == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Issue{Title: title, HTML: html, Text: text}, nil
}
