// Package view holds the dashboard selection state machine and binds
// aggregates and derived metrics into chart and table shapes.
package view

import (
	"errors"
	"fmt"
	"strings"
)

type (
	Card  string
	Level string
)

const (
	CardNone       Card = ""
	CardExpenses   Card = "expenses"
	CardEarnings   Card = "earnings"
	CardComparison Card = "comparison"
	CardRunway     Card = "runway"
)

const (
	LevelOrganization Level = "organization"
	LevelAccount      Level = "account"
)

var (
	ErrNoCategorySet = errors.New("selected card has no categories to expand")
	ErrUnknownCard   = errors.New("unknown card")
	ErrUnknownLevel  = errors.New("unknown dashboard level")
)

// State is one session's dashboard selection. Transitions return a new value
// and leave the receiver unchanged, so a failed transition cannot corrupt it.
type State struct {
	Card         Card   `json:"card"`
	OpenCategory string `json:"openCategory,omitempty"`
	Level        Level  `json:"level"`
	AccountID    string `json:"accountId,omitempty"`
	Loaded       bool   `json:"loaded"`
}

// NewState returns the initial state: nothing selected, organization level.
func NewState() State {
	return State{Card: CardNone, Level: LevelOrganization}
}

// ParseCard accepts the card names used by the API.
func ParseCard(s string) (Card, error) {
	switch c := Card(strings.ToLower(strings.TrimSpace(s))); c {
	case CardExpenses, CardEarnings, CardComparison, CardRunway:
		return c, nil
	default:
		return CardNone, fmt.Errorf("%w: %q", ErrUnknownCard, s)
	}
}

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelOrganization, LevelAccount:
		return l, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// HasCategories reports whether the card is backed by a category aggregate.
func (c Card) HasCategories() bool {
	return c == CardExpenses || c == CardEarnings
}

// MarkLoaded records the first successful fetch. The expense card is selected
// automatically only the first time.
func (s State) MarkLoaded() State {
	if s.Loaded {
		return s
	}
	s.Loaded = true
	if s.Card == CardNone {
		s.Card = CardExpenses
	}
	return s
}

// Select switches card. Switching to a different card collapses the
// expanded category.
func (s State) Select(c Card) State {
	if c != s.Card {
		s.OpenCategory = ""
	}
	s.Card = c
	return s
}

// Toggle expands category, or collapses it when it is already expanded.
func (s State) Toggle(category string) (State, error) {
	if !s.Card.HasCategories() {
		return s, ErrNoCategorySet
	}
	if s.OpenCategory == category {
		s.OpenCategory = ""
	} else {
		s.OpenCategory = category
	}
	return s, nil
}

// SetLevel switches between organization and account level and clears the
// selected account either way.
func (s State) SetLevel(l Level) State {
	s.Level = l
	s.AccountID = ""
	return s
}

// SetAccount filters by accountID. Selecting an account implies account level;
// an empty id removes the filter.
func (s State) SetAccount(accountID string) State {
	s.AccountID = strings.TrimSpace(accountID)
	if s.AccountID != "" {
		s.Level = LevelAccount
	}
	return s
}

// Filter returns the account filter in effect. Organization level never
// filters.
func (s State) Filter() string {
	if s.Level != LevelAccount {
		return ""
	}
	return s.AccountID
}
