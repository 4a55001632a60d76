// Package workflow holds the verification state machine of a listing.
//
// A listing starts in pending and a reviewer moves it to verified or
// rejected. Both are terminal. Every transition goes through Apply, so callers
// never write a status directly.
package workflow

import (
	"errors"
	"fmt"

	"listingBoard/internal/models"
)

type Action string

const (
	Accept Action = `accept`
	Reject Action = `reject`
)

var (
	ErrTerminal      = errors.New("listing verification is already final")
	ErrUnknownAction = errors.New("unknown verification action")
	ErrUnknownStatus = errors.New("unknown verification target")
)

// Table maps state × action to the next state. A missing entry is a rejected transition.
var Table = map[models.VerificationStatus]map[Action]models.VerificationStatus{
	models.StatusPending: {
		Accept: models.StatusVerified,
		Reject: models.StatusRejected,
	},
}

func Initial() models.VerificationStatus {
	return models.StatusPending
}

func IsTerminal(s models.VerificationStatus) bool {
	return len(Table[s]) == 0
}

func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case Accept, Reject:
		return Action(s), nil
	}
	return ``, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Apply returns the state reached from `from` by `action`.
func Apply(from models.VerificationStatus, action Action) (models.VerificationStatus, error) {
	if action != Accept && action != Reject {
		return from, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	next, ok := Table[from][action]
	if !ok {
		return from, fmt.Errorf("%w: cannot %s a %s listing", ErrTerminal, action, from)
	}

	return next, nil
}

// ActionFor maps the target status of a PATCH/PUT body to the action reaching it.
func ActionFor(target models.VerificationStatus) (Action, error) {
	switch target {
	case models.StatusVerified:
		return Accept, nil
	case models.StatusRejected:
		return Reject, nil
	}
	return ``, fmt.Errorf("%w: %q", ErrUnknownStatus, target)
}
