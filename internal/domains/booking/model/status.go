package model

import (
	"errors"
	"slices"
)

var (
	ErrUnknownStatus     = errors.New("unknown booking status")
	ErrTransitionDenied  = errors.New("status change not allowed for this role")
	ErrInvalidTransition = errors.New("booking cannot move to this status from its current status")
)

type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorProvider Actor = "provider"
)

type transition struct {
	from []string
	to   string
}

var transitions = map[Actor]map[string]transition{
	ActorCustomer: {
		StatusCancelled: {from: []string{StatusPending, StatusConfirmed}, to: StatusCancelled},
	},
	ActorProvider: {
		StatusConfirmed:  {from: []string{StatusPending}, to: StatusConfirmed},
		StatusRejected:   {from: []string{StatusPending}, to: StatusCancelled},
		StatusCancelled:  {from: []string{StatusPending, StatusConfirmed}, to: StatusCancelled},
		StatusInProgress: {from: []string{StatusConfirmed}, to: StatusInProgress},
		StatusCompleted:  {from: []string{StatusConfirmed, StatusInProgress}, to: StatusCompleted},
	},
}

// NextStatus resolves the stored status after actor requests requested on a booking currently in current.
func NextStatus(actor Actor, current, requested string) (string, error) {
	switch requested {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
	default:
		return "", ErrUnknownStatus
	}

	rule, ok := transitions[actor][requested]
	if !ok {
		return "", ErrTransitionDenied
	}

	if !slices.Contains(rule.from, current) {
		return "", ErrInvalidTransition
	}

	return rule.to, nil
}
