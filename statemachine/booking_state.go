package statemachine

import (
	"fmt"
	"strings"

	"github.com/yeremiapane/cook-platform/models"
)

type Actor string

const (
	ActorCook     Actor = "cook"
	ActorCustomer Actor = "customer"
)

// Transition is a status change and the party allowed to perform it.
type Transition struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor Actor
}

var validTransitions = []Transition{
	{From: models.StatusRequested, To: models.StatusConfirmed, Actor: ActorCook},
	{From: models.StatusConfirmed, To: models.StatusCompleted, Actor: ActorCook},

	// either party may cancel while the booking is still open
	{From: models.StatusRequested, To: models.StatusCancelled, Actor: ActorCook},
	{From: models.StatusRequested, To: models.StatusCancelled, Actor: ActorCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorCook},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: ActorCustomer},
}

type transitionKey struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// InvalidTransitionError is returned by CanTransition.
type InvalidTransitionError struct {
	From  models.BookingStatus
	To    models.BookingStatus
	Actor Actor
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s is not allowed for %s (valid from %s: %s)",
		e.From, e.To, e.Actor, e.From, describeValidFrom(e.From))
}

func CanTransition(from, to models.BookingStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to, Actor: actor}
}

// ValidTransitionsFrom lists the distinct next states reachable from status.
func ValidTransitionsFrom(status models.BookingStatus) []models.BookingStatus {
	var nexts []models.BookingStatus
	seen := map[models.BookingStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

func describeValidFrom(status models.BookingStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
