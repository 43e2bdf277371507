package statemachine

import (
	"fmt"
	"strings"

	"food-delivery-orders/apperrors"
	"food-delivery-orders/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor models.UserRole    `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	{From: models.StatusPending, To: models.StatusAcceptedByRestaurant, Actor: models.RoleRestaurant},
	{From: models.StatusPending, To: models.StatusRejectedByRestaurant, Actor: models.RoleRestaurant},
	{From: models.StatusAcceptedByRestaurant, To: models.StatusReadyForDelivery, Actor: models.RoleRestaurant},
	{From: models.StatusReadyForDelivery, To: models.StatusAcceptedByDelivery, Actor: models.RoleDriver},
	{From: models.StatusAcceptedByDelivery, To: models.StatusInDelivery, Actor: models.RoleDriver},
	{From: models.StatusInDelivery, To: models.StatusDelivered, Actor: models.RoleDriver},
	// No cancellation once the kitchen handed the order to delivery.
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusAcceptedByRestaurant, To: models.StatusCancelled, Actor: models.RoleCustomer},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// AllowedFor returns the next states the given actor may move an order to.
func AllowedFor(actor models.UserRole, status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	for _, t := range validTransitions {
		if t.From == status && t.Actor == actor {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another.
// The returned error is an InvalidTransition.
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return apperrors.NewInvalidTransitionError(fmt.Sprintf(
		"invalid transition: %s → %s is not allowed for actor '%s'. Valid transitions from %s are: %s",
		from, to, actor, from, describeValidFrom(from),
	))
}

// IsAssignment reports whether the transition hands the order to a driver.
func IsAssignment(from, to models.OrderStatus) bool {
	return from == models.StatusReadyForDelivery && to == models.StatusAcceptedByDelivery
}

func describeValidFrom(status models.OrderStatus) string {
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

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}

// TerminalStates lists states with no outgoing transitions.
func TerminalStates() []models.OrderStatus {
	var terminal []models.OrderStatus
	for _, s := range models.AllStatuses {
		if len(ValidTransitionsFrom(s)) == 0 {
			terminal = append(terminal, s)
		}
	}
	return terminal
}
