package domain

import "fmt"

// Status is the lifecycle state of a shipment.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusOnRouteToCollect Status = "ON_ROUTE_TO_COLLECT"
	StatusCollected        Status = "COLLECTED"
	StatusShipped          Status = "SHIPPED"
	StatusCompleted        Status = "COMPLETED"
	StatusCanceled         Status = "CANCELED"
)

// allowedTransitions is the full transition table. Terminal states map
// to an empty set.
var allowedTransitions = map[Status][]Status{
	StatusPending:          {StatusOnRouteToCollect, StatusCanceled},
	StatusOnRouteToCollect: {StatusCollected, StatusCanceled},
	StatusCollected:        {StatusShipped, StatusCanceled},
	StatusShipped:          {StatusCompleted, StatusCanceled},
	StatusCompleted:        {},
	StatusCanceled:         {},
}

// stampColumns maps a destination status to the date column stamped on
// the first transition into it. ON_ROUTE_TO_COLLECT has no column of
// its own and stamps nothing.
var stampColumns = map[Status]string{
	StatusCollected: "collected_date",
	StatusShipped:   "shipped_date",
	StatusCompleted: "completed_date",
	StatusCanceled:  "canceled_date",
}

// ParseStatus validates a raw status literal.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := allowedTransitions[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// Valid reports whether s is a member of the status enum.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return len(allowedTransitions[s]) == 0 && s.Valid()
}

// CanTransitionTo reports whether s -> target is an edge in the
// transition table. A no-op (target == s) is never allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// StampColumn returns the date column to set when a shipment first
// enters s, or "" when s carries no timestamp.
func (s Status) StampColumn() string {
	return stampColumns[s]
}
