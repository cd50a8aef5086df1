package models

type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusProcessing     Status = "processing"
	StatusShipped        Status = "shipped"
	StatusDelivered      Status = "delivered"
	StatusReadyForPickup Status = "ready_for_pickup"
	StatusPickedUp       Status = "picked_up"
	StatusCompleted      Status = "completed"
	StatusCancelled      Status = "cancelled"
	StatusReturned       Status = "returned"
)

// transitions is the intended lifecycle graph. Leaving pending for anything past
// confirmed is only legal for cash orders; callers check that separately.
var transitions = map[Status][]Status{
	StatusPending:        {StatusConfirmed, StatusProcessing, StatusShipped, StatusReadyForPickup, StatusCancelled},
	StatusConfirmed:      {StatusProcessing, StatusShipped, StatusReadyForPickup, StatusCancelled},
	StatusProcessing:     {StatusShipped, StatusReadyForPickup, StatusCancelled},
	StatusShipped:        {StatusShipped, StatusDelivered, StatusReturned, StatusCancelled},
	StatusReadyForPickup: {StatusPickedUp, StatusCancelled},
	StatusDelivered:      {StatusCompleted, StatusReturned},
	StatusPickedUp:       {StatusCompleted, StatusReturned},
}

func ParseStatus(raw string) (Status, bool) {
	s := Status(raw)
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped, StatusDelivered,
		StatusReadyForPickup, StatusPickedUp, StatusCompleted, StatusCancelled, StatusReturned:
		return s, true
	}
	return "", false
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s Status) Cancellable() bool {
	return CanTransition(s, StatusCancelled)
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}
