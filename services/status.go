package services

const (
	OrderStatusNew       = "new"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusOnTheWay  = "on_the_way"
	OrderStatusDelivered = "delivered"
)

// statusChain is the only legal order of states. No skipping, no going
// back; delivered is terminal.
var statusChain = map[string]string{
	OrderStatusNew:       OrderStatusPreparing,
	OrderStatusPreparing: OrderStatusReady,
	OrderStatusReady:     OrderStatusOnTheWay,
	OrderStatusOnTheWay:  OrderStatusDelivered,
}

// ValidStatusTransition reports whether from -> to is a legal single step.
func ValidStatusTransition(from, to string) bool {
	next, ok := statusChain[from]
	return ok && next == to
}

// NextStatus returns the follow-up state, or "" when from is terminal or
// unknown.
func NextStatus(from string) string {
	return statusChain[from]
}

// IsKnownStatus reports whether s is a modeled order state.
func IsKnownStatus(s string) bool {
	if s == OrderStatusDelivered {
		return true
	}
	_, ok := statusChain[s]
	return ok
}

// advanceTarget resolves the requested next state. An empty request means
// "one step forward"; anything else must be the legal single step from
// current.
func advanceTarget(current, to string) (string, error) {
	if to == "" {
		next := NextStatus(current)
		if next == "" {
			return "", preconditionErr("order is already %s", current)
		}
		return next, nil
	}
	if !ValidStatusTransition(current, to) {
		return "", preconditionErr("order cannot move from %s to %s", current, to)
	}
	return to, nil
}

// riderAttachable states are the only ones where rider assignment means
// anything.
func riderAttachable(status string) bool {
	return status == OrderStatusReady || status == OrderStatusOnTheWay
}
