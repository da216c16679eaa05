package cart

import "strings"

// DeliverySegment is the reserved path segment marking a delivery order.
const DeliverySegment = "delivery"

// SessionContext is the table-token-or-delivery identity under which an order
// is submitted. Exactly one of the two applies.
type SessionContext struct {
	Token      string
	IsDelivery bool
}

// SessionFromPath derives the submission context from the current page path.
// The final segment is the table token unless it is the delivery sentinel or
// absent, in which case the order is a delivery order.
func SessionFromPath(path string) SessionContext {
	trimmed := strings.Trim(path, "/")
	segments := strings.Split(trimmed, "/")
	last := segments[len(segments)-1]

	if last == "" || last == DeliverySegment {
		return SessionContext{IsDelivery: true}
	}
	return SessionContext{Token: last}
}
