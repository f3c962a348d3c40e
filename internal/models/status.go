package models

// Order lifecycle. PENDING is initial, PICKED and CANCELLED are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusReady     = "ready"
	OrderStatusPicked    = "picked"
	OrderStatusCancelled = "cancelled"
)

var allowedTransitions = map[string][]string{
	OrderStatusPending: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:   {OrderStatusPicked},
}

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusReady, OrderStatusPicked, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
