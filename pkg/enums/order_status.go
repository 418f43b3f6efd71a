package enums

import "fmt"

// OrderStatus tracks the linear lifecycle of an order.
type OrderStatus string

const (
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusDone       OrderStatus = "done"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusCreated,
	OrderStatusInProgress,
	OrderStatusDone,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// Next returns the successor state. The lifecycle is strictly linear with no
// backward or cancellation transitions.
func (o OrderStatus) Next() (OrderStatus, bool) {
	switch o {
	case OrderStatusCreated:
		return OrderStatusInProgress, true
	case OrderStatusInProgress:
		return OrderStatusDone, true
	default:
		return "", false
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
