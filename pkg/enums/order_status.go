package enums

import "fmt"

// OrderStatus is the canonical order lifecycle vocabulary shared by the
// normalizer's mapping table and the validator's allowed-value rule.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "CHO_XAC_NHAN"
	OrderStatusConfirmed OrderStatus = "DA_XAC_NHAN"
	OrderStatusShipping  OrderStatus = "DANG_GIAO"
	OrderStatusDelivered OrderStatus = "DA_GIAO"
	OrderStatusCancelled OrderStatus = "DA_HUY"
	OrderStatusCompleted OrderStatus = "HOAN_THANH"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipping,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusCompleted,
}

// OrderStatusValues returns the canonical codes as plain strings.
func OrderStatusValues() []string {
	values := make([]string, 0, len(validOrderStatuses))
	for _, candidate := range validOrderStatuses {
		values = append(values, string(candidate))
	}
	return values
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

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
