package enums

import "fmt"

// EntityType identifies which record family a pipeline stage is handling.
type EntityType string

const (
	EntityBook      EntityType = "book"
	EntityCustomer  EntityType = "customer"
	EntityOrder     EntityType = "order"
	EntityOrderItem EntityType = "order_item"
	EntityCart      EntityType = "cart"
	EntityInvoice   EntityType = "invoice"
)

// PromotionOrder is the fixed dependency order the load service must follow:
// orders reference customers, order items reference orders and books, and
// invoices reference orders.
var PromotionOrder = []EntityType{
	EntityCustomer,
	EntityBook,
	EntityOrder,
	EntityOrderItem,
	EntityCart,
	EntityInvoice,
}

var validEntityTypes = []EntityType{
	EntityBook,
	EntityCustomer,
	EntityOrder,
	EntityOrderItem,
	EntityCart,
	EntityInvoice,
}

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntityType.
func (e EntityType) IsValid() bool {
	for _, candidate := range validEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts raw input into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}
