package enums

import "fmt"

// InvoiceStatus is the canonical invoice payment vocabulary.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid    InvoiceStatus = "CHO_THANH_TOAN"
	InvoiceStatusPaid      InvoiceStatus = "DA_THANH_TOAN"
	InvoiceStatusCancelled InvoiceStatus = "DA_HUY"
	InvoiceStatusRefunded  InvoiceStatus = "DA_HOAN_TIEN"
)

var validInvoiceStatuses = []InvoiceStatus{
	InvoiceStatusUnpaid,
	InvoiceStatusPaid,
	InvoiceStatusCancelled,
	InvoiceStatusRefunded,
}

// InvoiceStatusValues returns the canonical codes as plain strings.
func InvoiceStatusValues() []string {
	values := make([]string, 0, len(validInvoiceStatuses))
	for _, candidate := range validInvoiceStatuses {
		values = append(values, string(candidate))
	}
	return values
}

// String implements fmt.Stringer.
func (i InvoiceStatus) String() string {
	return string(i)
}

// IsValid reports whether the value is a known InvoiceStatus.
func (i InvoiceStatus) IsValid() bool {
	for _, candidate := range validInvoiceStatuses {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseInvoiceStatus converts raw input into an InvoiceStatus.
func ParseInvoiceStatus(value string) (InvoiceStatus, error) {
	for _, candidate := range validInvoiceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid invoice status %q", value)
}
