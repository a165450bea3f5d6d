package enums

import "fmt"

// CustomerStatus is the canonical account status vocabulary.
type CustomerStatus string

const (
	CustomerStatusActive CustomerStatus = "HOAT_DONG"
	CustomerStatusLocked CustomerStatus = "KHOA"
)

var validCustomerStatuses = []CustomerStatus{
	CustomerStatusActive,
	CustomerStatusLocked,
}

// CustomerStatusValues returns the canonical codes as plain strings.
func CustomerStatusValues() []string {
	values := make([]string, 0, len(validCustomerStatuses))
	for _, candidate := range validCustomerStatuses {
		values = append(values, string(candidate))
	}
	return values
}

// String implements fmt.Stringer.
func (c CustomerStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerStatus.
func (c CustomerStatus) IsValid() bool {
	for _, candidate := range validCustomerStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerStatus converts raw input into a CustomerStatus.
func ParseCustomerStatus(value string) (CustomerStatus, error) {
	for _, candidate := range validCustomerStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer status %q", value)
}
