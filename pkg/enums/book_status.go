package enums

import "fmt"

// BookStatus is the canonical catalog status vocabulary. Vendor-specific
// spellings (ACTIVE, PUBLISHED, HIDDEN, ...) are mapped onto these codes by the
// normalizer before validation.
type BookStatus string

const (
	BookStatusActive BookStatus = "HIEU_LUC"
	BookStatusHidden BookStatus = "AN"
)

var validBookStatuses = []BookStatus{
	BookStatusActive,
	BookStatusHidden,
}

// BookStatusValues returns the canonical codes as plain strings.
func BookStatusValues() []string {
	values := make([]string, 0, len(validBookStatuses))
	for _, candidate := range validBookStatuses {
		values = append(values, string(candidate))
	}
	return values
}

// String implements fmt.Stringer.
func (b BookStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BookStatus.
func (b BookStatus) IsValid() bool {
	for _, candidate := range validBookStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBookStatus converts raw input into a BookStatus.
func ParseBookStatus(value string) (BookStatus, error) {
	for _, candidate := range validBookStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid book status %q", value)
}
