package enums

import "fmt"

// QualityStatus tracks where a staged record sits in the quality gate.
type QualityStatus string

const (
	QualityStatusRaw       QualityStatus = "RAW"
	QualityStatusValidated QualityStatus = "VALIDATED"
	QualityStatusRejected  QualityStatus = "REJECTED"
	QualityStatusFixed     QualityStatus = "FIXED"
)

var validQualityStatuses = []QualityStatus{
	QualityStatusRaw,
	QualityStatusValidated,
	QualityStatusRejected,
	QualityStatusFixed,
}

// String implements fmt.Stringer.
func (q QualityStatus) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QualityStatus.
func (q QualityStatus) IsValid() bool {
	for _, candidate := range validQualityStatuses {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQualityStatus converts raw input into a QualityStatus.
func ParseQualityStatus(value string) (QualityStatus, error) {
	for _, candidate := range validQualityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quality status %q", value)
}
