package records

import "encoding/json"

// Rule codes carried on validation errors. These are stable machine-readable
// tags; human-readable text lives in Message.
const (
	RuleNotBlank      = "NOT_BLANK"
	RuleNotNull       = "NOT_NULL"
	RuleMaxLength     = "MAX_LENGTH"
	RuleRegex         = "REGEX"
	RulePositive      = "POSITIVE"
	RulePositiveInt   = "POSITIVE_INT"
	RuleAllowedSet    = "ALLOWED_SET"
	RuleMinSize       = "MIN_SIZE"
	RuleNotFuture     = "DATE_NOT_FUTURE"
	RuleFreePrice     = "FREE_PRICE"
	RuleTotalMismatch = "TOTAL_MISMATCH"
)

// ValidationError is one structured quality-gate finding. Field is a dotted
// path into the record, with indexed segments for collection members
// (items[2].unit_price).
type ValidationError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// MarshalErrors serializes a non-empty error list for the staging error
// column. Returns nil for an empty list so the column stays NULL.
func MarshalErrors(errs []ValidationError) *string {
	if len(errs) == 0 {
		return nil
	}
	raw, err := json.Marshal(errs)
	if err != nil {
		return nil
	}
	s := string(raw)
	return &s
}

// UnmarshalErrors restores an error list from its staged serialization.
func UnmarshalErrors(raw *string) ([]ValidationError, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var errs []ValidationError
	if err := json.Unmarshal([]byte(*raw), &errs); err != nil {
		return nil, err
	}
	return errs, nil
}
