package quality

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xdieuxd/BOOKNEST-ETL/internal/records"
)

// Rule inspects one aspect of a record and reports zero or more findings.
// Rules never mutate their input and never stop the chain.
type Rule[T any] func(T) []records.ValidationError

// Chain is an ordered list of independent rules. Every rule always runs, so a
// record with N violations reports all N errors.
type Chain[T any] []Rule[T]

// Validate runs the full chain and collects every finding.
func (c Chain[T]) Validate(v T) []records.ValidationError {
	var errs []records.ValidationError
	for _, rule := range c {
		errs = append(errs, rule(v)...)
	}
	return errs
}

func finding(field, rule, message string) []records.ValidationError {
	return []records.ValidationError{{Field: field, Rule: rule, Message: message}}
}

// NotBlank fails when the extracted string is empty or whitespace-only.
func NotBlank[T any](field, message string, get func(T) string) Rule[T] {
	return func(v T) []records.ValidationError {
		if strings.TrimSpace(get(v)) == "" {
			return finding(field, records.RuleNotBlank, message)
		}
		return nil
	}
}

// MaxLength fails when the extracted string exceeds max characters.
func MaxLength[T any](field string, max int, message string, get func(T) string) Rule[T] {
	return func(v T) []records.ValidationError {
		if len([]rune(get(v))) > max {
			return finding(field, records.RuleMaxLength, message)
		}
		return nil
	}
}

// Matches fails when a non-blank extracted string does not match the pattern.
// Blank values are left to NotBlank.
func Matches[T any](field, message string, pattern *regexp.Regexp, get func(T) string) Rule[T] {
	return func(v T) []records.ValidationError {
		value := get(v)
		if strings.TrimSpace(value) == "" {
			return nil
		}
		if !pattern.MatchString(value) {
			return finding(field, records.RuleRegex, message)
		}
		return nil
	}
}

// Positive fails when the extracted decimal is negative, or non-positive when
// allowZero is false. Comparison is exact decimal arithmetic.
func Positive[T any](field string, allowZero bool, message string, get func(T) decimal.Decimal) Rule[T] {
	return func(v T) []records.ValidationError {
		value := get(v)
		valid := value.IsPositive() || (allowZero && value.IsZero())
		if !valid {
			return finding(field, records.RulePositive, message)
		}
		return nil
	}
}

// PositiveInt is Positive for integer counts.
func PositiveInt[T any](field string, allowZero bool, message string, get func(T) int) Rule[T] {
	return func(v T) []records.ValidationError {
		value := get(v)
		valid := value > 0 || (allowZero && value == 0)
		if !valid {
			return finding(field, records.RulePositiveInt, message)
		}
		return nil
	}
}

// OneOf fails when a non-empty extracted string is outside the allowed set.
// Blank values are NotBlank's job; pair the two on required fields.
func OneOf[T any](field, message string, allowed []string, get func(T) string) Rule[T] {
	set := make(map[string]struct{}, len(allowed))
	for _, value := range allowed {
		set[value] = struct{}{}
	}
	return func(v T) []records.ValidationError {
		value := get(v)
		if value == "" {
			return nil
		}
		if _, ok := set[value]; !ok {
			return finding(field, records.RuleAllowedSet, message)
		}
		return nil
	}
}

// MinSize fails when the extracted slice holds fewer than min elements.
func MinSize[T any, E any](field string, min int, message string, get func(T) []E) Rule[T] {
	return func(v T) []records.ValidationError {
		if len(get(v)) < min {
			return finding(field, records.RuleMinSize, message)
		}
		return nil
	}
}

// NotNil fails when the extracted pointer is nil.
func NotNil[T any, V any](field, message string, get func(T) *V) Rule[T] {
	return func(v T) []records.ValidationError {
		if get(v) == nil {
			return finding(field, records.RuleNotNull, message)
		}
		return nil
	}
}

// NotInFuture fails when the extracted timestamp lies after the current time.
// Nil timestamps are skipped.
func NotInFuture[T any](field, message string, get func(T) *time.Time) Rule[T] {
	return func(v T) []records.ValidationError {
		value := get(v)
		if value == nil {
			return nil
		}
		if value.After(time.Now()) {
			return finding(field, records.RuleNotFuture, message)
		}
		return nil
	}
}
