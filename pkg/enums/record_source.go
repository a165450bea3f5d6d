package enums

import "fmt"

// RecordSource tags where an ingested record came from.
type RecordSource string

const (
	SourceDatabase RecordSource = "database-extract"
	SourceCSV      RecordSource = "csv-batch"
	SourceUpload   RecordSource = "interactive-upload"
)

var validRecordSources = []RecordSource{
	SourceDatabase,
	SourceCSV,
	SourceUpload,
}

// String implements fmt.Stringer.
func (s RecordSource) String() string {
	return string(s)
}

// IsValid reports whether the value is a known RecordSource.
func (s RecordSource) IsValid() bool {
	for _, candidate := range validRecordSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseRecordSource converts raw input into a RecordSource.
func ParseRecordSource(value string) (RecordSource, error) {
	for _, candidate := range validRecordSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid record source %q", value)
}
