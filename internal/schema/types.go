// Package schema declares the column contract of the bookings CSV export and
// the target tables the generated SQL writes to.
package schema

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDate
	FieldNumeric
	FieldInteger
)

// String returns the lowercase name used in log and error messages.
func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldEnum:
		return "enum"
	case FieldDate:
		return "date"
	case FieldNumeric:
		return "numeric"
	case FieldInteger:
		return "integer"
	default:
		return "value"
	}
}

// FieldSpec defines the expectations for a single CSV column.
type FieldSpec struct {
	Name       string    // Column header name (must match CSV exactly)
	Type       FieldType // Expected data type
	Required   bool      // Rows with an empty value are skipped
	EnumValues []string  // Recognized raw values for FieldEnum
}

// Names returns the header names of specs in declaration order.
func Names(specs []FieldSpec) []string {
	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	return names
}
