package core

// validation.go checks CSV input against the bookings column contract.
//
// Validation happens at two levels:
//  1. Header validation: Reports expected columns absent from the header.
//     Missing columns are tolerated and read as empty cells.
//  2. Row validation: Rows without a required identity value are skipped.

import (
	"github.com/JonMunkholm/bookingsql/internal/schema"
)

// CheckHeader returns the expected columns missing from header, in field order.
func CheckHeader(header []string, specs []schema.FieldSpec) []string {
	idx := MakeHeaderIndex(header)
	var missing []string

	for _, spec := range specs {
		if _, ok := idx[spec.Name]; !ok {
			missing = append(missing, spec.Name)
		}
	}

	return missing
}

// CheckRequired reports why row must be skipped, or SkipNone.
func CheckRequired(row RawRow) SkipReason {
	if row.Get(schema.ColBrand) == "" {
		return SkipMissingBrand
	}
	if row.Get(schema.ColInfluencer) == "" {
		return SkipMissingInfluencer
	}
	return SkipNone
}
