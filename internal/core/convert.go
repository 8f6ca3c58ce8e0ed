package core

// convert.go provides the field coercions applied to booking CSV cells.
//
// Every Coerce* function is pure and returns a tagged Coerced value instead of
// silently substituting a default, so callers can tell an empty cell apart
// from one that failed to parse. The To* helpers convert tagged values into
// the pgtype and decimal nullable types carried by Campaign.

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers and decimals. Exponents are rejected: "1e2000000" would
// expand to two million digits.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// dateLayout is the only accepted date format of the export.
const dateLayout = "2006-01-02"

// State tags the outcome of a coercion.
type State int

const (
	Absent  State = iota // Empty cell
	OK                   // Parsed successfully
	Invalid              // Non-empty but unparsable
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case OK:
		return "ok"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Coerced is the tagged result of converting a raw cell to T.
// Value is only meaningful when State is OK; Raw keeps the original cell.
type Coerced[T any] struct {
	Value T
	State State
	Raw   string
}

// Valid reports whether the coercion succeeded.
func (c Coerced[T]) Valid() bool {
	return c.State == OK
}

func absent[T any]() Coerced[T] {
	return Coerced[T]{State: Absent}
}

func invalid[T any](raw string) Coerced[T] {
	return Coerced[T]{State: Invalid, Raw: raw}
}

func parsed[T any](v T, raw string) Coerced[T] {
	return Coerced[T]{Value: v, State: OK, Raw: raw}
}

// SeparatorPolicy decides how ',' and '.' are read inside numbers.
type SeparatorPolicy string

const (
	// CommaDecimal treats a comma as the decimal separator whenever one is
	// present; dots are then thousands separators.
	CommaDecimal SeparatorPolicy = "comma-decimal"

	// CommaThousands drops commas and reads '.' as the decimal point.
	CommaThousands SeparatorPolicy = "comma-thousands"
)

// ParseSeparatorPolicy validates a policy name.
func ParseSeparatorPolicy(s string) (SeparatorPolicy, error) {
	switch p := SeparatorPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case CommaDecimal, CommaThousands:
		return p, nil
	case "":
		return CommaDecimal, nil
	default:
		return "", fmt.Errorf("unknown separator policy %q", s)
	}
}

// CoercionPolicy decides what happens to a row with an Invalid field.
type CoercionPolicy string

const (
	// Lenient stores invalid fields as NULL.
	Lenient CoercionPolicy = "lenient"

	// Strict rejects the whole row.
	Strict CoercionPolicy = "strict"
)

// ParseCoercionPolicy validates a policy name.
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch p := CoercionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case Lenient, Strict:
		return p, nil
	case "":
		return Lenient, nil
	default:
		return "", fmt.Errorf("unknown coercion policy %q", s)
	}
}

// CoerceDate parses a YYYY-MM-DD date.
// Values starting with "2025-12" are rewritten to "2024-12": the export
// carries that year typo for every December booking.
func CoerceDate(s string) Coerced[time.Time] {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return absent[time.Time]()
	}

	if strings.HasPrefix(s, "2025-12") {
		s = "2024-12" + s[len("2025-12"):]
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return invalid[time.Time](raw)
	}
	return parsed(t, raw)
}

// cleanNumber strips currency symbols and spaces, applies the separator
// policy and validates the result. It returns "" for unparsable input.
// Accounting format "(123,45)" is read as negative.
func cleanNumber(s string, policy SeparatorPolicy) string {
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = s[1 : len(s)-1]
	}

	s = strings.NewReplacer(
		"$", "",
		"\u20ac", "", // Euro
		"\u00a3", "", // Pound
		"\u00a0", "", // No-break space
		" ", "",
	).Replace(s)

	switch policy {
	case CommaThousands:
		s = strings.ReplaceAll(s, ",", "")
	default:
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
	}

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return ""
	}
	return s
}

// CoerceDecimal parses a numeric cell under the given separator policy.
func CoerceDecimal(s string, policy SeparatorPolicy) Coerced[decimal.Decimal] {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return absent[decimal.Decimal]()
	}

	cleaned := cleanNumber(s, policy)
	if cleaned == "" {
		return invalid[decimal.Decimal](raw)
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return invalid[decimal.Decimal](raw)
	}
	return parsed(d, raw)
}

// CoerceInt parses a numeric cell and truncates any fractional part, so
// "10000.0" yields 10000. Values outside the int64 range are Invalid.
func CoerceInt(s string, policy SeparatorPolicy) Coerced[int64] {
	d := CoerceDecimal(s, policy)
	switch d.State {
	case Absent:
		return absent[int64]()
	case Invalid:
		return invalid[int64](d.Raw)
	}

	whole := d.Value.Truncate(0)
	if !whole.BigInt().IsInt64() {
		return invalid[int64](d.Raw)
	}
	return parsed(whole.IntPart(), d.Raw)
}

// CoerceChannel maps the export's channel codes.
func CoerceChannel(s string) Coerced[Channel] {
	raw := s
	switch strings.TrimSpace(s) {
	case "":
		return absent[Channel]()
	case "ig":
		return parsed(ChannelInstagram, raw)
	case "yt":
		return parsed(ChannelYouTube, raw)
	default:
		return invalid[Channel](raw)
	}
}

// ContentFlags derives the reminder and teaser flags from the content
// description. Matching is case-sensitive.
func ContentFlags(content string) (hasReminder, hasTeaser bool) {
	return strings.Contains(content, "rem."), strings.Contains(content, "teaser")
}

// RouteFollowUp assigns the follow-up date to the reminder or teaser slot
// depending on kind. At most one of the results is populated.
func RouteFollowUp(when Coerced[time.Time], kind string) (reminder, teaser Coerced[time.Time]) {
	switch kind {
	case "reminder":
		return when, absent[time.Time]()
	case "teaser":
		return absent[time.Time](), when
	default:
		return absent[time.Time](), absent[time.Time]()
	}
}

// MapStatus maps the export's status codes. Unknown values are active.
func MapStatus(s string) Status {
	switch s {
	case "done":
		return StatusCompleted
	case "tbd":
		return StatusPlanned
	default:
		return StatusActive
	}
}

// DeriveYear returns the year of a valid public date, else DefaultCampaignYear.
func DeriveYear(publicDate Coerced[time.Time]) int {
	if publicDate.Valid() {
		return publicDate.Value.Year()
	}
	return DefaultCampaignYear
}

// CampaignName builds "{brand} - {influencer} - {month} {year}", trimmed at
// the ends only.
func CampaignName(brand, influencer, month string, year int) string {
	return strings.TrimSpace(fmt.Sprintf("%s - %s - %s %d", brand, influencer, month, year))
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate converts a coerced date to pgtype.Date. Only OK values are valid.
func ToPgDate(c Coerced[time.Time]) pgtype.Date {
	if !c.Valid() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: c.Value, Valid: true}
}

// ToPgInt8 converts a coerced integer to pgtype.Int8.
func ToPgInt8(c Coerced[int64]) pgtype.Int8 {
	if !c.Valid() {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: c.Value, Valid: true}
}

// ToNullDecimal converts a coerced decimal to decimal.NullDecimal.
func ToNullDecimal(c Coerced[decimal.Decimal]) decimal.NullDecimal {
	if !c.Valid() {
		return decimal.NullDecimal{Valid: false}
	}
	return decimal.NullDecimal{Decimal: c.Value, Valid: true}
}

// ToPgChannel converts a coerced channel to pgtype.Text.
func ToPgChannel(c Coerced[Channel]) pgtype.Text {
	if !c.Valid() {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: string(c.Value), Valid: true}
}

// MakeHeaderIndex creates a HeaderIndex from a CSV header row.
// Names are matched exactly; the first occurrence of a repeated name wins.
func MakeHeaderIndex(header []string) HeaderIndex {
	idx := make(HeaderIndex, len(header))
	for i, h := range header {
		if _, exists := idx[h]; !exists {
			idx[h] = i
		}
	}
	return idx
}
