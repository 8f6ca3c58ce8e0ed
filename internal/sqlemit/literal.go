package sqlemit

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	sqlNull = "NULL"
	sqlNow  = "NOW()"
)

// Quote renders s as a string literal. Single quotes are doubled; nothing
// else is escaped.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Text renders an optional text value.
func Text(t pgtype.Text) string {
	if !t.Valid {
		return sqlNull
	}
	return Quote(t.String)
}

// Date renders an optional date as 'YYYY-MM-DD'.
func Date(d pgtype.Date) string {
	if !d.Valid {
		return sqlNull
	}
	return "'" + d.Time.Format("2006-01-02") + "'"
}

// Int8 renders an optional integer unquoted.
func Int8(i pgtype.Int8) string {
	if !i.Valid {
		return sqlNull
	}
	return strconv.FormatInt(i.Int64, 10)
}

// Int4 renders an optional integer unquoted.
func Int4(i pgtype.Int4) string {
	if !i.Valid {
		return sqlNull
	}
	return strconv.FormatInt(int64(i.Int32), 10)
}

// Decimal renders an optional numeric unquoted.
func Decimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return sqlNull
	}
	return d.Decimal.String()
}

// Bool renders TRUE or FALSE.
func Bool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// BrandRef renders the subquery resolving a brand id by name.
func BrandRef(name string) string {
	return "(SELECT id FROM brands WHERE name = " + Quote(name) + " LIMIT 1)"
}

// InfluencerRef renders the subquery resolving an influencer id by handle.
func InfluencerRef(handle string) string {
	return "(SELECT id FROM influencers WHERE instagram_handle = " + Quote(handle) + " LIMIT 1)"
}
