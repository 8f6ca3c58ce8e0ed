package core

import (
	"github.com/JonMunkholm/bookingsql/internal/schema"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// Normalizer turns raw rows into campaigns.
type Normalizer struct {
	Separator SeparatorPolicy
}

// Normalize converts row into a Campaign without a handle; the collector
// assigns it. Every non-empty cell that failed to parse is reported and stored
// as absent. A row missing its brand or influencer returns a SkipReason and
// no campaign.
func (n Normalizer) Normalize(row RawRow) (Campaign, []*FieldCoercionError, SkipReason) {
	if reason := CheckRequired(row); reason != SkipNone {
		return Campaign{}, nil, reason
	}

	var failures []*FieldCoercionError
	track := func(column string, kind schema.FieldType, state State) {
		if state == Invalid {
			failures = append(failures, &FieldCoercionError{
				Line:   row.Line,
				Column: column,
				Raw:    row.Get(column),
				Kind:   kind,
			})
		}
	}

	brand := row.Get(schema.ColBrand)
	influencer := row.Get(schema.ColInfluencer)
	content := row.Get(schema.ColContent)
	month := row.Get(schema.ColMonth)

	channel := CoerceChannel(row.Get(schema.ColChannel))
	track(schema.ColChannel, schema.FieldEnum, channel.State)

	publicDate := CoerceDate(row.Get(schema.ColPublicDate))
	track(schema.ColPublicDate, schema.FieldDate, publicDate.State)

	followUp := CoerceDate(row.Get(schema.ColFollowUpDate))
	reminder, teaser := RouteFollowUp(followUp, row.Get(schema.ColFollowUpKind))
	if reminder.State != Absent || teaser.State != Absent {
		track(schema.ColFollowUpDate, schema.FieldDate, followUp.State)
	}

	decimalField := func(column string) Coerced[decimal.Decimal] {
		c := CoerceDecimal(row.Get(column), n.Separator)
		track(column, schema.FieldNumeric, c.State)
		return c
	}
	intField := func(column string) pgtype.Int8 {
		c := CoerceInt(row.Get(column), n.Separator)
		track(column, schema.FieldInteger, c.State)
		return ToPgInt8(c)
	}

	hasReminder, hasTeaser := ContentFlags(content)
	year := DeriveYear(publicDate)

	camp := Campaign{
		Line:            row.Line,
		Brand:           brand,
		Influencer:      influencer,
		Name:            CampaignName(brand, influencer, month, year),
		Channel:         ToPgChannel(channel),
		ContentType:     ToPgText(content),
		PublicDate:      ToPgDate(publicDate),
		ReminderDate:    ToPgDate(reminder),
		TeaserDate:      ToPgDate(teaser),
		ActualCost:      ToNullDecimal(decimalField(schema.ColPrice)),
		TargetViews:     intField(schema.ColEstViews),
		CPM:             ToNullDecimal(decimalField(schema.ColCPM)),
		LinkClicks:      intField(schema.ColLinkClicks),
		ActualViews:     intField(schema.ColRealViews),
		Revenue:         ToNullDecimal(decimalField(schema.ColRevenue)),
		ROAS:            ToNullDecimal(decimalField(schema.ColROAS)),
		PromotedProduct: ToPgText(row.Get(schema.ColProduct)),
		Month:           ToPgText(month),
		Year:            pgtype.Int4{Int32: int32(year), Valid: true},
		ManagerCode:     ToPgText(row.Get(schema.ColManager)),
		Status:          MapStatus(row.Get(schema.ColStatus)),
		HasReminder:     hasReminder,
		HasTeaser:       hasTeaser,
	}

	return camp, failures, SkipNone
}
