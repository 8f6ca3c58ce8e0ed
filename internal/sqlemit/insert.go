package sqlemit

import (
	"strings"

	"github.com/JonMunkholm/bookingsql/internal/core"
	"github.com/JonMunkholm/bookingsql/internal/schema"
)

func init() {
	Register(StyleDefinition{
		Key:         StyleInsert,
		Description: "multi-row INSERT batches with brand and influencer subqueries",
		Render:      renderInsert,
	})
}

func renderInsert(sw *sqlWriter, campaigns []core.Campaign, opts Options) {
	sw.line("-- Campaigns")
	batches(len(campaigns), opts.BatchSize, func(n, start, end int) {
		sw.printf("-- Batch %d (campaigns %d to %d)\n", n, start+1, end)
		rows := make([]string, 0, end-start)
		for _, c := range campaigns[start:end] {
			rows = append(rows, "("+strings.Join(campaignValues(c), ", ")+")")
		}
		sw.printf("INSERT INTO %s (%s) VALUES\n  %s\n%s;\n\n",
			schema.TableCampaigns, strings.Join(schema.CampaignColumns, ", "), strings.Join(rows, ",\n  "), conflictClause(opts.Conflict))
	})
}

// campaignValues renders c in schema.CampaignColumns order.
func campaignValues(c core.Campaign) []string {
	return append([]string{BrandRef(c.Brand), InfluencerRef(c.Handle)}, campaignFields(c)...)
}

// campaignFields renders every campaign column after the two foreign keys.
func campaignFields(c core.Campaign) []string {
	return []string{
		Quote(c.Name),
		Text(c.Channel),
		Text(c.ContentType),
		Date(c.PublicDate),
		Date(c.ReminderDate),
		Date(c.TeaserDate),
		Decimal(c.ActualCost),
		Int8(c.TargetViews),
		Decimal(c.CPM),
		Int8(c.LinkClicks),
		Int8(c.ActualViews),
		Decimal(c.Revenue),
		Decimal(c.ROAS),
		Text(c.PromotedProduct),
		Text(c.Month),
		Int4(c.Year),
		Text(c.ManagerCode),
		Quote(string(c.Status)),
		Bool(c.HasReminder),
		Bool(c.HasTeaser),
		sqlNow,
	}
}

// conflictClause renders the ON CONFLICT clause for campaign inserts.
func conflictClause(mode string) string {
	if mode != ConflictUpsert {
		return "ON CONFLICT DO NOTHING"
	}

	sets := make([]string, len(schema.CampaignUpsertColumns))
	for i, col := range schema.CampaignUpsertColumns {
		sets[i] = col + " = EXCLUDED." + col
	}
	return "ON CONFLICT (" + strings.Join(schema.CampaignConflictKey, ", ") + ")\nWHERE " +
		schema.CampaignConflictPredicate + "\nDO UPDATE SET " + strings.Join(sets, ", ")
}
