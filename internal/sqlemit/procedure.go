package sqlemit

import (
	"strings"

	"github.com/JonMunkholm/bookingsql/internal/core"
	"github.com/JonMunkholm/bookingsql/internal/schema"
)

const importFunction = "import_campaign_batch"

func init() {
	Register(StyleDefinition{
		Key:         StyleProcedure,
		Description: "temporary plpgsql import function called once per campaign",
		Render:      renderProcedure,
	})
}

// procedureParam is one argument of the import function. Column is the
// campaign column it is written to, empty for lookup-only arguments.
type procedureParam struct {
	Name   string
	Type   string
	Column string
}

// procedureParams follows campaignFields order after the two lookup keys.
var procedureParams = []procedureParam{
	{"p_brand_name", "text", ""},
	{"p_instagram_handle", "text", ""},
	{"p_campaign_name", "text", "campaign_name"},
	{"p_channel", "text", "channel"},
	{"p_content_type", "text", "content_type"},
	{"p_story_public_date", "date", "story_public_date"},
	{"p_reminder_date", "date", "reminder_date"},
	{"p_teaser_date", "date", "teaser_date"},
	{"p_actual_cost", "numeric", "actual_cost"},
	{"p_target_views", "bigint", "target_views"},
	{"p_cpm_estimated", "numeric", "cpm_estimated"},
	{"p_link_clicks", "bigint", "link_clicks"},
	{"p_actual_views", "bigint", "actual_views"},
	{"p_revenue", "numeric", "revenue"},
	{"p_roas", "numeric", "roas"},
	{"p_promoted_product", "text", "promoted_product"},
	{"p_campaign_month", "text", "campaign_month"},
	{"p_campaign_year", "integer", "campaign_year"},
	{"p_manager_code", "text", "manager_code"},
	{"p_status", "text", "status"},
	{"p_has_reminder", "boolean", "has_reminder"},
	{"p_has_teaser", "boolean", "has_teaser"},
}

func renderProcedure(sw *sqlWriter, campaigns []core.Campaign, opts Options) {
	writeImportFunction(sw, opts.Conflict)

	sw.line("-- Campaigns")
	batches(len(campaigns), opts.BatchSize, func(n, start, end int) {
		sw.printf("-- Batch %d (campaigns %d to %d)\n", n, start+1, end)
		for _, c := range campaigns[start:end] {
			args := append([]string{Quote(c.Brand), Quote(c.Handle)}, procedureArgs(c)...)
			sw.printf("SELECT %s(%s);\n", importFunction, strings.Join(args, ", "))
		}
		sw.line("")
	})

	sw.printf("-- Total campaigns: %d\n", len(campaigns))
	sw.printf("DROP FUNCTION IF EXISTS %s;\n\n", importFunction)
	sw.printf("SELECT 'Total Campaigns' as metric, COUNT(*) as count FROM %s;\n", schema.TableCampaigns)
}

// procedureArgs renders the campaign values passed after the lookup keys.
func procedureArgs(c core.Campaign) []string {
	fields := campaignFields(c)
	return fields[:len(fields)-1] // created_at is set inside the function
}

func writeImportFunction(sw *sqlWriter, conflict string) {
	params := make([]string, len(procedureParams))
	columns := []string{"brand_id", "influencer_id"}
	values := []string{"v_brand_id", "v_influencer_id"}
	for i, p := range procedureParams {
		params[i] = "  " + p.Name + " " + p.Type
		if p.Column != "" {
			columns = append(columns, p.Column)
			values = append(values, p.Name)
		}
	}
	columns = append(columns, "created_at")
	values = append(values, sqlNow)

	sw.printf("CREATE OR REPLACE FUNCTION %s(\n%s\n) RETURNS void AS $$\n", importFunction, strings.Join(params, ",\n"))
	sw.line("DECLARE")
	sw.line("  v_brand_id uuid;")
	sw.line("  v_influencer_id uuid;")
	sw.line("BEGIN")
	sw.printf("  SELECT id INTO v_brand_id FROM %s WHERE name = p_brand_name LIMIT 1;\n", schema.TableBrands)
	sw.printf("  SELECT id INTO v_influencer_id FROM %s WHERE instagram_handle = p_instagram_handle LIMIT 1;\n", schema.TableInfluencers)
	sw.line("")
	sw.line("  IF v_brand_id IS NOT NULL AND v_influencer_id IS NOT NULL THEN")
	sw.printf("    INSERT INTO %s (%s)\n", schema.TableCampaigns, strings.Join(columns, ", "))
	sw.printf("    VALUES (%s)\n", strings.Join(values, ", "))
	sw.printf("    %s;\n", strings.ReplaceAll(conflictClause(conflict), "\n", "\n    "))
	sw.line("  END IF;")
	sw.line("END;")
	sw.line("$$ LANGUAGE plpgsql;")
	sw.line("")
}
