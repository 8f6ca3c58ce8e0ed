package schema

// Target table names.
const (
	TableBrands      = "brands"
	TableInfluencers = "influencers"
	TableCampaigns   = "campaigns"
)

// BrandColumns are the columns written by brand inserts.
var BrandColumns = []string{"name"}

// InfluencerColumns are the columns written by influencer inserts.
var InfluencerColumns = []string{"name", "instagram_handle", "status"}

// CampaignColumns lists the campaign insert columns in emission order.
var CampaignColumns = []string{
	"brand_id", "influencer_id", "campaign_name", "channel", "content_type",
	"story_public_date", "reminder_date", "teaser_date",
	"actual_cost", "target_views", "cpm_estimated",
	"link_clicks", "actual_views", "revenue", "roas",
	"promoted_product", "campaign_month", "campaign_year",
	"manager_code", "status", "has_reminder", "has_teaser", "created_at",
}

// CampaignConflictKey is the partial unique key used by upsert mode.
var CampaignConflictKey = []string{"brand_id", "influencer_id", "story_public_date", "content_type"}

// CampaignConflictPredicate restricts the conflict key to dated campaigns.
const CampaignConflictPredicate = "story_public_date IS NOT NULL"

// CampaignUpsertColumns are refreshed from EXCLUDED when a campaign conflicts.
var CampaignUpsertColumns = []string{
	"actual_cost", "target_views", "actual_views", "cpm_estimated",
	"link_clicks", "revenue", "roas", "promoted_product",
}

// DefaultInfluencerStatus is written for every influencer the importer creates.
const DefaultInfluencerStatus = "active"
