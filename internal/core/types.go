// Package core provides the business logic for the bookings CSV importer.
// This package has no transport dependencies and can be used by the CLI,
// the HTTP surface, or tests without modification.
package core

import (
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DefaultCampaignYear is used when a row has no valid public date.
const DefaultCampaignYear = 2024

// HeaderIndex maps column names to their position in the CSV row.
type HeaderIndex map[string]int

// RawRow is one data record of the export keyed by header name.
// A column absent from the header reads as the empty string.
type RawRow struct {
	Line   int               // 1-based source line the record starts on
	Fields map[string]string // Trimmed cell values by header name
}

// Get returns the trimmed value of column, or "" if the column is absent.
func (r RawRow) Get(column string) string {
	return r.Fields[column]
}

// Channel is the normalized publishing channel of a campaign.
type Channel string

const (
	ChannelInstagram Channel = "instagram"
	ChannelYouTube   Channel = "youtube"
)

// Status is the normalized lifecycle state of a campaign.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPlanned   Status = "planned"
	StatusActive    Status = "active"
)

// Influencer is a collected influencer with its assigned handle.
type Influencer struct {
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

// Campaign is one normalized booking ready for emission.
// Invalid or empty source values are represented as absent (Valid=false).
type Campaign struct {
	Line            int                 `json:"line"`
	Brand           string              `json:"brand"`
	Influencer      string              `json:"influencer"`
	Handle          string              `json:"handle"`
	Name            string              `json:"campaignName"`
	Channel         pgtype.Text         `json:"channel"`
	ContentType     pgtype.Text         `json:"contentType"`
	PublicDate      pgtype.Date         `json:"storyPublicDate"`
	ReminderDate    pgtype.Date         `json:"reminderDate"`
	TeaserDate      pgtype.Date         `json:"teaserDate"`
	ActualCost      decimal.NullDecimal `json:"actualCost"`
	TargetViews     pgtype.Int8         `json:"targetViews"`
	CPM             decimal.NullDecimal `json:"cpmEstimated"`
	LinkClicks      pgtype.Int8         `json:"linkClicks"`
	ActualViews     pgtype.Int8         `json:"actualViews"`
	Revenue         decimal.NullDecimal `json:"revenue"`
	ROAS            decimal.NullDecimal `json:"roas"`
	PromotedProduct pgtype.Text         `json:"promotedProduct"`
	Month           pgtype.Text         `json:"campaignMonth"`
	Year            pgtype.Int4         `json:"campaignYear"`
	ManagerCode     pgtype.Text         `json:"managerCode"`
	Status          Status              `json:"status"`
	HasReminder     bool                `json:"hasReminder"`
	HasTeaser       bool                `json:"hasTeaser"`
}

// Dataset is the fully collected state of one run, handed to an Emitter.
type Dataset struct {
	RunID       string
	Brands      []string
	Influencers []Influencer
	Campaigns   []Campaign
}

// Emitter renders a Dataset as SQL text.
// It returns the number of campaigns written.
type Emitter interface {
	Emit(w io.Writer, ds *Dataset) (int, error)
}

// Stats summarizes one conversion run.
type Stats struct {
	RowsRead           int            `json:"rowsRead"`
	RowsSkipped        int            `json:"rowsSkipped"`
	RowsRejected       int            `json:"rowsRejected"`
	CoercionFailures   int            `json:"coercionFailures"`
	FailuresByColumn   map[string]int `json:"failuresByColumn,omitempty"`
	Campaigns          int            `json:"campaigns"`
	CampaignsEmitted   int            `json:"campaignsEmitted"`
	Brands             int            `json:"brands"`
	Influencers        int            `json:"influencers"`
	HandleCollisions   int            `json:"handleCollisions"`
	DuplicateCampaigns int            `json:"duplicateCampaigns"`
	MissingColumns     []string       `json:"missingColumns,omitempty"`
	BytesRead          int64          `json:"bytesRead"`
}

// Result contains the outcome of a conversion or preview run.
type Result struct {
	RunID      string            `json:"runId"`
	Stats      Stats             `json:"stats"`
	Collisions []HandleCollision `json:"collisions,omitempty"`
	Duration   time.Duration     `json:"duration"`
}
