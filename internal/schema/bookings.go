package schema

// Header names of the bookings export. Matching is exact.
const (
	ColBrand        = "Brand"
	ColInfluencer   = "Influencer"
	ColChannel      = "Channel"
	ColContent      = "Content"
	ColPublicDate   = "Story_Public_Date"
	ColFollowUpDate = "Wann?"
	ColFollowUpKind = "Reminder_oder__Teaser?"
	ColPrice        = "Preis"
	ColEstViews     = "Est._Views"
	ColCPM          = "CPM"
	ColLinkClicks   = "Link_Klicks"
	ColRealViews    = "Real_Views"
	ColRevenue      = "Umsatz"
	ColROAS         = "ROAS"
	ColProduct      = "Beworbenes__Produkt"
	ColMonth        = "Monat"
	ColManager      = "Zuständigkeit"
	ColStatus       = "Status"
)

// BookingsFieldSpecs defines the expected CSV columns for the bookings export.
var BookingsFieldSpecs = []FieldSpec{
	{Name: ColBrand, Type: FieldText, Required: true},
	{Name: ColInfluencer, Type: FieldText, Required: true},
	{Name: ColChannel, Type: FieldEnum, EnumValues: []string{"ig", "yt"}},
	{Name: ColContent, Type: FieldText},
	{Name: ColPublicDate, Type: FieldDate},
	{Name: ColFollowUpDate, Type: FieldDate},
	{Name: ColFollowUpKind, Type: FieldEnum, EnumValues: []string{"reminder", "teaser"}},
	{Name: ColPrice, Type: FieldNumeric},
	{Name: ColEstViews, Type: FieldInteger},
	{Name: ColCPM, Type: FieldNumeric},
	{Name: ColLinkClicks, Type: FieldInteger},
	{Name: ColRealViews, Type: FieldInteger},
	{Name: ColRevenue, Type: FieldNumeric},
	{Name: ColROAS, Type: FieldNumeric},
	{Name: ColProduct, Type: FieldText},
	{Name: ColMonth, Type: FieldText},
	{Name: ColManager, Type: FieldText},
	{Name: ColStatus, Type: FieldText},
}
