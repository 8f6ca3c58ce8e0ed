package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// ----------------------------------------------------------------------------
// CoerceDate Tests
// ----------------------------------------------------------------------------

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantState State
		wantDate  string // YYYY-MM-DD when wantState is OK
	}{
		{name: "iso date", input: "2024-03-01", wantState: OK, wantDate: "2024-03-01"},
		{name: "surrounding whitespace", input: " 2024-03-01 ", wantState: OK, wantDate: "2024-03-01"},
		{name: "december 2025 typo corrected", input: "2025-12-15", wantState: OK, wantDate: "2024-12-15"},
		{name: "november 2025 unchanged", input: "2025-11-15", wantState: OK, wantDate: "2025-11-15"},
		{name: "empty is absent", input: "", wantState: Absent},
		{name: "whitespace is absent", input: "   ", wantState: Absent},
		{name: "european format", input: "15.12.2024", wantState: Invalid},
		{name: "impossible day", input: "2024-02-30", wantState: Invalid},
		{name: "garbage", input: "next week", wantState: Invalid},
		{name: "december typo with bad day", input: "2025-12-99", wantState: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceDate(tt.input)
			if got.State != tt.wantState {
				t.Fatalf("CoerceDate(%q).State = %v, want %v", tt.input, got.State, tt.wantState)
			}
			if tt.wantState == OK {
				if s := got.Value.Format("2006-01-02"); s != tt.wantDate {
					t.Errorf("CoerceDate(%q) = %s, want %s", tt.input, s, tt.wantDate)
				}
			}
			if tt.wantState == Invalid && got.Raw != tt.input {
				t.Errorf("CoerceDate(%q).Raw = %q, want original input", tt.input, got.Raw)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// CoerceDecimal Tests
// ----------------------------------------------------------------------------

func TestCoerceDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		policy    SeparatorPolicy
		wantState State
		wantValue string
	}{
		// comma-decimal
		{name: "comma decimal with dot thousands", input: "1.234,56", policy: CommaDecimal, wantState: OK, wantValue: "1234.56"},
		{name: "comma decimal", input: "1234,56", policy: CommaDecimal, wantState: OK, wantValue: "1234.56"},
		{name: "dot decimal without comma", input: "1234.56", policy: CommaDecimal, wantState: OK, wantValue: "1234.56"},
		{name: "integer", input: "1500", policy: CommaDecimal, wantState: OK, wantValue: "1500"},
		{name: "euro sign", input: "€1.234,56", policy: CommaDecimal, wantState: OK, wantValue: "1234.56"},
		{name: "trailing euro with space", input: "1.234,56 €", policy: CommaDecimal, wantState: OK, wantValue: "1234.56"},
		{name: "inner space thousands", input: "12 345,50", policy: CommaDecimal, wantState: OK, wantValue: "12345.5"},
		{name: "accounting negative", input: "(100,50)", policy: CommaDecimal, wantState: OK, wantValue: "-100.5"},
		{name: "negative", input: "-2,5", policy: CommaDecimal, wantState: OK, wantValue: "-2.5"},
		{name: "two commas", input: "1,2,3", policy: CommaDecimal, wantState: Invalid},

		// comma-thousands
		{name: "comma thousands", input: "1,234.56", policy: CommaThousands, wantState: OK, wantValue: "1234.56"},
		{name: "european input misread", input: "1.234,56", policy: CommaThousands, wantState: OK, wantValue: "1.23456"},
		{name: "dollar sign", input: "$1,234.56", policy: CommaThousands, wantState: OK, wantValue: "1234.56"},

		// absent and invalid
		{name: "empty", input: "", policy: CommaDecimal, wantState: Absent},
		{name: "text", input: "n/a", policy: CommaDecimal, wantState: Invalid},
		{name: "only currency", input: "€", policy: CommaDecimal, wantState: Invalid},
		{name: "exponent", input: "1e6", policy: CommaDecimal, wantState: Invalid},
		{name: "huge exponent", input: "1e2000000", policy: CommaDecimal, wantState: Invalid},
		{name: "exponent with comma decimal", input: "1,5E3", policy: CommaDecimal, wantState: Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceDecimal(tt.input, tt.policy)
			if got.State != tt.wantState {
				t.Fatalf("CoerceDecimal(%q, %s).State = %v, want %v", tt.input, tt.policy, got.State, tt.wantState)
			}
			if tt.wantState != OK {
				return
			}
			want := decimal.RequireFromString(tt.wantValue)
			if !got.Value.Equal(want) {
				t.Errorf("CoerceDecimal(%q, %s) = %s, want %s", tt.input, tt.policy, got.Value, want)
			}
		})
	}
}

func TestCoerceDecimal_EquivalentSpellings(t *testing.T) {
	a := CoerceDecimal("1.234,56", CommaDecimal)
	b := CoerceDecimal("1234.56", CommaDecimal)
	if !a.Valid() || !b.Valid() {
		t.Fatalf("both spellings should parse: %v %v", a.State, b.State)
	}
	if !a.Value.Equal(b.Value) {
		t.Errorf("1.234,56 = %s, 1234.56 = %s, want equal", a.Value, b.Value)
	}
}

// ----------------------------------------------------------------------------
// CoerceInt Tests
// ----------------------------------------------------------------------------

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		policy    SeparatorPolicy
		wantState State
		want      int64
	}{
		{name: "float formatted integer", input: "10000.0", policy: CommaDecimal, wantState: OK, want: 10000},
		{name: "plain integer", input: "10000", policy: CommaDecimal, wantState: OK, want: 10000},
		{name: "fraction truncated", input: "12,9", policy: CommaDecimal, wantState: OK, want: 12},
		{name: "negative truncates toward zero", input: "-3.9", policy: CommaDecimal, wantState: OK, want: -3},
		{name: "comma thousands", input: "12,000", policy: CommaThousands, wantState: OK, want: 12000},
		{name: "dot thousands with comma decimal", input: "12.000,0", policy: CommaDecimal, wantState: OK, want: 12000},
		{name: "overflow", input: "99999999999999999999", policy: CommaDecimal, wantState: Invalid},
		{name: "text", input: "viele", policy: CommaDecimal, wantState: Invalid},
		{name: "exponent", input: "1e6", policy: CommaDecimal, wantState: Invalid},
		{name: "huge exponent", input: "1e2000000", policy: CommaThousands, wantState: Invalid},
		{name: "empty", input: "", policy: CommaDecimal, wantState: Absent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceInt(tt.input, tt.policy)
			if got.State != tt.wantState {
				t.Fatalf("CoerceInt(%q).State = %v, want %v", tt.input, got.State, tt.wantState)
			}
			if tt.wantState == OK && got.Value != tt.want {
				t.Errorf("CoerceInt(%q) = %d, want %d", tt.input, got.Value, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Channel, Flags, Routing, Status Tests
// ----------------------------------------------------------------------------

func TestCoerceChannel(t *testing.T) {
	tests := []struct {
		input     string
		wantState State
		want      Channel
	}{
		{"ig", OK, ChannelInstagram},
		{"yt", OK, ChannelYouTube},
		{"", Absent, ""},
		{"tiktok", Invalid, ""},
		{"IG", Invalid, ""},
	}

	for _, tt := range tests {
		got := CoerceChannel(tt.input)
		if got.State != tt.wantState {
			t.Errorf("CoerceChannel(%q).State = %v, want %v", tt.input, got.State, tt.wantState)
			continue
		}
		if got.Value != tt.want {
			t.Errorf("CoerceChannel(%q) = %q, want %q", tt.input, got.Value, tt.want)
		}
	}
}

func TestContentFlags(t *testing.T) {
	tests := []struct {
		content      string
		wantReminder bool
		wantTeaser   bool
	}{
		{"Post + rem.", true, false},
		{"teaser + Post", false, true},
		{"Story rem. teaser", true, true},
		{"Story", false, false},
		{"Rem.", false, false},
		{"Teaser", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		gotReminder, gotTeaser := ContentFlags(tt.content)
		if gotReminder != tt.wantReminder || gotTeaser != tt.wantTeaser {
			t.Errorf("ContentFlags(%q) = (%v, %v), want (%v, %v)",
				tt.content, gotReminder, gotTeaser, tt.wantReminder, tt.wantTeaser)
		}
	}
}

func TestRouteFollowUp(t *testing.T) {
	when := CoerceDate("2024-05-01")

	tests := []struct {
		kind         string
		wantReminder bool
		wantTeaser   bool
	}{
		{"reminder", true, false},
		{"teaser", false, true},
		{"Reminder", false, false},
		{"both", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		reminder, teaser := RouteFollowUp(when, tt.kind)
		if reminder.Valid() != tt.wantReminder || teaser.Valid() != tt.wantTeaser {
			t.Errorf("RouteFollowUp(%q) = (%v, %v), want (%v, %v)",
				tt.kind, reminder.Valid(), teaser.Valid(), tt.wantReminder, tt.wantTeaser)
		}
		if reminder.Valid() && teaser.Valid() {
			t.Errorf("RouteFollowUp(%q) populated both slots", tt.kind)
		}
	}
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
	}{
		{"done", StatusCompleted},
		{"tbd", StatusPlanned},
		{"", StatusActive},
		{"weird", StatusActive},
		{"Done", StatusActive},
	}

	for _, tt := range tests {
		if got := MapStatus(tt.input); got != tt.want {
			t.Errorf("MapStatus(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDeriveYear(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"2023-06-01", 2023},
		{"2025-12-01", 2024},
		{"", DefaultCampaignYear},
		{"not a date", DefaultCampaignYear},
	}

	for _, tt := range tests {
		if got := DeriveYear(CoerceDate(tt.input)); got != tt.want {
			t.Errorf("DeriveYear(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestCampaignName(t *testing.T) {
	tests := []struct {
		brand, influencer, month string
		year                     int
		want                     string
	}{
		{"Acme", "Jane Doe", "March", 2024, "Acme - Jane Doe - March 2024"},
		{"Acme", "Jane Doe", "", 2024, "Acme - Jane Doe -  2024"},
		{"O'Brien", "Max", "Mai", 2023, "O'Brien - Max - Mai 2023"},
	}

	for _, tt := range tests {
		if got := CampaignName(tt.brand, tt.influencer, tt.month, tt.year); got != tt.want {
			t.Errorf("CampaignName(%q, %q, %q, %d) = %q, want %q",
				tt.brand, tt.influencer, tt.month, tt.year, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Policy parsing
// ----------------------------------------------------------------------------

func TestParseSeparatorPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    SeparatorPolicy
		wantErr bool
	}{
		{"comma-decimal", CommaDecimal, false},
		{"COMMA-THOUSANDS", CommaThousands, false},
		{"", CommaDecimal, false},
		{"auto", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSeparatorPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeparatorPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeparatorPolicy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseCoercionPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    CoercionPolicy
		wantErr bool
	}{
		{"lenient", Lenient, false},
		{"strict", Strict, false},
		{"", Lenient, false},
		{"loose", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCoercionPolicy(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCoercionPolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCoercionPolicy(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// pgtype conversions
// ----------------------------------------------------------------------------

func TestToPgConversions(t *testing.T) {
	if got := ToPgText("  "); got.Valid {
		t.Error("ToPgText(blank) should be invalid")
	}
	if got := ToPgText(" Serum "); !got.Valid || got.String != "Serum" {
		t.Errorf("ToPgText(\" Serum \") = %+v, want trimmed valid text", got)
	}

	if got := ToPgDate(CoerceDate("bad")); got.Valid {
		t.Error("ToPgDate(invalid) should be invalid")
	}
	if got := ToPgDate(CoerceDate("2024-01-02")); !got.Valid || !got.Time.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ToPgDate(2024-01-02) = %+v", got)
	}

	if got := ToPgInt8(CoerceInt("7", CommaDecimal)); !got.Valid || got.Int64 != 7 {
		t.Errorf("ToPgInt8(7) = %+v", got)
	}
	if got := ToNullDecimal(CoerceDecimal("x", CommaDecimal)); got.Valid {
		t.Error("ToNullDecimal(invalid) should be invalid")
	}
	if got := ToPgChannel(CoerceChannel("yt")); !got.Valid || got.String != "youtube" {
		t.Errorf("ToPgChannel(yt) = %+v", got)
	}
	if got := ToPgChannel(CoerceChannel("tiktok")); got.Valid {
		t.Error("ToPgChannel(unknown) should be invalid")
	}
}

func TestMakeHeaderIndex(t *testing.T) {
	idx := MakeHeaderIndex([]string{"Brand", "brand", "Brand", "Wann?"})

	if idx["Brand"] != 0 {
		t.Errorf("Brand = %d, want first occurrence 0", idx["Brand"])
	}
	if idx["brand"] != 1 {
		t.Errorf("brand = %d, want 1 (matching is case-sensitive)", idx["brand"])
	}
	if idx["Wann?"] != 3 {
		t.Errorf("Wann? = %d, want 3", idx["Wann?"])
	}
}
