package domain

import "testing"

func TestTemperatureForScore(t *testing.T) {
	cases := []struct {
		score int
		want  Temperature
	}{
		{100, TemperatureHot},
		{70, TemperatureHot},
		{69, TemperatureWarm},
		{40, TemperatureWarm},
		{39, TemperatureCold},
		{0, TemperatureCold},
	}

	for _, tc := range cases {
		if got := TemperatureForScore(tc.score); got != tc.want {
			t.Errorf("TemperatureForScore(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-10, 0},
		{0, 0},
		{55, 55},
		{100, 100},
		{140, 100},
	}

	for _, tc := range cases {
		if got := ClampScore(tc.in); got != tc.want {
			t.Errorf("ClampScore(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestKnownSourcesCoverMonitorChannels(t *testing.T) {
	// Every monitor and inbound channel must map onto an enumerated source.
	sources := []Source{
		SourceLandRegistry, SourcePlanningPermission, SourceExpiredListing,
		SourcePriceReduction, SourceRentalYield, SourceSocialMedia,
		SourceComplianceReminder, SourcePortfolioLandlord, SourceAuction,
		SourceCompetitorListing, SourceSeasonalCampaign, SourcePropensityScore,
		SourcePhone, SourceWhatsApp, SourceEmail,
	}
	for _, s := range sources {
		if !IsKnownSource(s) {
			t.Errorf("source %q not registered as known", s)
		}
	}
	if IsKnownSource(Source("carrier_pigeon")) {
		t.Error("unexpected source accepted")
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusNew.Terminal() || StatusContacted.Terminal() || StatusQualified.Terminal() {
		t.Error("non-terminal status reported terminal")
	}
	if !StatusConverted.Terminal() || !StatusDeclined.Terminal() {
		t.Error("terminal status not reported terminal")
	}
}
