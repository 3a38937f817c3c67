// Package domain holds the lead lifecycle vocabulary shared by the leads
// module, the prospecting monitors, and the scheduler.
package domain

// Source identifies the acquisition channel a lead arrived from. Each source
// pairs with a source identifier that is unique within that source.
type Source string

const (
	SourceLandRegistry       Source = "land_registry"
	SourcePlanningPermission Source = "planning_permission"
	SourceExpiredListing     Source = "expired_listing"
	SourcePriceReduction     Source = "price_reduction"
	SourceRentalYield        Source = "rental_yield"
	SourceSocialMedia        Source = "social_media"
	SourceComplianceReminder Source = "compliance_reminder"
	SourcePortfolioLandlord  Source = "portfolio_landlord"
	SourceAuction            Source = "auction"
	SourceCompetitorListing  Source = "competitor_listing"
	SourceSeasonalCampaign   Source = "seasonal_campaign"
	SourcePropensityScore    Source = "propensity_score"
	SourcePhone              Source = "phone"
	SourceWhatsApp           Source = "whatsapp"
	SourceEmail              Source = "email"
)

var knownSources = map[Source]struct{}{
	SourceLandRegistry:       {},
	SourcePlanningPermission: {},
	SourceExpiredListing:     {},
	SourcePriceReduction:     {},
	SourceRentalYield:        {},
	SourceSocialMedia:        {},
	SourceComplianceReminder: {},
	SourcePortfolioLandlord:  {},
	SourceAuction:            {},
	SourceCompetitorListing:  {},
	SourceSeasonalCampaign:   {},
	SourcePropensityScore:    {},
	SourcePhone:              {},
	SourceWhatsApp:           {},
	SourceEmail:              {},
}

// IsKnownSource reports whether the given source is part of the enumerated set.
func IsKnownSource(source Source) bool {
	_, ok := knownSources[source]
	return ok
}

// Status is the lead lifecycle state. The happy path is
// new → contacted → qualified → converted|declined. RecordContact always
// forces the status back to contacted, including for converted and declined
// leads; there is deliberately no guard on that path.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusQualified Status = "qualified"
	StatusConverted Status = "converted"
	StatusDeclined  Status = "declined"
)

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusContacted: {},
	StatusQualified: {},
	StatusConverted: {},
	StatusDeclined:  {},
}

// IsKnownStatus reports whether the given status is part of the enumerated set.
func IsKnownStatus(status Status) bool {
	_, ok := knownStatuses[status]
	return ok
}

// Terminal reports whether the status ends the lifecycle on the happy path.
// Leads are never hard-deleted; converted and declined are the resting states.
func (s Status) Terminal() bool {
	return s == StatusConverted || s == StatusDeclined
}

// Temperature is the coarse hot/warm/cold bucket derived from a score.
type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// TemperatureForScore derives the default temperature bucket from a 0-100
// score. Individual prospecting sources may assign a temperature directly
// where their thresholds differ from these defaults.
func TemperatureForScore(score int) Temperature {
	switch {
	case score >= 70:
		return TemperatureHot
	case score >= 40:
		return TemperatureWarm
	default:
		return TemperatureCold
	}
}

// ClampScore bounds a score to the 0-100 range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
