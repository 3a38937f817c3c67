package prospecting

import "time"

// Monitor scoring heuristics. Scores land on the 0-100 lead scale where
// 70+ is hot and 40-69 warm.

const (
	// expiredListingScore applies to every expired listing: the vendor
	// already wants to sell and their agent just failed them.
	expiredListingScore = 75

	// minReductionPercent is the floor below which a price drop is noise
	// and no lead is created at all.
	minReductionPercent = 5
)

// ScoreExpiredListing returns the fixed expired-listing score.
func ScoreExpiredListing() int { return expiredListingScore }

// ScorePriceReduction scores a price drop by the size of the cut. The
// second return is false when the reduction is under 5% and the listing
// should be skipped entirely.
func ScorePriceReduction(originalPence, newPence int64) (int, bool) {
	if originalPence <= 0 || newPence <= 0 || newPence >= originalPence {
		return 0, false
	}
	percent := float64(originalPence-newPence) / float64(originalPence) * 100
	switch {
	case percent >= 10:
		return 85, true
	case percent >= 7:
		return 75, true
	case percent >= minReductionPercent:
		return 70, true
	default:
		return 0, false
	}
}

// ScoreLandRegistrySale scores a past purchase by how long ago it
// completed and its price band. Owners a decade in are the likeliest to
// move; higher-value stock earns a band bonus.
func ScoreLandRegistrySale(purchasedAt time.Time, pricePence int64, now time.Time) int {
	years := now.Sub(purchasedAt).Hours() / (24 * 365)

	var score int
	switch {
	case years >= 15:
		score = 70
	case years >= 10:
		score = 60
	case years >= 7:
		score = 50
	default:
		score = 40
	}

	switch {
	case pricePence >= 50_000_000:
		score += 10
	case pricePence >= 25_000_000:
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}

// GrossYieldPercent computes annual rent over purchase price as a
// percentage. Zero when either figure is missing.
func GrossYieldPercent(annualRentPence, pricePence int64) float64 {
	if annualRentPence <= 0 || pricePence <= 0 {
		return 0
	}
	return float64(annualRentPence) / float64(pricePence) * 100
}
