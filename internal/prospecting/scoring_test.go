package prospecting

import (
	"testing"
	"time"
)

func TestScorePriceReduction(t *testing.T) {
	tests := []struct {
		name     string
		original int64
		current  int64
		score    int
		keep     bool
	}{
		{"twelve percent drop", 50_000_000, 44_000_000, 85, true},
		{"exactly ten percent", 50_000_000, 45_000_000, 85, true},
		{"eight percent drop", 50_000_000, 46_000_000, 75, true},
		{"seven percent drop", 50_000_000, 46_500_000, 75, true},
		{"six percent drop", 50_000_000, 47_000_000, 70, true},
		{"five percent drop", 50_000_000, 47_500_000, 70, true},
		{"four percent drop filtered", 50_000_000, 48_000_000, 0, false},
		{"one percent drop filtered", 50_000_000, 49_500_000, 0, false},
		{"price increase filtered", 50_000_000, 51_000_000, 0, false},
		{"zero original filtered", 0, 45_000_000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, keep := ScorePriceReduction(tt.original, tt.current)
			if keep != tt.keep {
				t.Fatalf("keep = %v, want %v", keep, tt.keep)
			}
			if score != tt.score {
				t.Errorf("score = %d, want %d", score, tt.score)
			}
		})
	}
}

func TestScoreExpiredListing(t *testing.T) {
	if got := ScoreExpiredListing(); got != 75 {
		t.Errorf("score = %d, want 75", got)
	}
}

func TestScoreLandRegistrySale(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		purchasedAt time.Time
		price       int64
		want        int
	}{
		{"sixteen years ago, high band", now.AddDate(-16, 0, 0), 60_000_000, 80},
		{"sixteen years ago, mid band", now.AddDate(-16, 0, 0), 30_000_000, 75},
		{"eleven years ago, low band", now.AddDate(-11, 0, 0), 18_000_000, 60},
		{"eight years ago", now.AddDate(-8, 0, 0), 18_000_000, 50},
		{"recent purchase", now.AddDate(-2, 0, 0), 18_000_000, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreLandRegistrySale(tt.purchasedAt, tt.price, now); got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrossYieldPercent(t *testing.T) {
	// £18,000/yr on a £240,000 purchase is 7.5%.
	if got := GrossYieldPercent(1_800_000, 24_000_000); got != 7.5 {
		t.Errorf("yield = %v, want 7.5", got)
	}
	if got := GrossYieldPercent(0, 24_000_000); got != 0 {
		t.Errorf("yield with no rent = %v, want 0", got)
	}
}
