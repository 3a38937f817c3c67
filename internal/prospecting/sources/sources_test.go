package sources

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"brokerage_backend/internal/leads/domain"
)

// fakePortal serves a canned JSON body per path.
type fakePortal struct {
	responses map[string]string
	lastQuery url.Values
}

func (f *fakePortal) GetJSON(_ context.Context, path string, query url.Values, out any) error {
	f.lastQuery = query
	return json.Unmarshal([]byte(f.responses[path]), out)
}

func TestPriceReductionsFiltersSmallDrops(t *testing.T) {
	portal := &fakePortal{responses: map[string]string{
		"/listings/reduced": `{"listings": [
			{"id": "big", "address": "1 High St", "pricePence": 44000000, "previousPricePence": 50000000},
			{"id": "small", "address": "2 High St", "pricePence": 49000000, "previousPricePence": 50000000}
		]}`,
	}}

	opportunities, err := NewPriceReductions(portal, "BS1").Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1 (sub-5%% drop filtered)", len(opportunities))
	}
	if opportunities[0].SourceIdentifier != "big" || opportunities[0].Score != 85 {
		t.Errorf("got %q score %d, want big/85", opportunities[0].SourceIdentifier, opportunities[0].Score)
	}
	if portal.lastQuery.Get("area") != "BS1" {
		t.Errorf("area query = %q, want BS1", portal.lastQuery.Get("area"))
	}
}

func TestExpiredListingsScoresHot(t *testing.T) {
	portal := &fakePortal{responses: map[string]string{
		"/listings/expired": `{"listings": [
			{"id": "exp-1", "address": "3 High St", "pricePence": 30000000, "agentName": "Rival & Co", "expiredAt": "2026-08-20"}
		]}`,
	}}

	opportunities, err := NewExpiredListings(portal, "").Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(opportunities) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(opportunities))
	}
	opp := opportunities[0]
	if opp.Source != domain.SourceExpiredListing || opp.Score != 75 {
		t.Errorf("got source %q score %d, want expired_listing/75", opp.Source, opp.Score)
	}
}

func TestCompetitorListingsUsesStaleThreshold(t *testing.T) {
	portal := &fakePortal{responses: map[string]string{
		"/listings/competitors": `{"listings": [
			{"id": "stale", "address": "4 High St", "agentName": "Rival & Co", "weeksOnMarket": 14},
			{"id": "fresh", "address": "5 High St", "agentName": "Rival & Co", "weeksOnMarket": 3}
		]}`,
	}}

	opportunities, err := NewCompetitorListings(portal, "").Scan(context.Background())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(opportunities) != 1 || opportunities[0].SourceIdentifier != "stale" {
		t.Fatalf("want only the stale listing, got %+v", opportunities)
	}
}
