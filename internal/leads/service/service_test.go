package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"brokerage_backend/internal/events"
	"brokerage_backend/internal/leads/domain"
	"brokerage_backend/internal/leads/repository"
	"brokerage_backend/internal/leads/transport"
	"brokerage_backend/platform/apperr"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository honoring the same dedup and
// contact-recording semantics as the Postgres implementation.
type fakeRepo struct {
	leads   map[uuid.UUID]repository.Lead
	byPair  map[string]uuid.UUID
	history []repository.ContactRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads:  make(map[uuid.UUID]repository.Lead),
		byPair: make(map[string]uuid.UUID),
	}
}

func pairKey(source domain.Source, sourceID string) string {
	return string(source) + "|" + sourceID
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateLeadParams) (repository.Lead, bool, error) {
	key := pairKey(params.Source, params.SourceIdentifier)
	if id, ok := f.byPair[key]; ok {
		return f.leads[id], false, nil
	}
	lead := repository.Lead{
		ID:               uuid.New(),
		Source:           params.Source,
		SourceIdentifier: params.SourceIdentifier,
		Name:             params.Name,
		Email:            params.Email,
		Phone:            params.Phone,
		Score:            params.Score,
		Temperature:      params.Temperature,
		Status:           domain.StatusNew,
		Notes:            params.Notes,
	}
	f.leads[lead.ID] = lead
	f.byPair[key] = lead.ID
	return lead, true, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) GetBySourceIdentifier(_ context.Context, source domain.Source, sourceID string) (repository.Lead, error) {
	id, ok := f.byPair[pairKey(source, sourceID)]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return f.leads[id], nil
}

func (f *fakeRepo) List(_ context.Context, _ repository.ListLeadsParams) ([]repository.Lead, error) {
	out := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		out = append(out, lead)
	}
	return out, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, id uuid.UUID, status domain.Status) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Status = status
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateScore(_ context.Context, id uuid.UUID, score int, temp domain.Temperature) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Score = score
	lead.Temperature = temp
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) SupplementContact(_ context.Context, id uuid.UUID, name, email, phone *string) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if lead.Name == "" && name != nil {
		lead.Name = *name
	}
	if lead.Email == nil && email != nil {
		lead.Email = email
	}
	if lead.Phone == nil && phone != nil {
		lead.Phone = phone
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) AppendNote(_ context.Context, id uuid.UUID, note string) error {
	lead, ok := f.leads[id]
	if !ok {
		return repository.ErrNotFound
	}
	if lead.Notes == "" {
		lead.Notes = note
	} else {
		lead.Notes += "\n" + note
	}
	f.leads[id] = lead
	return nil
}

func (f *fakeRepo) AssignAgent(_ context.Context, id uuid.UUID, agentID *uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.AssignedAgentID = agentID
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) RecordContact(_ context.Context, params repository.RecordContactParams) (repository.Lead, repository.ContactRecord, error) {
	lead, ok := f.leads[params.LeadID]
	if !ok {
		return repository.Lead{}, repository.ContactRecord{}, repository.ErrNotFound
	}
	record := repository.ContactRecord{
		ID:        uuid.New(),
		LeadID:    params.LeadID,
		Channel:   params.Channel,
		Direction: params.Direction,
		Content:   params.Content,
		Outcome:   params.Outcome,
	}
	f.history = append(f.history, record)
	lead.ContactAttempts++
	lead.Status = domain.StatusContacted
	f.leads[params.LeadID] = lead
	return lead, record, nil
}

func (f *fakeRepo) ListContactHistory(_ context.Context, leadID uuid.UUID) ([]repository.ContactRecord, error) {
	var out []repository.ContactRecord
	for _, record := range f.history {
		if record.LeadID == leadID {
			out = append(out, record)
		}
	}
	return out, nil
}

func newService(repo *fakeRepo) *Service {
	// nil bus branches are exercised separately; most tests want events on.
	return New(repo, noopBus{}, nil, logger.New("development"))
}

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event) {}
func (noopBus) PublishSync(context.Context, events.Event) error {
	return nil
}
func (noopBus) Subscribe(string, events.Handler) {}

func TestCreateDedupesOnSourcePair(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()

	first, err := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "expired_listing",
		SourceIdentifier: "portal-123",
	})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if !first.Created {
		t.Fatal("first create should report created=true")
	}

	second, err := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "expired_listing",
		SourceIdentifier: "portal-123",
		Email:            "vendor@example.com",
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if second.Created {
		t.Fatal("duplicate create should report created=false")
	}
	if second.Lead.ID != first.Lead.ID {
		t.Error("duplicate create returned a different lead")
	}
	if len(repo.leads) != 1 {
		t.Fatalf("expected exactly 1 lead row, got %d", len(repo.leads))
	}
	// The duplicate carried an email the original lacked: it must be merged.
	if second.Lead.Email == nil || *second.Lead.Email != "vendor@example.com" {
		t.Error("duplicate create did not supplement missing email")
	}
}

func TestCreateSameSourceIDDifferentSourcesAreDistinct(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()

	for _, source := range []string{"auction", "price_reduction"} {
		resp, err := svc.Create(ctx, transport.CreateLeadRequest{
			Source:           source,
			SourceIdentifier: "prop-9",
		})
		if err != nil {
			t.Fatalf("create %s: %v", source, err)
		}
		if !resp.Created {
			t.Errorf("create %s should be a new lead", source)
		}
	}
	if len(repo.leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(repo.leads))
	}
}

func TestCreateRejectsUnknownSource(t *testing.T) {
	svc := newService(newFakeRepo())
	_, err := svc.Create(context.Background(), transport.CreateLeadRequest{
		Source:           "carrier_pigeon",
		SourceIdentifier: "x",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// RecordContact must increment the counter by exactly 1 per call and always
// set the status to contacted, even for converted and declined leads. There
// is intentionally no guard on that path.
func TestRecordContactOverwritesTerminalStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "phone",
		SourceIdentifier: "+447700900123",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	leadID := created.Lead.ID

	if _, err := svc.UpdateStatus(ctx, leadID, transport.UpdateStatusRequest{Status: "converted"}); err != nil {
		t.Fatalf("update status: %v", err)
	}

	resp, err := svc.RecordContact(ctx, leadID, transport.RecordContactRequest{
		Channel:   "phone",
		Direction: "outbound",
		Outcome:   "answered",
	})
	if err != nil {
		t.Fatalf("record contact: %v", err)
	}
	if resp.Status != string(domain.StatusContacted) {
		t.Errorf("status = %q, want %q even after converted", resp.Status, domain.StatusContacted)
	}
	if resp.ContactAttempts != 1 {
		t.Errorf("contact attempts = %d, want 1", resp.ContactAttempts)
	}

	resp, err = svc.RecordContact(ctx, leadID, transport.RecordContactRequest{
		Channel:   "whatsapp",
		Direction: "outbound",
		Outcome:   "no_answer",
	})
	if err != nil {
		t.Fatalf("second record contact: %v", err)
	}
	if resp.ContactAttempts != 2 {
		t.Errorf("contact attempts = %d, want exactly 2 after two calls", resp.ContactAttempts)
	}

	history, err := svc.ContactHistory(ctx, leadID)
	if err != nil {
		t.Fatalf("contact history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}
}

func TestUpdateStatusRejectsUnknown(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()

	created, _ := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "email",
		SourceIdentifier: "sam@example.com",
	})

	_, err := svc.UpdateStatus(ctx, created.Lead.ID, transport.UpdateStatusRequest{Status: "archived"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateScoreRederivesTemperature(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)
	ctx := context.Background()

	created, _ := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "whatsapp",
		SourceIdentifier: "+447700900456",
	})

	resp, err := svc.UpdateScore(ctx, created.Lead.ID, transport.UpdateScoreRequest{Score: 82})
	if err != nil {
		t.Fatalf("update score: %v", err)
	}
	if resp.Temperature != string(domain.TemperatureHot) {
		t.Errorf("temperature = %q, want hot", resp.Temperature)
	}

	resp, err = svc.UpdateScore(ctx, created.Lead.ID, transport.UpdateScoreRequest{Score: 12})
	if err != nil {
		t.Fatalf("update score: %v", err)
	}
	if resp.Temperature != string(domain.TemperatureCold) {
		t.Errorf("temperature = %q, want cold", resp.Temperature)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newService(newFakeRepo())
	_, err := svc.GetByID(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

type stubFollowUps struct {
	scheduled []uuid.UUID
	err       error
}

func (s *stubFollowUps) ScheduleLeadFollowUp(_ context.Context, leadID uuid.UUID, _ time.Time) error {
	s.scheduled = append(s.scheduled, leadID)
	return s.err
}

func TestRecordContactSchedulesFollowUpOnNoAnswer(t *testing.T) {
	followUps := &stubFollowUps{}
	svc := New(newFakeRepo(), noopBus{}, followUps, logger.New("development"))
	ctx := context.Background()

	created, _ := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "phone",
		SourceIdentifier: "+447700900123",
	})

	if _, err := svc.RecordContact(ctx, created.Lead.ID, transport.RecordContactRequest{
		Channel:   "phone",
		Direction: "outbound",
		Outcome:   "no_answer",
	}); err != nil {
		t.Fatalf("record contact: %v", err)
	}
	if len(followUps.scheduled) != 1 || followUps.scheduled[0] != created.Lead.ID {
		t.Errorf("scheduled = %v, want one entry for the lead", followUps.scheduled)
	}

	// Answered outreach needs no reminder.
	if _, err := svc.RecordContact(ctx, created.Lead.ID, transport.RecordContactRequest{
		Channel:   "phone",
		Direction: "outbound",
		Outcome:   "answered",
	}); err != nil {
		t.Fatalf("record contact: %v", err)
	}
	if len(followUps.scheduled) != 1 {
		t.Errorf("scheduled = %d entries, want still 1 after answered call", len(followUps.scheduled))
	}
}

// Losing the reminder must not lose the contact record.
func TestRecordContactSurvivesFollowUpSchedulingFailure(t *testing.T) {
	followUps := &stubFollowUps{err: errors.New("redis down")}
	svc := New(newFakeRepo(), noopBus{}, followUps, logger.New("development"))
	ctx := context.Background()

	created, _ := svc.Create(ctx, transport.CreateLeadRequest{
		Source:           "phone",
		SourceIdentifier: "+447700900124",
	})

	resp, err := svc.RecordContact(ctx, created.Lead.ID, transport.RecordContactRequest{
		Channel:   "phone",
		Direction: "outbound",
		Outcome:   "no_answer",
	})
	if err != nil {
		t.Fatalf("record contact: %v", err)
	}
	if resp.ContactAttempts != 1 {
		t.Errorf("contact attempts = %d, want 1", resp.ContactAttempts)
	}
}
