package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"brokerage_backend/internal/automation"
	"brokerage_backend/internal/events"
	"brokerage_backend/internal/workflows/domain"
	"brokerage_backend/internal/workflows/repository"
	"brokerage_backend/internal/workflows/transport"
	"brokerage_backend/platform/apperr"
	"brokerage_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository with the same last-write-wins stage
// semantics as the Postgres implementation.
type fakeRepo struct {
	workflows map[uuid.UUID]repository.Workflow
	history   map[uuid.UUID][]repository.StageEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		workflows: make(map[uuid.UUID]repository.Workflow),
		history:   make(map[uuid.UUID][]repository.StageEntry),
	}
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateWorkflowParams) (repository.Workflow, error) {
	w := repository.Workflow{
		ID:              uuid.New(),
		PropertyID:      params.PropertyID,
		Type:            params.Type,
		Stage:           domain.StageValuation,
		PropertyAddress: params.PropertyAddress,
		ClientName:      params.ClientName,
		ClientEmail:     params.ClientEmail,
		ClientPhone:     params.ClientPhone,
		VendorID:        params.VendorID,
		LandlordID:      params.LandlordID,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.workflows[w.ID] = w
	f.history[w.ID] = []repository.StageEntry{{Stage: w.Stage, EnteredAt: time.Now()}}
	return w, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Workflow, error) {
	w, ok := f.workflows[id]
	if !ok {
		return repository.Workflow{}, repository.ErrNotFound
	}
	return w, nil
}

func (f *fakeRepo) List(_ context.Context, workflowType *domain.Type, stage *domain.Stage, limit, offset int) ([]repository.Workflow, error) {
	var out []repository.Workflow
	for _, w := range f.workflows {
		if workflowType != nil && w.Type != *workflowType {
			continue
		}
		if stage != nil && w.Stage != *stage {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeRepo) SetStage(_ context.Context, id uuid.UUID, stage domain.Stage, extra repository.StageUpdateParams) (repository.Workflow, error) {
	w, ok := f.workflows[id]
	if !ok {
		return repository.Workflow{}, repository.ErrNotFound
	}
	w.Stage = stage
	if extra.AgreedPriceCents != nil {
		w.AgreedPriceCents = extra.AgreedPriceCents
	}
	if extra.FeeCents != nil {
		w.FeeCents = extra.FeeCents
	}
	if extra.BuyerID != nil {
		w.BuyerID = extra.BuyerID
	}
	if extra.TenantID != nil {
		w.TenantID = extra.TenantID
	}
	if stage.Terminal() && w.CompletedAt == nil {
		now := time.Now()
		w.CompletedAt = &now
	}
	f.workflows[id] = w
	f.history[id] = append(f.history[id], repository.StageEntry{Stage: stage, EnteredAt: time.Now()})
	return w, nil
}

func (f *fakeRepo) StageHistory(_ context.Context, workflowID uuid.UUID) ([]repository.StageEntry, error) {
	return f.history[workflowID], nil
}

// recordingDispatcher captures dispatched stage automations.
type recordingDispatcher struct {
	stages  []string
	actions [][]automation.Action
	dctxs   []automation.DispatchContext
}

func (r *recordingDispatcher) Dispatch(_ context.Context, stage string, actions []automation.Action, dctx automation.DispatchContext) {
	r.stages = append(r.stages, stage)
	r.actions = append(r.actions, actions)
	r.dctxs = append(r.dctxs, dctx)
}

type noopBus struct{}

func (noopBus) Publish(context.Context, events.Event) {}
func (noopBus) PublishSync(context.Context, events.Event) error {
	return nil
}
func (noopBus) Subscribe(string, events.Handler) {}

func newWorkflow(t *testing.T, svc *Service, workflowType string) transport.WorkflowResponse {
	t.Helper()
	email := "vendor@example.com"
	created, err := svc.Create(context.Background(), transport.CreateWorkflowRequest{
		PropertyID:      uuid.New(),
		Type:            workflowType,
		PropertyAddress: "12 Harbour Lane, Bristol",
		ClientName:      "Priya Shah",
		ClientEmail:     email,
		ClientPhone:     "+447700900123",
	})
	if err != nil {
		t.Fatalf("create workflow: %v", err)
	}
	return created
}

func TestProgressLastWriteWins(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, noopBus{}, nil)
	w := newWorkflow(t, svc, "sale")
	ctx := context.Background()

	if _, err := svc.Progress(ctx, w.ID, transport.ProgressRequest{Stage: "offer"}); err != nil {
		t.Fatalf("progress to offer: %v", err)
	}
	updated, err := svc.Progress(ctx, w.ID, transport.ProgressRequest{Stage: "viewing"})
	if err != nil {
		t.Fatalf("progress to viewing: %v", err)
	}
	if updated.Stage != "viewing" {
		t.Errorf("stage = %q, want viewing (last write wins)", updated.Stage)
	}

	history, err := svc.StageHistory(ctx, w.ID)
	if err != nil {
		t.Fatalf("stage history: %v", err)
	}
	want := []string{"valuation", "offer", "viewing"}
	if len(history) != len(want) {
		t.Fatalf("history length = %d, want %d", len(history), len(want))
	}
	for i, stage := range want {
		if history[i].Stage != stage {
			t.Errorf("history[%d] = %q, want %q", i, history[i].Stage, stage)
		}
	}
}

func TestProgressRejectsUnknownStage(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, noopBus{}, nil)
	w := newWorkflow(t, svc, "sale")

	_, err := svc.Progress(context.Background(), w.ID, transport.ProgressRequest{Stage: "under_offer"})
	if err == nil {
		t.Fatal("expected validation error for unknown stage")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("error kind = %v, want validation", err)
	}
}

func TestProgressDispatchesStageAutomations(t *testing.T) {
	repo := newFakeRepo()
	dispatcher := &recordingDispatcher{}
	svc := New(repo, noopBus{}, dispatcher)
	w := newWorkflow(t, svc, "sale")

	price := int64(42500000)
	if _, err := svc.Progress(context.Background(), w.ID, transport.ProgressRequest{
		Stage:            "offer",
		AgreedPriceCents: &price,
	}); err != nil {
		t.Fatalf("progress: %v", err)
	}

	// Creation dispatches the valuation automations, progress the offer ones.
	if len(dispatcher.stages) != 2 {
		t.Fatalf("dispatch count = %d, want 2", len(dispatcher.stages))
	}
	if dispatcher.stages[1] != "offer" {
		t.Errorf("dispatched stage = %q, want offer", dispatcher.stages[1])
	}
	want, _ := domain.AutomationsFor(domain.TypeSale, domain.StageOffer)
	if len(dispatcher.actions[1]) != len(want) {
		t.Errorf("action count = %d, want %d", len(dispatcher.actions[1]), len(want))
	}
	dctx := dispatcher.dctxs[1]
	if dctx.RecipientEmail != "vendor@example.com" {
		t.Errorf("recipient email = %q", dctx.RecipientEmail)
	}
	if dctx.Vars["agreed_price"] != "£425000.00" {
		t.Errorf("agreed_price var = %q", dctx.Vars["agreed_price"])
	}
	if dctx.Vars["property_address"] != "12 Harbour Lane, Bristol" {
		t.Errorf("property_address var = %q", dctx.Vars["property_address"])
	}
}

func TestProgressCompletionStampsCompletedAt(t *testing.T) {
	repo := newFakeRepo()
	svc := New(repo, noopBus{}, nil)
	w := newWorkflow(t, svc, "letting")

	updated, err := svc.Progress(context.Background(), w.ID, transport.ProgressRequest{Stage: "completion"})
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	if updated.CompletedAt == nil {
		t.Error("completed_at not set on completion")
	}
}

func TestCreateRejectsUnknownType(t *testing.T) {
	svc := New(newFakeRepo(), noopBus{}, nil)
	_, err := svc.Create(context.Background(), transport.CreateWorkflowRequest{
		PropertyID:      uuid.New(),
		Type:            "auction",
		PropertyAddress: "1 Test St",
		ClientName:      "A",
	})
	if err == nil {
		t.Fatal("expected validation error for unknown type")
	}
}

// Every message action in the stage tables must name a template that exists
// in the builtin set and that renders completely against the variables the
// dispatch path supplies. A leftover {{placeholder}} means the template and
// the variable map have drifted apart.
func TestStageTemplatesResolveAgainstDispatchVars(t *testing.T) {
	price := int64(42500000)
	fee := int64(637500)
	w := repository.Workflow{
		ID:               uuid.New(),
		Type:             domain.TypeSale,
		Stage:            domain.StageOffer,
		PropertyAddress:  "12 Harbour Lane, Bristol",
		ClientName:       "Priya Shah",
		AgreedPriceCents: &price,
		FeeCents:         &fee,
	}
	vars := templateVars(w)

	for _, workflowType := range []domain.Type{domain.TypeSale, domain.TypeLetting} {
		for _, stage := range domain.StageOrder {
			actions, ok := domain.AutomationsFor(workflowType, stage)
			if !ok {
				t.Fatalf("no automation entry for %s/%s", workflowType, stage)
			}
			for _, action := range actions {
				switch action.Kind {
				case automation.KindEmail, automation.KindSMS, automation.KindWhatsApp:
				default:
					continue
				}
				body, ok := automation.BuiltinTemplate(action.Template)
				if !ok {
					t.Errorf("%s/%s names unknown template %q", workflowType, stage, action.Template)
					continue
				}
				if rendered := automation.Render(body, vars); strings.Contains(rendered, "{{") {
					t.Errorf("%s/%s template %q left placeholders: %q", workflowType, stage, action.Template, rendered)
				}
				if rendered := automation.Render(action.Subject, vars); strings.Contains(rendered, "{{") {
					t.Errorf("%s/%s subject for %q left placeholders: %q", workflowType, stage, action.Template, rendered)
				}
			}
		}
	}
}

type builtinTemplateReader struct{}

func (builtinTemplateReader) GetTemplate(_ context.Context, name string) (string, error) {
	body, ok := automation.BuiltinTemplate(name)
	if !ok {
		return "", automation.ErrTemplateNotFound
	}
	return body, nil
}

type capturingEmail struct {
	bodies []string
}

func (c *capturingEmail) SendCustomEmail(_ context.Context, _, _, body string) error {
	c.bodies = append(c.bodies, body)
	return nil
}

// End-to-end over the real dispatcher: creating a workflow must deliver a
// valuation confirmation with the client and property substituted in.
func TestCreateSendsFullyRenderedEmail(t *testing.T) {
	email := &capturingEmail{}
	dispatcher := automation.New(builtinTemplateReader{}, logger.New("development"))
	dispatcher.SetEmailSender(email)

	svc := New(newFakeRepo(), noopBus{}, dispatcher)
	newWorkflow(t, svc, "sale")

	if len(email.bodies) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(email.bodies))
	}
	body := email.bodies[0]
	if !strings.Contains(body, "Priya Shah") || !strings.Contains(body, "12 Harbour Lane, Bristol") {
		t.Errorf("body missing substituted values: %q", body)
	}
	if strings.Contains(body, "{{") {
		t.Errorf("body left placeholders unresolved: %q", body)
	}
}
