package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/middleware"
	"server/internal/policy"
	"server/internal/service"
	"server/internal/storage"
)

const (
	testSecret  = "router-test-secret"
	ownerID     = "0f8fad5b-d9cb-469f-a165-70867728950e"
	adminID     = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	disabledID  = "9b2fbc02-8b77-4f6e-9d64-3a1f51c1a8d5"
	strangerID  = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"
)

type memCampaigns struct {
	mu    sync.Mutex
	items map[string]*domain.Campaign
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{items: map[string]*domain.Campaign{}}
}

func (r *memCampaigns) Create(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	r.items[c.ID] = &cp
	return nil
}

func (r *memCampaigns) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCampaigns) ListByStatuses(_ context.Context, statuses []domain.CampaignStatus) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.items {
		for _, s := range statuses {
			if c.Status == s {
				out = append(out, *c)
				break
			}
		}
	}
	return out, nil
}

func (r *memCampaigns) ListByOwner(_ context.Context, ownerID string) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.items {
		if c.OwnerID == ownerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCampaigns) UpdateDetails(_ context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[c.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.GoalAmount = c.GoalAmount
	stored.Categories = c.Categories
	stored.Deadline = c.Deadline
	stored.ImageRef = c.ImageRef
	stored.UpdatedAt = time.Now()
	domain.RecheckCompletion(stored)
	cp := *stored
	return &cp, nil
}

func (r *memCampaigns) CompleteIfFunded(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.items[id]; ok {
		domain.RecheckCompletion(c)
	}
	return nil
}

func (r *memCampaigns) SetStatusFromPending(_ context.Context, id string, to domain.CampaignStatus, reason *string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if c.Status != domain.CampaignStatusPending {
		return nil, &domain.TransitionError{From: c.Status, Guard: "campaign is not pending"}
	}
	c.Status = to
	c.RejectionReason = reason
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *memCampaigns) Withdraw(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanWithdraw(c) {
		return nil, &domain.TransitionError{From: c.Status, Guard: "goal not reached or funds already withdrawn"}
	}
	c.RaisedAmount = 0
	c.Withdrawn = true
	c.Status = domain.CampaignStatusWithdrawn
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (r *memCampaigns) DeleteNonCompleted(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Status == domain.CampaignStatusCompleted {
		return &domain.TransitionError{From: c.Status, Guard: "completed campaigns cannot be deleted"}
	}
	delete(r.items, id)
	return nil
}

type memDonations struct {
	campaigns *memCampaigns
	mu        sync.Mutex
	items     []domain.Donation
}

func (r *memDonations) Record(_ context.Context, d *domain.Donation) (*domain.Campaign, error) {
	r.campaigns.mu.Lock()
	defer r.campaigns.mu.Unlock()
	c, ok := r.campaigns.items[d.CampaignID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.CreatedAt = time.Now()
	r.mu.Lock()
	r.items = append(r.items, *d)
	r.mu.Unlock()
	domain.ApplyDonation(c, d.Amount)
	cp := *c
	return &cp, nil
}

func (r *memDonations) ListByCampaign(_ context.Context, campaignID string) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Donation
	for _, d := range r.items {
		if d.CampaignID == campaignID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDonations) ListByDonor(_ context.Context, userID string) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Donation
	for _, d := range r.items {
		if d.DonorUserID != nil && *d.DonorUserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *memDonations) ListAll(_ context.Context) ([]domain.Donation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Donation(nil), r.items...), nil
}

type memReporting struct{}

func (memReporting) CampaignStatusCounts(context.Context) (map[domain.CampaignStatus]int64, error) {
	return map[domain.CampaignStatus]int64{domain.CampaignStatusActive: 1}, nil
}
func (memReporting) CountUsers(context.Context) (int64, error)                      { return 4, nil }
func (memReporting) CountUsersCreatedSince(context.Context, time.Time) (int64, error) { return 1, nil }
func (memReporting) CountDonations(context.Context) (int64, error)                  { return 2, nil }
func (memReporting) SumDonations(context.Context) (int64, error)                    { return 150, nil }
func (memReporting) SumDonationsSince(context.Context, time.Time) (int64, error)    { return 50, nil }
func (memReporting) OwnerStatusCounts(context.Context, string) (map[domain.CampaignStatus]int64, error) {
	return map[domain.CampaignStatus]int64{domain.CampaignStatusActive: 1}, nil
}
func (memReporting) CountWithdrawnByOwner(context.Context, string) (int64, error)   { return 0, nil }
func (memReporting) SumDonationsByDonor(context.Context, string) (int64, error)     { return 25, nil }
func (memReporting) SumDonationsReceivedByOwner(context.Context, string) (int64, error) {
	return 150, nil
}

type memUsers struct {
	users map[string]*domain.User
}

func (r *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) List(context.Context) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *memCampaigns) {
	t.Helper()

	campaigns := newMemCampaigns()
	donations := &memDonations{campaigns: campaigns}
	users := &memUsers{users: map[string]*domain.User{
		ownerID:    {ID: ownerID, Name: "Owner", Email: "owner@example.com", Role: domain.UserRoleUser, Status: domain.AccountActive},
		adminID:    {ID: adminID, Name: "Admin", Email: "admin@example.com", Role: domain.UserRoleAdmin, Status: domain.AccountActive},
		strangerID: {ID: strangerID, Name: "Stranger", Email: "s@example.com", Role: domain.UserRoleUser, Status: domain.AccountActive},
		disabledID: {ID: disabledID, Name: "Gone", Email: "gone@example.com", Role: domain.UserRoleUser, Status: domain.AccountDisabled},
	}}

	logger := zerolog.Nop()
	access := policy.Access{}
	campaignSvc := service.NewCampaignService(campaigns, access, logger)
	donationSvc := service.NewDonationService(donations, access, nil, logger)
	reportingSvc := service.NewReportingService(memReporting{}, users, access)

	uploads, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	app := handlers.NewApp(campaignSvc, donationSvc, reportingSvc, uploads, logger)

	srv := httptest.NewServer(NewRouter(Deps{
		App:       app,
		Users:     users,
		JWTSecret: testSecret,
		Logger:    logger,
		UploadDir: uploads.BasePath(),
	}))
	t.Cleanup(srv.Close)
	return srv, campaigns
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := middleware.SignJWT(testSecret, middleware.TokenClaims{
		Sub:  userID,
		Role: role,
		Exp:  time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}
	return tok
}

func doJSON(t *testing.T, method, url, bearer string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	ownerTok := token(t, ownerID, "user")
	adminTok := token(t, adminID, "admin")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/campaigns", ownerTok, map[string]any{
		"title":       "Community Garden",
		"description": "Raised beds for the neighborhood",
		"goal_amount": 100,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	if body["status"] != "pending" {
		t.Fatalf("new campaign status = %v, want pending", body["status"])
	}
	campaignID, _ := body["id"].(string)
	if campaignID == "" {
		t.Fatal("missing campaign id")
	}

	// Pending campaigns are invisible to the public listing.
	if _, listBody := doJSON(t, http.MethodGet, srv.URL+"/campaigns", "", nil); len(listBody["items"].([]any)) != 0 {
		t.Fatalf("public list should be empty, got %v", listBody["items"])
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/admin/campaigns/"+campaignID+"/approve", adminTok, nil)
	if resp.StatusCode != http.StatusOK || body["status"] != "active" {
		t.Fatalf("approve: status=%d body=%v", resp.StatusCode, body)
	}

	// Fund it past the goal; completion is derived on the write.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/donations", "", map[string]any{
		"campaign_id": campaignID,
		"amount":      120,
		"donor_name":  "Jordan",
		"donor_email": "jordan@example.com",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("donation status = %d, want 201: %v", resp.StatusCode, body)
	}
	campaign := body["campaign"].(map[string]any)
	if campaign["status"] != "completed" || campaign["raised_amount"].(float64) != 120 {
		t.Fatalf("post-donation campaign = %v", campaign)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/campaigns/"+campaignID+"/withdraw", ownerTok, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("withdraw status = %d: %v", resp.StatusCode, body)
	}
	if body["status"] != "withdrawn" || body["raised_amount"].(float64) != 0 || body["withdrawn"] != true {
		t.Fatalf("post-withdraw campaign = %v", body)
	}

	// The payout is one-shot.
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/campaigns/"+campaignID+"/withdraw", ownerTok, nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second withdraw status = %d, want 409", resp.StatusCode)
	}
}

func TestRejectWithAndWithoutReason(t *testing.T) {
	srv, campaigns := newTestServer(t)
	ownerTok := token(t, ownerID, "user")
	adminTok := token(t, adminID, "admin")

	for i, reason := range []string{"", "off topic"} {
		_, body := doJSON(t, http.MethodPost, srv.URL+"/campaigns", ownerTok, map[string]any{
			"title":       fmt.Sprintf("Campaign %d", i),
			"description": "detail",
			"goal_amount": 10,
		})
		id := body["id"].(string)

		payload := map[string]any{}
		if reason != "" {
			payload["reason"] = reason
		}
		resp, rejected := doJSON(t, http.MethodPost, srv.URL+"/admin/campaigns/"+id+"/reject", adminTok, payload)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("reject status = %d", resp.StatusCode)
		}
		want := reason
		if want == "" {
			want = domain.DefaultRejectionReason
		}
		if rejected["rejection_reason"] != want {
			t.Fatalf("rejection_reason = %v, want %q", rejected["rejection_reason"], want)
		}
	}

	if len(campaigns.items) != 2 {
		t.Fatalf("expected both campaigns retained, have %d", len(campaigns.items))
	}
}

func TestAuthBoundaries(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/campaigns", "", map[string]any{"title": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated create = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/admin/stats", token(t, ownerID, "user"), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("non-admin stats = %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/dashboard", token(t, disabledID, "user"), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("disabled account = %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/admin/stats", token(t, adminID, "admin"), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin stats = %d, want 200", resp.StatusCode)
	}
}

func TestAnonymousDonationRequiresContact(t *testing.T) {
	srv, campaigns := newTestServer(t)
	adminTok := token(t, adminID, "admin")
	ownerTok := token(t, ownerID, "user")

	_, body := doJSON(t, http.MethodPost, srv.URL+"/campaigns", ownerTok, map[string]any{
		"title":       "School Supplies",
		"description": "Notebooks and pens",
		"goal_amount": 500,
	})
	id := body["id"].(string)
	doJSON(t, http.MethodPost, srv.URL+"/admin/campaigns/"+id+"/approve", adminTok, nil)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/donations", "", map[string]any{
		"campaign_id": id,
		"amount":      10,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("anonymous donation without contact = %d, want 400", resp.StatusCode)
	}

	// An authenticated donor needs no explicit contact fields.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/donations", ownerTok, map[string]any{
		"campaign_id": id,
		"amount":      10,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("authenticated donation = %d: %v", resp.StatusCode, body)
	}
	donation := body["donation"].(map[string]any)
	if donation["donor_user_id"] != ownerID {
		t.Fatalf("donor_user_id = %v, want %s", donation["donor_user_id"], ownerID)
	}

	if campaigns.items[id].RaisedAmount != 10 {
		t.Fatalf("raised = %d, want 10", campaigns.items[id].RaisedAmount)
	}
}

func TestNotFoundAndBadIDMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/campaigns/not-a-uuid", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed id = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/campaigns/"+strangerID, "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown id = %d, want 404", resp.StatusCode)
	}
}
