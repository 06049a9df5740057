package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type createCampaignRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	GoalAmount  int64    `json:"goal_amount"`
	Categories  []string `json:"categories"`
	ImageRef    *string  `json:"image_ref"`
}

// CampaignsCreate submits a new campaign for moderation.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	campaign, err := a.Campaigns.Create(r.Context(), middleware.PrincipalFromContext(r.Context()), service.CreateCampaignInput{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Categories:  req.Categories,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toCampaignResponse(campaign))
}

// CampaignsList returns publicly visible campaigns, optionally filtered by
// ?status=.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListPublic(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// CampaignsMine returns the caller's own campaigns in every status.
func (a *App) CampaignsMine(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListOwned(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// CampaignsGet returns a campaign by id. The read re-derives completion, so a
// funded campaign is never served as active.
func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Campaigns.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}

type updateCampaignRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	GoalAmount  *int64     `json:"goal_amount"`
	Categories  []string   `json:"categories"`
	Deadline    *time.Time `json:"deadline"`
	ImageRef    *string    `json:"image_ref"`
}

// CampaignsUpdate patches the editable fields for the owner or an admin.
// Status never moves through this handler.
func (a *App) CampaignsUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	campaign, err := a.Campaigns.Update(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), domain.CampaignPatch{
		Title:       req.Title,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Categories:  req.Categories,
		Deadline:    req.Deadline,
		ImageRef:    req.ImageRef,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}

// CampaignsDelete removes a non-completed campaign for the owner or an admin.
func (a *App) CampaignsDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Campaigns.Delete(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "campaign deleted"})
}

// CampaignsWithdraw performs the one-shot payout for a funded campaign.
func (a *App) CampaignsWithdraw(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Campaigns.Withdraw(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}
