package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type donationRequest struct {
	CampaignID string `json:"campaign_id"`
	Amount     int64  `json:"amount"`
	Message    string `json:"message"`
	DonorName  string `json:"donor_name"`
	DonorEmail string `json:"donor_email"`
}

// DonationsCreate records a donation. Works for authenticated callers and for
// anonymous donors who leave a name and email.
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	donor := domain.Donor{Name: req.DonorName, Email: req.DonorEmail}
	if principal := middleware.PrincipalFromContext(r.Context()); principal != nil {
		donor.UserID = &principal.ID
		donor.Name = principal.Name
		donor.Email = principal.Email
	}

	donation, campaign, err := a.Donations.Record(r.Context(), service.RecordDonationInput{
		CampaignID: req.CampaignID,
		Amount:     req.Amount,
		Message:    req.Message,
		Donor:      donor,
		RemoteIP:   middleware.ClientIP(r),
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"donation": toDonationResponse(donation),
		"campaign": toCampaignResponse(campaign),
	})
}

// DonationsByCampaign lists a campaign's donations, newest first.
func (a *App) DonationsByCampaign(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.ListForCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationList(items)})
}

// DonationsByUser lists donations made by a user, newest first.
func (a *App) DonationsByUser(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.ListForUser(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationList(items)})
}

// DonationsListAll returns the full ledger. Admin only.
func (a *App) DonationsListAll(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.ListAll(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationList(items)})
}
