package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
)

// AdminPendingCampaigns returns the moderation queue.
func (a *App) AdminPendingCampaigns(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListByStatus(r.Context(), middleware.PrincipalFromContext(r.Context()), string(domain.CampaignStatusPending))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// AdminCampaignsByStatus returns every campaign in the requested status.
func (a *App) AdminCampaignsByStatus(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListByStatus(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "status"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// AdminApproveCampaign moves a pending campaign to active.
func (a *App) AdminApproveCampaign(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Campaigns.Approve(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}

type rejectCampaignRequest struct {
	Reason string `json:"reason"`
}

// AdminRejectCampaign moves a pending campaign to rejected.
func (a *App) AdminRejectCampaign(w http.ResponseWriter, r *http.Request) {
	var req rejectCampaignRequest
	// Body is optional; an absent reason gets the default placeholder.
	_ = json.NewDecoder(r.Body).Decode(&req)
	campaign, err := a.Campaigns.Reject(r.Context(), middleware.PrincipalFromContext(r.Context()), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}

// AdminStats returns the platform-wide rollup.
func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Reporting.SystemStats(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	statusCounts := make(map[string]int64, len(stats.CampaignStatusCounts))
	for status, n := range stats.CampaignStatusCounts {
		statusCounts[string(status)] = n
	}
	a.json(w, http.StatusOK, map[string]any{
		"total_users":             stats.TotalUsers,
		"new_users_today":         stats.NewUsersToday,
		"total_campaigns":         stats.TotalCampaigns,
		"total_donations":         stats.TotalDonations,
		"total_donation_amount":   stats.TotalDonationAmount,
		"todays_donation_amount":  stats.TodayDonationAmount,
		"campaign_status_counts":  statusCounts,
		"pending_campaigns":       statusCounts[string(domain.CampaignStatusPending)],
		"active_campaigns":        statusCounts[string(domain.CampaignStatusActive)],
		"rejected_campaigns":      statusCounts[string(domain.CampaignStatusRejected)],
		"completed_campaigns":     statusCounts[string(domain.CampaignStatusCompleted)],
		"withdrawn_campaigns":     statusCounts[string(domain.CampaignStatusWithdrawn)],
	})
}

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUsers lists registered users for the admin console.
func (a *App) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Reporting.ListUsers(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, userResponse{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      string(u.Role),
			Status:    string(u.Status),
			CreatedAt: u.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
