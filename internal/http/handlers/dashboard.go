package handlers

import (
	"net/http"

	"server/internal/middleware"
)

// DashboardOverview returns the caller's own campaign and donation rollup.
func (a *App) DashboardOverview(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	overview, err := a.Reporting.UserDashboard(r.Context(), principal)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"campaigns": map[string]int64{
			"pending":   overview.PendingCount,
			"rejected":  overview.RejectedCount,
			"active":    overview.ActiveCount,
			"completed": overview.CompletedCount,
			"withdrawn": overview.WithdrawnCount,
			"closed":    overview.ClosedCount,
		},
		"donations_made":     overview.TotalDonationsMade,
		"donations_received": overview.TotalDonationsReceived,
	})
}
