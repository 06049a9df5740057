package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/service"
	"server/internal/storage"
)

// App is the handler container. It holds the core services and translates
// between HTTP and the domain error taxonomy.
type App struct {
	Campaigns *service.CampaignService
	Donations *service.DonationService
	Reporting *service.ReportingService
	Uploads   *storage.FileStore
	Logger    zerolog.Logger
}

// NewApp builds the handler container.
func NewApp(campaigns *service.CampaignService, donations *service.DonationService, reporting *service.ReportingService, uploads *storage.FileStore, logger zerolog.Logger) *App {
	return &App{
		Campaigns: campaigns,
		Donations: donations,
		Reporting: reporting,
		Uploads:   uploads,
		Logger:    logger,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{"error": code, "message": message})
}

// domainError maps the domain error taxonomy onto HTTP statuses. Storage
// failures are the only class logged at error level; the rest are caller
// mistakes.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	var terr *domain.TransitionError
	var serr *domain.StorageError
	switch {
	case errors.Is(err, domain.ErrInvalidID):
		a.error(w, http.StatusBadRequest, "bad_request", "invalid identifier format")
	case errors.As(err, &verr):
		a.error(w, http.StatusBadRequest, "validation_failed", verr.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "not authorized for this resource")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.As(err, &terr):
		a.error(w, http.StatusConflict, "invalid_transition", terr.Error())
	case errors.As(err, &serr):
		a.Logger.Error().Err(err).Msg("storage failure")
		a.error(w, http.StatusInternalServerError, "internal", "storage failure, retry may succeed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

type campaignResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	GoalAmount      int64      `json:"goal_amount"`
	RaisedAmount    int64      `json:"raised_amount"`
	OwnerID         string     `json:"owner_id"`
	Status          string     `json:"status"`
	Withdrawn       bool       `json:"withdrawn"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	Categories      []string   `json:"categories"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	ImageRef        *string    `json:"image_ref,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	categories := c.Categories
	if categories == nil {
		categories = []string{}
	}
	return campaignResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		GoalAmount:      c.GoalAmount,
		RaisedAmount:    c.RaisedAmount,
		OwnerID:         c.OwnerID,
		Status:          string(c.Status),
		Withdrawn:       c.Withdrawn,
		RejectionReason: c.RejectionReason,
		Categories:      categories,
		Deadline:        c.Deadline,
		ImageRef:        c.ImageRef,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func toCampaignList(items []domain.Campaign) []campaignResponse {
	out := make([]campaignResponse, 0, len(items))
	for i := range items {
		out = append(out, toCampaignResponse(&items[i]))
	}
	return out
}

type donationResponse struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	Amount      int64     `json:"amount"`
	Message     string    `json:"message,omitempty"`
	DonorUserID *string   `json:"donor_user_id,omitempty"`
	DonorName   string    `json:"donor_name,omitempty"`
	Country     string    `json:"country,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDonationResponse(d *domain.Donation) donationResponse {
	return donationResponse{
		ID:          d.ID,
		CampaignID:  d.CampaignID,
		Amount:      d.Amount,
		Message:     d.Message,
		DonorUserID: d.DonorUserID,
		DonorName:   d.DonorName,
		Country:     d.Country,
		CreatedAt:   d.CreatedAt,
	}
}

func toDonationList(items []domain.Donation) []donationResponse {
	out := make([]donationResponse, 0, len(items))
	for i := range items {
		out = append(out, toDonationResponse(&items[i]))
	}
	return out
}
