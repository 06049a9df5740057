package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/storage"
)

// maxImageUploadBytes caps campaign image uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// CampaignImageUpload accepts a multipart image, stores it, and attaches the
// resulting key to the campaign. Authorization follows the same rules as any
// other campaign edit.
func (a *App) CampaignImageUpload(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFromContext(r.Context())
	campaignID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "multipart form required")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file is required")
		return
	}
	defer file.Close()

	key, err := storage.ImageKey(campaignID, header.Filename)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImageType) {
			a.error(w, http.StatusBadRequest, "validation_failed", "image must be jpg, jpeg, png or webp")
			return
		}
		a.domainError(w, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "could not read upload")
		return
	}
	storedKey, err := a.Uploads.Write(r.Context(), key, data)
	if err != nil {
		a.Logger.Error().Err(err).Str("campaign_id", campaignID).Msg("image write failed")
		a.error(w, http.StatusInternalServerError, "internal", "could not store image")
		return
	}

	campaign, err := a.Campaigns.Update(r.Context(), principal, campaignID, domain.CampaignPatch{ImageRef: &storedKey})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}
