package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxDonationMessageLen bounds the optional supporter message.
const MaxDonationMessageLen = 200

// MinDonationAmount is one currency unit.
const MinDonationAmount = 1

// Donor identifies who made a donation. Anonymous donors (no UserID) must
// leave a name and email so the ledger keeps an audit trail.
type Donor struct {
	UserID *string
	Name   string
	Email  string
}

// Donation is an immutable ledger entry referencing a campaign. There is no
// update or delete path; rows are append-only.
type Donation struct {
	ID          string
	CampaignID  string
	Amount      int64
	Message     string
	DonorUserID *string
	DonorName   string
	DonorEmail  string
	Country     string
	CreatedAt   time.Time
}

// NewDonation validates the input and returns an unsaved donation entry.
func NewDonation(campaignID string, amount int64, message string, donor Donor) (*Donation, error) {
	campaignID, err := ParseID(campaignID)
	if err != nil {
		return nil, err
	}
	if amount < MinDonationAmount {
		return nil, &ValidationError{Field: "amount", Reason: "minimum donation is 1"}
	}
	if len(message) > MaxDonationMessageLen {
		return nil, &ValidationError{Field: "message", Reason: "message cannot exceed 200 characters"}
	}
	d := &Donation{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		Amount:     amount,
		Message:    message,
	}
	if donor.UserID != nil && strings.TrimSpace(*donor.UserID) != "" {
		userID, err := ParseID(*donor.UserID)
		if err != nil {
			return nil, err
		}
		d.DonorUserID = &userID
		d.DonorName = strings.TrimSpace(donor.Name)
		d.DonorEmail = strings.TrimSpace(donor.Email)
		return d, nil
	}
	d.DonorName = strings.TrimSpace(donor.Name)
	d.DonorEmail = strings.TrimSpace(donor.Email)
	if d.DonorName == "" {
		return nil, &ValidationError{Field: "donorName", Reason: "name is required for anonymous donations"}
	}
	if d.DonorEmail == "" {
		return nil, &ValidationError{Field: "donorEmail", Reason: "email is required for anonymous donations"}
	}
	return d, nil
}
