package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus enumerates lifecycle states of a fundraising campaign.
type CampaignStatus string

const (
	CampaignStatusPending   CampaignStatus = "pending"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusRejected  CampaignStatus = "rejected"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusWithdrawn CampaignStatus = "withdrawn"
	// CampaignStatusClosed survives in historical rows only; no transition
	// produces it anymore.
	CampaignStatusClosed CampaignStatus = "closed"
)

// DefaultRejectionReason is stored when an admin rejects without a reason.
const DefaultRejectionReason = "No reason provided"

// PublicStatuses are the states visible on unauthenticated listings.
// Pending and rejected campaigns stay private to their owner and admins.
var PublicStatuses = []CampaignStatus{
	CampaignStatusActive,
	CampaignStatusCompleted,
	CampaignStatusWithdrawn,
}

// KnownStatuses covers every status a stored row may carry.
var KnownStatuses = []CampaignStatus{
	CampaignStatusPending,
	CampaignStatusActive,
	CampaignStatusRejected,
	CampaignStatusCompleted,
	CampaignStatusWithdrawn,
	CampaignStatusClosed,
}

// ParseCampaignStatus maps a user-supplied token onto a known status.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	status := CampaignStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", &ValidationError{Field: "status", Reason: "unknown campaign status"}
}

// IsPublic reports whether the status is visible to unauthenticated listings.
func (s CampaignStatus) IsPublic() bool {
	for _, public := range PublicStatuses {
		if s == public {
			return true
		}
	}
	return false
}

// Campaign is a fundraising project owned by a single user. RaisedAmount is
// mutated only by the donation ledger and the withdrawal reset, never by a
// field edit.
type Campaign struct {
	ID              string
	Title           string
	Description     string
	GoalAmount      int64
	RaisedAmount    int64
	OwnerID         string
	Status          CampaignStatus
	Withdrawn       bool
	RejectionReason *string
	Categories      []string
	Deadline        *time.Time
	ImageRef        *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewCampaign validates the creation input and returns a pending campaign.
func NewCampaign(ownerID, title, description string, goalAmount int64) (*Campaign, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if description == "" {
		return nil, &ValidationError{Field: "description", Reason: "description is required"}
	}
	if goalAmount <= 0 {
		return nil, &ValidationError{Field: "goalAmount", Reason: "goal amount must be positive"}
	}
	if ownerID == "" {
		return nil, &ValidationError{Field: "ownerID", Reason: "owner is required"}
	}
	return &Campaign{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		GoalAmount:  goalAmount,
		OwnerID:     ownerID,
		Status:      CampaignStatusPending,
	}, nil
}

// CampaignPatch enumerates the fields an edit may change. Status is never
// patchable; it moves only through dedicated transition operations.
type CampaignPatch struct {
	Title       *string
	Description *string
	GoalAmount  *int64
	Categories  []string
	Deadline    *time.Time
	ImageRef    *string
}

// Apply merges the patch onto the campaign after validating each supplied
// field, then re-derives completion in case the goal moved below the raised
// total.
func (p CampaignPatch) Apply(c *Campaign) error {
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return &ValidationError{Field: "title", Reason: "title cannot be empty"}
		}
		c.Title = title
	}
	if p.Description != nil {
		desc := strings.TrimSpace(*p.Description)
		if desc == "" {
			return &ValidationError{Field: "description", Reason: "description cannot be empty"}
		}
		c.Description = desc
	}
	if p.GoalAmount != nil {
		if *p.GoalAmount <= 0 {
			return &ValidationError{Field: "goalAmount", Reason: "goal amount must be positive"}
		}
		c.GoalAmount = *p.GoalAmount
	}
	if p.Categories != nil {
		c.Categories = p.Categories
	}
	if p.Deadline != nil {
		c.Deadline = p.Deadline
	}
	if p.ImageRef != nil {
		c.ImageRef = p.ImageRef
	}
	RecheckCompletion(c)
	return nil
}

// ParseID validates an opaque identifier supplied by a caller.
func ParseID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", ErrInvalidID
	}
	return parsed.String(), nil
}
