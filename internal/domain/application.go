package domain

import (
	"strconv"
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"
)

// Terminal reports whether no further transitions are permitted.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected || s == ApplicationStatusWithdrawn
}

// CanTransitionTo reports whether the move from s to next is a legal
// state-machine edge. The only legal edges are PENDING to a terminal state.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	return s == ApplicationStatusPending && next.Terminal()
}

type Application struct {
	ID             int64             `json:"id"`
	Slug           string            `json:"slug"`
	PropertyID     int64             `json:"property_id"`
	UserID         *int64            `json:"user_id,omitempty"` // Nil for anonymous/public applications
	ApplicantName  string            `json:"applicant_name"`
	ApplicantEmail string            `json:"applicant_email"`
	ApplicantPhone string            `json:"applicant_phone"`
	Identity       string            `json:"-"` // Dedup key, see ApplicantIdentity
	Status         ApplicationStatus `json:"status"`
	ProposedRent   *float64          `json:"proposed_rent,omitempty"`
	MoveInDate     *time.Time        `json:"move_in_date,omitempty"`
	LandlordNotes  string            `json:"landlord_notes"`
	CreatedOn      time.Time         `json:"created_on"`
	UpdatedOn      time.Time         `json:"updated_on"`
}

// ApplicantIdentity derives the key used to deduplicate applications:
// the user id for authenticated tenants, the lower-cased email otherwise.
func ApplicantIdentity(userID *int64, email string) string {
	if userID != nil {
		return "user:" + strconv.FormatInt(*userID, 10)
	}
	return "email:" + strings.ToLower(strings.TrimSpace(email))
}
