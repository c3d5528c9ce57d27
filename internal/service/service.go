package service

import (
	"context"
	"time"

	"nestio-backend/internal/domain"
)

// PropertyUpdate carries the mutable listing fields; nil means "leave as is".
type PropertyUpdate struct {
	Kind         *domain.ListingKind
	Price        *float64
	City         *string
	Country      *string
	Lat          *float64
	Lng          *float64
	Title        *string
	Description  *string
	PhotoURLs    *[]string
	Features     *domain.FeatureBag
	Availability *domain.AvailabilityStatus
	IsActive     *bool
}

type PropertyService interface {
	AddProperty(ctx context.Context, caller domain.Caller, p *domain.Property) error
	GetProperty(ctx context.Context, caller domain.Caller, slug string) (*domain.Property, error)
	UpdateProperty(ctx context.Context, caller domain.Caller, slug string, upd PropertyUpdate) (*domain.Property, error)
	DeleteProperty(ctx context.Context, caller domain.Caller, slug string) error
	SearchProperties(ctx context.Context, caller domain.Caller, rawFilters map[string]string, page, pageSize int64, sort string) ([]domain.Property, *domain.PageMeta, error)
	PriceHistory(ctx context.Context, caller domain.Caller, slug string) ([]domain.PriceChange, error)
}

type SubmitApplicationInput struct {
	ApplicantName  string
	ApplicantEmail string
	ApplicantPhone string
	ProposedRent   *float64
	MoveInDate     *time.Time
}

// ApplicationUpdate carries field edits independent of a status change.
type ApplicationUpdate struct {
	LandlordNotes *string
	ProposedRent  *float64
	MoveInDate    *time.Time
}

type ApplicationService interface {
	Submit(ctx context.Context, caller domain.Caller, propertySlug string, in SubmitApplicationInput) (*domain.Application, error)
	Transition(ctx context.Context, caller domain.Caller, applicationSlug string, next domain.ApplicationStatus, notes *string) (*domain.Application, error)
	Withdraw(ctx context.Context, caller domain.Caller, applicationSlug string) (*domain.Application, error)
	UpdateDetails(ctx context.Context, caller domain.Caller, applicationSlug string, upd ApplicationUpdate) (*domain.Application, error)
	ListForProperty(ctx context.Context, caller domain.Caller, propertySlug string, page, pageSize int64) ([]domain.Application, *domain.PageMeta, error)
	ListMine(ctx context.Context, caller domain.Caller, page, pageSize int64) ([]domain.Application, *domain.PageMeta, error)
}

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string, role domain.Role) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type EmailService interface {
	SendApplicationReceived(ctx context.Context, landlordEmail, applicantName, propertyTitle string) error
	SendApplicationAccepted(ctx context.Context, applicantEmail, propertyTitle string) error
	SendApplicationRejected(ctx context.Context, applicantEmail, propertyTitle string) error
}
