package repository

import (
	"context"
	"time"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/filter"
)

// PropertySearch is everything the query executor needs to produce one page
// of listings: compiled feature predicates, scalar restrictions, ordering
// and page bounds.
type PropertySearch struct {
	Clauses []filter.Clause

	OwnerID    *int64 // Restrict to one landlord's rows
	PublicOnly bool   // is_active = true
	Kind       string
	City       string
	Country    string
	MinPrice   *float64
	MaxPrice   *float64

	// Sort is one of the allow-listed keys (createdAt, price, city,
	// popularity); empty means newest first. PopularFirst prepends
	// popularity to the default ordering for public search.
	Sort         string
	PopularFirst bool

	Page     int64
	PageSize int64
}

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	GetBySlug(ctx context.Context, slug string, includeDeleted bool) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	SoftDelete(ctx context.Context, id int64) error
	Search(ctx context.Context, q PropertySearch) ([]domain.Property, int64, error)
	IncrementPopularity(ctx context.Context, id int64) error

	// Price history is append-only; price mutations never overwrite entries.
	AppendPriceChange(ctx context.Context, change *domain.PriceChange) error
	ListPriceHistory(ctx context.Context, propertyID int64) ([]domain.PriceChange, error)
}

type ApplicationRepository interface {
	// Create relies on the store's partial unique index over
	// (property_id, applicant_identity) WHERE status = 'PENDING' and
	// returns domain.ErrDuplicateApplication on a constraint hit.
	Create(ctx context.Context, app *domain.Application) error
	GetBySlug(ctx context.Context, slug string) (*domain.Application, error)
	HasPending(ctx context.Context, propertyID int64, identity string) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus, notes *string) error
	// Accept marks the application ACCEPTED and flips the linked property
	// to RENTED in a single transaction; a partial outcome of the two
	// writes must be impossible.
	Accept(ctx context.Context, id, propertyID int64, notes *string) error
	UpdateDetails(ctx context.Context, app *domain.Application) error
	ListByProperty(ctx context.Context, propertyID int64, page, pageSize int64) ([]domain.Application, int64, error)
	ListByApplicant(ctx context.Context, identity string, page, pageSize int64) ([]domain.Application, int64, error)
	// ExpireStale withdraws applications left PENDING since before cutoff.
	ExpireStale(ctx context.Context, cutoff time.Time, note string) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
