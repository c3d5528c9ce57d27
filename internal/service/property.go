package service

import (
	"context"
	"strconv"
	"strings"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/filter"
	"nestio-backend/internal/logger"
	"nestio-backend/internal/repository"
	"nestio-backend/internal/utils"
)

const (
	defaultPageSize    = 20
	maxPublicPageSize  = 50
	maxPrivatePageSize = 100
)

// allowedSortKeys is a fixed allow-list; anything else is rejected rather
// than silently ignored so a typo cannot trigger an unindexed scan.
var allowedSortKeys = map[string]bool{
	"createdAt":  true,
	"price":      true,
	"city":       true,
	"popularity": true,
}

type propertyService struct {
	propRepo repository.PropertyRepository
	userRepo repository.UserRepository
}

func NewPropertyService(propRepo repository.PropertyRepository, userRepo repository.UserRepository) PropertyService {
	return &propertyService{propRepo: propRepo, userRepo: userRepo}
}

func (s *propertyService) AddProperty(ctx context.Context, caller domain.Caller, p *domain.Property) error {
	if caller.Role != domain.RoleLandlord && !caller.Admin() {
		return domain.ErrForbidden
	}

	verr := domain.NewValidationError()
	if strings.TrimSpace(p.Title) == "" {
		verr.Add("title", "is required")
	}
	if p.Price <= 0 {
		verr.Add("price", "must be a positive amount")
	}
	if p.Kind != domain.ListingKindRent && p.Kind != domain.ListingKindSell {
		verr.Add("kind", "must be RENT or SELL")
	}
	if !verr.Empty() {
		return verr
	}

	p.OwnerID = caller.UserID
	p.Slug = utils.PropertySlug(p.Title)
	p.Availability = domain.AvailabilityAvailable
	p.IsActive = true
	if p.Features == nil {
		p.Features = domain.FeatureBag{}
	}
	if err := s.propRepo.Create(ctx, p); err != nil {
		return err
	}

	change := &domain.PriceChange{PropertyID: p.ID, Price: p.Price, Reason: domain.PriceChangeReasonInitial}
	if err := s.propRepo.AppendPriceChange(ctx, change); err != nil {
		logger.Error("failed to record initial price", "property_id", p.ID, "error", err)
	}
	return nil
}

func (s *propertyService) GetProperty(ctx context.Context, caller domain.Caller, slug string) (*domain.Property, error) {
	p, err := s.propRepo.GetBySlug(ctx, slug, caller.Admin())
	if err != nil {
		return nil, err
	}
	if !p.IsActive && !caller.Admin() && caller.UserID != p.OwnerID {
		return nil, domain.ErrNotFound
	}

	if owner, err := s.userRepo.GetByID(ctx, p.OwnerID); err == nil {
		p.Owner = shapeOwner(owner, caller)
	}

	// Public views count toward the popular-first ordering.
	if caller.UserID != p.OwnerID && !caller.Admin() {
		if err := s.propRepo.IncrementPopularity(ctx, p.ID); err != nil {
			logger.Warn("failed to bump popularity", "property_id", p.ID, "error", err)
		}
	}
	return p, nil
}

// shapeOwner restricts the owner record to what the caller's role may see.
func shapeOwner(owner *domain.User, caller domain.Caller) *domain.User {
	if caller.Admin() || caller.UserID == owner.ID {
		return owner
	}
	return &domain.User{
		Name:        owner.Name,
		Email:       owner.Email,
		PhoneNumber: owner.PhoneNumber,
		AvatarURL:   owner.AvatarURL,
	}
}

func (s *propertyService) UpdateProperty(ctx context.Context, caller domain.Caller, slug string, upd PropertyUpdate) (*domain.Property, error) {
	p, err := s.propRepo.GetBySlug(ctx, slug, caller.Admin())
	if err != nil {
		return nil, err
	}
	if p.OwnerID != caller.UserID && !caller.Admin() {
		return nil, domain.ErrForbidden
	}

	priceChanged := false
	if upd.Price != nil && *upd.Price != p.Price {
		if *upd.Price <= 0 {
			verr := domain.NewValidationError()
			verr.Add("price", "must be a positive amount")
			return nil, verr
		}
		p.Price = *upd.Price
		priceChanged = true
	}
	if upd.Kind != nil {
		p.Kind = *upd.Kind
	}
	if upd.City != nil {
		p.City = *upd.City
	}
	if upd.Country != nil {
		p.Country = *upd.Country
	}
	if upd.Lat != nil {
		p.Lat = upd.Lat
	}
	if upd.Lng != nil {
		p.Lng = upd.Lng
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.PhotoURLs != nil {
		p.PhotoURLs = *upd.PhotoURLs
	}
	if upd.Features != nil {
		p.Features = *upd.Features
	}
	if upd.Availability != nil {
		p.Availability = *upd.Availability
	}
	if upd.IsActive != nil {
		p.IsActive = *upd.IsActive
	}

	if err := s.propRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	if priceChanged {
		change := &domain.PriceChange{PropertyID: p.ID, Price: p.Price, Reason: domain.PriceChangeReasonUpdate}
		if err := s.propRepo.AppendPriceChange(ctx, change); err != nil {
			logger.Error("failed to record price change", "property_id", p.ID, "error", err)
		}
	}
	return p, nil
}

func (s *propertyService) DeleteProperty(ctx context.Context, caller domain.Caller, slug string) error {
	p, err := s.propRepo.GetBySlug(ctx, slug, false)
	if err != nil {
		return err
	}
	if p.OwnerID != caller.UserID && !caller.Admin() {
		return domain.ErrForbidden
	}
	return s.propRepo.SoftDelete(ctx, p.ID)
}

func (s *propertyService) SearchProperties(ctx context.Context, caller domain.Caller, rawFilters map[string]string, page, pageSize int64, sort string) ([]domain.Property, *domain.PageMeta, error) {
	if sort != "" && !allowedSortKeys[sort] {
		verr := domain.NewValidationError()
		verr.Add("sort", "must be one of createdAt, price, city, popularity")
		return nil, nil, verr
	}

	clauses, err := filter.Compile(rawFilters)
	if err != nil {
		return nil, nil, err
	}

	q := repository.PropertySearch{
		Clauses:  clauses,
		Sort:     sort,
		Kind:     rawFilters["kind"],
		City:     rawFilters["city"],
		Country:  rawFilters["country"],
		MinPrice: parsePrice(rawFilters["minPrice"]),
		MaxPrice: parsePrice(rawFilters["maxPrice"]),
	}

	maxSize := int64(maxPublicPageSize)
	switch caller.Role {
	case domain.RoleAdmin:
		maxSize = maxPrivatePageSize
	case domain.RoleLandlord:
		maxSize = maxPrivatePageSize
		owner := caller.UserID
		q.OwnerID = &owner
	default:
		// Public search sees active listings only, popular first.
		q.PublicOnly = true
		q.PopularFirst = sort == ""
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxSize {
		pageSize = maxSize // Clamped, not rejected
	}
	q.Page, q.PageSize = page, pageSize

	props, total, err := s.propRepo.Search(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return props, domain.NewPageMeta(total, page, pageSize), nil
}

func (s *propertyService) PriceHistory(ctx context.Context, caller domain.Caller, slug string) ([]domain.PriceChange, error) {
	p, err := s.propRepo.GetBySlug(ctx, slug, caller.Admin())
	if err != nil {
		return nil, err
	}
	if p.OwnerID != caller.UserID && !caller.Admin() {
		return nil, domain.ErrForbidden
	}
	return s.propRepo.ListPriceHistory(ctx, p.ID)
}

func parsePrice(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil // Unparseable bound drops the clause, same as feature ranges
	}
	return &v
}
