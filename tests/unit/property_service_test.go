package unit

import (
	"context"
	"testing"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/repository"
	"nestio-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPropertyService() (service.PropertyService, *MockPropertyRepo, *MockUserRepo) {
	propRepo := new(MockPropertyRepo)
	userRepo := new(MockUserRepo)
	return service.NewPropertyService(propRepo, userRepo), propRepo, userRepo
}

func landlord(id int64) domain.Caller { return domain.Caller{UserID: id, Role: domain.RoleLandlord} }
func admin(id int64) domain.Caller    { return domain.Caller{UserID: id, Role: domain.RoleAdmin} }
func tenant(id int64) domain.Caller   { return domain.Caller{UserID: id, Role: domain.RoleTenant} }

func TestAddProperty_TenantForbidden(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	err := svc.AddProperty(context.Background(), tenant(7), &domain.Property{
		Title: "Loft", Price: 1200, Kind: domain.ListingKindRent,
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	propRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddProperty_ValidationReportsEveryField(t *testing.T) {
	svc, _, _ := newPropertyService()

	err := svc.AddProperty(context.Background(), landlord(3), &domain.Property{
		Title: "  ", Price: 0, Kind: "LEASE",
	})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "kind")
}

func TestAddProperty_RecordsInitialPrice(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Property")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Property).ID = 42
		}).Return(nil)
	propRepo.On("AppendPriceChange", mock.Anything, mock.MatchedBy(func(c *domain.PriceChange) bool {
		return c.PropertyID == 42 && c.Price == 1500 && c.Reason == domain.PriceChangeReasonInitial
	})).Return(nil)

	p := &domain.Property{Title: "Sunny Loft", Price: 1500, Kind: domain.ListingKindRent}
	err := svc.AddProperty(context.Background(), landlord(3), p)

	require.NoError(t, err)
	assert.Equal(t, int64(3), p.OwnerID)
	assert.Equal(t, domain.AvailabilityAvailable, p.Availability)
	assert.True(t, p.IsActive)
	assert.NotEmpty(t, p.Slug)
	propRepo.AssertExpectations(t)
}

func TestGetProperty_PublicViewShapesOwnerAndBumpsPopularity(t *testing.T) {
	svc, propRepo, userRepo := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, Slug: "sunny-loft-abc", OwnerID: 3, IsActive: true,
	}, nil)
	userRepo.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{
		ID: 3, Name: "Ann", Email: "ann@example.com", PasswordHash: "secret", Role: domain.RoleLandlord,
	}, nil)
	propRepo.On("IncrementPopularity", mock.Anything, int64(42)).Return(nil)

	p, err := svc.GetProperty(context.Background(), domain.Caller{}, "sunny-loft-abc")

	require.NoError(t, err)
	require.NotNil(t, p.Owner)
	assert.Equal(t, "Ann", p.Owner.Name)
	assert.Zero(t, p.Owner.ID, "public callers must not see the owner's id")
	assert.Empty(t, p.Owner.PasswordHash)
	propRepo.AssertExpectations(t)
}

func TestGetProperty_InactiveHiddenFromPublic(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "stale-listing", false).Return(&domain.Property{
		ID: 9, OwnerID: 3, IsActive: false,
	}, nil)

	_, err := svc.GetProperty(context.Background(), domain.Caller{}, "stale-listing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetProperty_OwnerViewDoesNotBumpPopularity(t *testing.T) {
	svc, propRepo, userRepo := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, OwnerID: 3, IsActive: true,
	}, nil)
	userRepo.On("GetByID", mock.Anything, int64(3)).Return(&domain.User{ID: 3, Name: "Ann"}, nil)

	p, err := svc.GetProperty(context.Background(), landlord(3), "sunny-loft-abc")

	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Owner.ID, "owners see their full record")
	propRepo.AssertNotCalled(t, "IncrementPopularity", mock.Anything, mock.Anything)
}

func TestUpdateProperty_NonOwnerForbidden(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, OwnerID: 3, IsActive: true,
	}, nil)

	price := 1600.0
	_, err := svc.UpdateProperty(context.Background(), landlord(8), "sunny-loft-abc", service.PropertyUpdate{Price: &price})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	propRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateProperty_PriceChangeAppendsHistory(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, OwnerID: 3, Price: 1500, IsActive: true,
	}, nil)
	propRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)
	propRepo.On("AppendPriceChange", mock.Anything, mock.MatchedBy(func(c *domain.PriceChange) bool {
		return c.PropertyID == 42 && c.Price == 1600 && c.Reason == domain.PriceChangeReasonUpdate
	})).Return(nil)

	price := 1600.0
	p, err := svc.UpdateProperty(context.Background(), landlord(3), "sunny-loft-abc", service.PropertyUpdate{Price: &price})

	require.NoError(t, err)
	assert.Equal(t, 1600.0, p.Price)
	propRepo.AssertExpectations(t)
}

func TestUpdateProperty_SamePriceSkipsHistory(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, OwnerID: 3, Price: 1500, IsActive: true,
	}, nil)
	propRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Property")).Return(nil)

	price := 1500.0
	_, err := svc.UpdateProperty(context.Background(), landlord(3), "sunny-loft-abc", service.PropertyUpdate{Price: &price})

	require.NoError(t, err)
	propRepo.AssertNotCalled(t, "AppendPriceChange", mock.Anything, mock.Anything)
}

func TestSearchProperties_UnknownSortRejected(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	_, _, err := svc.SearchProperties(context.Background(), domain.Caller{}, map[string]string{}, 1, 20, "priceDesc")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "sort")
	propRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearchProperties_PublicPageSizeClampedTo50(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repository.PropertySearch) bool {
		return q.PageSize == 50 && q.PublicOnly && q.PopularFirst && q.OwnerID == nil
	})).Return([]domain.Property{}, int64(0), nil)

	_, meta, err := svc.SearchProperties(context.Background(), domain.Caller{}, map[string]string{}, 1, 500, "")

	require.NoError(t, err)
	assert.Equal(t, int64(50), meta.PageSize)
	propRepo.AssertExpectations(t)
}

func TestSearchProperties_AdminPageSizeClampedTo100(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repository.PropertySearch) bool {
		return q.PageSize == 100 && !q.PublicOnly && q.OwnerID == nil
	})).Return([]domain.Property{}, int64(0), nil)

	_, _, err := svc.SearchProperties(context.Background(), admin(1), map[string]string{}, 1, 500, "")
	require.NoError(t, err)
	propRepo.AssertExpectations(t)
}

func TestSearchProperties_LandlordScopedToOwnListings(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repository.PropertySearch) bool {
		return q.OwnerID != nil && *q.OwnerID == 3 && !q.PublicOnly
	})).Return([]domain.Property{}, int64(0), nil)

	_, _, err := svc.SearchProperties(context.Background(), landlord(3), map[string]string{}, 1, 20, "")
	require.NoError(t, err)
	propRepo.AssertExpectations(t)
}

func TestSearchProperties_ExplicitSortDisablesPopularFirst(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repository.PropertySearch) bool {
		return q.Sort == "price" && !q.PopularFirst
	})).Return([]domain.Property{}, int64(0), nil)

	_, _, err := svc.SearchProperties(context.Background(), domain.Caller{}, map[string]string{}, 1, 20, "price")
	require.NoError(t, err)
	propRepo.AssertExpectations(t)
}

func TestSearchProperties_CompilesFeatureClauses(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repository.PropertySearch) bool {
		if len(q.Clauses) != 2 {
			return false
		}
		// Booleans compile ahead of range bounds.
		return q.Clauses[0].Field == "balcony" && q.Clauses[0].MatchAbsent == false &&
			q.Clauses[1].Field == "bedrooms" && q.Clauses[1].Value.Int == 2
	})).Return([]domain.Property{}, int64(0), nil)

	filters := map[string]string{"balcony": "true", "minBedrooms": "2", "page": "1"}
	_, _, err := svc.SearchProperties(context.Background(), domain.Caller{}, filters, 1, 20, "")
	require.NoError(t, err)
	propRepo.AssertExpectations(t)
}

func TestSearchProperties_InvertedRangeStillExecutes(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	// minBedrooms > maxBedrooms is contradictory but well-formed; both bounds
	// go to the store and the result set is simply empty.
	propRepo.On("Search", mock.Anything, mock.MatchedBy(func(q repository.PropertySearch) bool {
		return len(q.Clauses) == 2
	})).Return([]domain.Property{}, int64(0), nil)

	filters := map[string]string{"minBedrooms": "4", "maxBedrooms": "2"}
	_, meta, err := svc.SearchProperties(context.Background(), domain.Caller{}, filters, 1, 20, "")

	require.NoError(t, err)
	assert.Equal(t, int64(0), meta.TotalItems)
	propRepo.AssertExpectations(t)
}

func TestSearchProperties_MalformedBooleanRejected(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	filters := map[string]string{"balcony": "yes please", "garage": "maybe"}
	_, _, err := svc.SearchProperties(context.Background(), domain.Caller{}, filters, 1, 20, "")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "balcony")
	assert.Contains(t, verr.Fields, "garage")
	propRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestPriceHistory_NonOwnerForbidden(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, OwnerID: 3,
	}, nil)

	_, err := svc.PriceHistory(context.Background(), tenant(9), "sunny-loft-abc")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteProperty_OwnerSoftDeletes(t *testing.T) {
	svc, propRepo, _ := newPropertyService()

	propRepo.On("GetBySlug", mock.Anything, "sunny-loft-abc", false).Return(&domain.Property{
		ID: 42, OwnerID: 3,
	}, nil)
	propRepo.On("SoftDelete", mock.Anything, int64(42)).Return(nil)

	err := svc.DeleteProperty(context.Background(), landlord(3), "sunny-loft-abc")
	require.NoError(t, err)
	propRepo.AssertExpectations(t)
}
