package services

import (
	"context"
	"math"
	"testing"

	"agri_market/internal/geo"
	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	bangaloreLat, bangaloreLon = 12.9716, 77.5946
	mysoreLat, mysoreLon       = 12.2958, 76.6394
	chennaiLat, chennaiLon     = 13.0827, 80.2707
)

type countingCatalog struct {
	listings []models.Listing
	calls    int
}

func (c *countingCatalog) ListActive(_ context.Context, kind models.ListingKind, category string) ([]models.Listing, error) {
	c.calls++
	var out []models.Listing
	for _, l := range c.listings {
		if l.Kind == kind && (category == "" || l.Category == category) {
			out = append(out, l)
		}
	}
	return out, nil
}

func listing(id uint, lat, lon *float64) models.Listing {
	return models.Listing{ID: id, Kind: models.KindProduct, Category: "seeds", Price: decimal.NewFromInt(10), Latitude: lat, Longitude: lon}
}

func TestParseSearchQuery(t *testing.T) {
	tests := []struct {
		name        string
		lat, lon    string
		maxDistance string
		wantErr     bool
		wantRadius  float64
	}{
		{"defaults radius", "12.97", "77.59", "", false, 50},
		{"explicit radius", "12.97", "77.59", "10.5", false, 10.5},
		{"zero radius", "12.97", "77.59", "0", false, 0},
		{"missing latitude", "", "77.59", "", true, 0},
		{"missing longitude", "12.97", " ", "", true, 0},
		{"latitude not a number", "north", "77.59", "", true, 0},
		{"latitude NaN", "NaN", "77.59", "", true, 0},
		{"latitude out of range", "91", "77.59", "", true, 0},
		{"longitude out of range", "12.97", "-180.5", "", true, 0},
		{"negative radius", "12.97", "77.59", "-1", true, 0},
		{"radius not a number", "12.97", "77.59", "far", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseSearchQuery(models.KindProduct, tt.lat, tt.lon, tt.maxDistance, "", 50)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidQuery)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRadius, q.MaxDistanceKm)
		})
	}
}

func TestSearchQuery_ValidateKind(t *testing.T) {
	q := SearchQuery{Kind: "tractors", Latitude: 1, Longitude: 1, MaxDistanceKm: 5}
	assert.ErrorIs(t, q.Validate(), ErrInvalidQuery)
}

func TestRankByDistance(t *testing.T) {
	listings := []models.Listing{
		listing(4, ptr(chennaiLat), ptr(chennaiLon)),
		listing(3, ptr(mysoreLat), ptr(mysoreLon)),
		listing(2, ptr(bangaloreLat), ptr(bangaloreLon)),
		listing(1, ptr(bangaloreLat), ptr(bangaloreLon)),
		listing(5, nil, nil),
		listing(6, ptr(mysoreLat), nil),
	}

	results := rankByDistance(listings, bangaloreLat, bangaloreLon, 150)

	require.Len(t, results, 3)
	assert.Equal(t, uint(1), results[0].ID)
	assert.Equal(t, uint(2), results[1].ID)
	assert.Equal(t, uint(3), results[2].ID)
	assert.Equal(t, 0.0, results[0].DistanceKm)
	assert.InDelta(t, 128, results[2].DistanceKm, 5)
	assert.Equal(t, math.Round(results[2].DistanceKm*100)/100, results[2].DistanceKm)
}

func TestRankByDistance_CutoffIsInclusive(t *testing.T) {
	exact := geo.Haversine(bangaloreLon, bangaloreLat, mysoreLon, mysoreLat)
	listings := []models.Listing{listing(1, ptr(mysoreLat), ptr(mysoreLon))}

	assert.Len(t, rankByDistance(listings, bangaloreLat, bangaloreLon, exact), 1)
	assert.Empty(t, rankByDistance(listings, bangaloreLat, bangaloreLon, math.Nextafter(exact, 0)))
}

func TestRankByDistance_SortedAndComplete(t *testing.T) {
	var listings []models.Listing
	for i := 0; i < 40; i++ {
		lat := bangaloreLat + float64(i%7)*0.3
		lon := bangaloreLon - float64(i%5)*0.4
		listings = append(listings, listing(uint(i+1), ptr(lat), ptr(lon)))
	}

	results := rankByDistance(listings, bangaloreLat, bangaloreLon, 120)

	want := 0
	for _, l := range listings {
		if geo.Haversine(bangaloreLon, bangaloreLat, *l.Longitude, *l.Latitude) <= 120 {
			want++
		}
	}
	assert.Len(t, results, want)
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].DistanceKm, results[i].DistanceKm)
	}
}

func TestSearchService_SearchNearby(t *testing.T) {
	f := newFixture(t)
	_, near := f.supplier(ptr(bangaloreLat), ptr(bangaloreLon))
	_, mid := f.supplier(ptr(mysoreLat), ptr(mysoreLon))
	_, far := f.supplier(ptr(chennaiLat), ptr(chennaiLon))
	_, nowhere := f.supplier(nil, nil)

	seeds := f.product(mid.ID, "Paddy seeds", "seeds", 10, "450.00")
	urea := f.product(near.ID, "Urea", "fertilizer", 10, "300.00")
	f.product(far.ID, "Hybrid seeds", "seeds", 10, "500.00")
	f.product(nowhere.ID, "Unlocated seeds", "seeds", 10, "100.00")
	hidden := f.product(near.ID, "Old stock", "seeds", 10, "50.00")
	require.NoError(t, f.repos.Products.UpdateAvailability(f.ctx, hidden.ID, false))

	service := NewSearchService(f.repos.Catalog, nil, 0)

	results, err := service.SearchNearby(f.ctx, SearchQuery{
		Kind: models.KindProduct, Latitude: bangaloreLat, Longitude: bangaloreLon, MaxDistanceKm: 200,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, urea.ID, results[0].ID)
	assert.Equal(t, seeds.ID, results[1].ID)
	assert.Equal(t, mid.BusinessName, results[1].OwnerName)

	results, err = service.SearchNearby(f.ctx, SearchQuery{
		Kind: models.KindProduct, Latitude: bangaloreLat, Longitude: bangaloreLon, MaxDistanceKm: 200, Category: "seeds",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, seeds.ID, results[0].ID)
}

func TestSearchService_EquipmentAndProduce(t *testing.T) {
	f := newFixture(t)
	_, supplier := f.supplier(ptr(bangaloreLat), ptr(bangaloreLon))
	tractor := f.equipment(supplier.ID, "Mahindra 575", "1500.00")
	rented := f.equipment(supplier.ID, "Sonalika", "1200.00")
	require.NoError(t, f.repos.Equipment.UpdateStatus(f.ctx, rented.ID, models.EquipmentRented))

	_, farmer := f.farmer(ptr(mysoreLat), ptr(mysoreLon))
	tomatoes := &models.FarmProduce{
		FarmerID: farmer.ID, Name: "Tomatoes", Category: "vegetables",
		PricePerUnit: decimal.NewFromInt(20), Unit: "kg", AvailableQuantity: decimal.NewFromInt(200), IsAvailable: true,
	}
	require.NoError(t, f.repos.Produce.Create(f.ctx, tomatoes))

	service := NewSearchService(f.repos.Catalog, nil, 0)

	equipment, err := service.SearchNearby(f.ctx, SearchQuery{
		Kind: models.KindEquipment, Latitude: bangaloreLat, Longitude: bangaloreLon, MaxDistanceKm: 10, Category: "tractor",
	})
	require.NoError(t, err)
	require.Len(t, equipment, 1)
	assert.Equal(t, tractor.ID, equipment[0].ID)

	produce, err := service.SearchNearby(f.ctx, SearchQuery{
		Kind: models.KindProduce, Latitude: bangaloreLat, Longitude: bangaloreLon, MaxDistanceKm: 150,
	})
	require.NoError(t, err)
	require.Len(t, produce, 1)
	assert.Equal(t, tomatoes.ID, produce[0].ID)
	assert.Equal(t, farmer.FarmName, produce[0].OwnerName)
}

func TestSearchService_Cache(t *testing.T) {
	catalog := &countingCatalog{listings: []models.Listing{
		listing(1, ptr(bangaloreLat), ptr(bangaloreLon)),
		listing(2, ptr(mysoreLat), ptr(mysoreLon)),
	}}
	memory := newMemoryCache()
	service := NewSearchService(catalog, memory, 0)
	query := SearchQuery{Kind: models.KindProduct, Latitude: bangaloreLat, Longitude: bangaloreLon, MaxDistanceKm: 200}
	ctx := context.Background()

	first, err := service.SearchNearby(ctx, query)
	require.NoError(t, err)
	second, err := service.SearchNearby(ctx, query)
	require.NoError(t, err)

	assert.Equal(t, 1, catalog.calls)
	require.Len(t, second, 2)
	assert.Equal(t, first[1].ID, second[1].ID)
	assert.Equal(t, first[1].DistanceKm, second[1].DistanceKm)

	require.NoError(t, memory.Invalidate(ctx))
	_, err = service.SearchNearby(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.calls)
}

func TestSearchService_RejectsBeforeQuerying(t *testing.T) {
	catalog := &countingCatalog{}
	service := NewSearchService(catalog, nil, 0)

	_, err := service.SearchNearby(context.Background(), SearchQuery{Kind: models.KindProduct, Latitude: 100, Longitude: 0})
	assert.ErrorIs(t, err, ErrInvalidQuery)
	assert.Zero(t, catalog.calls)
}
