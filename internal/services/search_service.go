package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"agri_market/internal/geo"
	"agri_market/internal/models"
	cache "agri_market/internal/redis"
	"agri_market/internal/repository"
)

// SearchCache stores search results under generation-scoped keys.
// *redis.Client implements it.
type SearchCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Generation(ctx context.Context) (int64, error)
	Invalidate(ctx context.Context) error
}

type SearchQuery struct {
	Kind          models.ListingKind
	Latitude      float64
	Longitude     float64
	MaxDistanceKm float64
	Category      string
}

type SearchResult struct {
	models.Listing
	DistanceKm float64 `json:"distance_km"`
}

type SearchService interface {
	SearchNearby(ctx context.Context, query SearchQuery) ([]SearchResult, error)
}

// ParseSearchQuery builds a query from raw request parameters. An empty
// maxDistance falls back to defaultRadiusKm.
func ParseSearchQuery(kind models.ListingKind, latitude, longitude, maxDistance, category string, defaultRadiusKm float64) (SearchQuery, error) {
	query := SearchQuery{Kind: kind, MaxDistanceKm: defaultRadiusKm, Category: strings.TrimSpace(category)}

	if strings.TrimSpace(latitude) == "" || strings.TrimSpace(longitude) == "" {
		return query, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidQuery)
	}

	var err error
	if query.Latitude, err = strconv.ParseFloat(strings.TrimSpace(latitude), 64); err != nil {
		return query, fmt.Errorf("%w: latitude %q is not a number", ErrInvalidQuery, latitude)
	}
	if query.Longitude, err = strconv.ParseFloat(strings.TrimSpace(longitude), 64); err != nil {
		return query, fmt.Errorf("%w: longitude %q is not a number", ErrInvalidQuery, longitude)
	}
	if strings.TrimSpace(maxDistance) != "" {
		if query.MaxDistanceKm, err = strconv.ParseFloat(strings.TrimSpace(maxDistance), 64); err != nil {
			return query, fmt.Errorf("%w: max_distance %q is not a number", ErrInvalidQuery, maxDistance)
		}
	}

	return query, query.Validate()
}

func (q SearchQuery) Validate() error {
	if !q.Kind.IsValid() {
		return fmt.Errorf("%w: unknown listing kind %q", ErrInvalidQuery, q.Kind)
	}
	if !geo.ValidCoordinates(q.Latitude, q.Longitude) {
		return fmt.Errorf("%w: coordinates (%v, %v) out of range", ErrInvalidQuery, q.Latitude, q.Longitude)
	}
	if math.IsNaN(q.MaxDistanceKm) || math.IsInf(q.MaxDistanceKm, 0) || q.MaxDistanceKm < 0 {
		return fmt.Errorf("%w: max_distance must be a non-negative number", ErrInvalidQuery)
	}
	return nil
}

type searchService struct {
	catalog  repository.CatalogRepository
	cache    SearchCache
	cacheTTL time.Duration
}

// NewSearchService creates the proximity search. cache may be nil.
func NewSearchService(catalog repository.CatalogRepository, cache SearchCache, cacheTTL time.Duration) SearchService {
	return &searchService{catalog: catalog, cache: cache, cacheTTL: cacheTTL}
}

func (s *searchService) SearchNearby(ctx context.Context, query SearchQuery) ([]SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	key, cached := s.lookup(ctx, query)
	if cached != nil {
		return cached, nil
	}

	listings, err := s.catalog.ListActive(ctx, query.Kind, query.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s catalog: %w", query.Kind, err)
	}

	results := rankByDistance(listings, query.Latitude, query.Longitude, query.MaxDistanceKm)

	if key != "" {
		if err := s.cache.Set(ctx, key, results, s.cacheTTL); err != nil {
			log.Printf("Warning: failed to cache search results: %v", err)
		}
	}
	return results, nil
}

// lookup returns the cache key for the query and any cached results.
func (s *searchService) lookup(ctx context.Context, query SearchQuery) (string, []SearchResult) {
	if s.cache == nil {
		return "", nil
	}

	generation, err := s.cache.Generation(ctx)
	if err != nil {
		log.Printf("Warning: search cache unavailable: %v", err)
		return "", nil
	}

	key := cache.SearchKey(generation, query.Kind, query.Latitude, query.Longitude, query.MaxDistanceKm, query.Category)
	var results []SearchResult
	if err := s.cache.Get(ctx, key, &results); err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("Warning: failed to read search cache: %v", err)
		}
		return key, nil
	}
	if results == nil {
		results = []SearchResult{}
	}
	return key, results
}

// rankByDistance keeps listings within maxDistanceKm (inclusive) of the
// origin, nearest first with ties broken by id. Listings whose owner has no
// location are skipped. Distances are rounded only after ranking.
func rankByDistance(listings []models.Listing, originLat, originLon, maxDistanceKm float64) []SearchResult {
	type candidate struct {
		listing  models.Listing
		distance float64
	}

	candidates := make([]candidate, 0, len(listings))
	for _, l := range listings {
		if l.Latitude == nil || l.Longitude == nil {
			continue
		}
		d := geo.Haversine(originLon, originLat, *l.Longitude, *l.Latitude)
		if d <= maxDistanceKm {
			candidates = append(candidates, candidate{listing: l, distance: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].listing.ID < candidates[j].listing.ID
	})

	results := make([]SearchResult, len(candidates))
	for i, c := range candidates {
		results[i] = SearchResult{Listing: c.listing, DistanceKm: math.Round(c.distance*100) / 100}
	}
	return results
}
